package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(46)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	graphStyle  = lipgloss.NewStyle().Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

// themeStyles derives the panel styles from a theme.
type themeStyles struct {
	header  lipgloss.Style
	value   lipgloss.Style
	running lipgloss.Style
	paused  lipgloss.Style
	cleared lipgloss.Style
	graph   lipgloss.Style
}

func stylesFor(t Theme) themeStyles {
	return themeStyles{
		header:  lipgloss.NewStyle().Foreground(t.Primary).Bold(true).MarginBottom(1),
		value:   lipgloss.NewStyle().Foreground(t.Text),
		running: lipgloss.NewStyle().Foreground(t.Success).Bold(true),
		paused:  lipgloss.NewStyle().Foreground(t.Warning).Bold(true),
		cleared: lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		graph:   graphStyle.Foreground(t.Secondary),
	}
}

// ProgressBar renders a bar filled to percent of width.
func ProgressBar(percent float64, width int, t Theme) string {
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := lipgloss.NewStyle().Foreground(t.Primary).Render(strings.Repeat("█", filled))
	rest := lipgloss.NewStyle().Foreground(t.Muted).Render(strings.Repeat("░", width-filled))
	return bar + rest
}

// SparklineChart renders a mini sparkline from values
func SparklineChart(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(0, width))
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	// Keep the most recent values that fit.
	if len(values) > width {
		values = values[len(values)-width:]
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	var result strings.Builder
	for _, v := range values {
		idx := int((v - lo) / rng * float64(len(chars)-1))
		if idx >= len(chars) {
			idx = len(chars) - 1
		}
		if idx < 0 {
			idx = 0
		}
		result.WriteRune(chars[idx])
	}

	return result.String()
}

func hexColor(r, g, b int) string {
	return "#" + hexByte(r) + hexByte(g) + hexByte(b)
}

func hexByte(v int) string {
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	const hex = "0123456789abcdef"
	return string(hex[v/16]) + string(hex[v%16])
}
