package viz

import (
	"math/rand/v2"

	"github.com/charmbracelet/lipgloss"
)

// Palette colours the arena. Index it with a Shade through Color.
type Palette struct {
	Empty   lipgloss.Color
	Painted lipgloss.Color
	Solid   lipgloss.Color
	Body    lipgloss.Color
	Trail   lipgloss.Color
}

func (p Palette) Color(s Shade) lipgloss.Color {
	switch s {
	case ShadePainted:
		return p.Painted
	case ShadeSolid:
		return p.Solid
	case ShadeBody:
		return p.Body
	case ShadeTrail:
		return p.Trail
	}
	return p.Empty
}

// RandomPalette picks fresh arena colours, keeping the empty background dark
// and bodies bright so both stay readable.
func RandomPalette(rng *rand.Rand) Palette {
	channel := func(lo, hi int) int { return lo + rng.IntN(hi-lo+1) }
	random := func(lo, hi int) lipgloss.Color {
		return lipgloss.Color(hexColor(channel(lo, hi), channel(lo, hi), channel(lo, hi)))
	}
	return Palette{
		Empty:   random(0, 40),
		Painted: random(60, 230),
		Solid:   random(90, 255),
		Body:    random(200, 255),
		Trail:   random(120, 200),
	}
}

// Theme defines color scheme for the TUI
type Theme struct {
	Name      string
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Arena     Palette
}

// Available themes
var (
	ThemeGenuary = Theme{
		Name:      "genuary",
		Primary:   lipgloss.Color("#ff6b6b"),
		Secondary: lipgloss.Color("#feca57"),
		Accent:    lipgloss.Color("#48dbfb"),
		Text:      lipgloss.Color("#fff5f5"),
		Muted:     lipgloss.Color("#8b6b8c"),
		Success:   lipgloss.Color("#5fd068"),
		Warning:   lipgloss.Color("#ffc048"),
		Arena: Palette{
			Empty:   lipgloss.Color("#1b1b2f"),
			Painted: lipgloss.Color("#e43f5a"),
			Solid:   lipgloss.Color("#f5f5f5"),
			Body:    lipgloss.Color("#ffd460"),
			Trail:   lipgloss.Color("#53354a"),
		},
	}

	ThemeRetroGreen = Theme{
		Name:      "retro",
		Primary:   lipgloss.Color("#00ff00"), // Green phosphor
		Secondary: lipgloss.Color("#00cc00"),
		Accent:    lipgloss.Color("#88ff88"),
		Text:      lipgloss.Color("#00ff00"),
		Muted:     lipgloss.Color("#005500"),
		Success:   lipgloss.Color("#88ff88"),
		Warning:   lipgloss.Color("#ffff00"),
		Arena: Palette{
			Empty:   lipgloss.Color("#001100"),
			Painted: lipgloss.Color("#005500"),
			Solid:   lipgloss.Color("#00ff00"),
			Body:    lipgloss.Color("#ccffcc"),
			Trail:   lipgloss.Color("#008800"),
		},
	}

	ThemeOcean = Theme{
		Name:      "ocean",
		Primary:   lipgloss.Color("#0077be"), // Ocean blue
		Secondary: lipgloss.Color("#00a8cc"),
		Accent:    lipgloss.Color("#ffd700"),
		Text:      lipgloss.Color("#e0f0ff"),
		Muted:     lipgloss.Color("#4488aa"),
		Success:   lipgloss.Color("#00ff88"),
		Warning:   lipgloss.Color("#ffcc00"),
		Arena: Palette{
			Empty:   lipgloss.Color("#001a33"),
			Painted: lipgloss.Color("#0077be"),
			Solid:   lipgloss.Color("#e0f0ff"),
			Body:    lipgloss.Color("#ffd700"),
			Trail:   lipgloss.Color("#00a8cc"),
		},
	}

	ThemeMinimal = Theme{
		Name:      "minimal",
		Primary:   lipgloss.Color("#ffffff"),
		Secondary: lipgloss.Color("#cccccc"),
		Accent:    lipgloss.Color("#0088ff"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#888888"),
		Success:   lipgloss.Color("#00ff00"),
		Warning:   lipgloss.Color("#ffaa00"),
		Arena: Palette{
			Empty:   lipgloss.Color("#000000"),
			Painted: lipgloss.Color("#444444"),
			Solid:   lipgloss.Color("#ffffff"),
			Body:    lipgloss.Color("#0088ff"),
			Trail:   lipgloss.Color("#222266"),
		},
	}

	// All available themes
	Themes = []Theme{
		ThemeGenuary,
		ThemeRetroGreen,
		ThemeOcean,
		ThemeMinimal,
	}
)

// GetTheme returns a theme by name, falling back to the first theme.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

// NextTheme returns the theme after name, wrapping around.
func NextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
