// Package export renders arenas and run series as standalone SVG documents.
package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/erosion/internal/dynamo"
	"github.com/san-kum/erosion/internal/terrain"
)

// Colors are CSS colour strings used by ArenaToSVG.
type Colors struct {
	Background string
	Painted    string
	Solid      string
	Body       string
}

var DefaultColors = Colors{
	Background: "#0a0a0a",
	Painted:    "#e43f5a",
	Solid:      "#f5f5f5",
	Body:       "#ffd460",
}

// ArenaToSVG draws every non-empty cell as a rect and every body as a circle,
// in canvas units.
func ArenaToSVG(g *terrain.Grid, bodies []dynamo.Body, colors Colors) string {
	if g == nil {
		return ""
	}
	width, height := g.CanvasSize()

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %g %g">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, colors.Background)

	writeCells := func(state terrain.CellState, fill string) {
		fmt.Fprintf(&sb, "<g fill=\"%s\">\n", fill)
		g.Each(func(row, col int, s terrain.CellState) {
			if s != state {
				return
			}
			r := g.CellRect(row, col)
			fmt.Fprintf(&sb, "<rect x=\"%.2f\" y=\"%.2f\" width=\"%.2f\" height=\"%.2f\"/>\n", r.X, r.Y, r.W, r.H)
		})
		sb.WriteString("</g>\n")
	}
	writeCells(terrain.Painted, colors.Painted)
	writeCells(terrain.Solid, colors.Solid)

	fmt.Fprintf(&sb, "<g fill=\"%s\">\n", colors.Body)
	for _, b := range bodies {
		fmt.Fprintf(&sb, "<circle cx=\"%.2f\" cy=\"%.2f\" r=\"%.2f\"/>\n", b.X, b.Y, b.R)
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// SeriesToSVG plots values against their index as a single path, y up.
// Fewer than two values produce an empty string.
func SeriesToSVG(values []float64, width, height int, strokeColor string) string {
	if len(values) < 2 {
		return ""
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}

	span := hi - lo
	if span == 0 {
		span = 1
	}
	lo -= span * 0.1
	hi += span * 0.1
	span = hi - lo
	last := float64(len(values) - 1)

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor)

	for i, v := range values {
		x := float64(i) / last * float64(width)
		y := float64(height) - (v-lo)/span*float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
