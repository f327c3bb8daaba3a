package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Shade selects a palette entry for one sub-pixel.
type Shade uint8

const (
	ShadeEmpty Shade = iota
	ShadePainted
	ShadeSolid
	ShadeBody
	ShadeTrail
	numShades
)

// halfBlock shows the top sub-pixel as foreground and the bottom one as
// background, so each terminal cell carries two rows.
const halfBlock = "▀"

// Canvas is a grid of sub-pixels rendered two rows per terminal line.
type Canvas struct {
	Width, Height int
	Pixels        [][]Shade
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Pixels: make([][]Shade, h),
	}
	for i := range c.Pixels {
		c.Pixels[i] = make([]Shade, w)
	}
	return c
}

// Lines is the number of terminal rows String and Render produce.
func (c *Canvas) Lines() int { return (c.Height + 1) / 2 }

func (c *Canvas) Set(x, y int, s Shade) {
	if x < 0 || y < 0 || x >= c.Width || y >= c.Height {
		return
	}
	c.Pixels[y][x] = s
}

func (c *Canvas) At(x, y int) Shade {
	if x < 0 || y < 0 || x >= c.Width || y >= c.Height {
		return ShadeEmpty
	}
	return c.Pixels[y][x]
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Pixels {
		for j := range c.Pixels[i] {
			c.Pixels[i][j] = ShadeEmpty
		}
	}
}

// FillDisc sets every sub-pixel whose center lies within r of (cx, cy), and
// always the sub-pixel containing the center.
func (c *Canvas) FillDisc(cx, cy, r float64, s Shade) {
	c.Set(int(math.Floor(cx)), int(math.Floor(cy)), s)
	if !(r > 0) {
		return
	}
	minX, maxX := int(math.Floor(cx-r)), int(math.Ceil(cx+r))
	minY, maxY := int(math.Floor(cy-r)), int(math.Ceil(cy+r))
	for y := max(0, minY); y <= min(c.Height-1, maxY); y++ {
		for x := max(0, minX); x <= min(c.Width-1, maxX); x++ {
			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			if dx*dx+dy*dy <= r*r {
				c.Pixels[y][x] = s
			}
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, s Shade) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0, s)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// Render colours the canvas with p. Runs of identical pixel pairs share one
// styled span.
func (c *Canvas) Render(p Palette) string {
	styles := make(map[[2]Shade]lipgloss.Style)
	style := func(top, bottom Shade) lipgloss.Style {
		key := [2]Shade{top, bottom}
		st, ok := styles[key]
		if !ok {
			st = lipgloss.NewStyle().Foreground(p.Color(top)).Background(p.Color(bottom))
			styles[key] = st
		}
		return st
	}

	var b strings.Builder
	for line := 0; line < c.Lines(); line++ {
		x := 0
		for x < c.Width {
			top, bottom := c.At(x, 2*line), c.At(x, 2*line+1)
			run := 1
			for x+run < c.Width && c.At(x+run, 2*line) == top && c.At(x+run, 2*line+1) == bottom {
				run++
			}
			b.WriteString(style(top, bottom).Render(strings.Repeat(halfBlock, run)))
			x += run
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// String renders without colour: one glyph per shade pair, for logs and tests.
func (c *Canvas) String() string {
	var b strings.Builder
	for line := 0; line < c.Lines(); line++ {
		for x := 0; x < c.Width; x++ {
			b.WriteRune(glyph(c.At(x, 2*line), c.At(x, 2*line+1)))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

var shadeGlyphs = [numShades]rune{' ', '░', '█', 'o', '.'}

func glyph(top, bottom Shade) rune {
	// Bodies win over terrain, terrain over empty space.
	switch {
	case top == ShadeBody || bottom == ShadeBody:
		return shadeGlyphs[ShadeBody]
	case top == ShadeTrail || bottom == ShadeTrail:
		return shadeGlyphs[ShadeTrail]
	case top == ShadeSolid || bottom == ShadeSolid:
		return shadeGlyphs[ShadeSolid]
	case top == ShadePainted || bottom == ShadePainted:
		return shadeGlyphs[ShadePainted]
	}
	return shadeGlyphs[ShadeEmpty]
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
