package collision

import (
	"math"

	"github.com/san-kum/erosion/internal/dynamo"
	"github.com/san-kum/erosion/internal/terrain"
)

// SnapEpsilon keeps a reflected body just outside the boundary it crossed so
// the same cell does not trigger again on the next sub-step.
const SnapEpsilon = 1e-4

// Axis names the velocity component a bounce reflected.
type Axis uint8

const (
	AxisNone Axis = iota
	AxisX
	AxisY
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	}
	return "none"
}

// TerrainContact summarizes what one body did to the grid in one sub-step.
type TerrainContact struct {
	Eroded  int
	Bounced bool
	Axis    Axis
	Corner  bool
	Row     int
	Col     int
}

// ResolveTerrain erodes painted cells the body overlaps and reflects it off
// the first overlapping solid cell, scanning the candidate cells in
// row-major order. prevX, prevY is the position before this sub-step's
// integration.
func ResolveTerrain(g *terrain.Grid, b *dynamo.Body, prevX, prevY float64) TerrainContact {
	var contact TerrainContact

	for row, col := range g.CellsIntersecting(b.X, b.Y, b.R).Cells() {
		state := g.At(row, col)
		if state == terrain.Empty {
			continue
		}
		cell := g.CellRect(row, col)
		if !cell.IntersectsCircle(b.X, b.Y, b.R) {
			continue
		}
		if state == terrain.Painted {
			if g.Erode(row, col) {
				contact.Eroded++
			}
			continue
		}

		contact.Bounced = true
		contact.Row, contact.Col = row, col
		contact.Axis, contact.Corner = bounce(b, cell, prevX, prevY)
		break
	}

	return contact
}

// bounce reflects b off cell and reports the axis and whether the corner
// tie-break decided it.
func bounce(b *dynamo.Body, cell terrain.Rect, prevX, prevY float64) (Axis, bool) {
	left := cell.X - b.R
	right := cell.X + cell.W + b.R
	top := cell.Y - b.R
	bottom := cell.Y + cell.H + b.R

	crossedLeft := prevX < left && b.X >= left
	crossedRight := prevX > right && b.X <= right
	crossedTop := prevY < top && b.Y >= top
	crossedBottom := prevY > bottom && b.Y <= bottom

	horizontal := crossedLeft || crossedRight
	vertical := crossedTop || crossedBottom

	switch {
	case horizontal && !vertical:
		b.VX = -b.VX
		if crossedLeft {
			b.X = left - SnapEpsilon
		} else {
			b.X = right + SnapEpsilon
		}
		return AxisX, false
	case vertical && !horizontal:
		b.VY = -b.VY
		if crossedTop {
			b.Y = top - SnapEpsilon
		} else {
			b.Y = bottom + SnapEpsilon
		}
		return AxisY, false
	}

	penX := math.Min(math.Abs(b.X-left), math.Abs(right-b.X))
	penY := math.Min(math.Abs(b.Y-top), math.Abs(bottom-b.Y))
	if penX < penY {
		b.VX = -b.VX
		if b.X < cell.X+cell.W/2 {
			b.X = left - SnapEpsilon
		} else {
			b.X = right + SnapEpsilon
		}
		return AxisX, true
	}
	b.VY = -b.VY
	if b.Y < cell.Y+cell.H/2 {
		b.Y = top - SnapEpsilon
	} else {
		b.Y = bottom + SnapEpsilon
	}
	return AxisY, true
}

// ClampToCanvas keeps the bounding circle inside [0,w]x[0,h], pointing the
// velocity back into the canvas on any edge it touched. It reports whether
// a clamp happened.
func ClampToCanvas(b *dynamo.Body, w, h float64) bool {
	clamped := false
	if b.X-b.R < 0 {
		b.X = b.R
		b.VX = math.Abs(b.VX)
		clamped = true
	} else if b.X+b.R > w {
		b.X = w - b.R
		b.VX = -math.Abs(b.VX)
		clamped = true
	}
	if b.Y-b.R < 0 {
		b.Y = b.R
		b.VY = math.Abs(b.VY)
		clamped = true
	} else if b.Y+b.R > h {
		b.Y = h - b.R
		b.VY = -math.Abs(b.VY)
		clamped = true
	}
	return clamped
}
