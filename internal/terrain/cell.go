package terrain

// CellState is the closed set of states a terrain cell can be in.
type CellState uint8

const (
	Painted CellState = iota
	Empty
	Solid
)

func (s CellState) String() string {
	switch s {
	case Painted:
		return "painted"
	case Empty:
		return "empty"
	case Solid:
		return "solid"
	}
	return "unknown"
}

// Rect is an axis-aligned rectangle in canvas units.
type Rect struct {
	X, Y, W, H float64
}

// IntersectsCircle uses the closest-point test; touching counts as overlap.
func (r Rect) IntersectsCircle(cx, cy, radius float64) bool {
	nx := clamp(cx, r.X, r.X+r.W)
	ny := clamp(cy, r.Y, r.Y+r.H)
	dx, dy := cx-nx, cy-ny
	return dx*dx+dy*dy <= radius*radius
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
