package collision

import (
	"math"

	"github.com/san-kum/erosion/internal/dynamo"
)

// MinSeparation floors the center distance used to build the contact normal.
const MinSeparation = 1e-6

// PairContact describes the outcome of resolving one pair.
type PairContact struct {
	Overlapped  bool
	Exchanged   bool
	Penetration float64
}

// ResolvePair separates two overlapping bodies symmetrically and, if they
// are still approaching, swaps their normal velocity components. Equal mass
// is assumed regardless of radius.
func ResolvePair(a, b *dynamo.Body) PairContact {
	dx := b.X - a.X
	dy := b.Y - a.Y
	rSum := a.R + b.R
	dist2 := dx*dx + dy*dy
	if dist2 >= rSum*rSum {
		return PairContact{}
	}

	dist := math.Max(MinSeparation, math.Sqrt(dist2))
	nx, ny := dx/dist, dy/dist
	if dist2 == 0 {
		// Coincident centers have no direction; push apart along x.
		nx, ny = 1, 0
	}

	penetration := rSum - dist
	half := penetration / 2
	a.X -= nx * half
	a.Y -= ny * half
	b.X += nx * half
	b.Y += ny * half

	contact := PairContact{Overlapped: true, Penetration: penetration}

	relN := (b.VX-a.VX)*nx + (b.VY-a.VY)*ny
	if relN >= 0 {
		return contact
	}

	tx, ty := -ny, nx
	aN := a.VX*nx + a.VY*ny
	bN := b.VX*nx + b.VY*ny
	aT := a.VX*tx + a.VY*ty
	bT := b.VX*tx + b.VY*ty

	a.VX = bN*nx + aT*tx
	a.VY = bN*ny + aT*ty
	b.VX = aN*nx + bT*tx
	b.VY = aN*ny + bT*ty

	contact.Exchanged = true
	return contact
}

// ResolvePairs runs one pass over every unordered pair in index order and
// returns the number of overlapping pairs.
func ResolvePairs(bodies []dynamo.Body) int {
	n := 0
	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			if ResolvePair(&bodies[i], &bodies[j]).Overlapped {
				n++
			}
		}
	}
	return n
}
