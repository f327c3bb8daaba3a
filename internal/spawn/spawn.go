// Package spawn places new bodies on non-solid cells of a terrain grid.
package spawn

import (
	"math"
	"math/rand/v2"

	"github.com/san-kum/erosion/internal/dynamo"
	"github.com/san-kum/erosion/internal/terrain"
)

// MaxAttempts bounds the random cell search before falling back to the
// canvas center.
const MaxAttempts = 1000

// Range is a closed interval sampled uniformly.
type Range struct {
	Min, Max float64
}

func (r Range) sample(rng *rand.Rand) float64 {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// Params holds the absolute speed and radius ranges for new bodies.
type Params struct {
	Speed  Range
	Radius Range
}

// NewRNG returns a deterministic PCG generator for the given seed.
func NewRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), 0))
}

// Spawn always returns a body. It tries up to MaxAttempts random cells and
// places the body at the center of the first non-solid one; otherwise the
// body starts at the canvas center. A zero-area canvas yields a resting body
// of minimum radius at the origin.
func Spawn(g *terrain.Grid, rng *rand.Rand, p Params) dynamo.Body {
	width, height := g.CanvasSize()
	if width <= 0 || height <= 0 {
		return dynamo.Body{R: p.Radius.Min}
	}

	for attempt := 0; attempt < MaxAttempts; attempt++ {
		row := rng.IntN(g.Rows)
		col := rng.IntN(g.Cols)
		if g.At(row, col) == terrain.Solid {
			continue
		}
		cell := g.CellRect(row, col)
		return launch(cell.X+cell.W/2, cell.Y+cell.H/2, rng, p)
	}

	return launch(width/2, height/2, rng, p)
}

func launch(x, y float64, rng *rand.Rand, p Params) dynamo.Body {
	angle := rng.Float64() * 2 * math.Pi
	speed := p.Speed.sample(rng)
	sin, cos := math.Sincos(angle)
	return dynamo.Body{
		X:  x,
		Y:  y,
		VX: cos * speed,
		VY: sin * speed,
		R:  p.Radius.sample(rng),
	}
}
