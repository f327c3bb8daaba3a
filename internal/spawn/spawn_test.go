package spawn

import (
	"math"
	"testing"

	"github.com/san-kum/erosion/internal/terrain"
)

func testParams() Params {
	return Params{
		Speed:  Range{Min: 250, Max: 1000},
		Radius: Range{Min: 3, Max: 12},
	}
}

func TestSpawnOnNonSolidCell(t *testing.T) {
	g := terrain.New(80, 80, 800, 800, terrain.Banner)
	rng := NewRNG(42)
	p := testParams()

	for i := 0; i < 500; i++ {
		b := Spawn(g, rng, p)
		row, col := g.CellAt(b.X, b.Y)
		if g.At(row, col) == terrain.Solid {
			t.Fatalf("spawn %d landed on solid cell (%d,%d)", i, row, col)
		}

		cell := g.CellRect(row, col)
		if b.X != cell.X+cell.W/2 || b.Y != cell.Y+cell.H/2 {
			t.Fatalf("spawn %d not at cell center: (%f,%f)", i, b.X, b.Y)
		}

		speed := b.Speed()
		if speed < p.Speed.Min-1e-9 || speed > p.Speed.Max+1e-9 {
			t.Fatalf("speed %f outside range", speed)
		}
		if b.R < p.Radius.Min || b.R > p.Radius.Max {
			t.Fatalf("radius %f outside range", b.R)
		}
	}
}

func TestSpawnSingleFreeCell(t *testing.T) {
	// 3x3 grid: only the middle cell is not border.
	g := terrain.New(3, 3, 30, 30, nil)
	b := Spawn(g, NewRNG(7), testParams())

	if b.X != 15 || b.Y != 15 {
		t.Errorf("expected center of the only free cell, got (%f,%f)", b.X, b.Y)
	}
}

func TestSpawnFallbackOnSolidGrid(t *testing.T) {
	// Every cell of a 2x2 grid is border.
	g := terrain.New(2, 2, 100, 60, nil)
	b := Spawn(g, NewRNG(1), testParams())

	if b.X != 50 || b.Y != 30 {
		t.Errorf("expected canvas center (50,30), got (%f,%f)", b.X, b.Y)
	}
	if b.Speed() < 250-1e-9 {
		t.Errorf("fallback body should still move, speed %f", b.Speed())
	}
	if !b.IsValid() {
		t.Error("fallback body invalid")
	}
}

func TestSpawnZeroCanvas(t *testing.T) {
	g := terrain.New(80, 80, 0, 0, terrain.Banner)
	p := testParams()
	b := Spawn(g, NewRNG(1), p)

	if b.VX != 0 || b.VY != 0 {
		t.Errorf("expected zero velocity, got (%f,%f)", b.VX, b.VY)
	}
	if b.R != p.Radius.Min {
		t.Errorf("expected min radius %f, got %f", p.Radius.Min, b.R)
	}
}

func TestSpawnDeterministicSeed(t *testing.T) {
	g := terrain.New(40, 40, 400, 400, nil)
	a := Spawn(g, NewRNG(99), testParams())
	b := Spawn(g, NewRNG(99), testParams())

	if a != b {
		t.Errorf("same seed produced %+v and %+v", a, b)
	}
}

func TestRangeDegenerate(t *testing.T) {
	r := Range{Min: 5, Max: 5}
	if got := r.sample(NewRNG(3)); got != 5 {
		t.Errorf("expected 5, got %f", got)
	}
	r = Range{Min: 5, Max: 1}
	if got := r.sample(NewRNG(3)); got != 5 {
		t.Errorf("expected min for inverted range, got %f", got)
	}
}

func TestSpawnDirectionCoversCircle(t *testing.T) {
	g := terrain.New(20, 20, 200, 200, nil)
	rng := NewRNG(5)
	var quadrants [4]int
	for i := 0; i < 400; i++ {
		b := Spawn(g, rng, testParams())
		angle := math.Atan2(b.VY, b.VX)
		if angle < 0 {
			angle += 2 * math.Pi
		}
		quadrants[int(angle/(math.Pi/2))%4]++
	}
	for q, n := range quadrants {
		if n == 0 {
			t.Errorf("no spawns heading into quadrant %d", q)
		}
	}
}
