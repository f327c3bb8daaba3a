package sim

import (
	"log/slog"
	"math"
	"math/rand/v2"

	"github.com/san-kum/erosion/internal/collision"
	"github.com/san-kum/erosion/internal/dynamo"
	"github.com/san-kum/erosion/internal/spawn"
	"github.com/san-kum/erosion/internal/terrain"
)

const (
	DefaultCols          = 80
	DefaultRows          = 80
	DefaultInitialBodies = 15
	DefaultMinSpeed      = 250.0
	DefaultMaxSpeed      = 1000.0
	DefaultMinRadius     = 0.3 // cell widths
	DefaultMaxRadius     = 1.2 // cell widths
	DefaultMaxFrame      = 0.25

	// minBodyRadius keeps bodies spawned on a zero-area canvas valid.
	minBodyRadius = 1e-3
)

// Options fixes everything about an arena except the canvas size, which
// arrives with Restart or Resize.
type Options struct {
	Cols, Rows    int
	InitialBodies int
	Speed         spawn.Range
	// RadiusCells is measured in cell widths and scaled on every spawn.
	RadiusCells spawn.Range
	Pattern     terrain.Pattern
	Seed        int64
	// MaxFrame clamps a single Advance; 0 disables the clamp.
	MaxFrame float64
}

func DefaultOptions() Options {
	return Options{
		Cols:          DefaultCols,
		Rows:          DefaultRows,
		InitialBodies: DefaultInitialBodies,
		Speed:         spawn.Range{Min: DefaultMinSpeed, Max: DefaultMaxSpeed},
		RadiusCells:   spawn.Range{Min: DefaultMinRadius, Max: DefaultMaxRadius},
		Pattern:       terrain.Banner,
		Seed:          1,
		MaxFrame:      DefaultMaxFrame,
	}
}

// StepReport summarizes one Advance call.
type StepReport struct {
	Substeps int
	Dt       float64
	Eroded   int
	Bounces  int
	Corners  int
	Contacts int
	Clamps   int
}

// Simulation owns the grid and the bodies. Renderers may read them between
// Advance calls but must not modify them.
type Simulation struct {
	opts   Options
	rng    *rand.Rand
	logger *slog.Logger

	grid          *terrain.Grid
	bodies        []dynamo.Body
	width, height float64
	paused        bool
}

// New builds a simulation over a zero-area canvas. Nothing moves until
// Restart or Resize gives it a size. A nil logger means slog.Default().
func New(opts Options, logger *slog.Logger) *Simulation {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Simulation{
		opts:   opts,
		rng:    spawn.NewRNG(opts.Seed),
		logger: logger,
	}
	s.grid = terrain.New(opts.Cols, opts.Rows, 0, 0, opts.Pattern)
	return s
}

// Restart replaces the grid, repopulates the initial bodies and unpauses.
func (s *Simulation) Restart(width, height float64) {
	s.width = math.Max(0, width)
	s.height = math.Max(0, height)
	s.grid = terrain.New(s.opts.Cols, s.opts.Rows, s.width, s.height, s.opts.Pattern)
	s.paused = false

	params := s.spawnParams()
	s.bodies = make([]dynamo.Body, 0, s.opts.InitialBodies)
	for i := 0; i < s.opts.InitialBodies; i++ {
		s.bodies = append(s.bodies, spawn.Spawn(s.grid, s.rng, params))
	}

	s.logger.Info("arena restarted",
		"width", s.width,
		"height", s.height,
		"cols", s.grid.Cols,
		"rows", s.grid.Rows,
		"bodies", len(s.bodies),
		"painted", s.grid.CountPainted(),
	)
}

// Resize invalidates every cell coordinate, so it restarts the arena.
func (s *Simulation) Resize(width, height float64) {
	s.logger.Debug("arena resized", "width", width, "height", height)
	s.Restart(width, height)
}

// AddBody spawns one more body. It does nothing on a zero-area canvas.
func (s *Simulation) AddBody() bool {
	if !s.hasArea() {
		return false
	}
	b := spawn.Spawn(s.grid, s.rng, s.spawnParams())
	s.bodies = append(s.bodies, b)
	s.logger.Debug("body added", "count", len(s.bodies), "x", b.X, "y", b.Y, "speed", b.Speed())
	return true
}

// Place appends a caller-built body, clamped into the canvas. Bodies with a
// non-positive radius or NaN fields are rejected.
func (s *Simulation) Place(b dynamo.Body) bool {
	if !s.hasArea() || !b.IsValid() {
		return false
	}
	collision.ClampToCanvas(&b, s.width, s.height)
	s.bodies = append(s.bodies, b)
	return true
}

func (s *Simulation) spawnParams() spawn.Params {
	cellW, _ := s.grid.CellSize()
	return spawn.Params{
		Speed: s.opts.Speed,
		Radius: spawn.Range{
			Min: math.Max(minBodyRadius, s.opts.RadiusCells.Min*cellW),
			Max: math.Max(minBodyRadius, s.opts.RadiusCells.Max*cellW),
		},
	}
}

func (s *Simulation) hasArea() bool {
	return s.width > 0 && s.height > 0
}

func (s *Simulation) SetPaused(paused bool) { s.paused = paused }

// TogglePaused flips the pause flag and returns the new value.
func (s *Simulation) TogglePaused() bool {
	s.paused = !s.paused
	return s.paused
}

func (s *Simulation) Paused() bool { return s.paused }

// Advance moves the arena forward by frameSeconds. Paused simulations,
// zero-area canvases and non-finite or non-positive frame times are left
// untouched.
func (s *Simulation) Advance(frameSeconds float64) StepReport {
	if s.paused || !s.hasArea() || !(frameSeconds > 0) || math.IsInf(frameSeconds, 1) {
		return StepReport{}
	}
	if s.opts.MaxFrame > 0 && frameSeconds > s.opts.MaxFrame {
		frameSeconds = s.opts.MaxFrame
	}

	cellW, cellH := s.grid.CellSize()
	n := SubstepCount(frameSeconds, dynamo.MaxSpeed(s.bodies), cellW, cellH)
	report := StepReport{Substeps: n, Dt: frameSeconds / float64(n)}

	for i := 0; i < n; i++ {
		s.substep(report.Dt, &report)
	}
	return report
}

// substep integrates every body, resolves terrain per body, then resolves
// all pairs once. Pair separation can push a body past an edge, so the
// canvas clamp runs again at the end.
func (s *Simulation) substep(dt float64, report *StepReport) {
	for i := range s.bodies {
		b := &s.bodies[i]
		prevX, prevY := b.X, b.Y
		b.X += b.VX * dt
		b.Y += b.VY * dt

		contact := collision.ResolveTerrain(s.grid, b, prevX, prevY)
		report.Eroded += contact.Eroded
		if contact.Bounced {
			report.Bounces++
		}
		if contact.Corner {
			report.Corners++
		}
		if collision.ClampToCanvas(b, s.width, s.height) {
			report.Clamps++
		}
	}

	report.Contacts += collision.ResolvePairs(s.bodies)
	for i := range s.bodies {
		if collision.ClampToCanvas(&s.bodies[i], s.width, s.height) {
			report.Clamps++
		}
	}
}

// Grid returns the live grid. Callers must treat it as read-only.
func (s *Simulation) Grid() *terrain.Grid { return s.grid }

// Bodies returns a copy of the body set.
func (s *Simulation) Bodies() []dynamo.Body {
	out := make([]dynamo.Body, len(s.bodies))
	copy(out, s.bodies)
	return out
}

// EachBody visits bodies in index order without copying the slice.
func (s *Simulation) EachBody(fn func(i int, b dynamo.Body)) {
	for i, b := range s.bodies {
		fn(i, b)
	}
}

func (s *Simulation) BodyCount() int { return len(s.bodies) }

func (s *Simulation) CountPainted() int { return s.grid.CountPainted() }

// Cleared reports whether no painted cell remains. Drivers use it to pause.
func (s *Simulation) Cleared() bool { return s.grid.CountPainted() == 0 }

func (s *Simulation) Size() (width, height float64) { return s.width, s.height }

func (s *Simulation) Options() Options { return s.opts }
