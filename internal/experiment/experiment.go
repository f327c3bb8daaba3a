// Package experiment drives simulations headlessly: fixed frame times with
// optional jitter, metrics, and per-frame samples for storage and plots.
package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/san-kum/erosion/internal/config"
	"github.com/san-kum/erosion/internal/dynamo"
	"github.com/san-kum/erosion/internal/metrics"
	"github.com/san-kum/erosion/internal/sim"
)

// jitterStream keeps frame jitter independent of the spawn sequence for the
// same seed.
const jitterStream = 1

type Experiment struct {
	cfg        *config.Config
	simulation *sim.Simulation
	metrics    []dynamo.Metric
	randSource *rand.Rand
	logger     *slog.Logger
}

// New validates cfg and prepares a simulation with every metric attached.
// A nil logger means slog.Default().
func New(cfg *config.Config, logger *slog.Logger) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Experiment{
		cfg:        cfg,
		simulation: sim.New(cfg.Options(), logger),
		metrics:    metrics.All(),
		randSource: rand.New(rand.NewPCG(uint64(cfg.Seed), jitterStream)),
		logger:     logger,
	}, nil
}

// SetMetrics replaces the attached metrics.
func (e *Experiment) SetMetrics(ms []dynamo.Metric) {
	e.metrics = ms
}

// Simulation returns the underlying simulation.
func (e *Experiment) Simulation() *sim.Simulation {
	return e.simulation
}

// Run restarts the arena on the configured canvas and advances it until
// MaxFrames, cancellation, or a cleared board when AutoPause is set. A
// cancelled run returns the partial result together with ctx.Err().
func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	s := e.simulation
	s.Restart(e.cfg.Canvas.Width, e.cfg.Canvas.Height)
	paintable := s.Grid().InitialPainted()

	result := &dynamo.Result{
		Samples: make([]dynamo.Sample, 0, e.cfg.MaxFrames),
		Metrics: make(map[string]float64),
	}
	for _, m := range e.metrics {
		m.Reset()
	}

	t := 0.0
	for i := 0; i < e.cfg.MaxFrames; i++ {
		select {
		case <-ctx.Done():
			e.collect(result)
			return result, ctx.Err()
		default:
		}

		report := s.Advance(e.frameTime())
		t += report.Dt * float64(report.Substeps)

		bodies := s.Bodies()
		for j, b := range bodies {
			if !b.IsValid() {
				e.collect(result)
				return result, &dynamo.SimulationError{Frame: i, Time: t, Body: j, Wrapped: dynamo.ErrInvalidState}
			}
		}

		frame := dynamo.Frame{
			Index:      i,
			Time:       t,
			Bodies:     bodies,
			Painted:    s.CountPainted(),
			Paintable:  paintable,
			Substeps:   report.Substeps,
			Collisions: report.Contacts,
		}
		for _, m := range e.metrics {
			m.Observe(frame)
		}
		result.Samples = append(result.Samples, sample(frame, report))
		result.Frames++
		result.Time = t

		if e.cfg.AutoPause && s.Cleared() {
			s.SetPaused(true)
			result.Cleared = true
			e.logger.Info("board cleared", "frame", i, "time", fmt.Sprintf("%.3fs", t), "bodies", len(bodies))
			break
		}
	}

	e.collect(result)
	return result, nil
}

func (e *Experiment) frameTime() float64 {
	if e.cfg.Jitter == 0 {
		return e.cfg.FrameDt
	}
	return e.cfg.FrameDt * (1 + e.cfg.Jitter*(2*e.randSource.Float64()-1))
}

func (e *Experiment) collect(result *dynamo.Result) {
	for _, m := range e.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func sample(f dynamo.Frame, report sim.StepReport) dynamo.Sample {
	coverage := 1.0
	if f.Paintable > 0 {
		coverage = 1 - float64(f.Painted)/float64(f.Paintable)
	}
	return dynamo.Sample{
		Frame:    f.Index,
		Time:     f.Time,
		Bodies:   len(f.Bodies),
		Painted:  f.Painted,
		Coverage: coverage,
		Energy:   dynamo.TotalKineticEnergy(f.Bodies),
		MaxSpeed: dynamo.MaxSpeed(f.Bodies),
		Substeps: report.Substeps,
		Eroded:   report.Eroded,
		Contacts: report.Contacts,
	}
}
