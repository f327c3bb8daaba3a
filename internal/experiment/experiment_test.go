package experiment

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"testing"

	"github.com/san-kum/erosion/internal/config"
	"github.com/san-kum/erosion/internal/dynamo"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func shortConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.MaxFrames = 30
	return cfg
}

func smallBoard() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Grid = config.GridConfig{Cols: 8, Rows: 8}
	cfg.Canvas = config.CanvasConfig{Width: 80, Height: 80}
	cfg.Pattern = config.PatternNone
	cfg.Bodies.Initial = 6
	cfg.Seed = 11
	cfg.MaxFrames = 20000
	return cfg
}

func run(t *testing.T, cfg *config.Config) *dynamo.Result {
	t.Helper()
	exp, err := New(cfg, quiet)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	result, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	return result
}

func TestRunRecordsEveryFrame(t *testing.T) {
	result := run(t, shortConfig())

	if result.Frames != 30 || len(result.Samples) != 30 {
		t.Fatalf("expected 30 frames, got %d (%d samples)", result.Frames, len(result.Samples))
	}
	prev := 0.0
	for i, s := range result.Samples {
		if s.Frame != i {
			t.Errorf("sample %d has frame %d", i, s.Frame)
		}
		if s.Time <= prev {
			t.Errorf("sample %d: time %f not after %f", i, s.Time, prev)
		}
		if s.Bodies != 15 {
			t.Errorf("sample %d: expected 15 bodies, got %d", i, s.Bodies)
		}
		prev = s.Time
	}
	if result.Time != prev {
		t.Errorf("result time %f, last sample %f", result.Time, prev)
	}
	for _, name := range []string{"coverage", "kinetic_energy", "energy_drift", "max_speed", "substeps"} {
		if _, ok := result.Metrics[name]; !ok {
			t.Errorf("missing metric %s", name)
		}
	}
}

func TestRunDeterministic(t *testing.T) {
	for _, jitter := range []float64{0, 0.5} {
		cfg := shortConfig()
		cfg.Jitter = jitter

		a := run(t, cfg)
		b := run(t, cfg.Clone())
		if !reflect.DeepEqual(a, b) {
			t.Errorf("jitter %v: runs with the same seed differ", jitter)
		}
	}
}

func TestRunJitterVariesFrames(t *testing.T) {
	cfg := shortConfig()
	cfg.Jitter = 0.5
	result := run(t, cfg)

	first := result.Samples[0].Time
	second := result.Samples[1].Time - first
	if first == second {
		t.Error("expected jittered frames to differ")
	}
}

func TestRunConservesEnergy(t *testing.T) {
	cfg := shortConfig()
	cfg.MaxFrames = 300
	result := run(t, cfg)

	if drift := result.Metrics["energy_drift"]; drift > 1e-9 {
		t.Errorf("expected negligible energy drift, got %g", drift)
	}
	if cov := result.Metrics["coverage"]; cov <= 0 || cov > 1 {
		t.Errorf("expected coverage in (0, 1], got %f", cov)
	}
}

func TestRunAutoPausesWhenCleared(t *testing.T) {
	cfg := smallBoard()
	exp, err := New(cfg, quiet)
	if err != nil {
		t.Fatal(err)
	}
	result, err := exp.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if !result.Cleared {
		t.Fatalf("expected board cleared within %d frames", cfg.MaxFrames)
	}
	if result.Frames >= cfg.MaxFrames {
		t.Errorf("expected early stop, ran %d frames", result.Frames)
	}
	last := result.Samples[len(result.Samples)-1]
	if last.Painted != 0 || last.Coverage != 1 {
		t.Errorf("expected cleared last sample, got %+v", last)
	}
	if !exp.Simulation().Paused() {
		t.Error("expected simulation paused")
	}
	if result.Metrics["coverage"] != 1 {
		t.Errorf("expected full coverage, got %f", result.Metrics["coverage"])
	}
}

func TestRunWithoutAutoPause(t *testing.T) {
	cfg := smallBoard()
	cfg.AutoPause = false
	cfg.MaxFrames = 100
	result := run(t, cfg)

	if result.Cleared {
		t.Error("expected no cleared flag without auto-pause")
	}
	if result.Frames != 100 {
		t.Errorf("expected 100 frames, got %d", result.Frames)
	}
}

func TestRunCancelled(t *testing.T) {
	exp, err := New(shortConfig(), quiet)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := exp.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result == nil || result.Frames != 0 {
		t.Errorf("expected empty partial result, got %+v", result)
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := shortConfig()
	cfg.FrameDt = 0

	if _, err := New(cfg, quiet); !errors.Is(err, dynamo.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestEnsemble(t *testing.T) {
	cfg := shortConfig()
	results, err := NewEnsemble(cfg, 3, 100, quiet).Run(context.Background())
	if err != nil {
		t.Fatalf("ensemble: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	single := cfg.Clone()
	single.Seed = 101
	if !reflect.DeepEqual(results[1], run(t, single)) {
		t.Error("ensemble run differs from a single run with the same seed")
	}
	if reflect.DeepEqual(results[0].Samples, results[1].Samples) {
		t.Error("expected different seeds to diverge")
	}
	if cfg.Seed != 1 {
		t.Errorf("ensemble mutated the base config seed to %d", cfg.Seed)
	}
}

func TestEnsembleInvalidConfig(t *testing.T) {
	cfg := shortConfig()
	cfg.MaxFrames = 0
	if _, err := NewEnsemble(cfg, 2, 0, quiet).Run(context.Background()); !errors.Is(err, dynamo.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}
