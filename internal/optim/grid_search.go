// Package optim searches arena parameters for the configuration that
// minimizes an objective over a headless run.
package optim

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/san-kum/erosion/internal/config"
	"github.com/san-kum/erosion/internal/dynamo"
	"github.com/san-kum/erosion/internal/experiment"
)

// Param is one axis of the grid, named as for config.SetParam.
type Param struct {
	Name   string
	Values []float64
}

// Objective scores a finished run; lower is better.
type Objective func(*dynamo.Result) float64

// ClearTime is the simulated time until the board was cleared, or +Inf for
// runs that never cleared it.
func ClearTime(r *dynamo.Result) float64 {
	if !r.Cleared {
		return math.Inf(1)
	}
	return r.Time
}

// Metric minimizes a named run metric. Missing metrics score +Inf.
func Metric(name string) Objective {
	return func(r *dynamo.Result) float64 {
		v, ok := r.Metrics[name]
		if !ok {
			return math.Inf(1)
		}
		return v
	}
}

type Trial struct {
	Params  map[string]float64
	Value   float64
	Frames  int
	Cleared bool
}

type GridSearch struct {
	params []Param
	logger *slog.Logger
}

// NewGridSearch builds a search over the cartesian product of params. A nil
// logger means slog.Default().
func NewGridSearch(params []Param, logger *slog.Logger) *GridSearch {
	if logger == nil {
		logger = slog.Default()
	}
	return &GridSearch{params: params, logger: logger}
}

// Search runs one experiment per grid point on a copy of base and returns the
// best trial with every trial in enumeration order. Ties keep the earlier
// trial. Invalid combinations and cancellation abort the search.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, objective Objective) (Trial, []Trial, error) {
	var trials []Trial
	best := Trial{Value: math.Inf(1)}

	var walk func(depth int, current map[string]float64) error
	walk = func(depth int, current map[string]float64) error {
		if depth == len(g.params) {
			trial, err := g.run(ctx, base, current, objective)
			if err != nil {
				return err
			}
			trials = append(trials, trial)
			if len(trials) == 1 || trial.Value < best.Value {
				best = trial
			}
			return nil
		}

		p := g.params[depth]
		for _, val := range p.Values {
			next := make(map[string]float64, len(current)+1)
			for k, v := range current {
				next[k] = v
			}
			next[p.Name] = val
			if err := walk(depth+1, next); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(0, map[string]float64{}); err != nil {
		return best, trials, err
	}
	return best, trials, nil
}

func (g *GridSearch) run(ctx context.Context, base *config.Config, params map[string]float64, objective Objective) (Trial, error) {
	cfg := base.Clone()
	for _, p := range g.params {
		if err := cfg.SetParam(p.Name, params[p.Name]); err != nil {
			return Trial{}, err
		}
	}

	exp, err := experiment.New(cfg, g.logger)
	if err != nil {
		return Trial{}, fmt.Errorf("params %v: %w", params, err)
	}
	result, err := exp.Run(ctx)
	if err != nil {
		return Trial{}, fmt.Errorf("params %v: %w", params, err)
	}

	trial := Trial{
		Params:  params,
		Value:   objective(result),
		Frames:  result.Frames,
		Cleared: result.Cleared,
	}
	g.logger.Debug("trial finished", "params", params, "value", trial.Value, "frames", trial.Frames)
	return trial, nil
}
