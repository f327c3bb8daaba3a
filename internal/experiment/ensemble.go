package experiment

import (
	"context"
	"log/slog"
	"sync"

	"github.com/san-kum/erosion/internal/config"
	"github.com/san-kum/erosion/internal/dynamo"
)

// Ensemble runs independent copies of one configuration in parallel, each
// with its own seed starting at seedStart.
type Ensemble struct {
	base      *config.Config
	numRuns   int
	seedStart int64
	logger    *slog.Logger
}

func NewEnsemble(base *config.Config, numRuns int, seedStart int64, logger *slog.Logger) *Ensemble {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ensemble{base: base, numRuns: numRuns, seedStart: seedStart, logger: logger}
}

// Run returns one result per seed in seed order, or the first error.
func (e *Ensemble) Run(ctx context.Context) ([]*dynamo.Result, error) {
	if err := e.base.Validate(); err != nil {
		return nil, err
	}

	results := make([]*dynamo.Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfgCopy := e.base.Clone()
			cfgCopy.Seed = e.seedStart + int64(idx)

			exp, err := New(cfgCopy, e.logger.With("seed", cfgCopy.Seed))
			if err != nil {
				errs[idx] = err
				return
			}
			results[idx], errs[idx] = exp.Run(ctx)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
