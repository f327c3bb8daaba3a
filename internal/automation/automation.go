// Package automation runs scripted sequences of headless arena runs loaded
// from YAML.
package automation

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/erosion/internal/config"
	"github.com/san-kum/erosion/internal/dynamo"
	"github.com/san-kum/erosion/internal/experiment"
)

// Scenario is an ordered list of runs.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step starts from a preset, genuary when empty, and applies params by
// config.SetParam name. Pattern replaces the preset's pattern when set.
type Step struct {
	Preset    string             `yaml:"preset"`
	Pattern   string             `yaml:"pattern"`
	Params    map[string]float64 `yaml:"params"`
	AutoPause *bool              `yaml:"auto_pause"`
	SaveAs    string             `yaml:"save_as"`
}

type StepResult struct {
	Step   int
	Config *config.Config
	Result *dynamo.Result
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("%w: scenario %s has no steps", dynamo.ErrInvalidConfig, path)
	}
	return &scenario, nil
}

// Config resolves the step into a validated configuration.
func (s Step) Config() (*config.Config, error) {
	name := s.Preset
	if name == "" {
		name = "genuary"
	}
	cfg, err := config.GetPreset(name)
	if err != nil {
		return nil, err
	}

	if s.Pattern != "" {
		cfg.Pattern = s.Pattern
	}
	if s.AutoPause != nil {
		cfg.AutoPause = *s.AutoPause
	}
	for _, k := range slices.Sorted(maps.Keys(s.Params)) {
		if err := cfg.SetParam(k, s.Params[k]); err != nil {
			return nil, err
		}
	}
	if s.SaveAs != "" {
		cfg.Name = s.SaveAs
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RunScenario executes the steps in order. Every step is resolved before the
// first one runs, so a bad step fails the scenario without partial work. On
// a run error the results of the completed steps are returned with it.
func RunScenario(ctx context.Context, scenario *Scenario, logger *slog.Logger) ([]StepResult, error) {
	if logger == nil {
		logger = slog.Default()
	}

	configs := make([]*config.Config, len(scenario.Steps))
	for i, step := range scenario.Steps {
		cfg, err := step.Config()
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		configs[i] = cfg
	}

	results := make([]StepResult, 0, len(configs))
	for i, cfg := range configs {
		logger.Info("running step", "scenario", scenario.Name, "step", i+1, "of", len(configs), "name", cfg.Name)

		exp, err := experiment.New(cfg, logger)
		if err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		results = append(results, StepResult{Step: i + 1, Config: cfg, Result: result})
	}

	return results, nil
}
