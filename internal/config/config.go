package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/erosion/internal/dynamo"
	"github.com/san-kum/erosion/internal/sim"
	"github.com/san-kum/erosion/internal/spawn"
	"github.com/san-kum/erosion/internal/terrain"
)

const (
	DefaultWidth     = 800.0
	DefaultHeight    = 800.0
	DefaultFrameDt   = 1.0 / 60
	DefaultMaxFrames = 3600

	PatternBanner = "banner"
	PatternNone   = "none"
)

type Config struct {
	Name      string       `yaml:"name,omitempty"`
	Grid      GridConfig   `yaml:"grid"`
	Canvas    CanvasConfig `yaml:"canvas"`
	Bodies    BodyConfig   `yaml:"bodies"`
	Pattern   string       `yaml:"pattern"`
	Seed      int64        `yaml:"seed"`
	FrameDt   float64      `yaml:"frame_dt"`
	Jitter    float64      `yaml:"jitter"`
	MaxFrames int          `yaml:"max_frames"`
	MaxFrame  float64      `yaml:"max_frame"`
	AutoPause bool         `yaml:"auto_pause"`
}

type GridConfig struct {
	Cols int `yaml:"cols"`
	Rows int `yaml:"rows"`
}

type CanvasConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// BodyConfig radii are measured in cell widths.
type BodyConfig struct {
	Initial   int     `yaml:"initial"`
	MinSpeed  float64 `yaml:"min_speed"`
	MaxSpeed  float64 `yaml:"max_speed"`
	MinRadius float64 `yaml:"min_radius"`
	MaxRadius float64 `yaml:"max_radius"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:   "genuary",
		Grid:   GridConfig{Cols: sim.DefaultCols, Rows: sim.DefaultRows},
		Canvas: CanvasConfig{Width: DefaultWidth, Height: DefaultHeight},
		Bodies: BodyConfig{
			Initial:   sim.DefaultInitialBodies,
			MinSpeed:  sim.DefaultMinSpeed,
			MaxSpeed:  sim.DefaultMaxSpeed,
			MinRadius: sim.DefaultMinRadius,
			MaxRadius: sim.DefaultMaxRadius,
		},
		Pattern:   PatternBanner,
		Seed:      1,
		FrameDt:   DefaultFrameDt,
		MaxFrames: DefaultMaxFrames,
		MaxFrame:  sim.DefaultMaxFrame,
		AutoPause: true,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects values the simulation cannot run with. Every error wraps
// dynamo.ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case c.Grid.Cols < 1 || c.Grid.Rows < 1:
		return invalid("grid must be at least 1x1, got %dx%d", c.Grid.Cols, c.Grid.Rows)
	case !positive(c.Canvas.Width) || !positive(c.Canvas.Height):
		return invalid("canvas must be positive, got %gx%g", c.Canvas.Width, c.Canvas.Height)
	case c.Bodies.Initial < 0:
		return invalid("initial bodies must be >= 0, got %d", c.Bodies.Initial)
	case !(c.Bodies.MinSpeed >= 0) || !(c.Bodies.MaxSpeed >= c.Bodies.MinSpeed) || math.IsInf(c.Bodies.MaxSpeed, 0):
		return invalid("speed range [%g, %g] is not a finite non-negative interval", c.Bodies.MinSpeed, c.Bodies.MaxSpeed)
	case !positive(c.Bodies.MinRadius) || !(c.Bodies.MaxRadius >= c.Bodies.MinRadius) || math.IsInf(c.Bodies.MaxRadius, 0):
		return invalid("radius range [%g, %g] is not a finite positive interval", c.Bodies.MinRadius, c.Bodies.MaxRadius)
	case !positive(c.FrameDt):
		return invalid("frame_dt must be positive, got %g", c.FrameDt)
	case !(c.Jitter >= 0 && c.Jitter < 1):
		return invalid("jitter must be in [0, 1), got %g", c.Jitter)
	case c.MaxFrames < 1:
		return invalid("max_frames must be >= 1, got %d", c.MaxFrames)
	case !(c.MaxFrame >= 0) || math.IsInf(c.MaxFrame, 0):
		return invalid("max_frame must be >= 0, got %g", c.MaxFrame)
	}
	return nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{dynamo.ErrInvalidConfig}, args...)...)
}

// TerrainPattern resolves the pattern field: "banner", "none" or "" for an
// open arena, and anything else is read as literal mask rows.
func (c *Config) TerrainPattern() terrain.Pattern {
	switch c.Pattern {
	case PatternBanner:
		return terrain.Banner
	case PatternNone, "":
		return nil
	}
	return terrain.ParsePattern(c.Pattern)
}

// Options converts the config into simulation options.
func (c *Config) Options() sim.Options {
	return sim.Options{
		Cols:          c.Grid.Cols,
		Rows:          c.Grid.Rows,
		InitialBodies: c.Bodies.Initial,
		Speed:         spawn.Range{Min: c.Bodies.MinSpeed, Max: c.Bodies.MaxSpeed},
		RadiusCells:   spawn.Range{Min: c.Bodies.MinRadius, Max: c.Bodies.MaxRadius},
		Pattern:       c.TerrainPattern(),
		Seed:          c.Seed,
		MaxFrame:      c.MaxFrame,
	}
}

// Clone returns an independent copy; every field is a value.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// ParamNames lists the numeric fields SetParam understands.
var ParamNames = []string{
	"bodies", "min_speed", "max_speed", "min_radius", "max_radius",
	"cols", "rows", "seed", "frame_dt", "jitter", "max_frames",
}

// SetParam assigns a numeric field by its YAML name. Integer fields reject
// fractional values. The result is not validated.
func (c *Config) SetParam(name string, v float64) error {
	switch name {
	case "min_speed":
		c.Bodies.MinSpeed = v
		return nil
	case "max_speed":
		c.Bodies.MaxSpeed = v
		return nil
	case "min_radius":
		c.Bodies.MinRadius = v
		return nil
	case "max_radius":
		c.Bodies.MaxRadius = v
		return nil
	case "frame_dt":
		c.FrameDt = v
		return nil
	case "jitter":
		c.Jitter = v
		return nil
	}

	var dst *int
	switch name {
	case "bodies":
		dst = &c.Bodies.Initial
	case "cols":
		dst = &c.Grid.Cols
	case "rows":
		dst = &c.Grid.Rows
	case "max_frames":
		dst = &c.MaxFrames
	case "seed":
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return invalid("seed must be an integer, got %g", v)
		}
		c.Seed = int64(v)
		return nil
	default:
		return fmt.Errorf("%w: %q (available: %v)", dynamo.ErrUnknownParam, name, ParamNames)
	}
	if v != math.Trunc(v) || math.IsInf(v, 0) {
		return invalid("%s must be an integer, got %g", name, v)
	}
	*dst = int(v)
	return nil
}
