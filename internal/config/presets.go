package config

import (
	"fmt"
	"sort"

	"github.com/san-kum/erosion/internal/dynamo"
)

const mazePattern = `
****************************************
*                  *                   *
*  ************    *    ************   *
*  *          *    *    *          *   *
*  *   ****   *         *   ****   *   *
*  *   *  *   ***********   *  *   *   *
*      *  *                 *  *       *
*  *   *  *   ***********   *  *   *   *
*  *   ****   *         *   ****   *   *
*  *          *    *    *          *   *
*  ************    *    ************   *
*                  *                   *
****************************************
`

var Presets = map[string]*Config{
	"genuary": DefaultConfig(),
	"open":    withPreset("open", func(c *Config) { c.Pattern = PatternNone }),
	"swarm": withPreset("swarm", func(c *Config) {
		c.Bodies.Initial = 60
		c.Bodies.MinRadius = 0.3
		c.Bodies.MaxRadius = 0.6
	}),
	"maze": withPreset("maze", func(c *Config) {
		c.Pattern = mazePattern
		c.Bodies.Initial = 8
		c.Bodies.MinSpeed = 400
	}),
	"single": withPreset("single", func(c *Config) {
		c.Pattern = PatternNone
		c.Bodies.Initial = 1
		c.Bodies.MinSpeed = 500
		c.Bodies.MaxSpeed = 500
		c.MaxFrames = 36000
	}),
}

func withPreset(name string, apply func(*Config)) *Config {
	cfg := DefaultConfig()
	cfg.Name = name
	apply(cfg)
	return cfg
}

// GetPreset returns a copy of the named preset, so callers may override
// fields freely.
func GetPreset(name string) (*Config, error) {
	cfg, ok := Presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", dynamo.ErrUnknownPreset, name)
	}
	return cfg.Clone(), nil
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
