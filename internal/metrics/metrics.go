package metrics

import (
	"fmt"

	"github.com/san-kum/erosion/internal/dynamo"
)

var constructors = map[string]func() dynamo.Metric{
	"kinetic_energy": func() dynamo.Metric { return NewKineticEnergy() },
	"energy_drift":   func() dynamo.Metric { return NewEnergyDrift() },
	"coverage":       func() dynamo.Metric { return NewCoverage() },
	"substeps":       func() dynamo.Metric { return NewSubsteps() },
	"max_speed":      func() dynamo.Metric { return NewMaxSpeed() },
}

// Names lists every metric in report order.
var Names = []string{"coverage", "kinetic_energy", "energy_drift", "max_speed", "substeps"}

// All returns a fresh instance of every metric.
func All() []dynamo.Metric {
	out := make([]dynamo.Metric, 0, len(Names))
	for _, name := range Names {
		out = append(out, constructors[name]())
	}
	return out
}

// ByName builds the named metrics, failing on the first unknown one.
func ByName(names ...string) ([]dynamo.Metric, error) {
	out := make([]dynamo.Metric, 0, len(names))
	for _, name := range names {
		ctor, ok := constructors[name]
		if !ok {
			return nil, fmt.Errorf("unknown metric %q", name)
		}
		out = append(out, ctor())
	}
	return out, nil
}
