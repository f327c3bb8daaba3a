package metrics

import (
	"math"

	"github.com/san-kum/erosion/internal/dynamo"
)

// KineticEnergy reports the mean total kinetic energy over observed frames.
type KineticEnergy struct {
	name        string
	samples     int
	totalEnergy float64
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(f dynamo.Frame) {
	e.totalEnergy += dynamo.TotalKineticEnergy(f.Bodies)
	e.samples++
}

func (e *KineticEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *KineticEnergy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyDrift tracks the largest relative departure of total kinetic energy
// from the first observed frame. Adding a body changes the reference, so the
// baseline is re-taken whenever the body count changes.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	bodies        int
	maxDrift      float64
	samples       int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(f dynamo.Frame) {
	energy := dynamo.TotalKineticEnergy(f.Bodies)

	if e.samples == 0 || len(f.Bodies) != e.bodies {
		e.initialEnergy = energy
		e.bodies = len(f.Bodies)
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.bodies = 0
	e.maxDrift = 0
	e.samples = 0
}
