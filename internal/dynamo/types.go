package dynamo

import "math"

// Body is a moving circle in canvas units.
type Body struct {
	X, Y   float64
	VX, VY float64
	R      float64
}

func (b Body) Speed() float64 {
	return math.Hypot(b.VX, b.VY)
}

// KineticEnergy assumes unit mass; every body in the arena weighs the same.
func (b Body) KineticEnergy() float64 {
	return 0.5 * (b.VX*b.VX + b.VY*b.VY)
}

func (b Body) IsValid() bool {
	for _, v := range [...]float64{b.X, b.Y, b.VX, b.VY, b.R} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return b.R > 0
}

// Inside reports whether the bounding circle lies within [0,w]x[0,h].
func (b Body) Inside(w, h float64) bool {
	return b.X-b.R >= 0 && b.X+b.R <= w && b.Y-b.R >= 0 && b.Y+b.R <= h
}

// MaxSpeed returns the largest speed in the set, 0 for an empty set.
func MaxSpeed(bodies []Body) float64 {
	max := 0.0
	for i := range bodies {
		if s := bodies[i].Speed(); s > max {
			max = s
		}
	}
	return max
}

// TotalKineticEnergy sums unit-mass kinetic energy.
func TotalKineticEnergy(bodies []Body) float64 {
	sum := 0.0
	for i := range bodies {
		sum += bodies[i].KineticEnergy()
	}
	return sum
}

// TotalMomentum sums unit-mass momentum.
func TotalMomentum(bodies []Body) (px, py float64) {
	for i := range bodies {
		px += bodies[i].VX
		py += bodies[i].VY
	}
	return px, py
}

// Frame is what metrics get to see after each advanced frame.
type Frame struct {
	Index      int
	Time       float64
	Bodies     []Body
	Painted    int
	Paintable  int
	Substeps   int
	Collisions int
}

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

// Sample is one recorded frame of a headless run.
type Sample struct {
	Frame    int     `json:"frame"`
	Time     float64 `json:"time"`
	Bodies   int     `json:"bodies"`
	Painted  int     `json:"painted"`
	Coverage float64 `json:"coverage"`
	Energy   float64 `json:"energy"`
	MaxSpeed float64 `json:"max_speed"`
	Substeps int     `json:"substeps"`
	Eroded   int     `json:"eroded"`
	Contacts int     `json:"contacts"`
}

// Result collects what a headless run produced.
type Result struct {
	Samples []Sample
	Metrics map[string]float64
	Frames  int
	Time    float64
	// Cleared is set when the run stopped because no painted cell was left.
	Cleared bool
}

// Series extracts one column of the samples by name. Unknown names yield nil.
func (r *Result) Series(name string) []float64 {
	var get func(s Sample) float64
	switch name {
	case "time":
		get = func(s Sample) float64 { return s.Time }
	case "bodies":
		get = func(s Sample) float64 { return float64(s.Bodies) }
	case "painted":
		get = func(s Sample) float64 { return float64(s.Painted) }
	case "coverage":
		get = func(s Sample) float64 { return s.Coverage }
	case "energy":
		get = func(s Sample) float64 { return s.Energy }
	case "max_speed":
		get = func(s Sample) float64 { return s.MaxSpeed }
	case "substeps":
		get = func(s Sample) float64 { return float64(s.Substeps) }
	case "eroded":
		get = func(s Sample) float64 { return float64(s.Eroded) }
	case "contacts":
		get = func(s Sample) float64 { return float64(s.Contacts) }
	default:
		return nil
	}
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = get(s)
	}
	return out
}

// SeriesNames lists the columns Series understands, in CSV order after frame.
var SeriesNames = []string{"time", "bodies", "painted", "coverage", "energy", "max_speed", "substeps", "eroded", "contacts"}
