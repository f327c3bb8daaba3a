package metrics

import "github.com/san-kum/erosion/internal/dynamo"

// Substeps is the mean number of sub-steps per frame, a proxy for how hard
// the scheduler had to work against fast bodies.
type Substeps struct {
	name    string
	sum     float64
	samples int
}

func NewSubsteps() *Substeps {
	return &Substeps{
		name: "substeps",
	}
}

func (s *Substeps) Name() string {
	return s.name
}

func (s *Substeps) Observe(f dynamo.Frame) {
	s.sum += float64(f.Substeps)
	s.samples++
}

func (s *Substeps) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return s.sum / float64(s.samples)
}

func (s *Substeps) Reset() {
	s.sum = 0
	s.samples = 0
}
