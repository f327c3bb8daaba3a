package metrics

import "github.com/san-kum/erosion/internal/dynamo"

// Coverage is the eroded fraction of the paintable cells at the latest
// frame. A board with nothing to erode counts as fully covered.
type Coverage struct {
	name  string
	value float64
}

func NewCoverage() *Coverage {
	return &Coverage{name: "coverage"}
}

func (c *Coverage) Name() string {
	return c.name
}

func (c *Coverage) Observe(f dynamo.Frame) {
	if f.Paintable <= 0 {
		c.value = 1
		return
	}
	c.value = 1 - float64(f.Painted)/float64(f.Paintable)
}

func (c *Coverage) Value() float64 {
	return c.value
}

func (c *Coverage) Reset() {
	c.value = 0
}

// MaxSpeed is the largest body speed seen so far.
type MaxSpeed struct {
	name string
	max  float64
}

func NewMaxSpeed() *MaxSpeed {
	return &MaxSpeed{name: "max_speed"}
}

func (m *MaxSpeed) Name() string { return m.name }

func (m *MaxSpeed) Observe(f dynamo.Frame) {
	if s := dynamo.MaxSpeed(f.Bodies); s > m.max {
		m.max = s
	}
}

func (m *MaxSpeed) Value() float64 { return m.max }

func (m *MaxSpeed) Reset() { m.max = 0 }
