package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/erosion/internal/dynamo"
)

func frame(bodies ...dynamo.Body) dynamo.Frame {
	return dynamo.Frame{Bodies: bodies}
}

func TestKineticEnergyMean(t *testing.T) {
	m := NewKineticEnergy()

	m.Observe(frame(dynamo.Body{VX: 2, R: 1}))                           // 2
	m.Observe(frame(dynamo.Body{VX: 2, VY: 2, R: 1}))                    // 4
	m.Observe(frame(dynamo.Body{VX: 3, R: 1}, dynamo.Body{VY: 3, R: 1})) // 9

	if got := m.Value(); math.Abs(got-5) > 1e-12 {
		t.Errorf("expected mean energy 5, got %f", got)
	}
}

func TestKineticEnergyReset(t *testing.T) {
	m := NewKineticEnergy()
	m.Observe(frame(dynamo.Body{VX: 1, VY: 1, R: 1}))
	if m.Value() == 0 {
		t.Error("expected non-zero energy")
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestEnergyDrift(t *testing.T) {
	tests := []struct {
		name     string
		frames   []dynamo.Frame
		expected float64
	}{
		{
			name: "reflection keeps energy",
			frames: []dynamo.Frame{
				frame(dynamo.Body{VX: 3, VY: 4, R: 1}),
				frame(dynamo.Body{VX: -3, VY: 4, R: 1}),
				frame(dynamo.Body{VX: -3, VY: -4, R: 1}),
			},
			expected: 0,
		},
		{
			name: "growth",
			frames: []dynamo.Frame{
				frame(dynamo.Body{VX: 2, R: 1}),
				frame(dynamo.Body{VX: 3, R: 1}),
				frame(dynamo.Body{VX: 2, R: 1}),
			},
			expected: 1.25,
		},
		{
			name: "new body rebases",
			frames: []dynamo.Frame{
				frame(dynamo.Body{VX: 2, R: 1}),
				frame(dynamo.Body{VX: 2, R: 1}, dynamo.Body{VX: 10, R: 1}),
				frame(dynamo.Body{VX: 2, R: 1}, dynamo.Body{VX: 10, R: 1}),
			},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewEnergyDrift()
			for _, f := range tt.frames {
				m.Observe(f)
			}
			if got := m.Value(); math.Abs(got-tt.expected) > 1e-12 {
				t.Errorf("expected drift %f, got %f", tt.expected, got)
			}
		})
	}
}

func TestCoverage(t *testing.T) {
	tests := []struct {
		name               string
		painted, paintable int
		expected           float64
	}{
		{"fresh", 100, 100, 0},
		{"half", 50, 100, 0.5},
		{"cleared", 0, 100, 1},
		{"nothing paintable", 0, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewCoverage()
			m.Observe(dynamo.Frame{Painted: tt.painted, Paintable: tt.paintable})
			if got := m.Value(); got != tt.expected {
				t.Errorf("expected %f, got %f", tt.expected, got)
			}
		})
	}
}

func TestSubstepsAndMaxSpeed(t *testing.T) {
	sub := NewSubsteps()
	top := NewMaxSpeed()

	for _, f := range []dynamo.Frame{
		{Substeps: 1, Bodies: []dynamo.Body{{VX: 3, VY: 4, R: 1}}},
		{Substeps: 4, Bodies: []dynamo.Body{{VX: 10, R: 1}}},
		{Substeps: 1, Bodies: []dynamo.Body{{VX: 1, R: 1}}},
	} {
		sub.Observe(f)
		top.Observe(f)
	}

	if sub.Value() != 2 {
		t.Errorf("expected mean substeps 2, got %f", sub.Value())
	}
	if top.Value() != 10 {
		t.Errorf("expected max speed 10, got %f", top.Value())
	}

	sub.Reset()
	top.Reset()
	if sub.Value() != 0 || top.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestByName(t *testing.T) {
	ms, err := ByName("coverage", "substeps")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ms) != 2 || ms[0].Name() != "coverage" || ms[1].Name() != "substeps" {
		t.Errorf("unexpected metrics %v", ms)
	}

	if _, err := ByName("stability"); err == nil {
		t.Error("expected error for unknown metric")
	}

	all := All()
	if len(all) != len(Names) {
		t.Fatalf("expected %d metrics, got %d", len(Names), len(all))
	}
	for i, m := range all {
		if m.Name() != Names[i] {
			t.Errorf("index %d: got %s, want %s", i, m.Name(), Names[i])
		}
	}
}
