package export

import (
	"strings"
	"testing"

	"github.com/san-kum/erosion/internal/dynamo"
	"github.com/san-kum/erosion/internal/terrain"
)

func TestArenaToSVG(t *testing.T) {
	g := terrain.New(6, 5, 60, 50, nil)
	g.Erode(2, 2)
	bodies := []dynamo.Body{
		{X: 25, Y: 25, VX: 1, R: 3},
		{X: 35, Y: 15, VY: 1, R: 2},
	}

	svg := ArenaToSVG(g, bodies, DefaultColors)

	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatal("expected a complete svg document")
	}
	if !strings.Contains(svg, `width="60" height="50"`) {
		t.Error("expected canvas dimensions")
	}

	solid := 6*5 - 4*3
	wantRects := 1 + g.CountPainted() + solid
	if got := strings.Count(svg, "<rect "); got != wantRects {
		t.Errorf("expected %d rects, got %d", wantRects, got)
	}
	if got := strings.Count(svg, "<circle "); got != len(bodies) {
		t.Errorf("expected %d circles, got %d", len(bodies), got)
	}
	if !strings.Contains(svg, `<circle cx="25.00" cy="25.00" r="3.00"/>`) {
		t.Error("expected first body circle")
	}
}

func TestArenaToSVGNilGrid(t *testing.T) {
	if ArenaToSVG(nil, nil, DefaultColors) != "" {
		t.Error("expected empty output")
	}
}

func TestSeriesToSVG(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		empty  bool
	}{
		{"nil", nil, true},
		{"single", []float64{1}, true},
		{"flat", []float64{2, 2, 2}, false},
		{"ramp", []float64{0, 0.25, 0.5, 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svg := SeriesToSVG(tt.values, 200, 100, "#00ff00")
			if tt.empty {
				if svg != "" {
					t.Error("expected empty output")
				}
				return
			}
			if got := strings.Count(svg, " L"); got != len(tt.values)-1 {
				t.Errorf("expected %d segments, got %d", len(tt.values)-1, got)
			}
			if !strings.Contains(svg, `stroke="#00ff00"`) {
				t.Error("expected stroke colour")
			}
		})
	}
}

func TestSeriesToSVGEndpoints(t *testing.T) {
	svg := SeriesToSVG([]float64{0, 1}, 100, 120, "red")

	// 10% padding maps 0 to y=110 and 1 to y=10.
	if !strings.Contains(svg, `d="M0.0,110.0 L100.0,10.0"`) {
		t.Errorf("unexpected path in %s", svg)
	}
}
