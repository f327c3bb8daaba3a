package sim_test

import (
	"io"
	"log/slog"
	"math"
	"math/rand/v2"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/erosion/internal/dynamo"
	"github.com/san-kum/erosion/internal/sim"
	"github.com/san-kum/erosion/internal/terrain"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

// openOptions is an 80x80 arena without a stamped pattern or initial bodies.
func openOptions() sim.Options {
	opts := sim.DefaultOptions()
	opts.InitialBodies = 0
	opts.Pattern = nil
	opts.MaxFrame = 0
	return opts
}

func snapshot(g *terrain.Grid) []terrain.CellState {
	out := make([]terrain.CellState, 0, g.Cols*g.Rows)
	g.Each(func(_, _ int, s terrain.CellState) { out = append(out, s) })
	return out
}

var _ = Describe("Simulation", func() {
	var s *sim.Simulation

	Describe("restart", func() {
		BeforeEach(func() {
			s = sim.New(sim.DefaultOptions(), quiet)
			s.Restart(800, 800)
		})

		It("seals the border", func() {
			g := s.Grid()
			for i := 0; i < g.Cols; i++ {
				Expect(g.At(0, i)).To(Equal(terrain.Solid))
				Expect(g.At(g.Rows-1, i)).To(Equal(terrain.Solid))
				Expect(g.At(i, 0)).To(Equal(terrain.Solid))
				Expect(g.At(i, g.Cols-1)).To(Equal(terrain.Solid))
			}
		})

		It("spawns the initial population on free cells", func() {
			Expect(s.BodyCount()).To(Equal(sim.DefaultInitialBodies))
			g := s.Grid()
			s.EachBody(func(_ int, b dynamo.Body) {
				row, col := g.CellAt(b.X, b.Y)
				Expect(g.At(row, col)).NotTo(Equal(terrain.Solid))
				Expect(b.R).To(BeNumerically(">", 0))
			})
		})

		It("resets the painted count to interior minus pattern", func() {
			expected := 78*78 - terrain.Banner.SolidCount()
			Expect(s.CountPainted()).To(Equal(expected))

			for i := 0; i < 120; i++ {
				s.Advance(1.0 / 60)
			}
			Expect(s.CountPainted()).To(BeNumerically("<", expected))

			s.Restart(800, 800)
			Expect(s.CountPainted()).To(Equal(expected))
			Expect(s.BodyCount()).To(Equal(sim.DefaultInitialBodies))
		})

		It("clears the pause flag", func() {
			s.SetPaused(true)
			s.Restart(800, 800)
			Expect(s.Paused()).To(BeFalse())
		})

		It("restarts on resize with the new geometry", func() {
			s.AddBody()
			s.Resize(400, 200)
			w, h := s.Size()
			Expect(w).To(Equal(400.0))
			Expect(h).To(Equal(200.0))
			cw, ch := s.Grid().CellSize()
			Expect(cw).To(Equal(5.0))
			Expect(ch).To(Equal(2.5))
			Expect(s.BodyCount()).To(Equal(sim.DefaultInitialBodies))
		})
	})

	Describe("control surface", func() {
		It("ignores AddBody and Advance on a zero-area canvas", func() {
			s = sim.New(sim.DefaultOptions(), quiet)
			Expect(s.AddBody()).To(BeFalse())
			Expect(s.Advance(1.0 / 60).Substeps).To(Equal(0))

			s.Restart(0, 0)
			Expect(s.AddBody()).To(BeFalse())
			Expect(s.Advance(1.0 / 60).Substeps).To(Equal(0))
		})

		It("appends bodies on demand", func() {
			s = sim.New(sim.DefaultOptions(), quiet)
			s.Restart(800, 800)
			Expect(s.AddBody()).To(BeTrue())
			Expect(s.BodyCount()).To(Equal(sim.DefaultInitialBodies + 1))
		})

		It("freezes while paused", func() {
			s = sim.New(sim.DefaultOptions(), quiet)
			s.Restart(800, 800)
			Expect(s.TogglePaused()).To(BeTrue())

			before := s.Bodies()
			painted := s.CountPainted()
			report := s.Advance(1.0 / 60)

			Expect(report).To(Equal(sim.StepReport{}))
			Expect(s.Bodies()).To(Equal(before))
			Expect(s.CountPainted()).To(Equal(painted))

			Expect(s.TogglePaused()).To(BeFalse())
			s.Advance(1.0 / 60)
			Expect(s.Bodies()).NotTo(Equal(before))
		})

		It("ignores non-positive and non-finite frame times", func() {
			s = sim.New(sim.DefaultOptions(), quiet)
			s.Restart(800, 800)
			before := s.Bodies()
			for _, frame := range []float64{0, -1, math.NaN(), math.Inf(1)} {
				Expect(s.Advance(frame).Substeps).To(Equal(0))
			}
			Expect(s.Bodies()).To(Equal(before))
		})

		It("clamps long frames", func() {
			opts := openOptions()
			opts.MaxFrame = 0.1
			s = sim.New(opts, quiet)
			s.Restart(800, 800)
			Expect(s.Place(dynamo.Body{X: 400, Y: 400, VX: 10, R: 3})).To(BeTrue())

			report := s.Advance(5)
			Expect(report.Substeps).To(Equal(1))
			Expect(report.Dt).To(Equal(0.1))
		})

		It("hands out copies of the body set", func() {
			s = sim.New(sim.DefaultOptions(), quiet)
			s.Restart(800, 800)
			bodies := s.Bodies()
			bodies[0].X = -1000
			Expect(s.Bodies()[0].X).NotTo(Equal(-1000.0))
		})
	})

	Describe("invariants", func() {
		const w, h = 800.0, 800.0

		BeforeEach(func() {
			opts := sim.DefaultOptions()
			opts.InitialBodies = 40
			opts.Seed = 7
			s = sim.New(opts, quiet)
			s.Restart(w, h)
		})

		It("keeps every body inside the canvas", func() {
			rng := rand.New(rand.NewPCG(3, 0))
			for frame := 0; frame < 600; frame++ {
				s.Advance(0.005 + rng.Float64()*0.04)
				s.EachBody(func(i int, b dynamo.Body) {
					Expect(b.X-b.R).To(BeNumerically(">=", -1e-9), "body %d frame %d", i, frame)
					Expect(b.Y-b.R).To(BeNumerically(">=", -1e-9), "body %d frame %d", i, frame)
					Expect(b.X+b.R).To(BeNumerically("<=", w+1e-9), "body %d frame %d", i, frame)
					Expect(b.Y+b.R).To(BeNumerically("<=", h+1e-9), "body %d frame %d", i, frame)
				})
			}
		})

		It("only ever erodes painted cells", func() {
			prev := snapshot(s.Grid())
			for frame := 0; frame < 300; frame++ {
				s.Advance(1.0 / 60)
				cur := snapshot(s.Grid())
				for i := range cur {
					switch prev[i] {
					case terrain.Solid:
						Expect(cur[i]).To(Equal(terrain.Solid))
					case terrain.Empty:
						Expect(cur[i]).To(Equal(terrain.Empty))
					}
				}
				Expect(s.CountPainted()).To(Equal(s.Grid().Recount()))
				prev = cur
			}
		})

		It("conserves total kinetic energy", func() {
			e0 := dynamo.TotalKineticEnergy(s.Bodies())
			for frame := 0; frame < 300; frame++ {
				s.Advance(1.0 / 60)
			}
			e1 := dynamo.TotalKineticEnergy(s.Bodies())
			Expect(math.Abs(e1-e0) / e0).To(BeNumerically("<", 1e-9))
		})

		It("bounds per-substep travel by half a cell", func() {
			cw, ch := s.Grid().CellSize()
			for frame := 0; frame < 200; frame++ {
				maxSpeed := dynamo.MaxSpeed(s.Bodies())
				report := s.Advance(1.0 / 30)
				Expect(maxSpeed * report.Dt).To(BeNumerically("<=", sim.MoveThreshold(cw, ch)*(1+1e-12)))
			}
		})
	})

	Describe("scenario: single body crossing an open arena", func() {
		BeforeEach(func() {
			s = sim.New(openOptions(), quiet)
			s.Restart(800, 800)
			Expect(s.Place(dynamo.Body{X: 40.5 * 10, Y: 40.5 * 10, VX: 500, R: 3})).To(BeTrue())
		})

		It("erodes the next cell and reflects only x at the border", func() {
			g := s.Grid()
			Expect(g.At(40, 41)).To(Equal(terrain.Painted))

			s.Advance(0.01)
			s.Advance(0.01)
			Expect(g.At(40, 41)).To(Equal(terrain.Empty))
			Expect(g.At(40, 40)).To(Equal(terrain.Empty))

			bounced := false
			for frame := 0; frame < 200 && !bounced; frame++ {
				report := s.Advance(1.0 / 60)
				b := s.Bodies()[0]
				Expect(b.VY).To(Equal(0.0))
				if b.VX < 0 {
					bounced = true
					Expect(report.Bounces).To(Equal(1))
					Expect(b.VX).To(Equal(-500.0))
					Expect(b.X + b.R).To(BeNumerically("<", 790))
				}
			}
			Expect(bounced).To(BeTrue())
			Expect(g.At(40, 78)).To(Equal(terrain.Empty))
			Expect(g.At(39, 60)).To(Equal(terrain.Painted))
		})
	})

	Describe("scenario: head-on pair", func() {
		It("swaps velocities exactly and removes the overlap", func() {
			s = sim.New(openOptions(), quiet)
			s.Restart(800, 800)
			s.Place(dynamo.Body{X: 400, Y: 400, VX: 100, R: 10})
			s.Place(dynamo.Body{X: 416, Y: 400, VX: -100, R: 10})

			report := s.Advance(0.01)
			Expect(report.Contacts).To(Equal(1))

			bodies := s.Bodies()
			Expect(bodies[0].VX).To(Equal(-100.0))
			Expect(bodies[0].VY).To(Equal(0.0))
			Expect(bodies[1].VX).To(Equal(100.0))
			Expect(bodies[1].VY).To(Equal(0.0))

			dist := math.Hypot(bodies[1].X-bodies[0].X, bodies[1].Y-bodies[0].Y)
			Expect(dist).To(BeNumerically("~", 20, 1e-9))
		})
	})

	Describe("scenario: clearing the board", func() {
		It("reaches zero painted only when every painted cell was eroded", func() {
			opts := openOptions()
			opts.Cols, opts.Rows = 8, 8
			opts.Seed = 11
			s = sim.New(opts, quiet)
			s.Restart(80, 80)
			for i := 0; i < 6; i++ {
				Expect(s.AddBody()).To(BeTrue())
			}

			initial := s.CountPainted()
			Expect(initial).To(Equal(36))

			for frame := 0; frame < 20000 && !s.Cleared(); frame++ {
				s.Advance(1.0 / 60)
				painted := 0
				s.Grid().Each(func(_, _ int, st terrain.CellState) {
					if st == terrain.Painted {
						painted++
					}
				})
				Expect(s.CountPainted()).To(Equal(painted))
			}
			Expect(s.Cleared()).To(BeTrue())

			s.Grid().Each(func(row, col int, st terrain.CellState) {
				border := row == 0 || col == 0 || row == 7 || col == 7
				if border {
					Expect(st).To(Equal(terrain.Solid))
				} else {
					Expect(st).To(Equal(terrain.Empty))
				}
			})

			s.Restart(80, 80)
			Expect(s.CountPainted()).To(Equal(initial))
		})
	})
})
