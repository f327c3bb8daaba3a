package viz

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/erosion/internal/dynamo"
	"github.com/san-kum/erosion/internal/sim"
	"github.com/san-kum/erosion/internal/terrain"
)

const (
	historyCapacity = 600
	tickInterval    = time.Second / 60
	// velocityScale is how far ahead, in seconds, the velocity overlay points.
	velocityScale = 0.05
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// LiveOptions configures the terminal viewer.
type LiveOptions struct {
	Title     string
	Width     float64
	Height    float64
	FrameDt   float64
	AutoPause bool
	Theme     string
	Seed      int64
}

// Model drives a simulation from bubbletea ticks and renders it as half
// blocks, one sub-pixel per grid cell.
type Model struct {
	sim     *sim.Simulation
	opts    LiveOptions
	canvas  *Canvas
	theme   Theme
	palette Palette
	rng     *rand.Rand

	lastTick     time.Time
	elapsed      float64
	frames       int
	report       sim.StepReport
	cleared      bool
	showVelocity bool
	showHelp     bool
	coverage     []float64
	substeps     []float64
}

// NewModel restarts s on the configured canvas and wraps it for bubbletea.
func NewModel(s *sim.Simulation, opts LiveOptions) Model {
	if !(opts.FrameDt > 0) {
		opts.FrameDt = 1.0 / 60
	}
	theme := GetTheme(opts.Theme)
	s.Restart(opts.Width, opts.Height)
	g := s.Grid()

	return Model{
		sim:      s,
		opts:     opts,
		canvas:   NewCanvas(g.Cols, g.Rows),
		theme:    theme,
		palette:  theme.Arena,
		rng:      rand.New(rand.NewPCG(uint64(opts.Seed), 2)),
		coverage: make([]float64, 0, historyCapacity),
		substeps: make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ", "b":
			m.sim.AddBody()
		case "p":
			m.sim.TogglePaused()
		case "r":
			m.restart()
		case "c":
			m.palette = RandomPalette(m.rng)
		case "t":
			m.theme = NextTheme(m.theme.Name)
			m.palette = m.theme.Arena
		case "v":
			m.showVelocity = !m.showVelocity
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		m.step(time.Time(msg))
		return m, tick()
	}
	return m, nil
}

// frameTime measures real time between ticks. The first tick, and any tick
// that arrives out of order, uses the nominal frame time.
func (m *Model) frameTime(now time.Time) float64 {
	dt := m.opts.FrameDt
	if !m.lastTick.IsZero() {
		if d := now.Sub(m.lastTick).Seconds(); d > 0 {
			dt = d
		}
	}
	m.lastTick = now
	return dt
}

func (m *Model) step(now time.Time) {
	dt := m.frameTime(now)
	if m.sim.Paused() {
		return
	}

	m.report = m.sim.Advance(dt)
	m.elapsed += m.report.Dt * float64(m.report.Substeps)
	m.frames++

	m.coverage = appendCapped(m.coverage, m.coverageFraction())
	m.substeps = appendCapped(m.substeps, float64(m.report.Substeps))

	if m.opts.AutoPause && !m.cleared && m.sim.Cleared() {
		m.cleared = true
		m.sim.SetPaused(true)
	}
}

func (m *Model) restart() {
	w, h := m.sim.Size()
	m.sim.Restart(w, h)
	m.elapsed = 0
	m.frames = 0
	m.cleared = false
	m.report = sim.StepReport{}
	m.coverage = m.coverage[:0]
	m.substeps = m.substeps[:0]
}

func appendCapped(xs []float64, v float64) []float64 {
	xs = append(xs, v)
	if len(xs) > historyCapacity {
		xs = xs[1:]
	}
	return xs
}

func (m *Model) coverageFraction() float64 {
	initial := m.sim.Grid().InitialPainted()
	if initial == 0 {
		return 1
	}
	return 1 - float64(m.sim.CountPainted())/float64(initial)
}

func shadeOf(s terrain.CellState) Shade {
	switch s {
	case terrain.Painted:
		return ShadePainted
	case terrain.Solid:
		return ShadeSolid
	}
	return ShadeEmpty
}

// draw copies the grid and bodies onto the canvas.
func (m *Model) draw() {
	g := m.sim.Grid()
	g.Each(func(row, col int, s terrain.CellState) {
		m.canvas.Set(col, row, shadeOf(s))
	})

	cellW, cellH := g.CellSize()
	if !(cellW > 0) || !(cellH > 0) {
		return
	}
	m.sim.EachBody(func(_ int, b dynamo.Body) {
		cx, cy := b.X/cellW, b.Y/cellH
		if m.showVelocity {
			ex, ey := (b.X+b.VX*velocityScale)/cellW, (b.Y+b.VY*velocityScale)/cellH
			m.canvas.DrawLine(int(cx), int(cy), int(ex), int(ey), ShadeTrail)
		}
		m.canvas.FillDisc(cx, cy, b.R/cellW, ShadeBody)
	})
}

// View renders the TUI interface.
func (m Model) View() string {
	m.draw()
	st := stylesFor(m.theme)

	canvasView := canvasStyle.Render(m.canvas.Render(m.palette))

	var s strings.Builder
	title := m.opts.Title
	if title == "" {
		title = "erosion"
	}
	s.WriteString(st.header.Render(strings.ToUpper(title)) + "\n")
	s.WriteString(m.status(st) + "\n\n")

	initial := m.sim.Grid().InitialPainted()
	coverage := m.coverageFraction()
	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + st.value.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", m.elapsed))
	row("Frames", fmt.Sprintf("%d", m.frames))
	row("Bodies", fmt.Sprintf("%d", m.sim.BodyCount()))
	row("Painted", fmt.Sprintf("%d / %d", m.sim.CountPainted(), initial))
	row("Coverage", fmt.Sprintf("%5.1f%% ", 100*coverage)+ProgressBar(coverage, 12, m.theme))
	row("Substeps", fmt.Sprintf("%d  %s", m.report.Substeps, SparklineChart(m.substeps, 12)))
	row("Max speed", fmt.Sprintf("%.0f", maxSpeed(m.sim)))
	row("Theme", m.theme.Name)

	if len(m.coverage) > 1 {
		chart := asciigraph.Plot(m.coverage,
			asciigraph.Height(5),
			asciigraph.Width(30),
			asciigraph.LowerBound(0),
			asciigraph.UpperBound(1),
			asciigraph.Caption("Coverage"),
		)
		s.WriteString(st.graph.Render(chart) + "\n")
	}

	s.WriteString(helpStyle.Render("SP/B:Add  P:Pause  R:Restart\nC:Colours T:Theme  V:Velocity\n?:Help    Q:Quit"))
	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)

	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space/B  - Add a body               ║
║  P        - Pause/Resume             ║
║  R        - Restart the arena        ║
║  C        - Randomize colours        ║
║  T        - Cycle themes             ║
║  V        - Toggle velocity overlay  ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝
` + "\n" + mainView
	}
	return mainView
}

func (m Model) status(st themeStyles) string {
	switch {
	case m.cleared && m.sim.Paused():
		return st.cleared.Render("CLEARED")
	case m.sim.Paused():
		return st.paused.Render("PAUSED")
	}
	return st.running.Render("RUNNING")
}

func maxSpeed(s *sim.Simulation) float64 {
	top := 0.0
	s.EachBody(func(_ int, b dynamo.Body) {
		top = math.Max(top, b.Speed())
	})
	return top
}
