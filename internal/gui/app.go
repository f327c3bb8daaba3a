// Package gui is a raylib window onto an erosion arena. The canvas follows
// the window: resizing it restarts the arena at the new size.
package gui

import (
	"log/slog"
	"math"
	"math/rand/v2"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/erosion/internal/dynamo"
	"github.com/san-kum/erosion/internal/sim"
)

const (
	defaultWidth  = 800
	defaultHeight = 800
	maxTelemetry  = 400
)

// Palette holds the arena and HUD colours.
type Palette struct {
	Empty   rl.Color
	Painted rl.Color
	Solid   rl.Color
	Body    rl.Color
	Text    rl.Color
	TextDim rl.Color
}

var DefaultPalette = Palette{
	Empty:   rl.NewColor(10, 10, 10, 255),
	Painted: rl.NewColor(228, 63, 90, 255),
	Solid:   rl.NewColor(245, 245, 245, 255),
	Body:    rl.NewColor(255, 212, 96, 255),
	Text:    rl.NewColor(180, 180, 180, 255),
	TextDim: rl.NewColor(90, 90, 90, 255),
}

// RandomPalette keeps the background and HUD and recolours the arena.
func RandomPalette(rng *rand.Rand) Palette {
	random := func(lo int) rl.Color {
		c := func() uint8 { return uint8(lo + rng.IntN(256-lo)) }
		return rl.NewColor(c(), c(), c(), 255)
	}
	p := DefaultPalette
	p.Painted = random(60)
	p.Solid = random(120)
	p.Body = random(200)
	return p
}

type Options struct {
	Title     string
	Width     int
	Height    int
	AutoPause bool
	Seed      int64
}

type App struct {
	Sim       *sim.Simulation
	Opts      Options
	Palette   Palette
	Report    sim.StepReport
	Cleared   bool
	ShowHelp  bool
	Telemetry []float64 // coverage history for the HUD graph
	Quit      bool

	rng    *rand.Rand
	logger *slog.Logger
}

// initWindow opens a resizable window and disables the default exit key.
func initWindow(opts Options) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(opts.Width), int32(opts.Height), opts.Title)
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

// NewApp wraps s and restarts it on the current window size.
func NewApp(s *sim.Simulation, opts Options, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{
		Sim:       s,
		Opts:      opts,
		Palette:   DefaultPalette,
		Telemetry: make([]float64, 0, maxTelemetry),
		rng:       rand.New(rand.NewPCG(uint64(opts.Seed), 3)),
		logger:    logger,
	}
	a.restart(float64(rl.GetScreenWidth()), float64(rl.GetScreenHeight()))
	return a
}

// Run opens the window and blocks until it is closed or Q is pressed.
func Run(s *sim.Simulation, opts Options, logger *slog.Logger) {
	if opts.Width <= 0 {
		opts.Width = defaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = defaultHeight
	}
	if opts.Title == "" {
		opts.Title = "erosion"
	}
	initWindow(opts)
	defer rl.CloseWindow()
	app := NewApp(s, opts, logger)
	app.RunLoop()
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() && !a.Quit {
		a.Update()
		a.Draw()
	}
}

func (a *App) restart(w, h float64) {
	a.Sim.Restart(w, h)
	a.resetHUD()
}

func (a *App) resetHUD() {
	a.Cleared = false
	a.Report = sim.StepReport{}
	a.Telemetry = a.Telemetry[:0]
}

// Update handles input, window resizes and advances the arena by the last
// frame's duration.
func (a *App) Update() {
	if rl.IsKeyPressed(rl.KeyQ) {
		a.Quit = true
		return
	}

	if rl.IsWindowResized() {
		w, h := float64(rl.GetScreenWidth()), float64(rl.GetScreenHeight())
		a.Sim.Resize(w, h)
		a.resetHUD()
	}

	switch {
	case rl.IsKeyPressed(rl.KeySpace), rl.IsKeyPressed(rl.KeyB):
		a.Sim.AddBody()
	case rl.IsKeyPressed(rl.KeyP):
		a.Sim.TogglePaused()
	case rl.IsKeyPressed(rl.KeyR):
		w, h := a.Sim.Size()
		a.restart(w, h)
	case rl.IsKeyPressed(rl.KeyC):
		a.Palette = RandomPalette(a.rng)
	case rl.IsKeyPressed(rl.KeyH):
		a.ShowHelp = !a.ShowHelp
	}

	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		pos := rl.GetMousePosition()
		a.placeAt(float64(pos.X), float64(pos.Y))
	}

	if a.Sim.Paused() {
		return
	}
	a.Report = a.Sim.Advance(float64(rl.GetFrameTime()))
	a.Telemetry = append(a.Telemetry, a.coverage())
	if len(a.Telemetry) > maxTelemetry {
		a.Telemetry = a.Telemetry[1:]
	}

	if a.Opts.AutoPause && !a.Cleared && a.Sim.Cleared() {
		a.Cleared = true
		a.Sim.SetPaused(true)
		a.logger.Info("board cleared", "bodies", a.Sim.BodyCount())
	}
}

// placeAt drops a body under the cursor heading in a random direction, with
// the mean configured speed and radius.
func (a *App) placeAt(x, y float64) {
	opts := a.Sim.Options()
	cellW, _ := a.Sim.Grid().CellSize()
	speed := (opts.Speed.Min + opts.Speed.Max) / 2
	radius := math.Max(1, (opts.RadiusCells.Min+opts.RadiusCells.Max)/2*cellW)
	angle := a.rng.Float64() * 2 * math.Pi
	sin, cos := math.Sincos(angle)

	a.Sim.Place(dynamo.Body{X: x, Y: y, VX: speed * cos, VY: speed * sin, R: radius})
}

func (a *App) coverage() float64 {
	initial := a.Sim.Grid().InitialPainted()
	if initial == 0 {
		return 1
	}
	return 1 - float64(a.Sim.CountPainted())/float64(initial)
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(a.Palette.Empty)

	a.drawArena()
	a.drawBodies()
	a.DrawHUD()

	rl.EndDrawing()
}
