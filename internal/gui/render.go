package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/erosion/internal/dynamo"
	"github.com/san-kum/erosion/internal/terrain"
)

func (a *App) drawArena() {
	g := a.Sim.Grid()
	g.Each(func(row, col int, s terrain.CellState) {
		var color rl.Color
		switch s {
		case terrain.Painted:
			color = a.Palette.Painted
		case terrain.Solid:
			color = a.Palette.Solid
		default:
			return
		}
		r := g.CellRect(row, col)
		rl.DrawRectangleRec(rl.NewRectangle(float32(r.X), float32(r.Y), float32(r.W), float32(r.H)), color)
	})
}

func (a *App) drawBodies() {
	a.Sim.EachBody(func(_ int, b dynamo.Body) {
		rl.DrawCircleV(rl.NewVector2(float32(b.X), float32(b.Y)), float32(b.R), a.Palette.Body)
	})
}

func (a *App) DrawHUD() {
	a.drawText("erosion", 20, 20, 24, a.Palette.Text)

	status, col := "RUNNING", a.Palette.Text
	switch {
	case a.Cleared && a.Sim.Paused():
		status = "CLEARED"
	case a.Sim.Paused():
		status, col = "PAUSED", a.Palette.TextDim
	}
	w := int(rl.GetScreenWidth())
	h := int(rl.GetScreenHeight())
	a.drawText(status, w-120, 20, 16, col)

	a.drawText(fmt.Sprintf("bodies %d  painted %d/%d  substeps %d",
		a.Sim.BodyCount(), a.Sim.CountPainted(), a.Sim.Grid().InitialPainted(), a.Report.Substeps),
		20, 50, 14, a.Palette.Text)

	a.DrawTelemetry(20, h-110)

	a.drawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), 20, h-30, 14, a.Palette.TextDim)
	if a.ShowHelp {
		a.drawText("[SPACE/B] ADD  [CLICK] PLACE  [P] PAUSE  [R] RESTART  [C] COLOURS  [Q] QUIT", 120, h-30, 14, a.Palette.TextDim)
	} else {
		a.drawText("[H] HELP", 120, h-30, 14, a.Palette.TextDim)
	}
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawText(text, int32(x), int32(y), int32(size), color)
}

// DrawTelemetry plots the coverage history as a line strip on a fixed
// 0..1 scale.
func (a *App) DrawTelemetry(rectX, rectY int) {
	if len(a.Telemetry) < 2 {
		return
	}

	width, height := 300, 60

	points := make([]rl.Vector2, len(a.Telemetry))
	for i, val := range a.Telemetry {
		px := float32(rectX) + (float32(i)/float32(maxTelemetry))*float32(width)
		py := float32(rectY+height) - float32(val)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}

	rl.DrawRectangleLines(int32(rectX), int32(rectY), int32(width), int32(height), a.Palette.TextDim)
	rl.DrawLineStrip(points, a.Palette.Text)
	a.drawText(fmt.Sprintf("coverage %.1f%%", 100*a.Telemetry[len(a.Telemetry)-1]), rectX+width+10, rectY+height-10, 14, a.Palette.Text)
}
