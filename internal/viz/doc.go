// Package viz renders an erosion arena in the terminal.
//
// [Model] is a Bubble Tea program that advances a [sim.Simulation] on every
// tick, using the real time between ticks as the frame time, and draws the
// grid on a half-block [Canvas]: each terminal cell shows two grid rows.
//
// # Key Bindings
//
//	Space/B - Add a body
//	P       - Pause/Resume
//	R       - Restart the arena
//	C       - Randomize the arena colours
//	T       - Cycle themes
//	V       - Toggle the velocity overlay
//	?       - Show help overlay
//	Q       - Quit
//
// With auto-pause enabled the model pauses itself once no painted cell is
// left.
package viz
