// Package sim advances the arena: a terrain grid, a set of bodies, and the
// sub-stepped integrator that moves them.
//
// A [Simulation] is driven from outside. A viewer or headless runner calls
// [Simulation.Advance] once per frame with the elapsed time and then reads
// the grid and bodies to draw or measure them. [SubstepCount] splits each
// frame so that no body moves more than half a cell per sub-step.
//
// # Example
//
//	s := sim.New(sim.DefaultOptions(), nil)
//	s.Restart(800, 800)
//	for !s.Cleared() {
//	    s.Advance(1.0 / 60)
//	}
//
// # Thread Safety
//
// Simulation instances are NOT thread-safe and Advance must not be called
// again before it returns. Run independent simulations on separate
// goroutines instead of sharing one.
package sim
