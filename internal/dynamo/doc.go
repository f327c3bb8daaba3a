// Package dynamo provides the core value types shared by the arena simulation.
//
// The package defines the plain data the other packages pass around:
//
//   - [Body]: a moving circle (position, velocity, radius)
//   - [Frame]: a read-only view of one simulated frame for metrics
//   - [Metric]: observer of frames, reduced to a single value
//
// Bodies carry no behaviour beyond small geometric helpers; motion and
// collisions live in the sim and collision packages.
//
// # Thread Safety
//
// Body slices are owned by a single simulation. Share copies, not the
// backing slice, across goroutines.
package dynamo
