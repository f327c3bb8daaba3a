// Package collision detects and resolves contacts for one integration step.
//
// Two kinds of contact are handled:
//
//   - body vs terrain: painted cells under a body erode, solid cells reflect
//     it ([ResolveTerrain]), and the canvas edges act as a last wall
//     ([ClampToCanvas])
//   - body vs body: overlapping pairs are pushed apart and, when still
//     approaching, exchange normal velocity as equal masses ([ResolvePair])
//
// Solid hits use the body's previous position against the cell rectangle
// grown by the body radius. The side whose grown boundary was crossed during
// the step is the side that was hit, which a thin cell cannot tell from the
// current overlap alone.
package collision
