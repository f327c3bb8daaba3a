// Package terrain implements the destructible cell grid of the arena.
//
// A [Grid] is a row-major array of [CellState] values. The outer ring of a
// grid is always [Solid]; interior cells start [Painted] unless a [Pattern]
// stamps them [Solid]. The only transition during play is Painted to Empty,
// performed by [Grid.Erode].
package terrain
