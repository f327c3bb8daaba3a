package terrain

import (
	"iter"
	"math"
)

// Grid stores cell states in row-major order together with the canvas
// geometry they are laid over. A Grid is never resized; callers build a new
// one when the canvas changes.
type Grid struct {
	Cols, Rows int

	cellW, cellH   float64
	cells          []CellState
	painted        int
	initialPainted int
}

// New allocates a grid over a width x height canvas, fills the interior with
// Painted, stamps mask centered as Solid and seals the border.
func New(cols, rows int, width, height float64, mask Pattern) *Grid {
	if cols <= 0 {
		cols = 1
	}
	if rows <= 0 {
		rows = 1
	}
	g := &Grid{
		Cols:  cols,
		Rows:  rows,
		cellW: width / float64(cols),
		cellH: height / float64(rows),
		cells: make([]CellState, cols*rows),
	}
	g.stamp(mask)
	g.seal()
	g.painted = g.Recount()
	g.initialPainted = g.painted
	return g
}

func (g *Grid) stamp(mask Pattern) {
	if len(mask) == 0 {
		return
	}
	startRow := max(0, (g.Rows-mask.Height())/2)
	startCol := max(0, (g.Cols-mask.Width())/2)
	for r, line := range mask {
		for c := 0; c < len(line); c++ {
			if line[c] != '*' {
				continue
			}
			gr, gc := startRow+r, startCol+c
			if g.inBounds(gr, gc) {
				g.cells[g.Index(gr, gc)] = Solid
			}
		}
	}
}

func (g *Grid) seal() {
	for c := 0; c < g.Cols; c++ {
		g.cells[g.Index(0, c)] = Solid
		g.cells[g.Index(g.Rows-1, c)] = Solid
	}
	for r := 0; r < g.Rows; r++ {
		g.cells[g.Index(r, 0)] = Solid
		g.cells[g.Index(r, g.Cols-1)] = Solid
	}
}

// Index returns the linear slice index for (row, col).
func (g *Grid) Index(row, col int) int { return row*g.Cols + col }

func (g *Grid) inBounds(row, col int) bool {
	return row >= 0 && row < g.Rows && col >= 0 && col < g.Cols
}

// At returns the state of a cell. Out-of-range lookups read as Solid, the
// same as the sealed border.
func (g *Grid) At(row, col int) CellState {
	if !g.inBounds(row, col) {
		return Solid
	}
	return g.cells[g.Index(row, col)]
}

// Erode turns a Painted cell Empty and reports whether it did.
func (g *Grid) Erode(row, col int) bool {
	if !g.inBounds(row, col) {
		return false
	}
	i := g.Index(row, col)
	if g.cells[i] != Painted {
		return false
	}
	g.cells[i] = Empty
	g.painted--
	return true
}

func (g *Grid) CountPainted() int { return g.painted }

// InitialPainted is the painted count right after construction.
func (g *Grid) InitialPainted() int { return g.initialPainted }

// Recount scans every cell instead of trusting the running counter.
func (g *Grid) Recount() int {
	n := 0
	for _, s := range g.cells {
		if s == Painted {
			n++
		}
	}
	return n
}

func (g *Grid) CellSize() (w, h float64) { return g.cellW, g.cellH }

// CanvasSize returns the canvas the grid was laid over.
func (g *Grid) CanvasSize() (w, h float64) {
	return g.cellW * float64(g.Cols), g.cellH * float64(g.Rows)
}

func (g *Grid) CellRect(row, col int) Rect {
	return Rect{
		X: float64(col) * g.cellW,
		Y: float64(row) * g.cellH,
		W: g.cellW,
		H: g.cellH,
	}
}

// CellAt maps a canvas point to the cell containing it, clipped to the grid.
func (g *Grid) CellAt(x, y float64) (row, col int) {
	row = clampIndex(floorDiv(y, g.cellH), g.Rows)
	col = clampIndex(floorDiv(x, g.cellW), g.Cols)
	return row, col
}

// Each visits every cell in row-major order.
func (g *Grid) Each(fn func(row, col int, s CellState)) {
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			fn(r, c, g.cells[g.Index(r, c)])
		}
	}
}

// Region is an inclusive, grid-clipped block of cell indices. An empty
// region has MinRow > MaxRow or MinCol > MaxCol.
type Region struct {
	MinRow, MaxRow int
	MinCol, MaxCol int
}

func (r Region) Empty() bool {
	return r.MinRow > r.MaxRow || r.MinCol > r.MaxCol
}

func (r Region) Len() int {
	if r.Empty() {
		return 0
	}
	return (r.MaxRow - r.MinRow + 1) * (r.MaxCol - r.MinCol + 1)
}

// Cells yields (row, col) pairs in row-major order.
func (r Region) Cells() iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		for row := r.MinRow; row <= r.MaxRow; row++ {
			for col := r.MinCol; col <= r.MaxCol; col++ {
				if !yield(row, col) {
					return
				}
			}
		}
	}
}

// CellsIntersecting returns the cells whose boxes could overlap the circle.
func (g *Grid) CellsIntersecting(cx, cy, radius float64) Region {
	return Region{
		MinRow: max(0, floorDiv(cy-radius, g.cellH)),
		MaxRow: min(g.Rows-1, floorDiv(cy+radius, g.cellH)),
		MinCol: max(0, floorDiv(cx-radius, g.cellW)),
		MaxCol: min(g.Cols-1, floorDiv(cx+radius, g.cellW)),
	}
}

func floorDiv(v, size float64) int {
	if size <= 0 || math.IsNaN(v) {
		return 0
	}
	f := math.Floor(v / size)
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	if f < math.MinInt32 {
		return math.MinInt32
	}
	return int(f)
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
