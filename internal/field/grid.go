package field

import (
	"fmt"
	"math"
)

// Grid is an n×n field of concentrations stored in row-major order.
type Grid struct {
	n    int
	data []float64
}

// New allocates a zeroed n×n grid. n must be positive.
func New(n int) *Grid {
	if n < 1 {
		panic(fmt.Sprintf("field: grid size must be positive, got %d", n))
	}
	return &Grid{n: n, data: make([]float64, n*n)}
}

// NewFilled allocates an n×n grid with every cell set to v.
func NewFilled(n int, v float64) *Grid {
	g := New(n)
	g.Fill(v)
	return g
}

// FromRows builds a grid from a square slice of rows.
func FromRows(rows [][]float64) (*Grid, error) {
	n := len(rows)
	if n == 0 {
		return nil, fmt.Errorf("field: empty grid")
	}
	g := New(n)
	for i, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("field: row %d has %d columns, want %d", i, len(row), n)
		}
		copy(g.data[i*n:(i+1)*n], row)
	}
	return g, nil
}

// FromValues wraps a copy of a row-major slice of n*n values.
func FromValues(n int, values []float64) (*Grid, error) {
	if n < 1 || len(values) != n*n {
		return nil, fmt.Errorf("field: %d values do not form a %dx%d grid", len(values), n, n)
	}
	g := New(n)
	copy(g.data, values)
	return g, nil
}

func (g *Grid) Size() int { return g.n }

// Shape returns (rows, cols), which are always equal.
func (g *Grid) Shape() (int, int) { return g.n, g.n }

// Wrap maps any integer index into [0, n).
func (g *Grid) Wrap(i int) int {
	return (i%g.n + g.n) % g.n
}

func (g *Grid) At(i, j int) float64 {
	return g.data[g.Wrap(i)*g.n+g.Wrap(j)]
}

func (g *Grid) Set(i, j int, v float64) {
	g.data[g.Wrap(i)*g.n+g.Wrap(j)] = v
}

// Row exposes row i (unwrapped) of the backing slice. Writes go through to the grid.
func (g *Grid) Row(i int) []float64 {
	return g.data[i*g.n : (i+1)*g.n]
}

// Cells exposes the backing slice so kernels can stream over it directly.
func (g *Grid) Cells() []float64 { return g.data }

// Values returns a row-major copy that callers may keep.
func (g *Grid) Values() []float64 {
	c := make([]float64, len(g.data))
	copy(c, g.data)
	return c
}

func (g *Grid) Clone() *Grid {
	c := &Grid{n: g.n, data: make([]float64, len(g.data))}
	copy(c.data, g.data)
	return c
}

// CopyFrom overwrites g with the contents of src.
func (g *Grid) CopyFrom(src *Grid) {
	MustMatch(g, src)
	copy(g.data, src.data)
}

func (g *Grid) Fill(v float64) {
	for i := range g.data {
		g.data[i] = v
	}
}

func (g *Grid) Mean() float64 {
	sum := 0.0
	for _, v := range g.data {
		sum += v
	}
	return sum / float64(len(g.data))
}

func (g *Grid) MinMax() (float64, float64) {
	lo, hi := g.data[0], g.data[0]
	for _, v := range g.data[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// CheckFinite reports the first NaN or Inf cell in row-major order.
func (g *Grid) CheckFinite() (row, col int, ok bool) {
	for idx, v := range g.data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return idx / g.n, idx % g.n, false
		}
	}
	return -1, -1, true
}

// SameShape reports whether a and b have identical dimensions.
func SameShape(a, b *Grid) bool {
	return a != nil && b != nil && a.n == b.n
}

// MustMatch panics when the grids differ in shape. Mismatched grids inside
// the solver mean the caller broke an invariant, not that input was bad.
func MustMatch(grids ...*Grid) {
	for _, g := range grids[1:] {
		if !SameShape(grids[0], g) {
			panic("field: grid shape mismatch")
		}
	}
}
