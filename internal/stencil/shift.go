package stencil

import "github.com/san-kum/grayscott/internal/field"

// Shift builds whole-array shifted views of the grid and combines them
// element-wise. In Periodic mode the views are rolled copies; in Ghost mode
// they are offset slices of the padded buffer.
type Shift struct {
	mode    BoundaryMode
	workers int
	pool    *field.Pool
	pad     *field.Padded
}

func NewShift(mode BoundaryMode, workers int) *Shift {
	return &Shift{mode: mode, workers: field.Workers(workers)}
}

func (s *Shift) Name() string { return "shift/" + s.mode.String() }

func (s *Shift) Apply(dst, src *field.Grid, h2 float64) {
	checkArgs(dst, src)
	if s.mode == Ghost {
		s.pad = src.Pad(s.pad)
		s.slices(dst, s.pad, h2)
		return
	}
	s.rolled(dst, src, h2)
}

// Roll returns g shifted by (di, dj) with wrap-around: out[i,j] = g[i-di, j-dj].
func Roll(dst, g *field.Grid, di, dj int) {
	checkArgs(dst, g)
	n := g.Size()
	for i := 0; i < n; i++ {
		srow := g.Row(g.Wrap(i - di))
		drow := dst.Row(i)
		k := ((dj % n) + n) % n
		copy(drow[k:], srow[:n-k])
		copy(drow[:k], srow[n-k:])
	}
}

func (s *Shift) rolled(dst, src *field.Grid, h2 float64) {
	n := src.Size()
	if s.pool == nil || s.pool.Size() != n {
		s.pool = field.NewPool(n)
	}
	up, down, left, right := s.pool.Get(), s.pool.Get(), s.pool.Get(), s.pool.Get()
	defer func() {
		s.pool.Put(up)
		s.pool.Put(down)
		s.pool.Put(left)
		s.pool.Put(right)
	}()

	Roll(up, src, 1, 0)     // f[i-1, j]
	Roll(down, src, -1, 0)  // f[i+1, j]
	Roll(left, src, 0, 1)   // f[i, j-1]
	Roll(right, src, 0, -1) // f[i, j+1]

	u, d, l, r, c := up.Cells(), down.Cells(), left.Cells(), right.Cells(), src.Cells()
	out := dst.Cells()
	field.ForRows(n, s.workers, func(lo, hi int) {
		for k := lo * n; k < hi*n; k++ {
			out[k] = five(u[k], d[k], l[k], r[k], c[k], h2)
		}
	})
}

func (s *Shift) slices(dst *field.Grid, p *field.Padded, h2 float64) {
	n := p.N
	field.ForRows(n, s.workers, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			above, row, below := p.Row(i), p.Row(i+1), p.Row(i+2)
			up := above[1 : n+1]
			down := below[1 : n+1]
			left := row[0:n]
			right := row[2 : n+2]
			center := row[1 : n+1]
			out := dst.Row(i)
			for j := range out {
				out[j] = five(up[j], down[j], left[j], right[j], center[j], h2)
			}
		}
	})
}
