package stencil

import "github.com/san-kum/grayscott/internal/field"

// Loop visits every cell and reads its four neighbours individually.
type Loop struct {
	mode    BoundaryMode
	workers int
	pad     *field.Padded
}

func NewLoop(mode BoundaryMode, workers int) *Loop {
	return &Loop{mode: mode, workers: field.Workers(workers)}
}

func (l *Loop) Name() string { return "loop/" + l.mode.String() }

func (l *Loop) Apply(dst, src *field.Grid, h2 float64) {
	checkArgs(dst, src)
	if l.mode == Ghost {
		l.pad = src.Pad(l.pad)
		l.ghost(dst, l.pad, h2)
		return
	}
	l.periodic(dst, src, h2)
}

func (l *Loop) periodic(dst, src *field.Grid, h2 float64) {
	n := src.Size()
	f := src.Cells()
	out := dst.Cells()
	field.ForRows(n, l.workers, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			im := (i - 1 + n) % n
			ip := (i + 1) % n
			for j := 0; j < n; j++ {
				jm := (j - 1 + n) % n
				jp := (j + 1) % n
				out[i*n+j] = five(f[im*n+j], f[ip*n+j], f[i*n+jm], f[i*n+jp], f[i*n+j], h2)
			}
		}
	})
}

func (l *Loop) ghost(dst *field.Grid, p *field.Padded, h2 float64) {
	n := p.N
	out := dst.Cells()
	field.ForRows(n, l.workers, func(lo, hi int) {
		for i := lo + 1; i <= hi; i++ {
			for j := 1; j <= n; j++ {
				out[(i-1)*n+j-1] = five(p.At(i-1, j), p.At(i+1, j), p.At(i, j-1), p.At(i, j+1), p.At(i, j), h2)
			}
		}
	})
}
