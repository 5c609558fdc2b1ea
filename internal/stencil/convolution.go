package stencil

import "github.com/san-kum/grayscott/internal/field"

// Kernel is a 3×3 stencil, indexed [row offset+1][col offset+1].
type Kernel [3][3]float64

// FivePoint is the discrete Laplacian kernel.
var FivePoint = Kernel{
	{0, 1, 0},
	{1, -4, 1},
	{0, 1, 0},
}

// Convolution applies a 3×3 kernel with wrap-around boundaries. It is
// asymptotically no faster than Shift and exists to cross-check the
// hand-written stencils.
type Convolution struct {
	Kernel  Kernel
	mode    BoundaryMode
	workers int
	pad     *field.Padded
}

func NewConvolution(mode BoundaryMode, workers int) *Convolution {
	return &Convolution{Kernel: FivePoint, mode: mode, workers: field.Workers(workers)}
}

func (c *Convolution) Name() string { return "convolution/" + c.mode.String() }

func (c *Convolution) Apply(dst, src *field.Grid, h2 float64) {
	checkArgs(dst, src)
	n := src.Size()
	out := dst.Cells()
	k := c.Kernel

	if c.mode == Ghost {
		c.pad = src.Pad(c.pad)
		p := c.pad
		field.ForRows(n, c.workers, func(lo, hi int) {
			for i := lo; i < hi; i++ {
				for j := 0; j < n; j++ {
					acc := 0.0
					for di := 0; di < 3; di++ {
						for dj := 0; dj < 3; dj++ {
							acc += k[di][dj] * p.At(i+di, j+dj)
						}
					}
					out[i*n+j] = acc / h2
				}
			}
		})
		return
	}

	f := src.Cells()
	field.ForRows(n, c.workers, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			for j := 0; j < n; j++ {
				acc := 0.0
				for di := -1; di <= 1; di++ {
					row := ((i+di)%n + n) % n
					for dj := -1; dj <= 1; dj++ {
						col := ((j+dj)%n + n) % n
						acc += k[di+1][dj+1] * f[row*n+col]
					}
				}
				out[i*n+j] = acc / h2
			}
		}
	})
}
