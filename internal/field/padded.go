package field

// Padded is a ghost-node copy of a Grid: an (n+2)×(n+2) buffer whose inner
// block holds the grid and whose border rows and columns are copied from the
// opposite edge, so reading one cell past any edge is the periodic neighbour.
type Padded struct {
	N      int
	Stride int
	data   []float64
}

// NewPadded allocates a ghost buffer for grids of size n.
func NewPadded(n int) *Padded {
	s := n + 2
	return &Padded{N: n, Stride: s, data: make([]float64, s*s)}
}

// At reads padded coordinates; (1, 1) is the grid's (0, 0).
func (p *Padded) At(i, j int) float64 { return p.data[i*p.Stride+j] }

// Row returns padded row i, Stride values long.
func (p *Padded) Row(i int) []float64 { return p.data[i*p.Stride : (i+1)*p.Stride] }

// Pad fills dst from g, allocating a new buffer when dst is nil or sized for
// a different grid. Corner cells wrap on both axes.
func (g *Grid) Pad(dst *Padded) *Padded {
	n := g.n
	if dst == nil || dst.N != n {
		dst = NewPadded(n)
	}
	s := dst.Stride
	for i := 0; i < n; i++ {
		row := g.data[i*n : (i+1)*n]
		prow := dst.data[(i+1)*s : (i+2)*s]
		copy(prow[1:n+1], row)
		prow[0] = row[n-1]
		prow[n+1] = row[0]
	}
	copy(dst.data[0:s], dst.data[n*s:(n+1)*s])
	copy(dst.data[(n+1)*s:(n+2)*s], dst.data[s:2*s])
	return dst
}
