package field

import "sync"

// Pool hands out scratch grids of one size. Grids returned by Get hold
// arbitrary values; callers overwrite every cell before reading.
type Pool struct {
	pool sync.Pool
	n    int
}

func NewPool(n int) *Pool {
	return &Pool{
		n: n,
		pool: sync.Pool{
			New: func() interface{} {
				return New(n)
			},
		},
	}
}

func (p *Pool) Size() int { return p.n }

func (p *Pool) Get() *Grid {
	return p.pool.Get().(*Grid)
}

// Put returns g to the pool. Grids of another size are dropped.
func (p *Pool) Put(g *Grid) {
	if g != nil && g.n == p.n {
		p.pool.Put(g)
	}
}

// GetCopy returns a pooled grid holding a copy of src.
func (p *Pool) GetCopy(src *Grid) *Grid {
	dst := p.Get()
	dst.CopyFrom(src)
	return dst
}
