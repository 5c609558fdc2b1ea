package sim

import (
	"fmt"

	"github.com/san-kum/grayscott/internal/field"
	"github.com/san-kum/grayscott/internal/model"
)

// SeedHalfWidth places the seed square at [n/2-SeedHalfWidth, n/2+SeedHalfWidth+1).
const SeedHalfWidth = 9

// SeedSquare sets U = 1 and V = 0 everywhere, then perturbs a centred
// square with U = 0.5 + r and V = 0.25 + r', r, r' ∈ [0, 0.1). The U block
// is drawn from Src first in row-major order, then the V block. The square
// is clipped to the grid.
type SeedSquare struct {
	Src Source
}

func (s SeedSquare) Name() string { return "seed" }

func (s SeedSquare) Init(st *model.State) error {
	if s.Src == nil {
		return fmt.Errorf("seed initializer: nil random source")
	}
	n := st.Size()
	st.U.Fill(1)
	st.V.Fill(0)

	lo := max(n/2-SeedHalfWidth, 0)
	hi := min(n/2+SeedHalfWidth+1, n)
	fill := func(g *field.Grid, base float64) {
		for i := lo; i < hi; i++ {
			row := g.Row(i)
			for j := lo; j < hi; j++ {
				row[j] = base + 0.1*s.Src.Float64()
			}
		}
	}
	fill(st.U, 0.5)
	fill(st.V, 0.25)
	return nil
}

// Uniform fills U and V with constants.
type Uniform struct {
	U, V float64
}

func (u Uniform) Name() string { return "uniform" }

func (u Uniform) Init(st *model.State) error {
	st.U.Fill(u.U)
	st.V.Fill(u.V)
	return nil
}

// FromSnapshot restores a previously captured pair of fields.
type FromSnapshot struct {
	Snap Snapshot
}

func (f FromSnapshot) Name() string { return "snapshot" }

func (f FromSnapshot) Init(st *model.State) error {
	n := st.Size()
	if f.Snap.N != n || len(f.Snap.U) != n*n || len(f.Snap.V) != n*n {
		return fmt.Errorf("%w: snapshot is %d×%d, grid is %d×%d", model.ErrShapeMismatch, f.Snap.N, f.Snap.N, n, n)
	}
	copy(st.U.Cells(), f.Snap.U)
	copy(st.V.Cells(), f.Snap.V)
	st.Step = f.Snap.Step
	return nil
}
