package model

import (
	"fmt"

	"github.com/san-kum/grayscott/internal/field"
)

// State is the pair of concentration fields and the number of steps taken.
type State struct {
	U, V *field.Grid
	Step int
}

// NewState allocates U ≡ 0 and V ≡ 0 on an n×n grid.
func NewState(n int) *State {
	return &State{U: field.New(n), V: field.New(n)}
}

func (s *State) Size() int { return s.U.Size() }

func (s *State) Clone() *State {
	return &State{U: s.U.Clone(), V: s.V.Clone(), Step: s.Step}
}

// Check verifies U and V share a shape and hold only finite values.
func (s *State) Check() error {
	if !field.SameShape(s.U, s.V) {
		return ErrShapeMismatch
	}
	for _, f := range []struct {
		name string
		g    *field.Grid
	}{{"U", s.U}, {"V", s.V}} {
		if r, c, ok := f.g.CheckFinite(); !ok {
			return fmt.Errorf("%w: %s[%d,%d] = %v", ErrNumericInstability, f.name, r, c, f.g.At(r, c))
		}
	}
	return nil
}
