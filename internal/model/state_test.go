package model

import (
	"math"
	"testing"

	"github.com/san-kum/grayscott/internal/field"
	"github.com/stretchr/testify/require"
)

func TestStateCloneIsDeep(t *testing.T) {
	st := NewState(4)
	st.U.Set(1, 2, 0.5)
	st.Step = 7

	c := st.Clone()
	require.Equal(t, 4, c.Size())
	require.Equal(t, 7, c.Step)
	require.Equal(t, 0.5, c.U.At(1, 2))

	c.U.Set(1, 2, 0.9)
	require.Equal(t, 0.5, st.U.At(1, 2))
}

func TestStateCheck(t *testing.T) {
	st := NewState(4)
	require.NoError(t, st.Check())

	st.V.Set(3, 1, math.Inf(-1))
	err := st.Check()
	require.ErrorIs(t, err, ErrNumericInstability)
	require.Contains(t, err.Error(), "V[3,1]")

	bad := &State{U: field.New(4), V: field.New(5)}
	require.ErrorIs(t, bad.Check(), ErrShapeMismatch)
}
