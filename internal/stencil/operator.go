package stencil

import (
	"fmt"
	"strings"

	"github.com/san-kum/grayscott/internal/field"
)

// Operator writes the Laplacian of src into dst. dst and src must have the
// same shape and must not be the same grid.
type Operator interface {
	Name() string
	Apply(dst, src *field.Grid, h2 float64)
}

// BoundaryMode selects how off-grid neighbours are read.
type BoundaryMode int

const (
	// Periodic wraps neighbour indices with modular arithmetic.
	Periodic BoundaryMode = iota
	// Ghost reads neighbours from an (n+2)×(n+2) wrap-padded copy.
	Ghost
)

func (m BoundaryMode) String() string {
	switch m {
	case Periodic:
		return "periodic"
	case Ghost:
		return "ghost"
	default:
		return fmt.Sprintf("BoundaryMode(%d)", int(m))
	}
}

// ParseBoundary accepts "periodic" (or "") and "ghost".
func ParseBoundary(s string) (BoundaryMode, error) {
	switch strings.ToLower(s) {
	case "", "periodic", "wrap":
		return Periodic, nil
	case "ghost", "padded":
		return Ghost, nil
	}
	return Periodic, fmt.Errorf("unknown boundary mode: %s", s)
}

// Strategies lists the strategy names accepted by New.
var Strategies = []string{"loop", "shift", "convolution"}

// New builds an operator by strategy name.
func New(strategy string, mode BoundaryMode, workers int) (Operator, error) {
	switch strings.ToLower(strategy) {
	case "", "loop":
		return NewLoop(mode, workers), nil
	case "shift", "roll", "slice":
		return NewShift(mode, workers), nil
	case "convolution", "convolve", "kernel":
		return NewConvolution(mode, workers), nil
	}
	return nil, fmt.Errorf("unknown laplacian strategy: %s", strategy)
}

// Laplacian returns the Laplacian of f in a freshly allocated grid.
func Laplacian(op Operator, f *field.Grid, h2 float64) *field.Grid {
	dst := field.New(f.Size())
	op.Apply(dst, f, h2)
	return dst
}

func checkArgs(dst, src *field.Grid) {
	field.MustMatch(dst, src)
	if dst == src {
		panic("stencil: dst aliases src")
	}
}

// five combines the stencil taps. The explicit float64 conversion stops the
// compiler from fusing 4*c into an FMA, so every strategy rounds the same way.
func five(up, down, left, right, c, h2 float64) float64 {
	return (up + down + left + right - float64(4*c)) / h2
}
