package integrators

import (
	"testing"

	"github.com/san-kum/grayscott/internal/model"
	"github.com/san-kum/grayscott/internal/stencil"
)

func benchmarkEuler(b *testing.B, op stencil.Operator, workers int) {
	p := model.DefaultParams()
	st := randomState(p.N, 1)
	e := NewEuler(op, workers)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Step(st, p)
	}
}

func BenchmarkEulerLoop(b *testing.B) {
	benchmarkEuler(b, stencil.NewLoop(stencil.Periodic, 1), 1)
}

func BenchmarkEulerShift(b *testing.B) {
	benchmarkEuler(b, stencil.NewShift(stencil.Periodic, 1), 1)
}

func BenchmarkEulerShiftParallel(b *testing.B) {
	benchmarkEuler(b, stencil.NewShift(stencil.Ghost, 0), 0)
}

func BenchmarkEulerConvolution(b *testing.B) {
	benchmarkEuler(b, stencil.NewConvolution(stencil.Periodic, 1), 1)
}
