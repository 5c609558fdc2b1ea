package integrators

import (
	"github.com/san-kum/grayscott/internal/field"
	"github.com/san-kum/grayscott/internal/model"
	"github.com/san-kum/grayscott/internal/stencil"
)

// Euler advances a Gray-Scott state by one explicit forward-Euler step.
//
// Every derivative is evaluated from the pre-step U and V. New values are
// written to separate buffers that replace U and V only once the whole
// step is done, so no cell ever reads a neighbour that was already updated.
type Euler struct {
	op      stencil.Operator
	workers int

	lapU, lapV, uvv *field.Grid
	nextU, nextV    *field.Grid
}

func NewEuler(op stencil.Operator, workers int) *Euler {
	return &Euler{op: op, workers: field.Workers(workers)}
}

func (e *Euler) Operator() stencil.Operator { return e.op }

func (e *Euler) ensureScratch(n int) {
	if e.lapU == nil || e.lapU.Size() != n {
		e.lapU = field.New(n)
		e.lapV = field.New(n)
		e.uvv = field.New(n)
		e.nextU = field.New(n)
		e.nextV = field.New(n)
	}
}

func (e *Euler) Step(st *model.State, p model.Params) {
	field.MustMatch(st.U, st.V)
	n := st.Size()
	e.ensureScratch(n)

	h2, dt := p.H2(), p.Dt
	e.op.Apply(e.lapU, st.U, h2)
	e.op.Apply(e.lapV, st.V, h2)

	u, v := st.U.Cells(), st.V.Cells()
	lu, lv, uvv := e.lapU.Cells(), e.lapV.Cells(), e.uvv.Cells()
	nu, nv := e.nextU.Cells(), e.nextV.Cells()

	field.ForRows(n, e.workers, func(lo, hi int) {
		model.ReactionRows(e.uvv, st.U, st.V, lo, hi)
		for k := lo * n; k < hi*n; k++ {
			nu[k] = u[k] + dt*p.RateU(u[k], lu[k], uvv[k])
			nv[k] = v[k] + dt*p.RateV(v[k], lv[k], uvv[k])
		}
	})

	// ForRows has joined every worker; swap in the new fields.
	st.U, e.nextU = e.nextU, st.U
	st.V, e.nextV = e.nextV, st.V
	st.Step++
}
