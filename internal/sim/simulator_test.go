package sim_test

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/grayscott/internal/integrators"
	"github.com/san-kum/grayscott/internal/model"
	"github.com/san-kum/grayscott/internal/sim"
	"github.com/san-kum/grayscott/internal/stencil"
)

func newSim(p model.Params, strategy string, workers int) *sim.Simulator {
	op, err := stencil.New(strategy, stencil.Periodic, workers)
	Expect(err).NotTo(HaveOccurred())
	s, err := sim.New(p, integrators.NewEuler(op, workers))
	Expect(err).NotTo(HaveOccurred())
	return s
}

func seeded(seed uint64) sim.SeedSquare {
	return sim.SeedSquare{Src: rand.New(rand.NewPCG(seed, 0))}
}

type counter struct{ n int }

func (c *counter) Name() string         { return "count" }
func (c *counter) Observe(*model.State) { c.n++ }
func (c *counter) Value() float64       { return float64(c.n) }
func (c *counter) Reset()               { c.n = 0 }

var _ = Describe("Simulator", func() {
	var p model.Params

	BeforeEach(func() {
		p = model.DefaultParams()
		p.N = 32
	})

	Describe("construction", func() {
		It("rejects invalid parameters", func() {
			for _, mutate := range []func(*model.Params){
				func(p *model.Params) { p.N = 2 },
				func(p *model.Params) { p.Du = 0 },
				func(p *model.Params) { p.Dv = -1 },
				func(p *model.Params) { p.Dt = 0 },
				func(p *model.Params) { p.Steps = -1 },
				func(p *model.Params) { p.F = math.NaN() },
			} {
				q := p
				mutate(&q)
				_, err := sim.New(q, integrators.NewEuler(stencil.NewLoop(stencil.Periodic, 1), 1))
				Expect(errors.Is(err, model.ErrInvalidParameter)).To(BeTrue(), "%+v", q)
			}
		})

		It("refuses to step before initialization", func() {
			s := newSim(p, "loop", 1)
			Expect(s.Step()).To(MatchError(sim.ErrNotInitialized))
			_, err := s.Run(context.Background(), 3)
			Expect(err).To(MatchError(sim.ErrNotInitialized))
		})
	})

	Describe("initialization", func() {
		It("perturbs only the centred square", func() {
			s := newSim(p, "loop", 1)
			Expect(s.Initialize(seeded(1))).To(Succeed())

			st := s.State()
			lo, hi := p.N/2-sim.SeedHalfWidth, p.N/2+sim.SeedHalfWidth+1
			correlated := 0
			for i := 0; i < p.N; i++ {
				for j := 0; j < p.N; j++ {
					u, v := st.U.At(i, j), st.V.At(i, j)
					if i >= lo && i < hi && j >= lo && j < hi {
						Expect(u - 0.5).To(And(BeNumerically(">=", 0), BeNumerically("<", 0.1)))
						Expect(v - 0.25).To(And(BeNumerically(">=", 0), BeNumerically("<", 0.1)))
						if u-0.5 == v-0.25 {
							correlated++
						}
					} else {
						Expect(u).To(Equal(1.0))
						Expect(v).To(Equal(0.0))
					}
				}
			}
			// U and V come from separate draws.
			Expect(correlated).To(BeNumerically("<", 10))
		})

		It("clips the square on small grids", func() {
			p.N = 8
			s := newSim(p, "loop", 1)
			Expect(s.Initialize(seeded(1))).To(Succeed())
			_, hi := s.State().U.MinMax()
			Expect(hi).To(BeNumerically("<", 0.6))
		})

		It("restores a snapshot", func() {
			s := newSim(p, "loop", 1)
			Expect(s.Initialize(seeded(3))).To(Succeed())
			_, err := s.Run(context.Background(), 5)
			Expect(err).NotTo(HaveOccurred())
			snap := s.Snapshot()

			r := newSim(p, "shift", 1)
			Expect(r.Initialize(sim.FromSnapshot{Snap: snap})).To(Succeed())
			Expect(r.Snapshot()).To(Equal(snap))

			p.N = 16
			small := newSim(p, "loop", 1)
			err = small.Initialize(sim.FromSnapshot{Snap: snap})
			Expect(errors.Is(err, model.ErrShapeMismatch)).To(BeTrue())
		})
	})

	Describe("running", func() {
		It("is deterministic for a fixed seed", func() {
			a := newSim(p, "loop", 1)
			b := newSim(p, "loop", 1)
			Expect(a.Initialize(seeded(42))).To(Succeed())
			Expect(b.Initialize(seeded(42))).To(Succeed())

			_, err := a.Run(context.Background(), 25)
			Expect(err).NotTo(HaveOccurred())
			_, err = b.Run(context.Background(), 25)
			Expect(err).NotTo(HaveOccurred())
			Expect(a.Snapshot()).To(Equal(b.Snapshot()))
		})

		It("gives the same fields for every worker count", func() {
			p.N = 64
			one := newSim(p, "shift", 1)
			many := newSim(p, "shift", 8)
			Expect(one.Initialize(seeded(9))).To(Succeed())
			Expect(many.Initialize(seeded(9))).To(Succeed())

			_, err := one.Run(context.Background(), 10)
			Expect(err).NotTo(HaveOccurred())
			_, err = many.Run(context.Background(), 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(one.Snapshot()).To(Equal(many.Snapshot()))
		})

		It("keeps U=1, V=0 fixed when F = k = 0", func() {
			p.F, p.K = 0, 0
			s := newSim(p, "convolution", 2)
			Expect(s.Initialize(sim.Uniform{U: 1, V: 0})).To(Succeed())

			res, err := s.Run(context.Background(), 20)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.StepsTaken).To(Equal(20))
			for _, m := range res.MeanU {
				Expect(m).To(Equal(1.0))
			}
			_, vmax := s.State().V.MinMax()
			Expect(vmax).To(Equal(0.0))
		})

		It("develops the seeded pattern on the default problem", func() {
			p.N = 128
			s := newSim(p, "shift", 0)
			Expect(s.Initialize(seeded(7))).To(Succeed())
			before := s.State().U.Mean()

			res, err := s.Run(context.Background(), 100)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.StepsTaken).To(Equal(100))
			Expect(res.MeanU).To(HaveLen(101))
			Expect(s.State().Check()).To(Succeed())

			after := s.State().U.Mean()
			Expect(math.Abs(after - before)).To(BeNumerically(">", 1e-4))
			Expect(after).To(BeNumerically(">=", 0))
			Expect(after).To(BeNumerically("<=", 1.5))
		})

		It("records snapshots every k steps", func() {
			s := newSim(p, "loop", 1)
			s.SetSnapshotEvery(4)
			Expect(s.Initialize(seeded(1))).To(Succeed())

			res, err := s.Run(context.Background(), 10)
			Expect(err).NotTo(HaveOccurred())
			steps := make([]int, 0, len(res.Snapshots))
			for _, snap := range res.Snapshots {
				steps = append(steps, snap.Step)
				Expect(snap.U).To(HaveLen(p.N * p.N))
			}
			Expect(steps).To(Equal([]int{0, 4, 8}))
		})

		It("calls observers and metrics once per step", func() {
			s := newSim(p, "loop", 1)
			m := &counter{}
			calls := 0
			s.AddMetric(m)
			s.AddObserver(sim.ObserverFunc(func(*model.State) { calls++ }))
			Expect(s.Initialize(seeded(1))).To(Succeed())

			res, err := s.Run(context.Background(), 12)
			Expect(err).NotTo(HaveOccurred())
			Expect(calls).To(Equal(12))
			Expect(res.Metrics).To(HaveKeyWithValue("count", 12.0))
		})

		It("stops between steps when the context is cancelled", func() {
			s := newSim(p, "loop", 1)
			ctx, cancel := context.WithCancel(context.Background())
			s.AddObserver(sim.ObserverFunc(func(st *model.State) {
				if st.Step == 3 {
					cancel()
				}
			}))
			Expect(s.Initialize(seeded(1))).To(Succeed())

			res, err := s.Run(ctx, 50)
			Expect(err).To(MatchError(context.Canceled))
			Expect(res.StepsTaken).To(Equal(3))
			Expect(s.State().Step).To(Equal(3))
		})

		It("lets F and k change between steps", func() {
			s := newSim(p, "loop", 1)
			q := p
			q.F = 0.06
			Expect(s.SetParams(q)).To(Succeed())
			Expect(s.Params().F).To(Equal(0.06))

			q.N = 64
			Expect(errors.Is(s.SetParams(q), model.ErrShapeMismatch)).To(BeTrue())
			q.N, q.Dt = p.N, -1
			Expect(errors.Is(s.SetParams(q), model.ErrInvalidParameter)).To(BeTrue())
		})
	})

	Describe("numeric instability", func() {
		BeforeEach(func() {
			p.N = 16
			p.Dt = 1e6
		})

		It("aborts with an InstabilityError by default", func() {
			s := newSim(p, "loop", 1)
			Expect(s.Initialize(seeded(5))).To(Succeed())

			res, err := s.Run(context.Background(), 200)
			Expect(errors.Is(err, model.ErrNumericInstability)).To(BeTrue())

			var ie *sim.InstabilityError
			Expect(errors.As(err, &ie)).To(BeTrue())
			Expect(ie.Step).To(Equal(res.StepsTaken))
			Expect(ie.Step).To(BeNumerically("<", 200))
			Expect(math.IsNaN(ie.Value) || math.IsInf(ie.Value, 0)).To(BeTrue())
		})

		It("records a single warning and keeps going under the warn policy", func() {
			s := newSim(p, "loop", 1)
			s.SetPolicy(sim.Warn)
			Expect(s.Initialize(seeded(5))).To(Succeed())

			res, err := s.Run(context.Background(), 200)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.StepsTaken).To(Equal(200))
			Expect(res.Warnings).To(HaveLen(1))
			Expect(errors.Is(res.Warnings[0], model.ErrNumericInstability)).To(BeTrue())

			again, err := s.Run(context.Background(), 5)
			Expect(err).NotTo(HaveOccurred())
			Expect(again.Warnings).To(BeEmpty())
			Expect(s.Warnings()).To(HaveLen(1))
		})
	})

	Describe("history", func() {
		It("does not reserve the whole history for very long runs", func() {
			s := newSim(p, "loop", 1)
			Expect(s.Initialize(seeded(1))).To(Succeed())

			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			res, err := s.Run(ctx, 1<<30)
			Expect(err).To(MatchError(context.Canceled))
			Expect(res.StepsTaken).To(BeZero())
			Expect(res.MeanU).To(HaveLen(1))
			Expect(cap(res.MeanU)).To(BeNumerically("<=", 1<<16+1))
		})
	})
})
