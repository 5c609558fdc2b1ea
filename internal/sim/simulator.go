package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/grayscott/internal/model"
)

// maxHistoryPrealloc bounds the mean-U history reserved up front; longer
// runs grow it as they go.
const maxHistoryPrealloc = 1 << 16

type Simulator struct {
	params  model.Params
	stepper Stepper
	state   *model.State
	ready   bool

	policy        Policy
	snapshotEvery int
	scanning      bool
	warnings      []error

	metrics   []Metric
	observers []Observer
}

// New validates p and allocates an n×n state. The state holds zeros until
// Initialize is called.
func New(p model.Params, stepper Stepper) (*Simulator, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if stepper == nil {
		return nil, fmt.Errorf("grayscott: nil stepper")
	}
	return &Simulator{
		params:   p,
		stepper:  stepper,
		state:    model.NewState(p.N),
		scanning: true,
	}, nil
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }
func (s *Simulator) SetPolicy(p Policy)     { s.policy = p }

// SetSnapshotEvery makes Run capture a snapshot whenever the step counter
// is a multiple of k. Zero disables snapshots.
func (s *Simulator) SetSnapshotEvery(k int) {
	if k < 0 {
		k = 0
	}
	s.snapshotEvery = k
}

func (s *Simulator) Params() model.Params { return s.params }

// SetParams swaps the rate parameters between steps. The grid size cannot
// change.
func (s *Simulator) SetParams(p model.Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.N != s.params.N {
		return fmt.Errorf("%w: grid size %d, simulator has %d", model.ErrShapeMismatch, p.N, s.params.N)
	}
	s.params = p
	return nil
}

// State exposes the live fields. They change on every step.
func (s *Simulator) State() *model.State { return s.state }

func (s *Simulator) Warnings() []error { return s.warnings }

func (s *Simulator) Initialize(init Initializer) error {
	s.state.Step = 0
	if err := init.Init(s.state); err != nil {
		return fmt.Errorf("initialize %s: %w", init.Name(), err)
	}
	s.ready = true
	s.scanning = true
	s.warnings = nil
	for _, m := range s.metrics {
		m.Reset()
	}
	return nil
}

// Step advances one time step, scans both fields for non-finite values
// and notifies observers and metrics.
func (s *Simulator) Step() error {
	if !s.ready {
		return ErrNotInitialized
	}
	s.stepper.Step(s.state, s.params)

	for _, m := range s.metrics {
		m.Observe(s.state)
	}
	for _, o := range s.observers {
		o.OnStep(s.state)
	}
	return s.scan()
}

func (s *Simulator) scan() error {
	if !s.scanning {
		return nil
	}
	err := s.checkFinite()
	if err == nil {
		return nil
	}
	if s.policy == Warn {
		s.warnings = append(s.warnings, err)
		s.scanning = false
		return nil
	}
	return err
}

func (s *Simulator) checkFinite() error {
	if r, c, ok := s.state.U.CheckFinite(); !ok {
		return &InstabilityError{Step: s.state.Step, Field: "U", Row: r, Col: c, Value: s.state.U.At(r, c)}
	}
	if r, c, ok := s.state.V.CheckFinite(); !ok {
		return &InstabilityError{Step: s.state.Step, Field: "V", Row: r, Col: c, Value: s.state.V.At(r, c)}
	}
	return nil
}

// Run performs up to steps time steps. Cancellation is checked between
// steps. On error the partial result is returned with it.
func (s *Simulator) Run(ctx context.Context, steps int) (*Result, error) {
	if !s.ready {
		return nil, ErrNotInitialized
	}
	if steps < 0 {
		return nil, &model.ParamError{Name: "steps", Value: float64(steps), Reason: "must be non-negative"}
	}

	result := &Result{
		MeanU:   make([]float64, 0, min(steps, maxHistoryPrealloc)+1),
		Metrics: make(map[string]float64),
	}
	warned := len(s.warnings)
	result.MeanU = append(result.MeanU, s.state.U.Mean())
	s.capture(result)

	var err error
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			err = ctx.Err()
		default:
		}
		if err != nil {
			break
		}

		err = s.Step()
		result.StepsTaken++
		result.MeanU = append(result.MeanU, s.state.U.Mean())
		s.capture(result)
		if err != nil {
			break
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	result.Warnings = append(result.Warnings, s.warnings[warned:]...)
	return result, err
}

func (s *Simulator) capture(r *Result) {
	if s.snapshotEvery > 0 && s.state.Step%s.snapshotEvery == 0 {
		r.Snapshots = append(r.Snapshots, s.Snapshot())
	}
}

// Snapshot copies the current fields.
func (s *Simulator) Snapshot() Snapshot {
	return Snapshot{
		Step: s.state.Step,
		N:    s.state.Size(),
		U:    s.state.U.Values(),
		V:    s.state.V.Values(),
	}
}
