package sim

import "github.com/san-kum/grayscott/internal/model"

// Source supplies uniform random numbers in [0, 1). *rand.Rand from
// math/rand/v2 satisfies it.
type Source interface {
	Float64() float64
}

// Stepper advances a state by one time step in place.
type Stepper interface {
	Step(st *model.State, p model.Params)
}

// Initializer writes the initial U and V fields into a freshly allocated
// state.
type Initializer interface {
	Name() string
	Init(st *model.State) error
}

type Metric interface {
	Name() string
	Observe(st *model.State)
	Value() float64
	Reset()
}

// Observer is called after every step with the live state. The grids are
// reused by the next step and must not be retained.
type Observer interface {
	OnStep(st *model.State)
}

type ObserverFunc func(st *model.State)

func (f ObserverFunc) OnStep(st *model.State) { f(st) }

// Policy decides what a run does when a field stops being finite.
type Policy int

const (
	Abort Policy = iota
	Warn
)

func (p Policy) String() string {
	if p == Warn {
		return "warn"
	}
	return "abort"
}

// Snapshot is a row-major copy of both fields at one step.
type Snapshot struct {
	Step int       `json:"step"`
	N    int       `json:"n"`
	U    []float64 `json:"u"`
	V    []float64 `json:"v"`
}

type Result struct {
	StepsTaken int
	// MeanU holds the mean of U before the first step and after every step.
	MeanU     []float64
	Snapshots []Snapshot
	Metrics   map[string]float64
	Warnings  []error
}
