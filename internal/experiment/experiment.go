package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/grayscott/internal/config"
	"github.com/san-kum/grayscott/internal/sim"
)

// Experiment is one configured simulation, ready to run.
type Experiment struct {
	cfg       *config.Config
	registry  *Registry
	simulator *sim.Simulator
}

// New validates cfg, resolves every named component and initializes the
// fields.
func New(cfg *config.Config) (*Experiment, error) {
	return NewWithRegistry(NewRegistry(), cfg)
}

func NewWithRegistry(r *Registry, cfg *config.Config) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	stepper, err := r.GetStepper(cfg)
	if err != nil {
		return nil, err
	}
	ms, err := r.Metrics(cfg)
	if err != nil {
		return nil, err
	}

	s, err := sim.New(cfg.Params, stepper)
	if err != nil {
		return nil, err
	}
	for _, m := range ms {
		s.AddMetric(m)
	}
	if cfg.OnInstability == "warn" {
		s.SetPolicy(sim.Warn)
	}
	s.SetSnapshotEvery(cfg.SnapshotEvery)

	e := &Experiment{cfg: cfg, registry: r, simulator: s}
	if err := e.Reset(); err != nil {
		return nil, err
	}
	return e, nil
}

// Run advances the configured number of steps.
func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not set up")
	}
	return e.simulator.Run(ctx, e.cfg.Steps)
}

// Reset re-applies the initial condition with a freshly seeded source, so
// every reset reproduces the same fields.
func (e *Experiment) Reset() error {
	ini, err := e.registry.GetInitializer(e.cfg)
	if err != nil {
		return err
	}
	return e.simulator.Initialize(ini)
}

func (e *Experiment) Config() *config.Config { return e.cfg }

// GetSimulator returns the underlying simulator for adding observers.
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}
