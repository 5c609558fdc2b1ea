package experiment

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/san-kum/grayscott/internal/config"
	"github.com/san-kum/grayscott/internal/integrators"
	"github.com/san-kum/grayscott/internal/metrics"
	"github.com/san-kum/grayscott/internal/sim"
	"github.com/san-kum/grayscott/internal/stencil"
)

type Registry struct {
	initializers map[string]func(cfg *config.Config) sim.Initializer
}

func NewRegistry() *Registry {
	r := &Registry{
		initializers: make(map[string]func(cfg *config.Config) sim.Initializer),
	}

	r.initializers["seed"] = func(cfg *config.Config) sim.Initializer {
		return sim.SeedSquare{Src: rand.New(rand.NewPCG(cfg.Seed, 0))}
	}
	r.initializers["uniform"] = func(cfg *config.Config) sim.Initializer {
		return sim.Uniform{U: 1, V: 0}
	}

	return r
}

// GetOperator resolves a strategy and boundary mode by name.
func (r *Registry) GetOperator(strategy, boundary string, workers int) (stencil.Operator, error) {
	mode, err := stencil.ParseBoundary(boundary)
	if err != nil {
		return nil, err
	}
	return stencil.New(strategy, mode, workers)
}

func (r *Registry) GetInitializer(cfg *config.Config) (sim.Initializer, error) {
	fn, ok := r.initializers[cfg.Init]
	if !ok {
		return nil, fmt.Errorf("unknown initializer: %s", cfg.Init)
	}
	return fn(cfg), nil
}

func (r *Registry) GetStepper(cfg *config.Config) (*integrators.Euler, error) {
	op, err := r.GetOperator(cfg.Strategy, cfg.Boundary, cfg.Workers)
	if err != nil {
		return nil, err
	}
	return integrators.NewEuler(op, cfg.Workers), nil
}

func (r *Registry) ListStrategies() []string {
	return append([]string(nil), stencil.Strategies...)
}

func (r *Registry) ListInitializers() []string {
	names := make([]string, 0, len(r.initializers))
	for name := range r.initializers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Metrics returns the configured metrics, or every built-in one when the
// configuration names none.
func (r *Registry) Metrics(cfg *config.Config) ([]sim.Metric, error) {
	if len(cfg.Metrics) == 0 {
		return metrics.Default(), nil
	}
	out := make([]sim.Metric, 0, len(cfg.Metrics))
	for _, name := range cfg.Metrics {
		m, err := metrics.New(name)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}
