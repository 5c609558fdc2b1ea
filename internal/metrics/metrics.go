package metrics

import (
	"fmt"
	"sort"

	"github.com/san-kum/grayscott/internal/sim"
)

var registry = map[string]func() sim.Metric{
	"mean_u":     func() sim.Metric { return NewMeanU() },
	"u_range":    func() sim.Metric { return NewURange() },
	"v_coverage": func() sim.Metric { return NewVCoverage(0.1) },
	"activity":   func() sim.Metric { return NewActivity() },
	"stability":  func() sim.Metric { return NewStability(10) },
}

// Names lists the built-in metrics in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func New(name string) (sim.Metric, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return ctor(), nil
}

// Default returns a fresh instance of every built-in metric.
func Default() []sim.Metric {
	out := make([]sim.Metric, 0, len(registry))
	for _, name := range Names() {
		out = append(out, registry[name]())
	}
	return out
}
