package sweep

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/grayscott/internal/analysis"
	"github.com/san-kum/grayscott/internal/config"
	"github.com/san-kum/grayscott/internal/experiment"
	"github.com/san-kum/grayscott/internal/model"
)

// Axis is an inclusive range sampled at Steps evenly spaced points.
type Axis struct {
	Min   float64 `yaml:"min"`
	Max   float64 `yaml:"max"`
	Steps int     `yaml:"steps"`
}

func (a Axis) Values() []float64 {
	if a.Steps <= 1 {
		return []float64{a.Min}
	}
	out := make([]float64, a.Steps)
	step := (a.Max - a.Min) / float64(a.Steps-1)
	for i := range out {
		out[i] = a.Min + float64(i)*step
	}
	return out
}

// Sweep runs one simulation per (F, k) point of a rectangular grid.
type Sweep struct {
	F, K Axis
	// Parallel bounds the number of simulations in flight. Zero means one
	// per CPU.
	Parallel int
	// Progress, if set, is called after each point finishes. Calls are
	// serialised.
	Progress func(done, total int, p Point)
}

// Point is the outcome of one run. A run that went numerically unstable
// is a valid outcome, recorded with Unstable set and MeanU, Pattern and
// Wavelength left zero. Every value is finite, so points always encode as
// JSON: non-finite metrics are dropped and a field without a dominant mode
// has Wavelength 0.
type Point struct {
	F          float64            `json:"f"`
	K          float64            `json:"k"`
	Steps      int                `json:"steps"`
	Unstable   bool               `json:"unstable"`
	MeanU      float64            `json:"mean_u"`
	Pattern    string             `json:"pattern"`
	Wavelength float64            `json:"wavelength"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Run evaluates every point. Each simulation owns its grids, so they run
// concurrently without sharing state; workers inside each simulation are
// forced to 1 so the sweep's own parallelism is the only fan-out. On error,
// including cancellation, the points that finished are returned in grid
// order alongside it.
func (s *Sweep) Run(ctx context.Context, base *config.Config) ([]Point, error) {
	if err := base.Validate(); err != nil {
		return nil, err
	}
	fs, ks := s.F.Values(), s.K.Values()
	points := make([]Point, len(fs)*len(ks))

	limit := s.Parallel
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	var mu sync.Mutex
	finished := make([]bool, len(points))
	done := 0
	for i, f := range fs {
		for j, k := range ks {
			idx := i*len(ks) + j
			g.Go(func() error {
				p, err := runPoint(ctx, base, f, k)
				if err != nil {
					return fmt.Errorf("f=%.4f k=%.4f: %w", f, k, err)
				}
				mu.Lock()
				defer mu.Unlock()
				points[idx] = p
				finished[idx] = true
				done++
				if s.Progress != nil {
					s.Progress(done, len(points), p)
				}
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		completed := make([]Point, 0, done)
		for idx, ok := range finished {
			if ok {
				completed = append(completed, points[idx])
			}
		}
		return completed, err
	}
	return points, nil
}

func runPoint(ctx context.Context, base *config.Config, f, k float64) (Point, error) {
	cfg := base.Clone()
	cfg.F, cfg.K = f, k
	cfg.Workers = 1
	cfg.SnapshotEvery = 0
	cfg.OnInstability = "abort"

	exp, err := experiment.New(cfg)
	if err != nil {
		return Point{}, err
	}
	res, err := exp.Run(ctx)
	if res == nil {
		return Point{}, err
	}
	p := Point{F: f, K: k, Steps: res.StepsTaken, Metrics: finite(res.Metrics)}
	if errors.Is(err, model.ErrNumericInstability) {
		p.Unstable = true
		return p, nil
	}
	if err != nil {
		return Point{}, err
	}

	snap := exp.GetSimulator().Snapshot()
	p.MeanU = res.MeanU[len(res.MeanU)-1]
	p.Pattern = analysis.Pattern(snap.V, 0.1)
	spec, err := analysis.Spectrum(snap.N, snap.U)
	if err != nil {
		return Point{}, err
	}
	if mode := spec.Dominant(); mode > 0 {
		p.Wavelength = spec.Wavelength(mode, cfg.H)
	}
	return p, nil
}

func finite(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for name, v := range in {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out[name] = v
		}
	}
	return out
}

// Best returns the stable point with the largest value of a metric.
func Best(points []Point, metric string) (Point, bool) {
	best, found := Point{}, false
	bestVal := math.Inf(-1)
	for _, p := range points {
		if p.Unstable {
			continue
		}
		v, ok := p.Metrics[metric]
		if !ok || math.IsNaN(v) {
			continue
		}
		if v > bestVal {
			best, bestVal, found = p, v, true
		}
	}
	return best, found
}
