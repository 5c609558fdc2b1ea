package sweep

import (
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/san-kum/grayscott/internal/config"
)

func base() *config.Config {
	cfg := config.DefaultConfig()
	cfg.N = 24
	cfg.Steps = 30
	return cfg
}

func TestAxisValues(t *testing.T) {
	require.Equal(t, []float64{0.5}, Axis{Min: 0.5, Max: 1, Steps: 1}.Values())
	v := Axis{Min: 0, Max: 1, Steps: 5}.Values()
	require.Len(t, v, 5)
	require.Equal(t, 0.0, v[0])
	require.InDelta(t, 1.0, v[4], 1e-15)
}

func TestSweepRunsEveryPoint(t *testing.T) {
	var calls, totals atomic.Int32
	s := &Sweep{
		F:        Axis{Min: 0.02, Max: 0.04, Steps: 3},
		K:        Axis{Min: 0.055, Max: 0.065, Steps: 2},
		Parallel: 3,
		Progress: func(done, total int, p Point) {
			calls.Add(1)
			totals.Store(int32(total))
		},
	}

	points, err := s.Run(context.Background(), base())
	require.NoError(t, err)
	require.Len(t, points, 6)
	require.EqualValues(t, 6, calls.Load())
	require.EqualValues(t, 6, totals.Load())

	require.Equal(t, 0.02, points[0].F)
	require.Equal(t, 0.055, points[0].K)
	require.InDelta(t, 0.065, points[5].K, 1e-15)
	for _, p := range points {
		require.False(t, p.Unstable)
		require.Equal(t, 30, p.Steps)
		require.NotEmpty(t, p.Pattern)
		require.Contains(t, p.Metrics, "mean_u")
	}

	best, ok := Best(points, "mean_u")
	require.True(t, ok)
	for _, p := range points {
		require.LessOrEqual(t, p.Metrics["mean_u"], best.Metrics["mean_u"])
	}
}

func TestSweepRecordsInstability(t *testing.T) {
	cfg := base()
	cfg.Dt = 1e6
	s := &Sweep{F: Axis{Min: 0.03, Steps: 1}, K: Axis{Min: 0.06, Steps: 1}}

	points, err := s.Run(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, points, 1)
	require.True(t, points[0].Unstable)
	require.Zero(t, points[0].MeanU)
	require.Zero(t, points[0].Wavelength)
	for name, v := range points[0].Metrics {
		require.False(t, math.IsNaN(v) || math.IsInf(v, 0), "metric %s = %v", name, v)
	}
	_, err = json.Marshal(points)
	require.NoError(t, err)

	_, ok := Best(points, "mean_u")
	require.False(t, ok)
}

func TestSweepRejectsBadBase(t *testing.T) {
	cfg := base()
	cfg.N = 1
	_, err := (&Sweep{F: Axis{Steps: 1}, K: Axis{Steps: 1}}).Run(context.Background(), cfg)
	require.Error(t, err)
}

func TestSweepCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := &Sweep{F: Axis{Min: 0.02, Max: 0.04, Steps: 2}, K: Axis{Min: 0.06, Steps: 1}}
	_, err := s.Run(ctx, base())
	require.ErrorIs(t, err, context.Canceled)
}

func TestSweepCancelKeepsFinishedPoints(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := &Sweep{
		F:        Axis{Min: 0.02, Max: 0.04, Steps: 4},
		K:        Axis{Min: 0.055, Max: 0.065, Steps: 2},
		Parallel: 1,
		Progress: func(done, total int, p Point) {
			if done == 3 {
				cancel()
			}
		},
	}

	points, err := s.Run(ctx, base())
	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, points, 3)
	require.Equal(t, 0.02, points[0].F)
	require.Equal(t, 0.055, points[0].K)
	for _, p := range points {
		require.Equal(t, 30, p.Steps)
		require.NotEmpty(t, p.Pattern)
	}
}

func TestScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	data := []byte(`name: tour
description: two presets
steps:
  - preset: coral
    steps: 5
  - preset: maze
    params: {f: 0.03}
    strategy: loop
`)
	require.NoError(t, os.WriteFile(path, data, 0644))

	sc, err := LoadScenario(path)
	require.NoError(t, err)
	require.Equal(t, "tour", sc.Name)
	require.Len(t, sc.Steps, 2)

	results, err := RunScenario(context.Background(), sc, base())
	require.NoError(t, err)
	require.Len(t, results, 2)

	require.Equal(t, 0.0545, results[0].Config.F)
	require.Equal(t, 5, results[0].Result.StepsTaken)
	require.Equal(t, 0.03, results[1].Config.F)
	require.Equal(t, 0.057, results[1].Config.K)
	require.Equal(t, "loop", results[1].Config.Strategy)
	require.Equal(t, 30, results[1].Final.Step)
}

func TestScenarioStopsAtFailure(t *testing.T) {
	sc := &Scenario{Steps: []ScenarioStep{{Preset: "coral", Steps: 2}, {Preset: "nope"}}}
	results, err := RunScenario(context.Background(), sc, base())
	require.Error(t, err)
	require.Len(t, results, 1)
}
