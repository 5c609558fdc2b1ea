package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"math/rand/v2"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/san-kum/grayscott/internal/config"
	"github.com/san-kum/grayscott/internal/integrators"
	"github.com/san-kum/grayscott/internal/model"
	"github.com/san-kum/grayscott/internal/sim"
	"github.com/san-kum/grayscott/internal/stencil"
)

func shortRun(t *testing.T) (*config.Config, *sim.Result, sim.Snapshot) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.N = 24
	cfg.Steps = 15

	s, err := sim.New(cfg.Params, integrators.NewEuler(stencil.NewLoop(stencil.Periodic, 1), 1))
	require.NoError(t, err)
	require.NoError(t, s.Initialize(sim.SeedSquare{Src: rand.New(rand.NewPCG(cfg.Seed, 0))}))

	res, err := s.Run(context.Background(), cfg.Steps)
	require.NoError(t, err)
	res.Metrics["mean_u"] = 0.9
	return cfg, res, s.Snapshot()
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := New(t.TempDir())
	require.NoError(t, store.Init())

	cfg, res, snap := shortRun(t)
	id, err := store.Save("coral", cfg, res, snap)
	require.NoError(t, err)

	meta, err := store.Load(id)
	require.NoError(t, err)
	require.Equal(t, "coral", meta.Name)
	require.Equal(t, cfg.Params, meta.Params)
	require.Equal(t, 15, meta.StepsTaken)
	require.Equal(t, 0.9, meta.Metrics["mean_u"])

	got, err := store.LoadFields(id)
	require.NoError(t, err)
	require.Equal(t, snap, got, "fields must survive the CSV round trip exactly")

	steps, means, err := store.LoadHistory(id)
	require.NoError(t, err)
	require.Len(t, steps, 16)
	require.Equal(t, 0, steps[0])
	require.Equal(t, 15, steps[15])
	require.Equal(t, res.MeanU, means)
}

func TestListAndDelete(t *testing.T) {
	store := New(t.TempDir())
	runs, err := store.List()
	require.NoError(t, err)
	require.Empty(t, runs)

	cfg, res, snap := shortRun(t)
	a, err := store.Save("a", cfg, res, snap)
	require.NoError(t, err)
	b, err := store.Save("b", cfg, res, snap)
	require.NoError(t, err)

	runs, err = store.List()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	require.Equal(t, b, runs[0].ID, "newest first")

	require.NoError(t, store.Delete(a))
	runs, err = store.List()
	require.NoError(t, err)
	require.Len(t, runs, 1)

	require.Error(t, store.Delete("missing"))
}

func TestSaveRecordsWarnings(t *testing.T) {
	store := New(t.TempDir())
	cfg, res, snap := shortRun(t)
	res.Warnings = []error{&sim.InstabilityError{Step: 3, Field: "V", Row: 1, Col: 2}}
	res.Metrics["activity"] = 0
	res.Metrics["stability"] = 1

	id, err := store.Save("warn", cfg, res, snap)
	require.NoError(t, err)
	meta, err := store.Load(id)
	require.NoError(t, err)
	require.Len(t, meta.Warnings, 1)
	require.Contains(t, meta.Warnings[0], "step 3")
}

func TestGridCSV(t *testing.T) {
	values := []float64{1, 0.5, -0.25, 1e-300}
	var buf bytes.Buffer
	require.NoError(t, WriteGrid(&buf, 2, values))
	require.Equal(t, "1,0.5\n-0.25,1e-300\n", buf.String())

	n, got, err := ReadGrid(&buf)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, values, got)

	require.Error(t, WriteGrid(&buf, 3, values))
	_, _, err = ReadGrid(bytes.NewBufferString("1,2\n3\n"))
	require.Error(t, err)
}

func TestSnapshotsRoundTrip(t *testing.T) {
	store := New(t.TempDir())
	cfg, res, snap := shortRun(t)

	id, err := store.Save("plain", cfg, res, snap)
	require.NoError(t, err)
	require.False(t, store.HasSnapshots(id))

	cfg.SnapshotEvery = 5
	res.Snapshots = []sim.Snapshot{snap, snap}
	id, err = store.Save("frames", cfg, res, snap)
	require.NoError(t, err)
	require.True(t, store.HasSnapshots(id))

	sf, err := store.LoadSnapshots(id)
	require.NoError(t, err)
	require.Equal(t, id, sf.RunID)
	require.Equal(t, 5, sf.Every)
	require.Equal(t, res.Snapshots, sf.Snapshots)
}

func TestLoadFieldsShapeMismatch(t *testing.T) {
	store := New(t.TempDir())
	cfg, res, snap := shortRun(t)
	id, err := store.Save("bad", cfg, res, snap)
	require.NoError(t, err)

	require.NoError(t, WriteGridFile(store.Dir(id)+"/v.csv", 1, []float64{0}))
	_, err = store.LoadFields(id)
	require.True(t, errors.Is(err, model.ErrShapeMismatch))
}

func sameCells(t *testing.T, want, got []float64) {
	t.Helper()
	require.Len(t, got, len(want))
	for k := range want {
		if math.IsNaN(want[k]) {
			require.True(t, math.IsNaN(got[k]), "cell %d", k)
			continue
		}
		require.Equal(t, want[k], got[k], "cell %d", k)
	}
}

func TestSaveUnstableWarnRun(t *testing.T) {
	store := New(t.TempDir())
	cfg := config.DefaultConfig()
	cfg.N = 16
	cfg.Dt = 1e6
	cfg.Steps = 60
	cfg.SnapshotEvery = 10

	s, err := sim.New(cfg.Params, integrators.NewEuler(stencil.NewLoop(stencil.Periodic, 1), 1))
	require.NoError(t, err)
	s.SetPolicy(sim.Warn)
	s.SetSnapshotEvery(cfg.SnapshotEvery)
	require.NoError(t, s.Initialize(sim.SeedSquare{Src: rand.New(rand.NewPCG(cfg.Seed, 0))}))
	res, err := s.Run(context.Background(), cfg.Steps)
	require.NoError(t, err)
	require.NotEmpty(t, res.Warnings)

	last := res.Snapshots[len(res.Snapshots)-1]
	nonFinite := 0
	for _, v := range last.U {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			nonFinite++
		}
	}
	require.Positive(t, nonFinite)

	id, err := store.Save("unstable", cfg, res, s.Snapshot())
	require.NoError(t, err)
	require.True(t, store.HasSnapshots(id))

	sf, err := store.LoadSnapshots(id)
	require.NoError(t, err)
	require.Len(t, sf.Snapshots, len(res.Snapshots))
	for i, want := range res.Snapshots {
		require.Equal(t, want.Step, sf.Snapshots[i].Step)
		sameCells(t, want.U, sf.Snapshots[i].U)
		sameCells(t, want.V, sf.Snapshots[i].V)
	}

	meta, err := store.Load(id)
	require.NoError(t, err)
	require.Len(t, meta.Warnings, 1)
}

func TestFailedSaveLeavesNoRun(t *testing.T) {
	store := New(t.TempDir())
	cfg, res, snap := shortRun(t)
	snap.N = 3

	_, err := store.Save("broken", cfg, res, snap)
	require.Error(t, err)

	runs, err := store.List()
	require.NoError(t, err)
	require.Empty(t, runs)
	entries, err := os.ReadDir(store.Dir(""))
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestCellsJSON(t *testing.T) {
	in := Cells{0.25, math.NaN(), math.Inf(1), math.Inf(-1), 1e-300}
	data, err := json.Marshal(in)
	require.NoError(t, err)
	require.Equal(t, `[0.25,"NaN","+Inf","-Inf",1e-300]`, string(data))

	var out Cells
	require.NoError(t, json.Unmarshal(data, &out))
	sameCells(t, in, out)
	require.True(t, math.IsInf(out[2], 1))
	require.True(t, math.IsInf(out[3], -1))

	require.Error(t, json.Unmarshal([]byte(`["x"]`), &out))
}
