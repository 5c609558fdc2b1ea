package storage

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/san-kum/grayscott/internal/config"
	"github.com/san-kum/grayscott/internal/model"
	"github.com/san-kum/grayscott/internal/sim"
)

// Store keeps one directory per run under baseDir:
//
//	<id>/metadata.json  parameters, options and final metrics
//	<id>/u.csv, v.csv   final fields, one grid row per line
//	<id>/history.csv    step,mean_u
//	<id>/snapshots.json intermediate frames, when the run kept any
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir(runID string) string {
	return filepath.Join(s.baseDir, runID)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Timestamp  time.Time          `json:"timestamp"`
	Params     model.Params       `json:"params"`
	Strategy   string             `json:"strategy"`
	Boundary   string             `json:"boundary"`
	Seed       uint64             `json:"seed"`
	StepsTaken int                `json:"steps_taken"`
	FinalStep  int                `json:"final_step"`
	Metrics    map[string]float64 `json:"metrics"`
	Warnings   []string           `json:"warnings,omitempty"`
}

// Save writes a finished run. name labels the run (a preset name, or
// "grayscott"); the ID adds a timestamp to keep runs apart. A failed save
// removes the partial run directory.
func (s *Store) Save(name string, cfg *config.Config, result *sim.Result, final sim.Snapshot) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", name, now.UnixNano())
	runDir := s.Dir(runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}
	if err := s.writeRun(runDir, runID, name, now, cfg, result, final); err != nil {
		os.RemoveAll(runDir)
		return "", err
	}
	return runID, nil
}

func (s *Store) writeRun(runDir, runID, name string, now time.Time, cfg *config.Config, result *sim.Result, final sim.Snapshot) error {
	meta := RunMetadata{
		ID:         runID,
		Name:       name,
		Timestamp:  now,
		Params:     cfg.Params,
		Strategy:   cfg.Strategy,
		Boundary:   cfg.Boundary,
		Seed:       cfg.Seed,
		StepsTaken: result.StepsTaken,
		FinalStep:  final.Step,
		Metrics:    sanitize(result.Metrics),
	}
	for _, w := range result.Warnings {
		meta.Warnings = append(meta.Warnings, w.Error())
	}

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return err
	}
	if err := WriteGridFile(filepath.Join(runDir, "u.csv"), final.N, final.U); err != nil {
		return err
	}
	if err := WriteGridFile(filepath.Join(runDir, "v.csv"), final.N, final.V); err != nil {
		return err
	}
	if err := writeHistory(filepath.Join(runDir, "history.csv"), final.Step-result.StepsTaken, result.MeanU); err != nil {
		return err
	}
	if len(result.Snapshots) > 0 {
		if err := s.saveSnapshots(runID, cfg.SnapshotEvery, result.Snapshots); err != nil {
			return err
		}
	}

	return nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.Dir(runID), "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadFields reads the final U and V of a run back as a snapshot.
func (s *Store) LoadFields(runID string) (sim.Snapshot, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return sim.Snapshot{}, err
	}
	n, u, err := ReadGridFile(filepath.Join(s.Dir(runID), "u.csv"))
	if err != nil {
		return sim.Snapshot{}, err
	}
	nv, v, err := ReadGridFile(filepath.Join(s.Dir(runID), "v.csv"))
	if err != nil {
		return sim.Snapshot{}, err
	}
	if nv != n {
		return sim.Snapshot{}, fmt.Errorf("%w: u.csv is %d×%d, v.csv is %d×%d", model.ErrShapeMismatch, n, n, nv, nv)
	}
	return sim.Snapshot{Step: meta.FinalStep, N: n, U: u, V: v}, nil
}

// Delete removes a run directory.
func (s *Store) Delete(runID string) error {
	if _, err := s.Load(runID); err != nil {
		return err
	}
	return os.RemoveAll(s.Dir(runID))
}

// sanitize drops non-finite metric values, which encoding/json rejects.
func sanitize(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out[k] = v
		}
	}
	return out
}
