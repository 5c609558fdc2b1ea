package storage

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/san-kum/grayscott/internal/sim"
)

// SnapshotFile is the JSON layout of snapshots.json: the frames a run
// captured every Every steps.
type SnapshotFile struct {
	RunID     string
	Every     int
	Snapshots []sim.Snapshot
}

type frame struct {
	Step int   `json:"step"`
	N    int   `json:"n"`
	U    Cells `json:"u"`
	V    Cells `json:"v"`
}

type snapshotJSON struct {
	RunID     string  `json:"run_id"`
	Every     int     `json:"every"`
	Snapshots []frame `json:"snapshots"`
}

func (sf SnapshotFile) MarshalJSON() ([]byte, error) {
	out := snapshotJSON{RunID: sf.RunID, Every: sf.Every, Snapshots: make([]frame, len(sf.Snapshots))}
	for i, s := range sf.Snapshots {
		out.Snapshots[i] = frame{Step: s.Step, N: s.N, U: s.U, V: s.V}
	}
	return json.Marshal(out)
}

func (sf *SnapshotFile) UnmarshalJSON(data []byte) error {
	var in snapshotJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	sf.RunID, sf.Every = in.RunID, in.Every
	sf.Snapshots = make([]sim.Snapshot, len(in.Snapshots))
	for i, f := range in.Snapshots {
		sf.Snapshots[i] = sim.Snapshot{Step: f.Step, N: f.N, U: f.U, V: f.V}
	}
	return nil
}

// Cells is a field that survives JSON even after a run went unstable:
// NaN and ±Inf are written as the strings "NaN", "+Inf" and "-Inf".
type Cells []float64

func (c Cells) MarshalJSON() ([]byte, error) {
	buf := make([]byte, 0, 2+len(c)*20)
	buf = append(buf, '[')
	for i, v := range c {
		if i > 0 {
			buf = append(buf, ',')
		}
		switch {
		case math.IsNaN(v):
			buf = append(buf, `"NaN"`...)
		case math.IsInf(v, 1):
			buf = append(buf, `"+Inf"`...)
		case math.IsInf(v, -1):
			buf = append(buf, `"-Inf"`...)
		default:
			buf = strconv.AppendFloat(buf, v, 'g', -1, 64)
		}
	}
	return append(buf, ']'), nil
}

func (c *Cells) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Cells, len(raw))
	for i, r := range raw {
		s := string(r)
		if len(s) >= 2 && s[0] == '"' {
			s = s[1 : len(s)-1]
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("cell %d: %w", i, err)
		}
		out[i] = v
	}
	*c = out
	return nil
}

// HasSnapshots reports whether a run stored intermediate frames.
func (s *Store) HasSnapshots(runID string) bool {
	_, err := os.Stat(filepath.Join(s.Dir(runID), "snapshots.json"))
	return err == nil
}

func (s *Store) saveSnapshots(runID string, every int, snaps []sim.Snapshot) error {
	return writeJSON(filepath.Join(s.Dir(runID), "snapshots.json"), SnapshotFile{
		RunID:     runID,
		Every:     every,
		Snapshots: snaps,
	})
}

func (s *Store) LoadSnapshots(runID string) (*SnapshotFile, error) {
	data, err := os.ReadFile(filepath.Join(s.Dir(runID), "snapshots.json"))
	if err != nil {
		return nil, err
	}

	var sf SnapshotFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return nil, err
	}
	return &sf, nil
}
