package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// WriteGrid writes an n×n row-major field as n CSV records of n values.
// Values use the shortest representation that parses back exactly.
func WriteGrid(w io.Writer, n int, values []float64) error {
	if len(values) != n*n {
		return fmt.Errorf("grid has %d values, want %d", len(values), n*n)
	}
	cw := csv.NewWriter(w)
	row := make([]string, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			row[j] = strconv.FormatFloat(values[i*n+j], 'g', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteGridFile(path string, n int, values []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteGrid(f, n, values); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadGrid parses a square CSV grid written by WriteGrid.
func ReadGrid(r io.Reader) (int, []float64, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return 0, nil, err
	}
	n := len(records)
	if n == 0 {
		return 0, nil, fmt.Errorf("empty grid")
	}
	values := make([]float64, 0, n*n)
	for i, record := range records {
		if len(record) != n {
			return 0, nil, fmt.Errorf("row %d has %d values, want %d", i, len(record), n)
		}
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return 0, nil, fmt.Errorf("row %d col %d: %w", i, j, err)
			}
			values = append(values, v)
		}
	}
	return n, values, nil
}

func ReadGridFile(path string) (int, []float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, nil, err
	}
	defer f.Close()
	return ReadGrid(f)
}

func writeHistory(path string, firstStep int, meanU []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"step", "mean_u"}); err != nil {
		return err
	}
	for i, m := range meanU {
		row := []string{strconv.Itoa(firstStep + i), strconv.FormatFloat(m, 'g', -1, 64)}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// LoadHistory returns the step numbers and mean-U values of a run.
func (s *Store) LoadHistory(runID string) ([]int, []float64, error) {
	f, err := os.Open(filepath.Join(s.Dir(runID), "history.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return []int{}, []float64{}, nil
	}

	steps := make([]int, 0, len(records)-1)
	means := make([]float64, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) != 2 {
			continue
		}
		step, err := strconv.Atoi(record[0])
		if err != nil {
			continue
		}
		m, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			continue
		}
		steps = append(steps, step)
		means = append(means, m)
	}
	return steps, means, nil
}
