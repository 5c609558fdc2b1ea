package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type FieldStats struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	// NonFinite counts NaN and Inf cells, which are excluded from the
	// other statistics.
	NonFinite int `json:"non_finite"`
}

// Describe summarises the finite cells of a field. Std is the population
// standard deviation.
func Describe(values []float64) FieldStats {
	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}
	st := FieldStats{NonFinite: len(values) - len(finite)}
	if len(finite) == 0 {
		return st
	}
	st.Mean, st.Std = stat.PopMeanStdDev(finite, nil)
	st.Min, st.Max = floats.Min(finite), floats.Max(finite)
	return st
}

// Pattern classifies a field by how much of V is active.
func Pattern(v []float64, threshold float64) string {
	active := 0
	for _, x := range v {
		if x > threshold {
			active++
		}
	}
	frac := float64(active) / float64(len(v))
	switch {
	case active == 0:
		return "uniform"
	case frac < 0.15:
		return "spots"
	case frac < 0.45:
		return "stripes"
	default:
		return "holes"
	}
}
