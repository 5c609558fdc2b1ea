package metrics

import (
	"math"

	"github.com/san-kum/grayscott/internal/model"
)

// Stability is the fraction of observed steps in which every U and V value
// stayed finite and within [-threshold, threshold].
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(st *model.State) {
	s.samples++
	if !s.bounded(st.U.Cells()) || !s.bounded(st.V.Cells()) {
		s.violations++
	}
}

func (s *Stability) bounded(cells []float64) bool {
	for _, val := range cells {
		// NaN fails every comparison, so test the negation.
		if !(math.Abs(val) <= s.threshold) {
			return false
		}
	}
	return true
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
