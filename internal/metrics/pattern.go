package metrics

import "github.com/san-kum/grayscott/internal/model"

// URange tracks max(U) - min(U) at the latest step. A flat field has range
// zero; a developed pattern typically spans 0.3 to 1.
type URange struct {
	name string
	last float64
}

func NewURange() *URange {
	return &URange{name: "u_range"}
}

func (r *URange) Name() string { return r.name }

func (r *URange) Observe(st *model.State) {
	lo, hi := st.U.MinMax()
	r.last = hi - lo
}

func (r *URange) Value() float64 { return r.last }
func (r *URange) Reset()         { r.last = 0 }

// VCoverage is the fraction of cells whose V exceeds a threshold at the
// latest step.
type VCoverage struct {
	name      string
	threshold float64
	last      float64
}

func NewVCoverage(threshold float64) *VCoverage {
	return &VCoverage{name: "v_coverage", threshold: threshold}
}

func (c *VCoverage) Name() string { return c.name }

func (c *VCoverage) Observe(st *model.State) {
	cells := st.V.Cells()
	hit := 0
	for _, v := range cells {
		if v > c.threshold {
			hit++
		}
	}
	c.last = float64(hit) / float64(len(cells))
}

func (c *VCoverage) Value() float64 { return c.last }
func (c *VCoverage) Reset()         { c.last = 0 }

// Activity is the mean absolute change of U per cell between consecutive
// observed steps, averaged over the run. It falls towards zero as a
// pattern settles.
type Activity struct {
	name    string
	prev    []float64
	sum     float64
	samples int
}

func NewActivity() *Activity {
	return &Activity{name: "activity"}
}

func (a *Activity) Name() string { return a.name }

func (a *Activity) Observe(st *model.State) {
	cells := st.U.Cells()
	if len(a.prev) != len(cells) {
		a.prev = append(a.prev[:0], cells...)
		return
	}
	var d float64
	for k, u := range cells {
		if u > a.prev[k] {
			d += u - a.prev[k]
		} else {
			d += a.prev[k] - u
		}
	}
	a.sum += d / float64(len(cells))
	a.samples++
	copy(a.prev, cells)
}

func (a *Activity) Value() float64 {
	if a.samples == 0 {
		return 0
	}
	return a.sum / float64(a.samples)
}

func (a *Activity) Reset() {
	a.prev = a.prev[:0]
	a.sum = 0
	a.samples = 0
}
