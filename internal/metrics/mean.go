package metrics

import "github.com/san-kum/grayscott/internal/model"

// MeanU averages the spatial mean of U over every observed step.
type MeanU struct {
	name    string
	sum     float64
	samples int
}

func NewMeanU() *MeanU {
	return &MeanU{name: "mean_u"}
}

func (m *MeanU) Name() string { return m.name }

func (m *MeanU) Observe(st *model.State) {
	m.sum += st.U.Mean()
	m.samples++
}

func (m *MeanU) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanU) Reset() {
	m.sum = 0
	m.samples = 0
}
