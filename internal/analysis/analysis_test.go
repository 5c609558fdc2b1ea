package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func sinusoid(n, kx, ky int) []float64 {
	v := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v[i*n+j] = 0.5 + 0.2*math.Cos(2*math.Pi*float64(kx*i+ky*j)/float64(n))
		}
	}
	return v
}

func TestSpectrumFindsWavelength(t *testing.T) {
	tests := []struct {
		name   string
		kx, ky int
		want   int
	}{
		{"horizontal", 0, 4, 4},
		{"vertical", 6, 0, 6},
		{"diagonal", 3, 4, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Spectrum(32, sinusoid(32, tt.kx, tt.ky))
			require.NoError(t, err)
			require.Equal(t, tt.want, s.Dominant())
			require.InDelta(t, 32.0/float64(tt.want), s.Wavelength(tt.want, 1), 1e-12)
		})
	}
}

func TestSpectrumConstantField(t *testing.T) {
	v := make([]float64, 16*16)
	for k := range v {
		v[k] = 0.3
	}
	s, err := Spectrum(16, v)
	require.NoError(t, err)
	require.Equal(t, 0, s.Dominant())
	require.True(t, math.IsInf(s.Wavelength(0, 1), 1))

	total := 0
	for _, m := range s.Modes {
		total += m
	}
	require.Equal(t, 256, total)

	_, err = Spectrum(4, v)
	require.Error(t, err)
}

func TestOscillation(t *testing.T) {
	series := make([]float64, 256)
	for i := range series {
		series[i] = math.Sin(2 * math.Pi * float64(i) / 32)
	}
	require.InDelta(t, 32, Oscillation(series), 1e-9)

	flat := make([]float64, 64)
	require.True(t, math.IsInf(Oscillation(flat), 1))
	require.True(t, math.IsInf(Oscillation([]float64{1, 2}), 1))
}

func TestDescribe(t *testing.T) {
	st := Describe([]float64{1, 3, math.NaN(), 2})
	require.InDelta(t, 2.0, st.Mean, 1e-12)
	require.Equal(t, 1.0, st.Min)
	require.Equal(t, 3.0, st.Max)
	require.Equal(t, 1, st.NonFinite)
	require.InDelta(t, math.Sqrt(2.0/3), st.Std, 1e-12)

	require.Equal(t, FieldStats{NonFinite: 1}, Describe([]float64{math.Inf(1)}))
}

func TestPattern(t *testing.T) {
	v := make([]float64, 100)
	require.Equal(t, "uniform", Pattern(v, 0.1))
	v[0] = 0.3
	require.Equal(t, "spots", Pattern(v, 0.1))
	for k := 0; k < 30; k++ {
		v[k] = 0.3
	}
	require.Equal(t, "stripes", Pattern(v, 0.1))
}
