package analysis

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

// RadialSpectrum holds power summed over rings of integer wavenumber
// k = round(sqrt(kx² + ky²)) on an n×n periodic grid.
type RadialSpectrum struct {
	N     int
	Power []float64
	Modes []int
}

// Spectrum removes the mean of an n×n row-major field and bins the power
// of its 2-D DFT by wavenumber.
func Spectrum(n int, values []float64) (*RadialSpectrum, error) {
	if n < 1 || len(values) != n*n {
		return nil, fmt.Errorf("field has %d values, want %d", len(values), n*n)
	}

	var mean float64
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, n)
		for j := range rows[i] {
			rows[i][j] = values[i*n+j] - mean
		}
	}

	coeffs := fft.FFT2Real(rows)

	kmax := int(math.Ceil(math.Sqrt(2) * float64(n/2)))
	s := &RadialSpectrum{N: n, Power: make([]float64, kmax+1), Modes: make([]int, kmax+1)}
	for i := 0; i < n; i++ {
		kx := signedFreq(i, n)
		for j := 0; j < n; j++ {
			ky := signedFreq(j, n)
			k := int(math.Round(math.Hypot(float64(kx), float64(ky))))
			a := cmplx.Abs(coeffs[i][j])
			s.Power[k] += a * a
			s.Modes[k]++
		}
	}
	return s, nil
}

func signedFreq(i, n int) int {
	if i > n/2 {
		return i - n
	}
	return i
}

// Dominant returns the wavenumber with the most power, ignoring k = 0.
// It returns 0 for a constant field.
func (s *RadialSpectrum) Dominant() int {
	best, bestK := 0.0, 0
	for k := 1; k < len(s.Power); k++ {
		if s.Power[k] > best {
			best, bestK = s.Power[k], k
		}
	}
	return bestK
}

// Wavelength converts a wavenumber to a length in grid units of spacing h.
func (s *RadialSpectrum) Wavelength(k int, h float64) float64 {
	if k == 0 {
		return math.Inf(1)
	}
	return float64(s.N) * h / float64(k)
}

// Oscillation finds the dominant period, in samples, of a scalar series
// after removing its mean and applying a Hann window. It returns +Inf when
// the series has no oscillating component.
func Oscillation(series []float64) float64 {
	n := len(series)
	if n < 4 {
		return math.Inf(1)
	}

	var mean float64
	for _, v := range series {
		mean += v
	}
	mean /= float64(n)

	x := make([]float64, n)
	for i, v := range series {
		x[i] = v - mean
	}
	window.Apply(x, window.Hann)

	coeffs := fft.FFTReal(x)
	best, bestF := 0.0, 0
	for f := 1; f <= n/2; f++ {
		if p := cmplx.Abs(coeffs[f]); p > best {
			best, bestF = p, f
		}
	}
	if bestF == 0 || best < 1e-12 {
		return math.Inf(1)
	}
	return float64(n) / float64(bestF)
}
