package model

import (
	"errors"
	"fmt"
	"math"
)

const (
	DefaultDu    = 0.2
	DefaultDv    = 0.1
	DefaultF     = 0.025
	DefaultK     = 0.056
	DefaultN     = 128
	DefaultH     = 1.0
	DefaultDt    = 1.0
	DefaultSteps = 10000

	// MinGridSize is the smallest grid whose five-point neighbours are distinct.
	MinGridSize = 3
)

// Params configures a Gray-Scott run. Treat values as immutable once a
// simulation has been built from them.
type Params struct {
	Du    float64 `yaml:"du" json:"du"`
	Dv    float64 `yaml:"dv" json:"dv"`
	F     float64 `yaml:"f" json:"f"`
	K     float64 `yaml:"k" json:"k"`
	N     int     `yaml:"n" json:"n"`
	H     float64 `yaml:"h" json:"h"`
	Dt    float64 `yaml:"dt" json:"dt"`
	Steps int     `yaml:"steps" json:"steps"`
}

func DefaultParams() Params {
	return Params{
		Du:    DefaultDu,
		Dv:    DefaultDv,
		F:     DefaultF,
		K:     DefaultK,
		N:     DefaultN,
		H:     DefaultH,
		Dt:    DefaultDt,
		Steps: DefaultSteps,
	}
}

// H2 is the squared grid spacing used by the stencil.
func (p Params) H2() float64 { return p.H * p.H }

// Validate checks every field and joins all violations into one error that
// matches ErrInvalidParameter.
func (p Params) Validate() error {
	var errs []error
	check := func(name string, v float64, ok bool, reason string) {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			errs = append(errs, &ParamError{Name: name, Value: v, Reason: "must be finite"})
			return
		}
		if !ok {
			errs = append(errs, &ParamError{Name: name, Value: v, Reason: reason})
		}
	}

	check("n", float64(p.N), p.N >= MinGridSize, fmt.Sprintf("must be at least %d, got %d", MinGridSize, p.N))
	check("du", p.Du, p.Du > 0, fmt.Sprintf("must be positive, got %g", p.Du))
	check("dv", p.Dv, p.Dv > 0, fmt.Sprintf("must be positive, got %g", p.Dv))
	check("f", p.F, p.F >= 0, fmt.Sprintf("must be non-negative, got %g", p.F))
	check("k", p.K, p.K >= 0, fmt.Sprintf("must be non-negative, got %g", p.K))
	check("h", p.H, p.H > 0, fmt.Sprintf("must be positive, got %g", p.H))
	check("dt", p.Dt, p.Dt > 0, fmt.Sprintf("must be positive, got %g", p.Dt))
	check("steps", float64(p.Steps), p.Steps >= 0, fmt.Sprintf("must be non-negative, got %d", p.Steps))

	return errors.Join(errs...)
}

// StabilityLimit is the largest dt for which the explicit scheme keeps the
// diffusion part stable: dt ≤ h² / (4 max(Du, Dv)).
func (p Params) StabilityLimit() float64 {
	return p.H2() / (4 * math.Max(p.Du, p.Dv))
}

// RateU is ∂u/∂t at one cell.
func (p Params) RateU(u, lapU, uvv float64) float64 {
	return p.Du*lapU - uvv + p.F*(1-u)
}

// RateV is ∂v/∂t at one cell.
func (p Params) RateV(v, lapV, uvv float64) float64 {
	return p.Dv*lapV + uvv - (p.F+p.K)*v
}

func (p Params) GetParams() map[string]float64 {
	return map[string]float64{"du": p.Du, "dv": p.Dv, "f": p.F, "k": p.K, "dt": p.Dt}
}

// WithParam returns a copy of p with one named rate parameter replaced.
func (p Params) WithParam(name string, v float64) (Params, error) {
	switch name {
	case "du":
		p.Du = v
	case "dv":
		p.Dv = v
	case "f":
		p.F = v
	case "k":
		p.K = v
	case "dt":
		p.Dt = v
	default:
		return p, fmt.Errorf("unknown parameter: %s", name)
	}
	return p, p.Validate()
}
