package model

import "errors"

// Domain errors for Gray-Scott simulations.
var (
	// ErrInvalidParameter indicates a parameter outside its valid range.
	ErrInvalidParameter = errors.New("grayscott: invalid parameter")

	// ErrNumericInstability indicates a NaN or Inf appeared in U or V.
	ErrNumericInstability = errors.New("grayscott: numeric instability (NaN or Inf detected)")

	// ErrShapeMismatch indicates grids of different sizes were combined.
	ErrShapeMismatch = errors.New("grayscott: grid shape mismatch")
)

// ParamError names the parameter that failed validation.
type ParamError struct {
	Name   string
	Value  float64
	Reason string
}

func (e *ParamError) Error() string {
	return ErrInvalidParameter.Error() + ": " + e.Name + " " + e.Reason
}

func (e *ParamError) Unwrap() error {
	return ErrInvalidParameter
}
