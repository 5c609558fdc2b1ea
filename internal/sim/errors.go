package sim

import (
	"errors"
	"fmt"

	"github.com/san-kum/grayscott/internal/model"
)

var ErrNotInitialized = errors.New("grayscott: simulation not initialized")

// InstabilityError reports the first non-finite cell found after a step.
type InstabilityError struct {
	Step  int
	Field string
	Row   int
	Col   int
	Value float64
}

func (e *InstabilityError) Error() string {
	return fmt.Sprintf("grayscott: numeric instability at step %d: %s[%d,%d] = %v", e.Step, e.Field, e.Row, e.Col, e.Value)
}

func (e *InstabilityError) Unwrap() error {
	return model.ErrNumericInstability
}
