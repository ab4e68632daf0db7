package cell

import (
	"errors"
	"fmt"
)

// Domain errors for solve operations.
var (
	// ErrInvalidState indicates a state vector carrying NaN or Inf values.
	ErrInvalidState = errors.New("cell: invalid state (NaN or Inf detected)")

	// ErrStepTooSmall indicates the adaptive timestep fell below the minimum.
	ErrStepTooSmall = errors.New("cell: adaptive timestep below minimum")

	// ErrDimensionMismatch indicates mismatched state/model dimensions.
	ErrDimensionMismatch = errors.New("cell: dimension mismatch between state and model")
)

// SolutionError wraps a domain error with the step and time at which
// the solve failed.
type SolutionError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *SolutionError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SolutionError) Unwrap() error {
	return e.Wrapped
}
