package dynamo

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrInvalidState indicates a state vector with NaN or Inf entries.
var ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

// StepError wraps an integration failure with the step it happened on.
type StepError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
