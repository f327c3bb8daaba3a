package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for the outer layers. The simulation core itself never fails.
var (
	// ErrInvalidConfig indicates a configuration value outside its valid range.
	ErrInvalidConfig = errors.New("dynamo: invalid configuration")

	// ErrInvalidState indicates a body with NaN or Inf position or velocity.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrUnknownPreset indicates a preset name that is not registered.
	ErrUnknownPreset = errors.New("dynamo: unknown preset")

	// ErrUnknownParam indicates a tunable parameter name that does not exist.
	ErrUnknownParam = errors.New("dynamo: unknown parameter")

	// ErrNoSamples indicates a stored run without any recorded samples.
	ErrNoSamples = errors.New("dynamo: run has no samples")
)

// SimulationError wraps an error with the frame it was detected on.
type SimulationError struct {
	Frame   int
	Time    float64
	Body    int
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("frame %d (t=%.4f) body %d: %v", e.Frame, e.Time, e.Body, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
