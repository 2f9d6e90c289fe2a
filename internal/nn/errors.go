package nn

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	// ErrConfiguration reports an invalid topology, label set, learning rate
	// or training dataset. It is returned before any parameter is mutated.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrIO reports a missing or malformed persisted network record.
	ErrIO = errors.New("network record i/o")

	// ErrInputSize reports an input vector that does not match the input layer.
	ErrInputSize = fmt.Errorf("%w: input size does not match input layer", ErrConfiguration)

	// ErrTargetSize reports a target vector that does not match the output layer.
	ErrTargetSize = fmt.Errorf("%w: target size does not match output layer", ErrConfiguration)
)

// RecordError describes why a persisted record could not be applied.
type RecordError struct {
	Field   string // Offending field (e.g., "biases", "connections")
	Details string // Additional details
}

// Error implements the error interface.
func (e *RecordError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Details)
}

// Unwrap lets errors.Is match ErrIO.
func (e *RecordError) Unwrap() error {
	return ErrIO
}
