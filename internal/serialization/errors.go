package serialization

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrChecksumMismatch   = errors.New("checksum mismatch: file may be corrupted")
	ErrOffsetOverlap      = errors.New("tensor offsets overlap")
	ErrOutOfBounds        = errors.New("tensor extends beyond data section")
	ErrNegativeOffset     = errors.New("negative offset or size")
	ErrTooManyTensors     = errors.New("too many tensors")
	ErrInvalidTensorName  = errors.New("invalid tensor name")
	ErrShapeMismatch      = errors.New("tensor shape mismatch")
	ErrHeaderTooLarge     = errors.New("header exceeds maximum size")
	ErrDataTooLarge       = errors.New("data section exceeds maximum size")
	ErrInvalidMagic       = errors.New("invalid magic bytes")
	ErrUnsupportedVersion = errors.New("unsupported format version")
	ErrTensorNotFound     = errors.New("tensor not found")
)

// ValidationError ties a validation failure to the tensors involved.
// It unwraps to one of the sentinel errors above.
type ValidationError struct {
	Err     error  // Sentinel describing the failure
	Tensor  string // Primary tensor name, if any
	Other   string // Second tensor of an overlap
	Details string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	switch {
	case e.Other != "":
		return fmt.Sprintf("%v: tensors %q and %q: %s", e.Err, e.Tensor, e.Other, e.Details)
	case e.Tensor != "":
		return fmt.Sprintf("%v: tensor %q: %s", e.Err, e.Tensor, e.Details)
	default:
		return fmt.Sprintf("%v: %s", e.Err, e.Details)
	}
}

// Unwrap returns the sentinel error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}
