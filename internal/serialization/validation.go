package serialization

import (
	"fmt"
	"sort"
	"strings"
)

// Validation limits for resource protection.
const (
	MaxHeaderSize    = 16 * 1024 * 1024 // 16MB - maximum header size
	MaxDataSize      = 4 << 30          // 4GB - maximum data section size
	MaxTensorCount   = 100_000          // Maximum number of tensors in a file
	MaxTensorNameLen = 4096             // Maximum tensor name length
)

// ValidationLevel controls the strictness of validation.
type ValidationLevel int

const (
	// ValidationStrict performs all validation checks (default).
	ValidationStrict ValidationLevel = iota
	// ValidationNormal checks tensor names and count only.
	ValidationNormal
	// ValidationNone skips validation. Use only with trusted input.
	ValidationNone
)

// ValidateTensorOffsets checks for overlapping tensor regions and reads past
// the end of the data section.
func ValidateTensorOffsets(tensors []TensorMeta, dataSize int64) error {
	if len(tensors) > MaxTensorCount {
		return &ValidationError{
			Err:     ErrTooManyTensors,
			Details: fmt.Sprintf("got %d, max %d", len(tensors), MaxTensorCount),
		}
	}

	sorted := make([]TensorMeta, len(tensors))
	copy(sorted, tensors)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Offset < sorted[j].Offset
	})

	for i, t := range sorted {
		if t.Offset < 0 || t.Size < 0 {
			return &ValidationError{
				Err:     ErrNegativeOffset,
				Tensor:  t.Name,
				Details: fmt.Sprintf("offset=%d, size=%d (negative values not allowed)", t.Offset, t.Size),
			}
		}

		if t.Offset > dataSize || t.Size > dataSize-t.Offset {
			return &ValidationError{
				Err:     ErrOutOfBounds,
				Tensor:  t.Name,
				Details: fmt.Sprintf("offset %d + size %d > data_size %d", t.Offset, t.Size, dataSize),
			}
		}

		if i < len(sorted)-1 {
			next := sorted[i+1]
			if t.Offset+t.Size > next.Offset {
				return &ValidationError{
					Err:     ErrOffsetOverlap,
					Tensor:  t.Name,
					Other:   next.Name,
					Details: fmt.Sprintf("regions [%d-%d] and [%d-%d] overlap",
						t.Offset, t.Offset+t.Size, next.Offset, next.Offset+next.Size),
				}
			}
		}
	}

	return nil
}

// ValidateTensorSize checks that a tensor's byte size matches its shape.
func ValidateTensorSize(t TensorMeta) error {
	n := int64(1)
	for _, d := range t.Shape {
		if d < 1 {
			return &ValidationError{
				Err:     ErrShapeMismatch,
				Tensor:  t.Name,
				Details: fmt.Sprintf("dimension %d in shape %v", d, t.Shape),
			}
		}
		if n > MaxDataSize/elementSize/int64(d) {
			return &ValidationError{
				Err:     ErrShapeMismatch,
				Tensor:  t.Name,
				Details: fmt.Sprintf("shape %v exceeds the maximum data size", t.Shape),
			}
		}
		n *= int64(d)
	}
	if n*elementSize != t.Size {
		return &ValidationError{
			Err:     ErrShapeMismatch,
			Tensor:  t.Name,
			Details: fmt.Sprintf("shape %v needs %d bytes, header says %d", t.Shape, n*elementSize, t.Size),
		}
	}
	return nil
}

// ValidateTensorName rejects empty, oversized and path-like tensor names.
func ValidateTensorName(name string) error {
	if name == "" {
		return &ValidationError{
			Err:     ErrInvalidTensorName,
			Details: "empty tensor name",
		}
	}

	if len(name) > MaxTensorNameLen {
		return &ValidationError{
			Err:     ErrInvalidTensorName,
			Tensor:  name,
			Details: fmt.Sprintf("length %d > max %d", len(name), MaxTensorNameLen),
		}
	}

	if strings.Contains(name, "..") {
		return &ValidationError{
			Err:     ErrInvalidTensorName,
			Tensor:  name,
			Details: "contains '..'",
		}
	}

	if strings.ContainsAny(name, "/\\\x00") {
		return &ValidationError{
			Err:     ErrInvalidTensorName,
			Tensor:  name,
			Details: "contains path separator or null byte",
		}
	}

	return nil
}

// ValidateHeader performs header validation at the given level.
func ValidateHeader(h *Header, dataSize int64, level ValidationLevel) error {
	if level == ValidationNone {
		return nil
	}

	if len(h.Tensors) > MaxTensorCount {
		return &ValidationError{
			Err:     ErrTooManyTensors,
			Details: fmt.Sprintf("got %d, max %d", len(h.Tensors), MaxTensorCount),
		}
	}

	for _, t := range h.Tensors {
		if err := ValidateTensorName(t.Name); err != nil {
			return err
		}
	}

	if level == ValidationStrict {
		for _, t := range h.Tensors {
			if err := ValidateTensorSize(t); err != nil {
				return err
			}
		}
		if err := ValidateTensorOffsets(h.Tensors, dataSize); err != nil {
			return err
		}
	}

	return nil
}
