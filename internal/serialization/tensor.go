package serialization

import (
	"fmt"
	"sort"
)

// Tensor is a named block of float64 parameters with a shape.
//
// Data is stored row-major; len(Data) must equal the product of Shape.
type Tensor struct {
	Shape []int
	Data  []float64
}

// NewTensor creates a zero-filled tensor of the given shape.
func NewTensor(shape ...int) *Tensor {
	return &Tensor{
		Shape: append([]int(nil), shape...),
		Data:  make([]float64, numElements(shape)),
	}
}

// FromSlice wraps data in a tensor of the given shape.
func FromSlice(data []float64, shape ...int) (*Tensor, error) {
	t := &Tensor{Shape: append([]int(nil), shape...), Data: data}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// NumElements returns the product of the shape.
func (t *Tensor) NumElements() int {
	return numElements(t.Shape)
}

// Validate checks that the shape is positive and matches the data length.
func (t *Tensor) Validate() error {
	n := 1
	for _, d := range t.Shape {
		if d < 1 {
			return fmt.Errorf("invalid dimension %d in shape %v", d, t.Shape)
		}
		if n > len(t.Data)/d {
			return fmt.Errorf("shape %v needs more than %d elements", t.Shape, len(t.Data))
		}
		n *= d
	}
	if len(t.Data) != n {
		return fmt.Errorf("shape %v needs %d elements, got %d", t.Shape, t.NumElements(), len(t.Data))
	}
	return nil
}

// HasShape reports whether the tensor has exactly the given shape.
func (t *Tensor) HasShape(shape ...int) bool {
	if len(t.Shape) != len(shape) {
		return false
	}
	for i := range shape {
		if t.Shape[i] != shape[i] {
			return false
		}
	}
	return true
}

func numElements(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

// sortedNames returns the state dictionary keys in ascending order.
func sortedNames(stateDict map[string]*Tensor) []string {
	names := make([]string, 0, len(stateDict))
	for name := range stateDict {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
