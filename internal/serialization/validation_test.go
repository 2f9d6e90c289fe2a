package serialization

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTensorOffsets(t *testing.T) {
	tests := []struct {
		name     string
		tensors  []TensorMeta
		dataSize int64
		wantErr  error
	}{
		{
			name: "adjacent regions",
			tensors: []TensorMeta{
				{Name: "a", Offset: 0, Size: 80},
				{Name: "b", Offset: 80, Size: 16},
			},
			dataSize: 96,
		},
		{
			name: "overlap by one byte",
			tensors: []TensorMeta{
				{Name: "a", Offset: 0, Size: 80},
				{Name: "b", Offset: 79, Size: 16},
			},
			dataSize: 96,
			wantErr:  ErrOffsetOverlap,
		},
		{
			name:     "past the end",
			tensors:  []TensorMeta{{Name: "a", Offset: 64, Size: 64}},
			dataSize: 96,
			wantErr:  ErrOutOfBounds,
		},
		{
			name:     "offset and size overflow int64",
			tensors:  []TensorMeta{{Name: "a", Offset: 1 << 62, Size: 1 << 62}},
			dataSize: 8,
			wantErr:  ErrOutOfBounds,
		},
		{
			name:     "negative offset",
			tensors:  []TensorMeta{{Name: "a", Offset: -8, Size: 8}},
			dataSize: 96,
			wantErr:  ErrNegativeOffset,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTensorOffsets(tt.tensors, tt.dataSize)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			var validationErr *ValidationError
			require.True(t, errors.As(err, &validationErr), "got %v", err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, "a", validationErr.Tensor)
		})
	}
}

func TestValidateTensorName(t *testing.T) {
	for _, name := range []string{"layers.0.weight", "encoder.cells", "decoder.classifier.layers.1.bias"} {
		assert.NoError(t, ValidateTensorName(name), name)
	}

	for _, name := range []string{
		"",
		"../secret",
		"layers/0/weight",
		"layers\\0",
		"tensor\x00hidden",
		strings.Repeat("a", MaxTensorNameLen+1),
	} {
		assert.ErrorIs(t, ValidateTensorName(name), ErrInvalidTensorName, "name %q", name)
	}
}

func TestValidateTensorSize(t *testing.T) {
	assert.NoError(t, ValidateTensorSize(TensorMeta{Name: "w", Shape: []int{2, 3}, Size: 48}))
	assert.ErrorIs(t, ValidateTensorSize(TensorMeta{Name: "w", Shape: []int{2, 3}, Size: 40}), ErrShapeMismatch)
	assert.ErrorIs(t, ValidateTensorSize(TensorMeta{Name: "w", Shape: []int{0, 3}, Size: 0}), ErrShapeMismatch)
	assert.ErrorIs(t, ValidateTensorSize(TensorMeta{Name: "w", Shape: []int{1 << 59}, Size: 0}), ErrShapeMismatch)
	assert.ErrorIs(t, ValidateTensorSize(TensorMeta{Name: "w", Shape: []int{1 << 40, 1 << 40}, Size: 0}), ErrShapeMismatch)
}

func TestValidateHeaderLevels(t *testing.T) {
	overlapping := Header{
		Tensors: []TensorMeta{
			{Name: "a", Shape: []int{2}, Offset: 0, Size: 16},
			{Name: "b", Shape: []int{2}, Offset: 8, Size: 16},
		},
	}

	assert.Error(t, ValidateHeader(&overlapping, 32, ValidationStrict))
	assert.NoError(t, ValidateHeader(&overlapping, 32, ValidationNormal), "normal mode skips offsets")

	malicious := Header{Tensors: []TensorMeta{{Name: "../../etc/passwd", Offset: -1, Size: -1}}}
	assert.Error(t, ValidateHeader(&malicious, 0, ValidationNormal))
	assert.NoError(t, ValidateHeader(&malicious, 0, ValidationNone))
}

func TestValidationErrorMessages(t *testing.T) {
	assert.Equal(t,
		`tensor extends beyond data section: tensor "w": offset 8 + size 16 > data_size 16`,
		(&ValidationError{Err: ErrOutOfBounds, Tensor: "w", Details: "offset 8 + size 16 > data_size 16"}).Error())
	assert.Equal(t,
		`tensor offsets overlap: tensors "a" and "b": regions [0-16] and [8-24] overlap`,
		(&ValidationError{Err: ErrOffsetOverlap, Tensor: "a", Other: "b", Details: "regions [0-16] and [8-24] overlap"}).Error())
	assert.Equal(t,
		"too many tensors: got 5, max 4",
		(&ValidationError{Err: ErrTooManyTensors, Details: "got 5, max 4"}).Error())
}

func TestLookup(t *testing.T) {
	stateDict := map[string]*Tensor{"w": {Shape: []int{2}, Data: []float64{1, 2}}}

	got, err := Lookup(stateDict, "w", 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, got.Data)

	_, err = Lookup(stateDict, "w", 3)
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = Lookup(stateDict, "b", 2)
	assert.ErrorIs(t, err, ErrTensorNotFound)
}
