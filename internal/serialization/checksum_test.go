package serialization

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeChecksum(t *testing.T) {
	data := []byte("layers.0.weight")

	assert.Equal(t, ComputeChecksum(data), ComputeChecksum(data), "same data, same digest")
	assert.NotEqual(t, ComputeChecksum(data), ComputeChecksum([]byte("layers.0.bias")))
}

func TestComputeChecksumReader(t *testing.T) {
	data := []byte("checksum computed from a reader")

	sum, err := ComputeChecksumReader(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, ComputeChecksum(data), sum)
}

func TestValidateChecksum(t *testing.T) {
	sum := ComputeChecksum([]byte("payload"))

	assert.NoError(t, ValidateChecksum(sum, sum))
	assert.ErrorIs(t, ValidateChecksum(sum, [ChecksumSize]byte{1, 2, 3}), ErrChecksumMismatch)
}

func TestKnownVectorSHA256(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{"hello world", "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"},
	}

	for _, tt := range tests {
		sum := ComputeChecksum([]byte(tt.input))
		assert.Equal(t, tt.expected, hex.EncodeToString(sum[:]), "input %q", tt.input)
	}
}
