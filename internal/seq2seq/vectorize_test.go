package seq2seq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorize(t *testing.T) {
	tests := []struct {
		name string
		id   int32
		ones []int // indices expected to be 1
	}{
		{"zero", 0, nil},
		{"low bits are dropped", 127, nil},
		{"bit 7", 128, []int{24}},
		{"bits 7 and 8", 384, []int{23, 24}},
		{"bit 30", 1 << 30, []int{1}},
		{"sign bit", -1 << 31, []int{0}},
		{"mixed", 1<<20 | 1<<9 | 5, []int{11, 22}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Vectorize(tt.id)
			require.Len(t, v, VectorWidth)

			want := make([]float64, VectorWidth)
			for _, i := range tt.ones {
				want[i] = 1
			}
			assert.Equal(t, want, v)
		})
	}
}

func TestVectorizeTrailingElementsAlwaysZero(t *testing.T) {
	for _, id := range []int32{0, 1, 255, 65535, 1<<31 - 1, -1} {
		v := Vectorize(id)
		for i := EncodedBits; i < VectorWidth; i++ {
			assert.Zero(t, v[i], "id %d element %d", id, i)
		}
	}
}

func TestVectorizeAll(t *testing.T) {
	vectors := VectorizeAll([]int32{128, 0})
	require.Len(t, vectors, 2)
	assert.Equal(t, 1.0, vectors[0][24])
	assert.Equal(t, Vectorize(0), vectors[1])

	assert.Empty(t, VectorizeAll(nil))
}
