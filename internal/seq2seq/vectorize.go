package seq2seq

const (
	// VectorWidth is the length of every vectorized token.
	VectorWidth = 32

	// EncodedBits is the number of leading vector elements that carry id
	// bits. The trailing VectorWidth-EncodedBits elements are always zero.
	EncodedBits = 25
)

// Vectorize encodes a token id as a VectorWidth-element binary vector.
//
// Element i (i < EncodedBits) holds bit 31-i of the id's 32-bit form, most
// significant bit first. Bits 6..0 have no element, so ids that differ only
// in their low seven bits share a vector.
func Vectorize(id int32) []float64 {
	v := make([]float64, VectorWidth)
	bits := uint32(id) //nolint:gosec // G115: two's complement form is intended
	for i := 0; i < EncodedBits; i++ {
		v[i] = float64((bits >> (31 - i)) & 1)
	}
	return v
}

// VectorizeAll encodes every id of a sequence.
func VectorizeAll(ids []int32) [][]float64 {
	vectors := make([][]float64, len(ids))
	for i, id := range ids {
		vectors[i] = Vectorize(id)
	}
	return vectors
}
