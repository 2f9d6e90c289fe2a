package nn

import (
	"math/rand"
	"time"

	"gonum.org/v1/gonum/mat"
)

// Weight initialization ranges.
const (
	// saturatingInitLow and saturatingInitHigh bound weights for sigmoid and tanh.
	saturatingInitLow  = -1.0
	saturatingInitHigh = 1.0

	// rectifiedInitHigh bounds weights for the ReLU family, drawn from [0, 0.1).
	rectifiedInitHigh = 0.1

	// cellInitHigh bounds every recurrent cell parameter, drawn from [0, 5).
	cellInitHigh = 5.0
)

// newRand returns rng, or a wall-clock seeded source when rng is nil.
func newRand(rng *rand.Rand) *rand.Rand {
	if rng != nil {
		return rng
	}
	//nolint:gosec // Using math/rand for weight initialization (not security-critical)
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// Uniform fills a rows x cols matrix with values drawn from [low, high).
func Uniform(rows, cols int, low, high float64, rng *rand.Rand) *mat.Dense {
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = low + rng.Float64()*(high-low)
	}
	return mat.NewDense(rows, cols, data)
}

// initWeights draws the weights between two layers for the given activation.
//
// Saturating activations (sigmoid, tanh) draw from [-1, 1); the ReLU family
// draws from [0, 0.1) so that unbounded layers start small.
func initWeights(from, to int, activation Activation, rng *rand.Rand) *mat.Dense {
	if activation.saturating() {
		return Uniform(from, to, saturatingInitLow, saturatingInitHigh, rng)
	}
	return Uniform(from, to, 0, rectifiedInitHigh, rng)
}
