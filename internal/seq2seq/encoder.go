package seq2seq

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/sprout/internal/nn"
)

// Encoder turns a sequence of token vectors into a Memory.
type Encoder struct {
	embedding *nn.Network
	grid      *Grid
}

// newEmbedding creates the [VectorWidth, depth] network that maps a token
// vector to one input per cell.
func newEmbedding(depth int, rng *rand.Rand) (*nn.Network, error) {
	return nn.NewNetwork(nn.NetworkConfig{
		Sizes:        []int{VectorWidth, depth},
		Activation:   nn.ActivationSigmoid,
		LearningRate: nn.DefaultLearningRate,
		Rand:         rng,
	})
}

func newEncoder(layers, depth int, rng *rand.Rand) (*Encoder, error) {
	embedding, err := newEmbedding(depth, rng)
	if err != nil {
		return nil, fmt.Errorf("encoder embedding: %w", err)
	}
	return &Encoder{
		embedding: embedding,
		grid:      NewGrid(layers, depth, rng),
	}, nil
}

// Encode resets the grid, steps it once per vector and returns the final
// state of every cell. An empty sequence yields an all-zero Memory.
func (e *Encoder) Encode(vectors [][]float64) (Memory, error) {
	e.grid.Reset()

	for i, v := range vectors {
		inputs, err := e.embedding.Forward(v)
		if err != nil {
			return nil, fmt.Errorf("vector %d: %w", i, err)
		}
		if err := e.grid.Step(inputs); err != nil {
			return nil, err
		}
	}

	return e.grid.Memory(), nil
}

// Embedding returns the embedding network.
func (e *Encoder) Embedding() *nn.Network {
	return e.embedding
}

// Grid returns the recurrent grid.
func (e *Encoder) Grid() *Grid {
	return e.grid
}
