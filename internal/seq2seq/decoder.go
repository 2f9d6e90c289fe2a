package seq2seq

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/sprout/internal/nn"
)

// StartToken is the id decoded after seeding.
const StartToken int32 = 0

// Decoder classifies a Memory handed over by an Encoder.
type Decoder struct {
	embedding  *nn.Network
	grid       *Grid
	classifier *nn.Network
}

func newDecoder(layers, depth int, labels []string, lr float64, rng *rand.Rand) (*Decoder, error) {
	embedding, err := newEmbedding(depth, rng)
	if err != nil {
		return nil, fmt.Errorf("decoder embedding: %w", err)
	}
	classifier, err := nn.NewNetwork(nn.NetworkConfig{
		Sizes:        []int{depth, len(labels)},
		Labels:       labels,
		Activation:   nn.ActivationSigmoid,
		LearningRate: lr,
		Rand:         rng,
	})
	if err != nil {
		return nil, fmt.Errorf("decoder classifier: %w", err)
	}

	return &Decoder{
		embedding:  embedding,
		grid:       NewGrid(layers, depth, rng),
		classifier: classifier,
	}, nil
}

// Seed copies a Memory into the grid.
func (d *Decoder) Seed(m Memory) error {
	return d.grid.Seed(m)
}

// Decode runs the start vector through the embedding network and grid and
// returns the classifier's label distribution over the final layer's
// short-term memories.
func (d *Decoder) Decode() ([]float64, error) {
	inputs, err := d.embedding.Forward(Vectorize(StartToken))
	if err != nil {
		return nil, err
	}
	if err := d.grid.Step(inputs); err != nil {
		return nil, err
	}
	return d.classifier.Forward(d.grid.Output())
}

// Embedding returns the embedding network.
func (d *Decoder) Embedding() *nn.Network {
	return d.embedding
}

// Grid returns the recurrent grid.
func (d *Decoder) Grid() *Grid {
	return d.grid
}

// Classifier returns the classifier network.
func (d *Decoder) Classifier() *nn.Network {
	return d.classifier
}
