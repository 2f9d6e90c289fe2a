package nn

import (
	"fmt"
	"math/rand"
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// DefaultLearningRate is the learning rate used by the sequence model's
// internal networks.
const DefaultLearningRate = 0.01

// NetworkConfig holds the construction parameters of a Network.
type NetworkConfig struct {
	Sizes        []int      // Node count per layer, input first (at least two layers)
	Labels       []string   // One label per output node (nil: "0".."n-1")
	Activation   Activation // Activation for every non-input layer (default: sigmoid)
	LearningRate float64    // Step size for backpropagation, must be > 0
	Rand         *rand.Rand // Source for weight init and shuffling (nil: time seeded)
}

// Network is a fully connected feedforward network trained one example at a
// time with hand-derived backpropagation.
//
// Every node in layer l connects to every node in layer l+1. Weights between
// layer l and l+1 are stored as a dense |l| x |l+1| matrix, so a connection is
// addressed by (layer, from, to) within this instance only.
//
// The output layer is always normalized with Softmax after its activation.
//
// A Network is not safe for concurrent use.
//
// Example:
//
//	net, err := nn.NewNetwork(nn.NetworkConfig{
//	    Sizes:        []int{2, 4, 2},
//	    Labels:       []string{"off", "on"},
//	    Activation:   nn.ActivationReLU,
//	    LearningRate: 0.1,
//	})
//	if err != nil {
//	    return err
//	}
//	err = net.Train([]float64{1, 0}, []float64{0, 1})
//	label, err := net.Predict([]float64{1, 0})
type Network struct {
	sizes        []int
	values       [][]float64  // post-activation value per node, recomputed every forward pass
	biases       [][]float64  // per node, persisted
	errs         [][]float64  // error signal per node, valid for one backward pass
	weights      []*mat.Dense // weights[l] is |l| x |l+1|
	activation   Activation
	learningRate float64
	labels       []string
	rng          *rand.Rand
	column       []float64 // scratch for one weight column
}

// NewNetwork creates a Network with randomly initialized weights and zero
// biases.
//
// Returns an error wrapping ErrConfiguration when there are fewer than two
// layers, a layer is empty, the labels do not match the output layer, the
// activation is unknown or the learning rate is not positive.
func NewNetwork(cfg NetworkConfig) (*Network, error) {
	labels, err := cfg.validate()
	if err != nil {
		return nil, err
	}

	n := newTopology(cfg.Sizes, labels, cfg.Activation, cfg.LearningRate, newRand(cfg.Rand))
	for l := 0; l < len(n.sizes)-1; l++ {
		n.weights[l] = initWeights(n.sizes[l], n.sizes[l+1], n.activation, n.rng)
	}

	return n, nil
}

// validate checks the config and returns the effective output labels.
func (cfg NetworkConfig) validate() ([]string, error) {
	if len(cfg.Sizes) < 2 {
		return nil, fmt.Errorf("%w: need at least two layers, got %d", ErrConfiguration, len(cfg.Sizes))
	}
	for i, size := range cfg.Sizes {
		if size < 1 {
			return nil, fmt.Errorf("%w: layer %d has size %d", ErrConfiguration, i, size)
		}
	}
	if !cfg.Activation.valid() {
		return nil, fmt.Errorf("%w: unknown activation %d", ErrConfiguration, int(cfg.Activation))
	}
	if !(cfg.LearningRate > 0) {
		return nil, fmt.Errorf("%w: learning rate must be positive, got %v", ErrConfiguration, cfg.LearningRate)
	}

	outputs := cfg.Sizes[len(cfg.Sizes)-1]
	if cfg.Labels == nil {
		labels := make([]string, outputs)
		for i := range labels {
			labels[i] = strconv.Itoa(i)
		}
		return labels, nil
	}
	if len(cfg.Labels) != outputs {
		return nil, fmt.Errorf("%w: %d labels for %d output nodes", ErrConfiguration, len(cfg.Labels), outputs)
	}

	return append([]string(nil), cfg.Labels...), nil
}

// newTopology allocates node storage. Weight matrices are left nil.
func newTopology(sizes []int, labels []string, activation Activation, lr float64, rng *rand.Rand) *Network {
	n := &Network{
		sizes:        append([]int(nil), sizes...),
		values:       make([][]float64, len(sizes)),
		biases:       make([][]float64, len(sizes)),
		errs:         make([][]float64, len(sizes)),
		weights:      make([]*mat.Dense, len(sizes)-1),
		activation:   activation,
		learningRate: lr,
		labels:       labels,
		rng:          rng,
	}

	widest := 0
	for l, size := range sizes {
		n.values[l] = make([]float64, size)
		n.biases[l] = make([]float64, size)
		n.errs[l] = make([]float64, size)
		widest = max(widest, size)
	}
	n.column = make([]float64, widest)

	return n
}

// Forward runs inference and returns a copy of the output distribution.
func (n *Network) Forward(input []float64) ([]float64, error) {
	if err := n.forward(input); err != nil {
		return nil, err
	}
	return n.Outputs(), nil
}

// Predict runs inference and returns the label of the strongest output node.
// Ties resolve to the earliest node.
func (n *Network) Predict(input []float64) (string, error) {
	if err := n.forward(input); err != nil {
		return "", err
	}
	return n.labels[floats.MaxIdx(n.values[len(n.values)-1])], nil
}

// Train performs one forward and one backward pass on a single example.
func (n *Network) Train(x, y []float64) error {
	if len(y) != n.sizes[len(n.sizes)-1] {
		return fmt.Errorf("%w: got %d, want %d", ErrTargetSize, len(y), n.sizes[len(n.sizes)-1])
	}
	if err := n.forward(x); err != nil {
		return err
	}
	return n.Backpropagate(y)
}

// Fit trains one epoch over a dataset.
//
// The dataset is checked in full before anything is trained: mismatched
// lengths or widths return an error wrapping ErrConfiguration and leave every
// parameter untouched. The examples are then visited once in a Fisher-Yates
// shuffled order. Call Fit repeatedly for more epochs.
func (n *Network) Fit(X, Y [][]float64) error {
	if len(X) != len(Y) {
		return fmt.Errorf("%w: %d inputs for %d targets", ErrConfiguration, len(X), len(Y))
	}
	in, out := n.sizes[0], n.sizes[len(n.sizes)-1]
	for i := range X {
		if len(X[i]) != in {
			return fmt.Errorf("%w: example %d has %d values, want %d", ErrInputSize, i, len(X[i]), in)
		}
		if len(Y[i]) != out {
			return fmt.Errorf("%w: example %d has %d values, want %d", ErrTargetSize, i, len(Y[i]), out)
		}
	}

	order := make([]int, len(X))
	for i := range order {
		order[i] = i
	}
	n.rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	for _, i := range order {
		if err := n.Train(X[i], Y[i]); err != nil {
			return err
		}
	}

	return nil
}

// forward computes every node value for the given input.
func (n *Network) forward(input []float64) error {
	if len(input) != n.sizes[0] {
		return fmt.Errorf("%w: got %d, want %d", ErrInputSize, len(input), n.sizes[0])
	}

	copy(n.values[0], input)
	for l := 1; l < len(n.sizes); l++ {
		prev := n.values[l-1]
		col := n.column[:len(prev)]
		for j := range n.values[l] {
			mat.Col(col, j, n.weights[l-1])
			n.values[l][j] = n.activation.apply(floats.Dot(prev, col) + n.biases[l][j])
		}
	}

	out := n.values[len(n.values)-1]
	copy(out, Softmax(out))

	return nil
}

// Sizes returns the node count of every layer.
func (n *Network) Sizes() []int {
	return append([]int(nil), n.sizes...)
}

// Labels returns the output labels.
func (n *Network) Labels() []string {
	return append([]string(nil), n.labels...)
}

// Activation returns the configured activation.
func (n *Network) Activation() Activation {
	return n.activation
}

// LearningRate returns the backpropagation step size.
func (n *Network) LearningRate() float64 {
	return n.learningRate
}

// Outputs returns a copy of the output layer values from the last forward pass.
func (n *Network) Outputs() []float64 {
	return append([]float64(nil), n.values[len(n.values)-1]...)
}

// Weight returns the weight of the connection from node `from` in layer
// `layer` to node `to` in layer `layer+1`.
func (n *Network) Weight(layer, from, to int) float64 {
	return n.weights[layer].At(from, to)
}

// Bias returns the bias of a node.
func (n *Network) Bias(layer, node int) float64 {
	return n.biases[layer][node]
}
