package nn

import (
	"encoding/json"
	"fmt"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/sprout/internal/serialization"
)

// ModelTypeNetwork identifies a Network in a .sprout header.
const ModelTypeNetwork = "Network"

// networkConfig is the JSON configuration stored in a .sprout header.
type networkConfig struct {
	Activation   Activation `json:"activation"`
	LearningRate float64    `json:"learning_rate"`
	Sizes        []int      `json:"sizes"`
	Labels       []string   `json:"labels"`
}

// Checkpoint is a Network saved together with free-form training metadata
// (epoch count, dataset name, ...).
//
// Example:
//
//	checkpoint := &nn.Checkpoint{
//	    Network:  net,
//	    Metadata: map[string]string{"epochs": "20"},
//	}
//	err := checkpoint.Save("model.sprout")
//
// To resume:
//
//	checkpoint, err := nn.LoadCheckpoint("model.sprout")
//	net := checkpoint.Network
type Checkpoint struct {
	Network   *Network
	Metadata  map[string]string
	CreatedAt time.Time
}

// Save writes the checkpoint to a .sprout file.
func (c *Checkpoint) Save(path string) error {
	config, err := json.Marshal(c.Network.config())
	if err != nil {
		return fmt.Errorf("%w: marshal config: %w", ErrIO, err)
	}

	header := serialization.Header{
		ModelType: ModelTypeNetwork,
		CreatedAt: c.CreatedAt,
		Metadata:  c.Metadata,
		Config:    config,
	}
	if err := serialization.WriteFile(path, c.Network.StateDict(), header); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}

	return nil
}

// LoadCheckpoint reads a checkpoint written by Checkpoint.Save.
//
// The topology is rebuilt from the recorded sizes, then every parameter is
// overwritten from the file. Every failure wraps ErrIO.
func LoadCheckpoint(path string) (*Checkpoint, error) {
	stateDict, header, err := serialization.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	if header.ModelType != ModelTypeNetwork {
		return nil, &RecordError{Field: "model_type", Details: fmt.Sprintf("got %q, want %q", header.ModelType, ModelTypeNetwork)}
	}

	var cfg networkConfig
	if err := json.Unmarshal(header.Config, &cfg); err != nil {
		return nil, fmt.Errorf("%w: parse config: %v", ErrIO, err)
	}
	labels, err := NetworkConfig{
		Sizes:        cfg.Sizes,
		Labels:       cfg.Labels,
		Activation:   cfg.Activation,
		LearningRate: cfg.LearningRate,
	}.validate()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}

	n := newTopology(cfg.Sizes, labels, cfg.Activation, cfg.LearningRate, newRand(nil))
	for l := range n.weights {
		n.weights[l] = mat.NewDense(cfg.Sizes[l], cfg.Sizes[l+1], nil)
	}
	if err := n.LoadStateDict(stateDict); err != nil {
		return nil, err
	}

	return &Checkpoint{
		Network:   n,
		Metadata:  header.Metadata,
		CreatedAt: header.CreatedAt,
	}, nil
}

// Save writes the network to a .sprout file without extra metadata.
func (n *Network) Save(path string) error {
	return (&Checkpoint{Network: n}).Save(path)
}

// LoadFile reads a network written by Network.Save or Checkpoint.Save.
func LoadFile(path string) (*Network, error) {
	c, err := LoadCheckpoint(path)
	if err != nil {
		return nil, err
	}
	return c.Network, nil
}

// StateDict returns every parameter as named tensors:
// "layers.<l>.bias" with shape [|l|] and "layers.<l>.weight" with shape
// [|l|, |l+1|] for each layer l that has outgoing connections.
func (n *Network) StateDict() map[string]*serialization.Tensor {
	stateDict := make(map[string]*serialization.Tensor, 2*len(n.sizes))

	for l, b := range n.biases {
		stateDict[biasName(l)] = &serialization.Tensor{
			Shape: []int{len(b)},
			Data:  append([]float64(nil), b...),
		}
	}
	for l, w := range n.weights {
		rows, cols := w.Dims()
		t := serialization.NewTensor(rows, cols)
		for i := 0; i < rows; i++ {
			mat.Row(t.Data[i*cols:(i+1)*cols], i, w)
		}
		stateDict[weightName(l)] = t
	}

	return stateDict
}

// LoadStateDict overwrites every bias and weight from a state dictionary
// produced by StateDict.
//
// The topology never changes: all tensors are checked against the current
// shape before anything is written, and a mismatch returns an error
// wrapping ErrIO.
func (n *Network) LoadStateDict(stateDict map[string]*serialization.Tensor) error {
	biases := make([]*serialization.Tensor, len(n.sizes))
	weights := make([]*serialization.Tensor, len(n.weights))

	for l, size := range n.sizes {
		t, err := serialization.Lookup(stateDict, biasName(l), size)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrIO, err)
		}
		biases[l] = t
	}
	for l := range n.weights {
		t, err := serialization.Lookup(stateDict, weightName(l), n.sizes[l], n.sizes[l+1])
		if err != nil {
			return fmt.Errorf("%w: %w", ErrIO, err)
		}
		weights[l] = t
	}

	for l, t := range biases {
		copy(n.biases[l], t.Data)
	}
	for l, t := range weights {
		n.weights[l] = mat.NewDense(n.sizes[l], n.sizes[l+1], append([]float64(nil), t.Data...))
	}

	return nil
}

func (n *Network) config() networkConfig {
	return networkConfig{
		Activation:   n.activation,
		LearningRate: n.learningRate,
		Sizes:        n.Sizes(),
		Labels:       n.Labels(),
	}
}

func biasName(layer int) string {
	return fmt.Sprintf("layers.%d.bias", layer)
}

func weightName(layer int) string {
	return fmt.Sprintf("layers.%d.weight", layer)
}
