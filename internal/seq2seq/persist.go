package seq2seq

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/born-ml/sprout/internal/nn"
	"github.com/born-ml/sprout/internal/serialization"
)

// ModelTypeSequence identifies a Model in a .sprout header.
const ModelTypeSequence = "SequenceModel"

// Tensor name prefixes.
const (
	encoderEmbedding  = "encoder.embedding."
	encoderCells      = "encoder.cells"
	decoderEmbedding  = "decoder.embedding."
	decoderCells      = "decoder.cells"
	decoderClassifier = "decoder.classifier."
)

// modelConfig is the JSON configuration stored in a .sprout header.
type modelConfig struct {
	Layers       int      `json:"layers"`
	Depth        int      `json:"depth"`
	Labels       []string `json:"labels"`
	LearningRate float64  `json:"learning_rate"`
}

// Save writes every network parameter and cell parameter to a .sprout
// file. Cell state is not saved.
func (m *Model) Save(path string) error {
	config, err := json.Marshal(modelConfig{
		Layers:       m.Layers(),
		Depth:        m.Depth(),
		Labels:       m.Labels(),
		LearningRate: m.decoder.classifier.LearningRate(),
	})
	if err != nil {
		return fmt.Errorf("%w: marshal config: %w", nn.ErrIO, err)
	}

	header := serialization.Header{
		ModelType: ModelTypeSequence,
		CreatedAt: time.Now().UTC(),
		Config:    config,
	}
	if err := serialization.WriteFile(path, m.StateDict(), header); err != nil {
		return fmt.Errorf("%w: %w", nn.ErrIO, err)
	}
	return nil
}

// Load reads a Model written by Save. cfg supplies the vocabulary provider,
// logger and random source; its shape fields are ignored and taken from the
// file.
func Load(path string, cfg Config) (*Model, error) {
	stateDict, header, err := serialization.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", nn.ErrIO, err)
	}
	if header.ModelType != ModelTypeSequence {
		return nil, &nn.RecordError{Field: "model_type", Details: fmt.Sprintf("got %q, want %q", header.ModelType, ModelTypeSequence)}
	}

	var mc modelConfig
	if err := json.Unmarshal(header.Config, &mc); err != nil {
		return nil, fmt.Errorf("%w: parse config: %v", nn.ErrIO, err)
	}
	cfg.Layers, cfg.Depth, cfg.Labels, cfg.LearningRate = mc.Layers, mc.Depth, mc.Labels, mc.LearningRate

	m, err := New(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", nn.ErrIO, err)
	}
	if err := m.LoadStateDict(stateDict); err != nil {
		return nil, err
	}
	return m, nil
}

// StateDict returns the parameters of both embeddings, the classifier and
// both grids. Cells are stored as [layers, depth, 12] blocks.
func (m *Model) StateDict() map[string]*serialization.Tensor {
	stateDict := make(map[string]*serialization.Tensor)

	merge(stateDict, encoderEmbedding, m.encoder.embedding.StateDict())
	merge(stateDict, decoderEmbedding, m.decoder.embedding.StateDict())
	merge(stateDict, decoderClassifier, m.decoder.classifier.StateDict())

	shape := []int{m.Layers(), m.Depth(), nn.CellParamCount}
	stateDict[encoderCells] = &serialization.Tensor{Shape: shape, Data: m.encoder.grid.params()}
	stateDict[decoderCells] = &serialization.Tensor{Shape: append([]int(nil), shape...), Data: m.decoder.grid.params()}

	return stateDict
}

// LoadStateDict overwrites every parameter from a dictionary produced by
// StateDict. All tensors are checked before anything changes; a missing
// tensor or a shape mismatch returns an error wrapping nn.ErrIO.
func (m *Model) LoadStateDict(stateDict map[string]*serialization.Tensor) error {
	shape := []int{m.Layers(), m.Depth(), nn.CellParamCount}
	encCells, err := serialization.Lookup(stateDict, encoderCells, shape...)
	if err != nil {
		return fmt.Errorf("%w: %w", nn.ErrIO, err)
	}
	decCells, err := serialization.Lookup(stateDict, decoderCells, shape...)
	if err != nil {
		return fmt.Errorf("%w: %w", nn.ErrIO, err)
	}

	// Load into copies so a failure leaves the model untouched.
	networks := []struct {
		prefix string
		target *nn.Network
	}{
		{encoderEmbedding, m.encoder.embedding},
		{decoderEmbedding, m.decoder.embedding},
		{decoderClassifier, m.decoder.classifier},
	}
	loaded := make([]*nn.Network, len(networks))
	for i, n := range networks {
		clone, err := nn.LoadRecord(n.target.Record())
		if err != nil {
			return err
		}
		if err := clone.LoadStateDict(split(stateDict, n.prefix)); err != nil {
			return fmt.Errorf("%s: %w", strings.TrimSuffix(n.prefix, "."), err)
		}
		loaded[i] = clone
	}

	m.encoder.embedding, m.decoder.embedding, m.decoder.classifier = loaded[0], loaded[1], loaded[2]
	m.encoder.grid.setParams(encCells.Data)
	m.decoder.grid.setParams(decCells.Data)
	return nil
}

// merge copies src into dst with every name prefixed.
func merge(dst map[string]*serialization.Tensor, prefix string, src map[string]*serialization.Tensor) {
	for name, t := range src {
		dst[prefix+name] = t
	}
}

// split returns the tensors under prefix with the prefix removed.
func split(stateDict map[string]*serialization.Tensor, prefix string) map[string]*serialization.Tensor {
	out := make(map[string]*serialization.Tensor)
	for name, t := range stateDict {
		if rest, ok := strings.CutPrefix(name, prefix); ok {
			out[rest] = t
		}
	}
	return out
}
