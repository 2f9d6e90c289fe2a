package seq2seq

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/sprout/internal/nn"
	"github.com/born-ml/sprout/internal/tokenizer"
)

// Config holds the construction parameters of a Model.
type Config struct {
	Layers       int                // Recurrent layers per grid, >= 1
	Depth        int                // Cells per layer, >= 1
	Labels       []string           // Classifier output labels, at least one
	Vocabulary   tokenizer.Provider // Resolves vocabulary ids for Respond
	LearningRate float64            // Classifier step size (default: 0.01)
	Rand         *rand.Rand         // Source for initialization and shuffling (nil: time seeded)
	Logger       *logrus.Logger     // Debug tracing (nil: logrus standard logger)
}

// Model is an encoder-decoder sequence classifier.
//
// Encoder and decoder grids always share the (Layers, Depth) shape. A Model
// is not safe for concurrent use.
type Model struct {
	encoder *Encoder
	decoder *Decoder
	labels  []string
	vocab   tokenizer.Provider
	rng     *rand.Rand
	logger  *logrus.Logger
}

// New creates a Model with randomly initialized networks and cells.
//
// Returns an error wrapping nn.ErrConfiguration when Layers or Depth is
// below one, no label is given or the vocabulary provider is nil.
func New(cfg Config) (*Model, error) {
	if cfg.Layers < 1 || cfg.Depth < 1 {
		return nil, fmt.Errorf("%w: grid must be at least 1x1, got %dx%d", nn.ErrConfiguration, cfg.Layers, cfg.Depth)
	}
	if len(cfg.Labels) == 0 {
		return nil, fmt.Errorf("%w: at least one label required", nn.ErrConfiguration)
	}
	if cfg.Vocabulary == nil {
		return nil, fmt.Errorf("%w: vocabulary provider required", nn.ErrConfiguration)
	}
	if cfg.LearningRate == 0 {
		cfg.LearningRate = nn.DefaultLearningRate
	}
	if cfg.Rand == nil {
		//nolint:gosec // Using math/rand for weight initialization (not security-critical)
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}

	encoder, err := newEncoder(cfg.Layers, cfg.Depth, cfg.Rand)
	if err != nil {
		return nil, err
	}
	decoder, err := newDecoder(cfg.Layers, cfg.Depth, cfg.Labels, cfg.LearningRate, cfg.Rand)
	if err != nil {
		return nil, err
	}

	return &Model{
		encoder: encoder,
		decoder: decoder,
		labels:  append([]string(nil), cfg.Labels...),
		vocab:   cfg.Vocabulary,
		rng:     cfg.Rand,
		logger:  cfg.Logger,
	}, nil
}

// Respond tokenizes text with the vocabulary named by vocabularyID and
// returns the label distribution for it.
//
// Depending on the provider, the lookup may add unseen tokens to the
// vocabulary and persist it before the forward pass runs.
func (m *Model) Respond(text, vocabularyID string) ([]float64, error) {
	tok, err := m.vocab.Tokenizer(vocabularyID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrVocabulary, err)
	}
	ids, err := tok.Encode(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrVocabulary, err)
	}

	m.logger.WithFields(logrus.Fields{
		"vocabulary": vocabularyID,
		"tokens":     len(ids),
	}).Debug("Responding")

	return m.Forward(ids)
}

// Forward vectorizes ids, encodes them, seeds the decoder with the
// resulting Memory and decodes a label distribution.
func (m *Model) Forward(ids []int32) ([]float64, error) {
	memory, err := m.encoder.Encode(VectorizeAll(ids))
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	if err := m.decoder.Seed(memory); err != nil {
		return nil, err
	}

	dist, err := m.decoder.Decode()
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return dist, nil
}

// Predict returns the label with the highest probability for ids.
func (m *Model) Predict(ids []int32) (string, error) {
	dist, err := m.Forward(ids)
	if err != nil {
		return "", err
	}
	return m.Label(dist), nil
}

// Train runs one forward pass on ids and backpropagates expected into the
// classifier.
func (m *Model) Train(ids []int32, expected []float64) error {
	if len(expected) != len(m.labels) {
		return fmt.Errorf("%w: got %d, want %d", nn.ErrTargetSize, len(expected), len(m.labels))
	}
	if _, err := m.Forward(ids); err != nil {
		return err
	}
	return m.Backpropagate(expected)
}

// Fit trains one epoch over a dataset of id sequences.
//
// Lengths and target widths are checked before anything is trained. The
// examples are then visited once in shuffled order.
func (m *Model) Fit(X [][]int32, Y [][]float64) error {
	if len(X) != len(Y) {
		return fmt.Errorf("%w: %d sequences for %d targets", nn.ErrConfiguration, len(X), len(Y))
	}
	for i, y := range Y {
		if len(y) != len(m.labels) {
			return fmt.Errorf("%w: example %d has %d values, want %d", nn.ErrTargetSize, i, len(y), len(m.labels))
		}
	}

	order := m.rng.Perm(len(X))
	for _, i := range order {
		if err := m.Train(X[i], Y[i]); err != nil {
			return err
		}
	}

	m.logger.WithField("examples", len(X)).Debug("Epoch finished")
	return nil
}

// Backpropagate adjusts the decoder's classifier toward expected, using the
// most recent forward pass. Embedding networks and recurrent cells are not
// updated.
func (m *Model) Backpropagate(expected []float64) error {
	return m.decoder.classifier.Backpropagate(expected)
}

// Label returns the label of the first maximal entry of dist, or "" when
// dist does not have one entry per label.
func (m *Model) Label(dist []float64) string {
	if len(dist) != len(m.labels) {
		return ""
	}
	return m.labels[floats.MaxIdx(dist)]
}

// Labels returns the classifier labels.
func (m *Model) Labels() []string {
	return append([]string(nil), m.labels...)
}

// Layers returns the number of recurrent layers.
func (m *Model) Layers() int {
	return m.encoder.grid.Layers()
}

// Depth returns the number of cells per layer.
func (m *Model) Depth() int {
	return m.encoder.grid.Depth()
}

// Reset clears the state of every encoder and decoder cell.
func (m *Model) Reset() {
	m.encoder.grid.Reset()
	m.decoder.grid.Reset()
}

// Encoder returns the encoder.
func (m *Model) Encoder() *Encoder {
	return m.encoder
}

// Decoder returns the decoder.
func (m *Model) Decoder() *Decoder {
	return m.decoder
}
