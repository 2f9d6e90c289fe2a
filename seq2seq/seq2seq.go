// Package seq2seq provides the encoder-decoder sequence classifier of Sprout.
//
// This package wraps the internal seq2seq implementation and provides
// a clean public API.
//
// Example usage:
//
//	import (
//	    "github.com/born-ml/sprout/seq2seq"
//	    "github.com/born-ml/sprout/tokenizer"
//	)
//
//	model, err := seq2seq.New(seq2seq.Config{
//	    Layers:     2,
//	    Depth:      4,
//	    Labels:     []string{"greeting", "question"},
//	    Vocabulary: tokenizer.NewStore("vocabulary"),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	probs, err := model.Respond("how are you", "chat")
//	label := model.Label(probs)
package seq2seq

import (
	"github.com/born-ml/sprout/internal/seq2seq"
)

// Model is an encoder-decoder sequence classifier.
type Model = seq2seq.Model

// Config holds the construction parameters of a Model.
type Config = seq2seq.Config

// State is the short- and long-term memory of one recurrent cell.
type State = seq2seq.State

// Memory is the state of a recurrent grid, indexed [layer][cell].
type Memory = seq2seq.Memory

// Vectorized token width and the number of elements carrying id bits.
const (
	VectorWidth = seq2seq.VectorWidth
	EncodedBits = seq2seq.EncodedBits
)

var (
	// ErrShapeMismatch reports a Memory or input that does not fit a grid.
	ErrShapeMismatch = seq2seq.ErrShapeMismatch

	// ErrVocabulary reports a failed token lookup.
	ErrVocabulary = seq2seq.ErrVocabulary
)

// New creates a Model with randomly initialized networks and cells.
func New(cfg Config) (*Model, error) {
	return seq2seq.New(cfg)
}

// Load reads a Model written by Model.Save. Shape fields of cfg are taken
// from the file.
func Load(path string, cfg Config) (*Model, error) {
	return seq2seq.Load(path, cfg)
}

// Vectorize encodes a token id as a VectorWidth-element binary vector.
func Vectorize(id int32) []float64 {
	return seq2seq.Vectorize(id)
}
