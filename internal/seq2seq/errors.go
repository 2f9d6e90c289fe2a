package seq2seq

import "errors"

// Common errors.
var (
	// ErrShapeMismatch reports a Memory or input whose shape does not match
	// the recurrent grid it is applied to.
	ErrShapeMismatch = errors.New("shape does not match recurrent grid")

	// ErrVocabulary reports a failed token lookup.
	ErrVocabulary = errors.New("vocabulary lookup failed")
)
