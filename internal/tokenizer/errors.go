package tokenizer

import "errors"

// Common errors.
var (
	// ErrInvalidVocabularyID is returned for ids that cannot name a file.
	ErrInvalidVocabularyID = errors.New("invalid vocabulary id")

	// ErrUnknownID is returned by Decode for ids outside the vocabulary.
	ErrUnknownID = errors.New("unknown token id")

	// ErrMalformedVocabulary is returned for vocabulary or count files that
	// exist but cannot be parsed.
	ErrMalformedVocabulary = errors.New("malformed vocabulary file")

	// ErrPersist is returned when a vocabulary cannot be written back.
	ErrPersist = errors.New("failed to persist vocabulary")
)
