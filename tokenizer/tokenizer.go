// Package tokenizer provides word tokenization and persistent vocabularies
// for Sprout.
//
// This package wraps the internal tokenizer implementations and provides
// a clean public API for tokenization tasks.
//
// Supported tokenizers:
//   - Store: file-backed word vocabularies that grow as text is seen
//   - TikToken: OpenAI BPE encodings (cl100k_base, p50k_base)
//
// Example usage:
//
//	import "github.com/born-ml/sprout/tokenizer"
//
//	store := tokenizer.NewStore("vocabulary", tokenizer.WithThreshold(2))
//
//	ids, err := store.Add("chat", "Hello there, it's me")
//	if err != nil {
//	    log.Fatal(err)
//	}
package tokenizer

import (
	"github.com/sirupsen/logrus"

	"github.com/born-ml/sprout/internal/tokenizer"
)

// Tokenizer is the core interface for text tokenization.
type Tokenizer = tokenizer.Tokenizer

// Provider resolves a vocabulary id to a Tokenizer.
type Provider = tokenizer.Provider

// Store keeps one vocabulary file per vocabulary id.
type Store = tokenizer.Store

// StoreOption configures a Store.
type StoreOption = tokenizer.StoreOption

// Mode controls whether a Store grows its vocabularies.
type Mode = tokenizer.Mode

// Store modes.
const (
	ModeExtend = tokenizer.ModeExtend
	ModeFrozen = tokenizer.ModeFrozen
)

// Vocabulary is an ordered token to id mapping.
type Vocabulary = tokenizer.Vocabulary

// Entry is one vocabulary line.
type Entry = tokenizer.Entry

var (
	// ErrInvalidVocabularyID reports an id that cannot name a file.
	ErrInvalidVocabularyID = tokenizer.ErrInvalidVocabularyID

	// ErrUnknownID reports a token id missing from a vocabulary.
	ErrUnknownID = tokenizer.ErrUnknownID

	// ErrMalformedVocabulary reports an unparsable vocabulary file.
	ErrMalformedVocabulary = tokenizer.ErrMalformedVocabulary

	// ErrPersist reports a vocabulary that could not be written.
	ErrPersist = tokenizer.ErrPersist
)

// Tokenize splits text into lowercase words of at least two letters.
func Tokenize(text string) []string {
	return tokenizer.Tokenize(text)
}

// NewStore creates a Store rooted at dir.
func NewStore(dir string, opts ...StoreOption) *Store {
	return tokenizer.NewStore(dir, opts...)
}

// WithMode sets the Store mode.
func WithMode(mode Mode) StoreOption {
	return tokenizer.WithMode(mode)
}

// WithThreshold makes a Store promote a token only after it was seen n times.
func WithThreshold(n int) StoreOption {
	return tokenizer.WithThreshold(n)
}

// WithLogger sets the logger used for vocabulary warnings and tracing.
func WithLogger(logger *logrus.Logger) StoreOption {
	return tokenizer.WithLogger(logger)
}

// ParseMode maps "extend" or "frozen" to a Mode.
func ParseMode(name string) (Mode, error) {
	return tokenizer.ParseMode(name)
}

// NewVocabulary creates a Vocabulary from entries.
func NewVocabulary(entries []Entry) *Vocabulary {
	return tokenizer.NewVocabulary(entries)
}

// NewTikToken creates a new TikToken tokenizer with the specified encoding.
//
// Supported encodings: "cl100k_base" (GPT-4), "p50k_base" (GPT-3).
func NewTikToken(encodingName string) (Tokenizer, error) {
	tok, err := tokenizer.NewTikToken(encodingName)
	if err != nil {
		return nil, err
	}
	return tok, nil
}

// NewTikTokenProvider creates a Provider that treats vocabulary ids as
// tiktoken encoding names.
func NewTikTokenProvider() Provider {
	return tokenizer.NewTikTokenProvider()
}
