package tokenizer

// Tokenizer maps text to token ids within one vocabulary.
//
// All tokenizer implementations (file vocabularies, tiktoken) must implement
// this interface.
type Tokenizer interface {
	// Encode converts text to token IDs. Depending on the implementation this
	// may grow and persist the vocabulary.
	Encode(text string) ([]int32, error)

	// Decode converts token IDs back to text.
	Decode(tokens []int32) (string, error)

	// VocabSize returns the current vocabulary size.
	VocabSize() int
}

// Provider hands out the tokenizer for a vocabulary id (e.g. a language
// code such as "en" or an encoding name such as "cl100k_base").
type Provider interface {
	Tokenizer(vocabularyID string) (Tokenizer, error)
}
