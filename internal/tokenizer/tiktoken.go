package tokenizer

import (
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// encodingSizes lists the mergeable rank counts of the supported
// encodings. tiktoken-go does not expose them.
var encodingSizes = map[string]int{
	"cl100k_base": 100256,
	"p50k_base":   50257,
	"r50k_base":   50257,
}

// TikToken adapts a tiktoken-go encoding to the Tokenizer interface. Its
// vocabulary is fixed, so Encode never writes anything.
type TikToken struct {
	encoding *tiktoken.Tiktoken
	name     string
}

// NewTikToken loads the named encoding ("cl100k_base", "p50k_base" or
// "r50k_base"). tiktoken-go downloads the BPE ranks on first use and caches
// them under TIKTOKEN_CACHE_DIR.
func NewTikToken(encodingName string) (*TikToken, error) {
	encoding, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("failed to load tiktoken encoding %q: %w", encodingName, err)
	}
	return &TikToken{encoding: encoding, name: encodingName}, nil
}

// Encode converts text to token ids. Special tokens are encoded as text.
func (t *TikToken) Encode(text string) ([]int32, error) {
	ranks := t.encoding.Encode(text, nil, nil)
	ids := make([]int32, len(ranks))
	for i, r := range ranks {
		ids[i] = int32(r) //nolint:gosec // G115: ranks are below 2^31
	}
	return ids, nil
}

// Decode converts token ids back to text. Negative ids return an error
// wrapping ErrUnknownID.
func (t *TikToken) Decode(tokens []int32) (string, error) {
	ranks := make([]int, len(tokens))
	for i, id := range tokens {
		if id < 0 {
			return "", fmt.Errorf("%w: %d in %s", ErrUnknownID, id, t.name)
		}
		ranks[i] = int(id)
	}
	return t.encoding.Decode(ranks), nil
}

// VocabSize returns the number of mergeable ranks, or 0 for an encoding
// missing from the size table.
func (t *TikToken) VocabSize() int {
	return encodingSizes[t.name]
}

// Name returns the encoding name.
func (t *TikToken) Name() string {
	return t.name
}

// TikTokenProvider resolves vocabulary ids as tiktoken encoding names.
// Loaded encodings are cached and shared.
type TikTokenProvider struct {
	mu        sync.Mutex
	encodings map[string]*TikToken
}

// NewTikTokenProvider creates an empty provider.
func NewTikTokenProvider() *TikTokenProvider {
	return &TikTokenProvider{encodings: make(map[string]*TikToken)}
}

// Tokenizer returns the TikToken for the encoding named by vocabularyID.
func (p *TikTokenProvider) Tokenizer(vocabularyID string) (Tokenizer, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if tok, ok := p.encodings[vocabularyID]; ok {
		return tok, nil
	}
	tok, err := NewTikToken(vocabularyID)
	if err != nil {
		return nil, err
	}
	p.encodings[vocabularyID] = tok
	return tok, nil
}
