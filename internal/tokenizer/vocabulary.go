package tokenizer

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// fieldSeparator separates the two columns of vocabulary and count files.
const fieldSeparator = "\t\t\t"

// Entry is one (id, token) pair of a Vocabulary.
type Entry struct {
	ID    int32
	Token string
}

// Vocabulary is an ordered list of tokens with integer ids.
//
// Lookups resolve to the first entry holding a token. A Vocabulary is not
// safe for concurrent use; Store serializes access to the ones it manages.
type Vocabulary struct {
	entries []Entry
	ids     map[string]int32
	tokens  map[int32]string
}

// NewVocabulary creates a vocabulary from entries, keeping their ids.
func NewVocabulary(entries []Entry) *Vocabulary {
	v := &Vocabulary{entries: append([]Entry(nil), entries...)}
	v.reindex()
	return v
}

// DefaultVocabulary returns the vocabulary used when none can be read: the
// single entry (0, ".").
func DefaultVocabulary() *Vocabulary {
	return NewVocabulary([]Entry{{ID: 0, Token: "."}})
}

// ParseVocabulary reads "id\t\t\ttoken" lines. Blank lines are skipped.
func ParseVocabulary(r io.Reader) (*Vocabulary, error) {
	var entries []Entry

	scanner := bufio.NewScanner(r)
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}

		idText, token, ok := strings.Cut(text, fieldSeparator)
		if !ok {
			return nil, fmt.Errorf("%w: line %d has no separator", ErrMalformedVocabulary, line)
		}
		id, err := strconv.ParseInt(strings.TrimSpace(idText), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedVocabulary, line, err)
		}
		entries = append(entries, Entry{ID: int32(id), Token: token})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read vocabulary: %w", err)
	}

	return NewVocabulary(entries), nil
}

// WriteTo writes the vocabulary in the format read by ParseVocabulary.
// Lines are joined by "\n" without a trailing newline.
func (v *Vocabulary) WriteTo(w io.Writer) (int64, error) {
	lines := make([]string, len(v.entries))
	for i, e := range v.entries {
		lines[i] = strconv.Itoa(int(e.ID)) + fieldSeparator + e.Token
	}
	n, err := io.WriteString(w, strings.Join(lines, "\n"))
	return int64(n), err
}

// Extend appends every unseen token, sorts all entries by token text and
// renumbers them 0..Len()-1. It returns the number of tokens added.
//
// Renumbering happens even when nothing is added, so ids of entries that
// were read out of order may change.
func (v *Vocabulary) Extend(tokens []string) int {
	added := 0
	for _, token := range tokens {
		if _, ok := v.ids[token]; ok {
			continue
		}
		//nolint:gosec // G115: vocabulary sizes stay far below 2^31
		v.entries = append(v.entries, Entry{ID: int32(len(v.entries)), Token: token})
		v.ids[token] = v.entries[len(v.entries)-1].ID
		added++
	}

	sort.SliceStable(v.entries, func(i, j int) bool {
		return v.entries[i].Token < v.entries[j].Token
	})
	for i := range v.entries {
		v.entries[i].ID = int32(i) //nolint:gosec // G115: see above
	}
	v.reindex()

	return added
}

// ID returns the id of token.
func (v *Vocabulary) ID(token string) (int32, bool) {
	id, ok := v.ids[token]
	return id, ok
}

// Token returns the token with the given id.
func (v *Vocabulary) Token(id int32) (string, bool) {
	token, ok := v.tokens[id]
	return token, ok
}

// Len returns the number of entries.
func (v *Vocabulary) Len() int {
	return len(v.entries)
}

// Entries returns a copy of the entries in file order.
func (v *Vocabulary) Entries() []Entry {
	return append([]Entry(nil), v.entries...)
}

// Lookup maps tokens to ids. Unknown tokens map to 0.
func (v *Vocabulary) Lookup(tokens []string) []int32 {
	ids := make([]int32, len(tokens))
	for i, token := range tokens {
		ids[i] = v.ids[token]
	}
	return ids
}

func (v *Vocabulary) reindex() {
	v.ids = make(map[string]int32, len(v.entries))
	v.tokens = make(map[int32]string, len(v.entries))
	for _, e := range v.entries {
		if _, ok := v.ids[e.Token]; !ok {
			v.ids[e.Token] = e.ID
		}
		if _, ok := v.tokens[e.ID]; !ok {
			v.tokens[e.ID] = e.Token
		}
	}
}
