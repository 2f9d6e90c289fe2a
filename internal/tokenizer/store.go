package tokenizer

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Mode controls whether a Store may change its vocabularies.
type Mode int

const (
	// ModeExtend adds unseen tokens and writes the vocabulary back on
	// every lookup.
	ModeExtend Mode = iota

	// ModeFrozen never writes. Unknown tokens map to id 0.
	ModeFrozen
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeExtend:
		return "extend"
	case ModeFrozen:
		return "frozen"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode maps "extend" or "frozen" to a Mode.
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(name) {
	case "extend":
		return ModeExtend, nil
	case "frozen":
		return ModeFrozen, nil
	default:
		return 0, fmt.Errorf("unknown vocabulary mode %q", name)
	}
}

// StoreOption configures a Store.
type StoreOption func(*storeOptions)

type storeOptions struct {
	mode      Mode
	threshold int
	logger    *logrus.Logger
}

// WithMode sets the store mode (default ModeExtend).
func WithMode(mode Mode) StoreOption {
	return func(o *storeOptions) {
		o.mode = mode
	}
}

// WithThreshold admits a token into a vocabulary only once it has been
// looked up n times. Until then it maps to id 0. Values below 2 admit
// tokens immediately. Ignored in ModeFrozen.
func WithThreshold(n int) StoreOption {
	return func(o *storeOptions) {
		o.threshold = n
	}
}

// WithLogger sets the logger used for fallbacks and vocabulary growth.
func WithLogger(logger *logrus.Logger) StoreOption {
	return func(o *storeOptions) {
		o.logger = logger
	}
}

// Store keeps one vocabulary file per vocabulary id in a directory.
//
// Every lookup is a read-modify-write of the vocabulary file, serialized by
// a mutex within the process. Concurrent processes sharing a directory are
// not coordinated.
type Store struct {
	dir       string
	mode      Mode
	threshold int
	logger    *logrus.Logger

	mu sync.Mutex
}

// NewStore creates a Store rooted at dir. The directory is created on the
// first write.
func NewStore(dir string, opts ...StoreOption) *Store {
	options := &storeOptions{
		mode: ModeExtend,
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = logrus.StandardLogger()
	}

	return &Store{
		dir:       dir,
		mode:      options.mode,
		threshold: options.threshold,
		logger:    options.logger,
	}
}

// Dir returns the directory holding the vocabulary files.
func (s *Store) Dir() string {
	return s.dir
}

// Mode returns the store mode.
func (s *Store) Mode() Mode {
	return s.mode
}

// Path returns the vocabulary file for a vocabulary id.
func (s *Store) Path(vocabularyID string) (string, error) {
	if err := validateID(vocabularyID); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, vocabularyID+".csv"), nil
}

// countsPath returns the staging file of the threshold variant.
func (s *Store) countsPath(vocabularyID string) string {
	return filepath.Join(s.dir, vocabularyID+".threshold.csv")
}

// Load reads a vocabulary without modifying it.
//
// A file that cannot be read or parsed yields DefaultVocabulary and a
// warning.
func (s *Store) Load(vocabularyID string) (*Vocabulary, error) {
	path, err := s.Path(vocabularyID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	vocab, _ := s.read(vocabularyID, path)
	return vocab, nil
}

// Add tokenizes text and returns the id of every token, growing the
// vocabulary according to the store mode.
func (s *Store) Add(vocabularyID, text string) ([]int32, error) {
	return s.Lookup(vocabularyID, Tokenize(text))
}

// Lookup returns the id of every token.
//
// In ModeExtend unseen tokens are added (directly, or through the threshold
// staging file), the vocabulary is renumbered and written back before the
// ids are returned. A malformed file is moved to <id>.csv.malformed first
// and replaced by the default vocabulary. In ModeFrozen unknown tokens map
// to 0.
func (s *Store) Lookup(vocabularyID string, tokens []string) ([]int32, error) {
	path, err := s.Path(vocabularyID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	vocab, parsed := s.read(vocabularyID, path)

	if s.mode == ModeExtend {
		writable := parsed || s.quarantine(vocabularyID, path)

		admitted := tokens
		if s.threshold > 1 {
			if admitted, err = s.stage(vocabularyID, vocab, tokens); err != nil {
				return nil, err
			}
		}

		if added := vocab.Extend(admitted); added > 0 {
			s.logger.WithFields(logrus.Fields{
				"vocabulary": vocabularyID,
				"added":      added,
				"size":       vocab.Len(),
			}).Debug("Vocabulary extended")
		}
		if writable {
			if err := s.write(path, vocab); err != nil {
				return nil, err
			}
		}
	}

	return vocab.Lookup(tokens), nil
}

// Tokenizer returns a Tokenizer bound to one vocabulary of the store.
func (s *Store) Tokenizer(vocabularyID string) (Tokenizer, error) {
	if err := validateID(vocabularyID); err != nil {
		return nil, err
	}
	return &FileTokenizer{store: s, vocabularyID: vocabularyID}, nil
}

// read loads a vocabulary file. Unreadable and malformed files both yield
// DefaultVocabulary; parsed is false only for a file that exists but does
// not parse. Callers hold s.mu.
func (s *Store) read(vocabularyID, path string) (vocab *Vocabulary, parsed bool) {
	fields := logrus.Fields{"vocabulary": vocabularyID, "path": path}

	//nolint:gosec // G304: vocabulary path is built from a validated id
	data, err := os.ReadFile(path)
	if err != nil {
		s.logger.WithFields(fields).WithError(err).Warn("Vocabulary unreadable, using default")
		return DefaultVocabulary(), true
	}

	vocab, err = ParseVocabulary(bytes.NewReader(data))
	if err != nil {
		s.logger.WithFields(fields).WithError(err).Warn("Vocabulary malformed, using default")
		return DefaultVocabulary(), false
	}
	return vocab, true
}

// quarantine moves a malformed vocabulary file aside so the rebuilt
// vocabulary can take its place. It reports whether the path is free to
// write. Callers hold s.mu.
func (s *Store) quarantine(vocabularyID, path string) bool {
	target := path + ".malformed"
	if err := os.Rename(path, target); err != nil {
		s.logger.WithFields(logrus.Fields{
			"vocabulary": vocabularyID,
			"path":       path,
		}).WithError(err).Warn("Malformed vocabulary kept in place, changes not persisted")
		return false
	}
	s.logger.WithFields(logrus.Fields{
		"vocabulary": vocabularyID,
		"moved_to":   target,
	}).Warn("Malformed vocabulary moved aside")
	return true
}

// write replaces the vocabulary file. Callers hold s.mu.
func (s *Store) write(path string, vocab *Vocabulary) error {
	var buf bytes.Buffer
	if _, err := vocab.WriteTo(&buf); err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return s.writeFile(path, buf.Bytes())
}

func (s *Store) writeFile(path string, data []byte) error {
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

// stage counts unseen tokens and returns those that reached the threshold.
// Promoted tokens leave the counts file. Callers hold s.mu.
func (s *Store) stage(vocabularyID string, vocab *Vocabulary, tokens []string) ([]string, error) {
	path := s.countsPath(vocabularyID)
	counts, err := readCounts(path)
	if err != nil {
		return nil, fmt.Errorf("vocabulary %s: %w", vocabularyID, err)
	}

	var promoted []string
	seen := make(map[string]bool)
	for _, token := range tokens {
		if _, ok := vocab.ID(token); ok || seen[token] {
			continue
		}
		counts[token]++
		if counts[token] >= s.threshold {
			promoted = append(promoted, token)
			seen[token] = true
			delete(counts, token)
		}
	}

	if len(promoted) > 0 {
		s.logger.WithFields(logrus.Fields{
			"vocabulary": vocabularyID,
			"promoted":   promoted,
		}).Debug("Tokens reached threshold")
	}

	if err := s.writeFile(path, formatCounts(counts)); err != nil {
		return nil, err
	}
	return promoted, nil
}

// Counts returns the staged token counts of a threshold vocabulary.
func (s *Store) Counts(vocabularyID string) (map[string]int, error) {
	if err := validateID(vocabularyID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return readCounts(s.countsPath(vocabularyID))
}

// readCounts parses "count\t\t\ttoken" lines. A missing file is empty.
func readCounts(path string) (map[string]int, error) {
	counts := make(map[string]int)

	//nolint:gosec // G304: path is built from a validated id
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return counts, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read counts: %w", err)
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		countText, token, ok := strings.Cut(text, fieldSeparator)
		if !ok {
			return nil, fmt.Errorf("%w: counts line %d has no separator", ErrMalformedVocabulary, line)
		}
		count, err := strconv.Atoi(strings.TrimSpace(countText))
		if err != nil {
			return nil, fmt.Errorf("%w: counts line %d: %w", ErrMalformedVocabulary, line, err)
		}
		counts[token] += count
	}

	return counts, scanner.Err()
}

// formatCounts writes counts sorted by token.
func formatCounts(counts map[string]int) []byte {
	tokens := make([]string, 0, len(counts))
	for token := range counts {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)

	lines := make([]string, len(tokens))
	for i, token := range tokens {
		lines[i] = strconv.Itoa(counts[token]) + fieldSeparator + token
	}
	return []byte(strings.Join(lines, "\n"))
}

func validateID(vocabularyID string) error {
	switch {
	case vocabularyID == "", vocabularyID == ".", vocabularyID == "..":
		return fmt.Errorf("%w: %q", ErrInvalidVocabularyID, vocabularyID)
	case strings.ContainsAny(vocabularyID, `/\`+"\x00"):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidVocabularyID, vocabularyID)
	}
	return nil
}

// FileTokenizer is the Tokenizer for one vocabulary of a Store.
type FileTokenizer struct {
	store        *Store
	vocabularyID string
}

// Encode tokenizes text with Tokenize and looks every token up.
func (t *FileTokenizer) Encode(text string) ([]int32, error) {
	return t.store.Add(t.vocabularyID, text)
}

// Decode joins the tokens of ids with single spaces.
func (t *FileTokenizer) Decode(tokens []int32) (string, error) {
	vocab, err := t.store.Load(t.vocabularyID)
	if err != nil {
		return "", err
	}

	words := make([]string, len(tokens))
	for i, id := range tokens {
		word, ok := vocab.Token(id)
		if !ok {
			return "", fmt.Errorf("%w: %d", ErrUnknownID, id)
		}
		words[i] = word
	}
	return strings.Join(words, " "), nil
}

// VocabSize returns the number of entries currently stored.
func (t *FileTokenizer) VocabSize() int {
	vocab, err := t.store.Load(t.vocabularyID)
	if err != nil {
		return 0
	}
	return vocab.Len()
}

// VocabularyID returns the id this tokenizer is bound to.
func (t *FileTokenizer) VocabularyID() string {
	return t.vocabularyID
}
