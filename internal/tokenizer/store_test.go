package tokenizer

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, opts ...StoreOption) (*Store, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	opts = append([]StoreOption{WithLogger(logger)}, opts...)
	return NewStore(t.TempDir(), opts...), hook
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestStoreAddCreatesVocabulary(t *testing.T) {
	store, hook := newTestStore(t)

	ids, err := store.Add("en", "The cat sat")
	require.NoError(t, err)
	assert.Equal(t, []int32{3, 1, 2}, ids)

	path, err := store.Path("en")
	require.NoError(t, err)
	assert.Equal(t, "0\t\t\t.\n1\t\t\tcat\n2\t\t\tsat\n3\t\t\tthe", readFile(t, path))

	// The missing file was reported once.
	require.NotEmpty(t, hook.Entries)
	assert.Equal(t, logrus.WarnLevel, hook.Entries[0].Level)
	assert.Equal(t, "en", hook.Entries[0].Data["vocabulary"])
}

func TestStoreIDsStableWithoutNewTokens(t *testing.T) {
	store, _ := newTestStore(t)

	first, err := store.Add("en", "the cat sat on the mat")
	require.NoError(t, err)
	second, err := store.Add("en", "the cat sat on the mat")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// "the" appears twice and gets one id.
	assert.Equal(t, first[0], first[4])
}

func TestStoreNewTokensShiftIDs(t *testing.T) {
	store, _ := newTestStore(t)

	before, err := store.Add("en", "cat")
	require.NoError(t, err)
	_, err = store.Add("en", "bat")
	require.NoError(t, err)
	after, err := store.Add("en", "cat")
	require.NoError(t, err)

	assert.Equal(t, []int32{1}, before)
	assert.Equal(t, []int32{2}, after)
}

func TestStoreVocabulariesAreSeparate(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Add("en", "house")
	require.NoError(t, err)
	_, err = store.Add("de", "haus")
	require.NoError(t, err)

	en, err := store.Load("en")
	require.NoError(t, err)
	_, ok := en.ID("haus")
	assert.False(t, ok)
}

func TestStoreFrozen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "en.csv")
	require.NoError(t, os.WriteFile(path, []byte("0\t\t\t.\n1\t\t\tcat"), 0o600))

	store := NewStore(dir, WithMode(ModeFrozen))
	ids, err := store.Add("en", "cat dog")
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 0}, ids)
	assert.Equal(t, "0\t\t\t.\n1\t\t\tcat", readFile(t, path))

	// A missing frozen vocabulary is the default and is not created.
	ids, err = store.Add("fr", "chat")
	require.NoError(t, err)
	assert.Equal(t, []int32{0}, ids)
	assert.NoFileExists(t, filepath.Join(dir, "fr.csv"))
}

func TestStoreThreshold(t *testing.T) {
	store, _ := newTestStore(t, WithThreshold(2))

	ids, err := store.Add("en", "cat dog")
	require.NoError(t, err)
	assert.Equal(t, []int32{0, 0}, ids)

	counts, err := store.Counts("en")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"cat": 1, "dog": 1}, counts)

	ids, err = store.Add("en", "cat cat")
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 1}, ids)

	counts, err = store.Counts("en")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"dog": 1}, counts)
	assert.Equal(t, "1\t\t\tdog", readFile(t, filepath.Join(store.Dir(), "en.threshold.csv")))

	vocab, err := store.Load("en")
	require.NoError(t, err)
	assert.Equal(t, []Entry{{ID: 0, Token: "."}, {ID: 1, Token: "cat"}}, vocab.Entries())
}

func TestStoreMalformedFile(t *testing.T) {
	store, hook := newTestStore(t)
	path := filepath.Join(store.Dir(), "en.csv")
	require.NoError(t, os.WriteFile(path, []byte("garbage line without separator"), 0o600))

	ids, err := store.Add("en", "the cat sat")
	require.NoError(t, err)
	assert.Equal(t, []int32{3, 1, 2}, ids)

	assert.Equal(t, "0\t\t\t.\n1\t\t\tcat\n2\t\t\tsat\n3\t\t\tthe", readFile(t, path))
	assert.Equal(t, "garbage line without separator", readFile(t, path+".malformed"))

	var warned bool
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.WarnLevel && entry.Message == "Vocabulary malformed, using default" {
			warned = true
		}
	}
	assert.True(t, warned)
}

func TestStoreMalformedFileFrozen(t *testing.T) {
	store, _ := newTestStore(t, WithMode(ModeFrozen))
	path := filepath.Join(store.Dir(), "en.csv")
	require.NoError(t, os.WriteFile(path, []byte("not a vocabulary"), 0o600))

	ids, err := store.Add("en", "cat")
	require.NoError(t, err)
	assert.Equal(t, []int32{0}, ids)

	vocab, err := store.Load("en")
	require.NoError(t, err)
	assert.Equal(t, []Entry{{ID: 0, Token: "."}}, vocab.Entries())
	assert.Equal(t, "not a vocabulary", readFile(t, path))
	assert.NoFileExists(t, path+".malformed")
}

func TestFileTokenizerMalformedFile(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), "en.csv"), []byte("garbage line without separator"), 0o600))

	tok, err := store.Tokenizer("en")
	require.NoError(t, err)
	ids, err := tok.Encode("the cat sat")
	require.NoError(t, err)
	assert.Len(t, ids, 3)
	assert.Equal(t, 4, tok.VocabSize())
}

func TestStoreInvalidID(t *testing.T) {
	store, _ := newTestStore(t)

	for _, id := range []string{"", ".", "..", "../en", `a\b`} {
		_, err := store.Add(id, "cat")
		assert.ErrorIs(t, err, ErrInvalidVocabularyID, "id %q", id)

		_, err = store.Tokenizer(id)
		assert.ErrorIs(t, err, ErrInvalidVocabularyID, "id %q", id)
	}
}

func TestStoreConcurrentAdds(t *testing.T) {
	store, _ := newTestStore(t)
	words := []string{"alpha", "bravo", "charlie", "delta", "echo", "foxtrot", "golf", "hotel"}

	var wg sync.WaitGroup
	for _, w := range words {
		wg.Add(1)
		go func(word string) {
			defer wg.Done()
			_, err := store.Add("en", word)
			assert.NoError(t, err)
		}(w)
	}
	wg.Wait()

	vocab, err := store.Load("en")
	require.NoError(t, err)
	assert.Equal(t, len(words)+1, vocab.Len())
}

func TestFileTokenizer(t *testing.T) {
	store, _ := newTestStore(t)
	tok, err := store.Tokenizer("en")
	require.NoError(t, err)

	ids, err := tok.Encode("Sat the cat")
	require.NoError(t, err)
	assert.Equal(t, 4, tok.VocabSize())

	text, err := tok.Decode(ids)
	require.NoError(t, err)
	assert.Equal(t, "sat the cat", text)

	_, err = tok.Decode([]int32{99})
	assert.ErrorIs(t, err, ErrUnknownID)
}

func TestParseMode(t *testing.T) {
	mode, err := ParseMode("Frozen")
	require.NoError(t, err)
	assert.Equal(t, ModeFrozen, mode)
	assert.Equal(t, "frozen", mode.String())

	_, err = ParseMode("sometimes")
	assert.Error(t, err)
}
