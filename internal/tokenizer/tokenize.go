package tokenizer

import (
	"strings"
	"unicode/utf8"
)

// Tokenize splits text into word tokens.
//
// A word is a run of the letters A-Z, a-z, ä, ö, ü and ß. Upper-case umlauts
// are separators, so "Ärger" yields "rger". An apostrophe directly after a letter is dropped and the word
// continues, so "don't" becomes "dont". Words of one character are
// discarded and the rest are lower-cased.
func Tokenize(text string) []string {
	var tokens []string
	runes := []rune(text)

	var word strings.Builder
	for i := 0; i < len(runes); i++ {
		word.Reset()
		for i < len(runes) && isWordLetter(runes[i]) {
			word.WriteRune(runes[i])
			i++
			if i < len(runes) && runes[i] == '\'' {
				i++
			}
		}

		if utf8.RuneCountInString(word.String()) > 1 {
			tokens = append(tokens, strings.ToLower(word.String()))
		}
	}

	return tokens
}

func isWordLetter(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		return true
	}
	switch r {
	case 'ä', 'ö', 'ü', 'ß':
		return true
	}
	return false
}
