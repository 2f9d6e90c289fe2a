// Package tokenizer turns text into token ids for the sequence model.
//
// The package provides:
//   - Tokenize: splits text into lower-cased word tokens
//   - Store: file-backed word vocabularies, one per vocabulary id
//   - TikTokenProvider: fixed BPE vocabularies from tiktoken-go
//
// Vocabulary files:
//
// A Store keeps every vocabulary as <dir>/<id>.csv, one entry per line:
//
//	0			.
//	1			cat
//	2			sat
//
// Id and token are separated by three tab characters. Entries are sorted by
// token text and ids are dense, starting at 0. A vocabulary that cannot be
// read or parsed falls back to the single entry (0, "."). Before an
// extending store rewrites a malformed file it renames it to
// <id>.csv.malformed.
//
// Example usage:
//
//	store := tokenizer.NewStore("./vocabulary")
//	tok, err := store.Tokenizer("en")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Unseen words are added and the file is rewritten
//	ids, err := tok.Encode("The cat sat")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Frozen vocabularies never change:
//
//	store := tokenizer.NewStore("./vocabulary", tokenizer.WithMode(tokenizer.ModeFrozen))
//
// Threshold vocabularies only admit a word after it was seen n times:
//
//	store := tokenizer.NewStore("./vocabulary", tokenizer.WithThreshold(3))
package tokenizer
