// Package tokenizer provides byte-level BPE text tokenization for devtok.
//
// This package wraps the internal tokenizer implementation and provides
// a clean public API for tokenization tasks.
//
// Supported tokenizers:
//   - BPE: byte-level Byte-Pair Encoding driven by pre-trained merges and
//     vocabulary artifacts
//   - TikToken: OpenAI BPE tokenizers (GPT-3, GPT-4)
//
// Example usage:
//
//	import "github.com/devtok-ml/devtok/tokenizer"
//
//	// Load BPE artifacts
//	tok, err := tokenizer.LoadFromFiles("merges.json", "vocab.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Encode text
//	ids, err := tok.Encode("हरि तुम हरो जन की भीर।")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Decode ids
//	text, err := tok.Decode(ids)
//	if err != nil {
//	    log.Fatal(err)
//	}
package tokenizer

import (
	"github.com/devtok-ml/devtok/internal/tokenizer"
)

// Tokenizer is the core interface for text tokenization.
//
// All tokenizer implementations must implement this interface.
type Tokenizer = tokenizer.Tokenizer

// BPE implements byte-level Byte-Pair Encoding tokenization.
type BPE = tokenizer.BPE

// MergeRule is one learned BPE rule.
type MergeRule = tokenizer.MergeRule

// MergeTable holds the ordered merge rules of a pre-trained BPE model.
type MergeTable = tokenizer.MergeTable

// VocabTable maps every token id to its raw byte sequence.
type VocabTable = tokenizer.VocabTable

// MalformedTableError reports an unparseable merges or vocab artifact.
type MalformedTableError = tokenizer.MalformedTableError

// InvalidInputError reports encode input that is not well-formed UTF-8.
type InvalidInputError = tokenizer.InvalidInputError

// UnknownTokenError reports a token id with no vocabulary entry.
type UnknownTokenError = tokenizer.UnknownTokenError

// NewBPE creates a BPE tokenizer from a merge table and vocabulary.
func NewBPE(merges *MergeTable, vocab *VocabTable) *BPE {
	return tokenizer.NewBPE(merges, vocab)
}

// NewMergeTable builds a merge table from rules in learning order; the
// index of each rule is its rank (lower = higher priority).
func NewMergeTable(rules []MergeRule) (*MergeTable, error) {
	return tokenizer.NewMergeTable(rules)
}

// NewVocabTable builds a vocabulary table from id -> bytes entries.
func NewVocabTable(entries map[int][]byte) (*VocabTable, error) {
	return tokenizer.NewVocabTable(entries)
}

// LoadFromFiles builds a BPE tokenizer from merges and vocab artifacts.
//
// The merges artifact is a JSON object mapping "left,right" id pairs to
// merged ids, document order defining merge priority. The vocab artifact
// maps decimal token ids to base64-encoded byte strings.
func LoadFromFiles(mergesPath, vocabPath string) (*BPE, error) {
	return tokenizer.LoadFromFiles(mergesPath, vocabPath)
}

// LoadMerges reads a merges artifact and builds a merge table.
func LoadMerges(path string) (*MergeTable, error) {
	return tokenizer.LoadMerges(path)
}

// LoadVocab reads a vocab artifact and builds a vocabulary table.
func LoadVocab(path string) (*VocabTable, error) {
	return tokenizer.LoadVocab(path)
}

// DeriveVocab builds a vocabulary purely from merge rules: raw bytes 0-255
// plus one entry per merge target.
func DeriveVocab(merges *MergeTable) (*VocabTable, error) {
	return tokenizer.DeriveVocab(merges)
}

// NewTikToken creates a TikToken tokenizer with the specified encoding.
//
// Supported encodings: "cl100k_base" (GPT-4), "p50k_base" (GPT-3).
func NewTikToken(encodingName string) (Tokenizer, error) {
	return tokenizer.NewTikToken(encodingName)
}

// NewTikTokenForModel creates a TikToken tokenizer for a specific model.
//
// Example models: "gpt-4", "gpt-3.5-turbo", "text-embedding-ada-002".
func NewTikTokenForModel(modelName string) (Tokenizer, error) {
	return tokenizer.NewTikTokenForModel(modelName)
}

// ParseTokenIDs parses a comma-separated token id list such as
// "280, 925, 676"; non-numeric fields are skipped.
func ParseTokenIDs(s string) []int {
	return tokenizer.ParseTokenIDs(s)
}

// FormatTokenIDs renders token ids as a comma-separated string.
func FormatTokenIDs(ids []int) string {
	return tokenizer.FormatTokenIDs(ids)
}

// Example creates a minimal BPE tokenizer for testing and examples.
func Example() *BPE {
	return tokenizer.ExampleBPE()
}
