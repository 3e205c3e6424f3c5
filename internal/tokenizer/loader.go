package tokenizer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ParseMerges parses a merges artifact: a JSON object whose keys are
// "left,right" decimal id pairs and whose values are the merged ids.
//
// Document order defines merge priority, so the object is walked with a
// streaming decoder rather than unmarshalled into a map (which would lose
// key order). Structural problems fail with a MalformedTableError.
func ParseMerges(data []byte) ([]MergeRule, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, &MalformedTableError{Artifact: "merges", Detail: err.Error()}
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, &MalformedTableError{
			Artifact: "merges",
			Detail:   "document is not a JSON object",
		}
	}

	var rules []MergeRule
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, &MalformedTableError{Artifact: "merges", Detail: err.Error()}
		}
		key := keyTok.(string)

		left, right, err := parsePairKey(key)
		if err != nil {
			return nil, err
		}

		valTok, err := dec.Token()
		if err != nil {
			return nil, &MalformedTableError{Artifact: "merges", Detail: err.Error()}
		}
		num, ok := valTok.(json.Number)
		if !ok {
			return nil, &MalformedTableError{
				Artifact: "merges",
				Detail:   fmt.Sprintf("value for key %q is not a number", key),
			}
		}
		id, err := strconv.Atoi(num.String())
		if err != nil {
			return nil, &MalformedTableError{
				Artifact: "merges",
				Detail:   fmt.Sprintf("value for key %q is not an integer", key),
			}
		}

		rules = append(rules, MergeRule{Left: left, Right: right, ID: id})
	}

	if _, err := dec.Token(); err != nil {
		return nil, &MalformedTableError{Artifact: "merges", Detail: err.Error()}
	}
	return rules, nil
}

// parsePairKey splits a "left,right" key into its two non-negative ids.
func parsePairKey(key string) (left, right int, err error) {
	first, second, found := strings.Cut(key, ",")
	if !found {
		return 0, 0, &MalformedTableError{
			Artifact: "merges",
			Detail:   fmt.Sprintf("key %q is not a comma-joined pair", key),
		}
	}
	left, err = strconv.Atoi(strings.TrimSpace(first))
	if err == nil {
		right, err = strconv.Atoi(strings.TrimSpace(second))
	}
	if err != nil || left < 0 || right < 0 {
		return 0, 0, &MalformedTableError{
			Artifact: "merges",
			Detail:   fmt.Sprintf("key %q has a non-integer component", key),
		}
	}
	return left, right, nil
}

// LoadMerges reads a merges artifact from disk and builds a merge table.
func LoadMerges(path string) (*MergeTable, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: Path comes from trusted caller
	if err != nil {
		return nil, fmt.Errorf("failed to read merges file: %w", err)
	}
	rules, err := ParseMerges(data)
	if err != nil {
		return nil, err
	}
	return NewMergeTable(rules)
}

// ParseVocab parses a vocab artifact: a JSON object mapping decimal token
// ids to base64-encoded byte strings.
//
// The object is walked with a streaming decoder, like the merges parser,
// so duplicate id keys are rejected rather than silently last-wins.
func ParseVocab(data []byte) (*VocabTable, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, &MalformedTableError{Artifact: "vocab", Detail: err.Error()}
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, &MalformedTableError{
			Artifact: "vocab",
			Detail:   "document is not a JSON object",
		}
	}

	entries := make(map[int][]byte)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, &MalformedTableError{Artifact: "vocab", Detail: err.Error()}
		}
		key := keyTok.(string)

		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, &MalformedTableError{
				Artifact: "vocab",
				Detail:   fmt.Sprintf("key %q is not an integer token id", key),
			}
		}
		if _, dup := entries[id]; dup {
			return nil, &MalformedTableError{
				Artifact: "vocab",
				Detail:   fmt.Sprintf("duplicate token id %d", id),
			}
		}

		var raw []byte
		if err := dec.Decode(&raw); err != nil {
			return nil, &MalformedTableError{
				Artifact: "vocab",
				Detail:   fmt.Sprintf("value for id %d is not base64 bytes: %s", id, err),
			}
		}
		entries[id] = raw
	}

	if _, err := dec.Token(); err != nil {
		return nil, &MalformedTableError{Artifact: "vocab", Detail: err.Error()}
	}
	return NewVocabTable(entries)
}

// LoadVocab reads a vocab artifact from disk and builds a vocabulary table.
func LoadVocab(path string) (*VocabTable, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: Path comes from trusted caller
	if err != nil {
		return nil, fmt.Errorf("failed to read vocab file: %w", err)
	}
	return ParseVocab(data)
}

// LoadFromFiles builds a BPE tokenizer from merges and vocab artifacts,
// validating that the vocabulary is consistent with the merge rules.
func LoadFromFiles(mergesPath, vocabPath string) (*BPE, error) {
	merges, err := LoadMerges(mergesPath)
	if err != nil {
		return nil, err
	}
	vocab, err := LoadVocab(vocabPath)
	if err != nil {
		return nil, err
	}
	if err := vocab.Validate(merges); err != nil {
		return nil, err
	}
	return NewBPE(merges, vocab), nil
}

// DeriveVocab builds a vocabulary purely from merge rules: raw bytes 0-255
// plus one entry per merge target, concatenating constituent bytes in
// learning order. A rule referencing an id that is neither a raw byte nor
// an earlier merge target fails with a MalformedTableError.
func DeriveVocab(m *MergeTable) (*VocabTable, error) {
	entries := make(map[int][]byte, 256+m.Len())
	for b := 0; b < 256; b++ {
		entries[b] = []byte{byte(b)}
	}

	for _, r := range m.Rules() {
		left, okL := entries[r.Left]
		right, okR := entries[r.Right]
		if !okL || !okR {
			return nil, &MalformedTableError{
				Artifact: "merges",
				Detail:   fmt.Sprintf("rule for id %d references an unknown constituent", r.ID),
			}
		}
		merged := make([]byte, 0, len(left)+len(right))
		merged = append(merged, left...)
		merged = append(merged, right...)
		entries[r.ID] = merged
	}
	return NewVocabTable(entries)
}
