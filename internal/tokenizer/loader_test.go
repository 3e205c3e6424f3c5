package tokenizer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMerges_OrderDefinesRank(t *testing.T) {
	data := []byte(`{"104,101": 256, "108,108": 257, "256,257": 258}`)

	rules, err := ParseMerges(data)
	require.NoError(t, err)
	require.Len(t, rules, 3)

	table, err := NewMergeTable(rules)
	require.NoError(t, err)

	_, rank0, ok := table.Lookup(104, 101)
	require.True(t, ok)
	_, rank1, ok := table.Lookup(108, 108)
	require.True(t, ok)
	_, rank2, ok := table.Lookup(256, 257)
	require.True(t, ok)

	assert.Equal(t, 0, rank0)
	assert.Equal(t, 1, rank1)
	assert.Equal(t, 2, rank2)
}

func TestParseMerges_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{
			name: "not an object",
			data: `[1, 2, 3]`,
		},
		{
			name: "key without comma",
			data: `{"104": 256}`,
		},
		{
			name: "non-integer key component",
			data: `{"104,abc": 256}`,
		},
		{
			name: "negative key component",
			data: `{"104,-1": 256}`,
		},
		{
			name: "non-number value",
			data: `{"104,101": "x"}`,
		},
		{
			name: "fractional value",
			data: `{"104,101": 1.5}`,
		},
		{
			name: "truncated document",
			data: `{"104,101": 256`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMerges([]byte(tt.data))
			require.Error(t, err)

			var tableErr *MalformedTableError
			require.ErrorAs(t, err, &tableErr)
			assert.Equal(t, "merges", tableErr.Artifact)
		})
	}
}

func TestLoadMerges_DuplicateKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "merges.json")
	err := os.WriteFile(path, []byte(`{"1,2": 300, "1,2": 301}`), 0o600)
	require.NoError(t, err)

	_, err = LoadMerges(path)

	var tableErr *MalformedTableError
	assert.ErrorAs(t, err, &tableErr)
}

func TestLoadMerges_FileNotFound(t *testing.T) {
	_, err := LoadMerges(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestParseVocab(t *testing.T) {
	// 104 -> "h", 256 -> "he", base64-encoded.
	data := []byte(`{"104": "aA==", "256": "aGU="}`)

	vocab, err := ParseVocab(data)
	require.NoError(t, err)

	raw, err := vocab.Bytes(104)
	require.NoError(t, err)
	assert.Equal(t, []byte("h"), raw)

	raw, err = vocab.Bytes(256)
	require.NoError(t, err)
	assert.Equal(t, []byte("he"), raw)
}

func TestParseVocab_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{
			name: "non-integer key",
			data: `{"abc": "aA=="}`,
		},
		{
			name: "invalid base64 value",
			data: `{"104": "!!!"}`,
		},
		{
			name: "not an object",
			data: `42`,
		},
		{
			name: "duplicate token id",
			data: `{"104": "aA==", "104": "ZQ=="}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseVocab([]byte(tt.data))
			require.Error(t, err)

			var tableErr *MalformedTableError
			require.ErrorAs(t, err, &tableErr)
			assert.Equal(t, "vocab", tableErr.Artifact)
		})
	}
}

func TestDeriveVocab(t *testing.T) {
	merges, err := NewMergeTable([]MergeRule{
		{Left: 'h', Right: 'e', ID: 256},
		{Left: 256, Right: 'y', ID: 257},
	})
	require.NoError(t, err)

	vocab, err := DeriveVocab(merges)
	require.NoError(t, err)

	// 256 raw bytes plus the two merge targets.
	assert.Equal(t, 258, vocab.Len())

	raw, err := vocab.Bytes(257)
	require.NoError(t, err)
	assert.Equal(t, []byte("hey"), raw)

	assert.NoError(t, vocab.Validate(merges))
}

func TestDeriveVocab_UnknownConstituent(t *testing.T) {
	// Rule references id 999 which is neither a raw byte nor an earlier
	// merge target.
	merges, err := NewMergeTable([]MergeRule{
		{Left: 999, Right: 'a', ID: 1000},
	})
	require.NoError(t, err)

	_, err = DeriveVocab(merges)

	var tableErr *MalformedTableError
	assert.ErrorAs(t, err, &tableErr)
}

func TestLoadFromFiles(t *testing.T) {
	tmpDir := t.TempDir()
	mergesPath := filepath.Join(tmpDir, "merges.json")
	vocabPath := filepath.Join(tmpDir, "vocab.json")

	err := os.WriteFile(mergesPath, []byte(`{"104,101": 256}`), 0o600)
	require.NoError(t, err)

	// Full byte-level vocab plus the merge target, derived from the merge
	// rules to keep the fixture consistent.
	merges, err := LoadMerges(mergesPath)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(vocabPath, marshalVocab(t, merges), 0o600))

	tok, err := LoadFromFiles(mergesPath, vocabPath)
	require.NoError(t, err)

	ids, err := tok.Encode("he")
	require.NoError(t, err)
	assert.Equal(t, []int{256}, ids)

	text, err := tok.Decode(ids)
	require.NoError(t, err)
	assert.Equal(t, "he", text)
}

func TestLoadFromFiles_InconsistentVocab(t *testing.T) {
	tmpDir := t.TempDir()
	mergesPath := filepath.Join(tmpDir, "merges.json")
	vocabPath := filepath.Join(tmpDir, "vocab.json")

	err := os.WriteFile(mergesPath, []byte(`{"104,101": 256}`), 0o600)
	require.NoError(t, err)
	// Vocab is missing the merge target 256.
	err = os.WriteFile(vocabPath, []byte(`{"104": "aA==", "101": "ZQ=="}`), 0o600)
	require.NoError(t, err)

	_, err = LoadFromFiles(mergesPath, vocabPath)

	var tableErr *MalformedTableError
	assert.ErrorAs(t, err, &tableErr)
}

// marshalVocab renders the vocabulary derived from merges as the vocab.json
// artifact shape: decimal id keys, base64 byte values.
func marshalVocab(t *testing.T, merges *MergeTable) []byte {
	t.Helper()

	derived, err := DeriveVocab(merges)
	require.NoError(t, err)

	entries := make(map[string][]byte, 256+merges.Len())
	for b := 0; b < 256; b++ {
		entries[strconv.Itoa(b)] = []byte{byte(b)}
	}
	for _, r := range merges.Rules() {
		raw, err := derived.Bytes(r.ID)
		require.NoError(t, err)
		entries[strconv.Itoa(r.ID)] = raw
	}

	data, err := json.Marshal(entries)
	require.NoError(t, err)
	return data
}
