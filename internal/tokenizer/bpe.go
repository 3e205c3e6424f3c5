package tokenizer

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

// tokenPair is an adjacent (left, right) token id pair. Fixed-size struct,
// comparable, so it can key the rank and replacement maps directly.
type tokenPair struct {
	left  int
	right int
}

// MergeRule is one learned BPE rule: Left followed by Right collapses into
// the single token ID.
type MergeRule struct {
	Left  int
	Right int
	ID    int
}

// MergeTable holds the ordered merge rules of a pre-trained BPE model.
//
// Rule order is significant: the index of a rule in the original learning
// order is its rank, and a lower rank means higher merge priority. The
// table is immutable after construction and safe for concurrent use.
type MergeTable struct {
	// rank[{A,B}] is the priority rank for merging token A followed by B.
	rank map[tokenPair]int
	// token[{A,B}] is the merged token id for the pair.
	token map[tokenPair]int
	// rules keeps the learning order for vocabulary derivation.
	rules []MergeRule
}

// NewMergeTable builds a merge table from rules in learning order.
//
// The index of each rule is its rank (lower = higher priority). Duplicate
// pairs or negative ids fail with a MalformedTableError.
func NewMergeTable(rules []MergeRule) (*MergeTable, error) {
	rank := make(map[tokenPair]int, len(rules))
	token := make(map[tokenPair]int, len(rules))

	for i, r := range rules {
		if r.Left < 0 || r.Right < 0 || r.ID < 0 {
			return nil, &MalformedTableError{
				Artifact: "merges",
				Detail:   "negative token id in rule",
			}
		}
		p := tokenPair{r.Left, r.Right}
		if _, dup := rank[p]; dup {
			return nil, &MalformedTableError{
				Artifact: "merges",
				Detail:   "duplicate pair key",
			}
		}
		rank[p] = i
		token[p] = r.ID
	}

	return &MergeTable{
		rank:  rank,
		token: token,
		rules: append([]MergeRule(nil), rules...),
	}, nil
}

// Lookup reports whether a merge rule exists for the pair (left, right),
// and if so its replacement id and rank. Lower rank = applied earlier.
func (m *MergeTable) Lookup(left, right int) (id, rank int, ok bool) {
	p := tokenPair{left, right}
	rank, ok = m.rank[p]
	if !ok {
		return 0, 0, false
	}
	return m.token[p], rank, true
}

// Len returns the number of merge rules.
func (m *MergeTable) Len() int {
	return len(m.rules)
}

// Rules returns the merge rules in learning order. The returned slice is a
// copy.
func (m *MergeTable) Rules() []MergeRule {
	return append([]MergeRule(nil), m.rules...)
}

// VocabTable maps every token id to the raw byte sequence it expands to.
// Immutable after construction and safe for concurrent use.
type VocabTable struct {
	bytes map[int][]byte
}

// NewVocabTable builds a vocabulary table from id -> bytes entries. The
// entries are copied. Negative ids fail with a MalformedTableError.
func NewVocabTable(entries map[int][]byte) (*VocabTable, error) {
	table := make(map[int][]byte, len(entries))
	for id, raw := range entries {
		if id < 0 {
			return nil, &MalformedTableError{
				Artifact: "vocab",
				Detail:   "negative token id",
			}
		}
		table[id] = append([]byte(nil), raw...)
	}
	return &VocabTable{bytes: table}, nil
}

// Bytes returns the raw byte sequence for a token id, or an
// UnknownTokenError if the id has no entry. The returned slice aliases
// internal memory; callers must treat it as read-only.
func (v *VocabTable) Bytes(id int) ([]byte, error) {
	raw, ok := v.bytes[id]
	if !ok {
		return nil, &UnknownTokenError{ID: id}
	}
	return raw, nil
}

// Len returns the number of vocabulary entries.
func (v *VocabTable) Len() int {
	return len(v.bytes)
}

// Validate checks the vocabulary against a merge table: every merge target
// id must map to the concatenation of its constituents' byte sequences.
func (v *VocabTable) Validate(m *MergeTable) error {
	for _, r := range m.rules {
		left, err := v.Bytes(r.Left)
		if err != nil {
			return &MalformedTableError{
				Artifact: "vocab",
				Detail:   (&UnknownTokenError{ID: r.Left}).Error(),
			}
		}
		right, err := v.Bytes(r.Right)
		if err != nil {
			return &MalformedTableError{
				Artifact: "vocab",
				Detail:   (&UnknownTokenError{ID: r.Right}).Error(),
			}
		}
		got, err := v.Bytes(r.ID)
		if err != nil {
			return &MalformedTableError{
				Artifact: "vocab",
				Detail:   (&UnknownTokenError{ID: r.ID}).Error(),
			}
		}

		want := make([]byte, 0, len(left)+len(right))
		want = append(want, left...)
		want = append(want, right...)
		if !bytes.Equal(got, want) {
			return &MalformedTableError{
				Artifact: "vocab",
				Detail:   "merge target bytes do not match constituent pair",
			}
		}
	}
	return nil
}

// BPE implements byte-level Byte-Pair Encoding tokenization.
//
// Encoding starts from the raw UTF-8 bytes of the input (ids 0-255) and
// repeatedly applies the highest-priority merge rule present in the
// sequence until none applies. Decoding concatenates per-id byte sequences
// and reinterprets them as UTF-8. Both operations are pure; a BPE value is
// safe for concurrent use.
type BPE struct {
	merges *MergeTable
	vocab  *VocabTable
}

// NewBPE creates a BPE tokenizer from a merge table and vocabulary.
func NewBPE(merges *MergeTable, vocab *VocabTable) *BPE {
	return &BPE{merges: merges, vocab: vocab}
}

// pairStats counts the occurrences of every adjacent pair in ids.
// Overlapping occurrences count individually: [5,5,5] has (5,5) twice.
// Empty or single-element input yields an empty map.
func pairStats(ids []int) map[tokenPair]int {
	counts := make(map[tokenPair]int)
	for i := 0; i+1 < len(ids); i++ {
		counts[tokenPair{ids[i], ids[i+1]}]++
	}
	return counts
}

// applyMerge returns a new sequence with every non-overlapping left-to-right
// occurrence of pair replaced by id. On a match both elements are consumed,
// so [X,X,X] with pair (X,X) becomes [id,X]. The input is not mutated.
func applyMerge(ids []int, pair tokenPair, id int) []int {
	out := make([]int, 0, len(ids))
	for i := 0; i < len(ids); {
		if i+1 < len(ids) && ids[i] == pair.left && ids[i+1] == pair.right {
			out = append(out, id)
			i += 2
		} else {
			out = append(out, ids[i])
			i++
		}
	}
	return out
}

// selectMerge picks the pair with the lowest merge rank among the distinct
// adjacent pairs of ids. Candidates come from the pair statistics of the
// current sequence; each distinct pair is considered once, in order of its
// first occurrence, and only a strictly lower rank replaces the current
// best. That keeps selection deterministic: rank decides, and among equals
// the earliest-occurring pair wins. ok is false when no adjacent pair has a
// merge rule.
func (b *BPE) selectMerge(ids []int) (pair tokenPair, ok bool) {
	stats := pairStats(ids)

	var best tokenPair
	bestRank := -1
	for i := 0; i+1 < len(ids) && len(stats) > 0; i++ {
		p := tokenPair{ids[i], ids[i+1]}
		if _, pending := stats[p]; !pending {
			continue
		}
		delete(stats, p)
		if rank, found := b.merges.rank[p]; found && (bestRank < 0 || rank < bestRank) {
			best = p
			bestRank = rank
		}
	}
	return best, bestRank >= 0
}

// Encode converts text to token ids using BPE.
//
// Input that is not well-formed UTF-8 fails with an InvalidInputError.
// Every successful merge strictly shrinks the sequence, so the loop
// terminates; the result has no remaining pair with a merge rule.
func (b *BPE) Encode(text string) ([]int, error) {
	if !utf8.ValidString(text) {
		return nil, &InvalidInputError{Detail: "text is not valid UTF-8"}
	}

	ids := make([]int, len(text))
	for i := 0; i < len(text); i++ {
		ids[i] = int(text[i])
	}

	for len(ids) >= 2 {
		pair, ok := b.selectMerge(ids)
		if !ok {
			break
		}
		ids = applyMerge(ids, pair, b.merges.token[pair])
	}
	return ids, nil
}

// Decode converts token ids back to text.
//
// An id with no vocabulary entry fails with an UnknownTokenError and
// produces no partial output. Byte content that is not valid UTF-8 is not
// an error: each maximal run of ill-formed bytes is replaced with U+FFFD.
func (b *BPE) Decode(ids []int) (string, error) {
	var buf bytes.Buffer
	for _, id := range ids {
		raw, err := b.vocab.Bytes(id)
		if err != nil {
			return "", err
		}
		buf.Write(raw)
	}
	return toValidUTF8(buf.Bytes()), nil
}

// VocabSize returns the total vocabulary size.
func (b *BPE) VocabSize() int {
	return b.vocab.Len()
}

// toValidUTF8 reinterprets raw bytes as text, substituting one replacement
// character for each maximal subpart of an ill-formed UTF-8 sequence
// (Unicode "maximal subpart" policy): a truncated sequence like e0 a4
// becomes a single U+FFFD, while bytes that can never start a sequence,
// like ff fe, each become their own.
func toValidUTF8(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}

	var sb strings.Builder
	sb.Grow(len(raw))
	for len(raw) > 0 {
		r, size := utf8.DecodeRune(raw)
		if r == utf8.RuneError && size == 1 {
			sb.WriteRune(utf8.RuneError)
			raw = raw[invalidPrefixLen(raw):]
			continue
		}
		sb.Write(raw[:size])
		raw = raw[size:]
	}
	return sb.String()
}

// invalidPrefixLen returns the length of the maximal subpart of the
// ill-formed sequence at the start of raw: the lead byte plus any
// continuation bytes that are still valid for their position (Unicode
// Table 3-7 ranges). A byte that cannot lead a sequence has length 1.
func invalidPrefixLen(raw []byte) int {
	var need int
	var lo, hi byte
	switch b := raw[0]; {
	case b >= 0xc2 && b <= 0xdf:
		need, lo, hi = 1, 0x80, 0xbf
	case b == 0xe0:
		need, lo, hi = 2, 0xa0, 0xbf
	case b >= 0xe1 && b <= 0xec:
		need, lo, hi = 2, 0x80, 0xbf
	case b == 0xed:
		need, lo, hi = 2, 0x80, 0x9f
	case b >= 0xee && b <= 0xef:
		need, lo, hi = 2, 0x80, 0xbf
	case b == 0xf0:
		need, lo, hi = 3, 0x90, 0xbf
	case b >= 0xf1 && b <= 0xf3:
		need, lo, hi = 3, 0x80, 0xbf
	case b == 0xf4:
		need, lo, hi = 3, 0x80, 0x8f
	default:
		return 1
	}

	n := 1
	for n < len(raw) && n <= need {
		if raw[n] < lo || raw[n] > hi {
			break
		}
		lo, hi = 0x80, 0xbf
		n++
	}
	return n
}

// ExampleBPE creates a minimal BPE tokenizer for testing and examples.
func ExampleBPE() *BPE {
	rules := []MergeRule{
		{Left: 'h', Right: 'e', ID: 256}, // "he"
		{Left: 'l', Right: 'l', ID: 257}, // "ll"
		{Left: 256, Right: 257, ID: 258}, // "hell"
		{Left: 258, Right: 'o', ID: 259}, // "hello"
	}

	merges, err := NewMergeTable(rules)
	if err != nil {
		panic(err)
	}
	vocab, err := DeriveVocab(merges)
	if err != nil {
		panic(err)
	}
	return NewBPE(merges, vocab)
}
