package tokenizer

// Tokenizer is the core interface for text tokenization.
//
// All tokenizer implementations (BPE, tiktoken) must implement this
// interface.
type Tokenizer interface {
	// Encode converts text to token ids.
	Encode(text string) ([]int, error)

	// Decode converts token ids back to text.
	Decode(ids []int) (string, error)

	// VocabSize returns the total vocabulary size.
	VocabSize() int
}
