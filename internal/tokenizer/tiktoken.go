package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// Encoding names accepted by NewTikToken.
const (
	encodingCL100kBase = "cl100k_base"
	encodingP50kBase   = "p50k_base"
	encodingR50kBase   = "r50k_base"
)

// TikToken adapts the pkoukk/tiktoken-go BPE tokenizers to the Tokenizer
// interface, as an alternative to loading merges/vocab artifacts. The
// encodings cover the OpenAI model families: cl100k_base (GPT-4,
// GPT-3.5-turbo), p50k_base and r50k_base (GPT-3).
type TikToken struct {
	encoding *tiktoken.Tiktoken
	name     string
}

// NewTikToken creates a TikToken tokenizer for a named encoding, such as
// "cl100k_base" or "p50k_base".
func NewTikToken(encodingName string) (*TikToken, error) {
	encoding, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("failed to load tiktoken encoding %q: %w", encodingName, err)
	}

	return &TikToken{
		encoding: encoding,
		name:     encodingName,
	}, nil
}

// NewTikTokenForModel creates a TikToken tokenizer for a model name, such
// as "gpt-4" or "gpt-3.5-turbo", resolving the encoding it uses.
func NewTikTokenForModel(modelName string) (*TikToken, error) {
	encoding, err := tiktoken.EncodingForModel(modelName)
	if err != nil {
		return nil, fmt.Errorf("failed to load tiktoken for model %q: %w", modelName, err)
	}

	return &TikToken{
		encoding: encoding,
		name:     modelName,
	}, nil
}

// Encode converts text to token ids.
func (t *TikToken) Encode(text string) ([]int, error) {
	return t.encoding.Encode(text, nil, nil), nil
}

// Decode converts token ids back to text.
func (t *TikToken) Decode(ids []int) (string, error) {
	return t.encoding.Decode(ids), nil
}

// VocabSize returns the vocabulary size of the wrapped encoding. The
// library does not expose it, so these are the published sizes for the
// encodings we accept.
func (t *TikToken) VocabSize() int {
	switch t.name {
	case encodingCL100kBase:
		return 100256
	case encodingP50kBase, encodingR50kBase:
		return 50257
	default:
		return 100000
	}
}

// Name returns the encoding or model name this tokenizer was built from.
func (t *TikToken) Name() string {
	return t.name
}
