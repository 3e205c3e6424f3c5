// Package tokenizer provides byte-level BPE text tokenization.
//
// The tokenizer package implements two tokenization strategies:
//   - BPE: byte-level Byte-Pair Encoding driven by a pre-trained merge
//     table and vocabulary (the reference algorithm of this repository)
//   - tiktoken: BPE tokenizers used by GPT-3/GPT-4 (cl100k_base, p50k_base)
//
// BPE artifacts:
//   - merges.json: ordered object mapping "left,right" id pairs to the
//     merged id; document order defines merge priority
//   - vocab.json: object mapping decimal token ids to base64-encoded bytes
//
// Example usage:
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
