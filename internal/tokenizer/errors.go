package tokenizer

import "fmt"

// MalformedTableError reports that a merges or vocabulary artifact could not
// be turned into well-formed table entries (bad key format, non-integer
// component, duplicate pair, unparseable document).
type MalformedTableError struct {
	Artifact string // "merges" or "vocab"
	Detail   string
}

// Error implements the error interface.
func (e *MalformedTableError) Error() string {
	return fmt.Sprintf("malformed %s table: %s", e.Artifact, e.Detail)
}

// InvalidInputError reports encode input that is not well-formed UTF-8 and
// therefore has no byte representation to tokenize.
type InvalidInputError struct {
	Detail string
}

// Error implements the error interface.
func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input text: %s", e.Detail)
}

// UnknownTokenError reports a token id with no vocabulary entry. ID names
// the offending id.
type UnknownTokenError struct {
	ID int
}

// Error implements the error interface.
func (e *UnknownTokenError) Error() string {
	return fmt.Sprintf("unknown token id %d", e.ID)
}
