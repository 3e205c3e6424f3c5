package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTokenIDs(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []int
	}{
		{
			name:  "comma separated with spaces",
			input: "280, 925, 676",
			want:  []int{280, 925, 676},
		},
		{
			name:  "no spaces",
			input: "1,2,3",
			want:  []int{1, 2, 3},
		},
		{
			name:  "empty input",
			input: "",
			want:  []int{},
		},
		{
			name:  "whitespace only",
			input: "   ",
			want:  []int{},
		},
		{
			name:  "non-numeric fields are skipped",
			input: "12, x, 7, -3",
			want:  []int{12, 7},
		},
		{
			name:  "trailing comma",
			input: "5, 6,",
			want:  []int{5, 6},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTokenIDs(tt.input))
		})
	}
}

func TestFormatTokenIDs(t *testing.T) {
	tests := []struct {
		name string
		ids  []int
		want string
	}{
		{
			name: "several ids",
			ids:  []int{280, 925, 676},
			want: "280, 925, 676",
		},
		{
			name: "single id",
			ids:  []int{42},
			want: "42",
		},
		{
			name: "empty",
			ids:  []int{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatTokenIDs(tt.ids))
		})
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	ids := []int{272, 1292, 420, 886}
	assert.Equal(t, ids, ParseTokenIDs(FormatTokenIDs(ids)))
}
