package tokenizer

import (
	"strconv"
	"strings"
)

// ParseTokenIDs parses a comma-separated token id list such as
// "280, 925, 676". Fields that are not non-negative integers are skipped;
// empty or whitespace-only input yields an empty list.
func ParseTokenIDs(s string) []int {
	ids := []int{}
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" || !isDigits(field) {
			continue
		}
		id, err := strconv.Atoi(field)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// FormatTokenIDs renders token ids as a comma-separated string.
func FormatTokenIDs(ids []int) string {
	fields := make([]string, len(ids))
	for i, id := range ids {
		fields[i] = strconv.Itoa(id)
	}
	return strings.Join(fields, ", ")
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
