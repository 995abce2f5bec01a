package textutil

import (
	"strconv"
	"strings"
	"unicode"
)

// LeadingInt parses the integer at the start of s, after optional leading
// whitespace and sign. Trailing text is ignored, so "10 jours" yields 10.
// ok is false when s does not start with a number.
func LeadingInt(s string) (n int, ok bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		// Out of int range
		return 0, false
	}
	return n, true
}
