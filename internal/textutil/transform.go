package textutil

import (
	"fmt"
	"unicode/utf8"

	"quill/internal/faults"
)

// FilterByMinLength keeps tokens with at least minLength characters,
// preserving order.
func FilterByMinLength(tokens []string, minLength int) ([]string, error) {
	if minLength < 0 {
		return nil, faults.Wrap(faults.ErrInvalidArgument, "textutil", "filter", fmt.Sprintf("min length %d is negative", minLength), nil)
	}
	out := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if utf8.RuneCountInString(token) >= minLength {
			out = append(out, token)
		}
	}
	return out, nil
}

// Capitalize upper-cases the first character of each token when it is a
// lowercase ASCII letter. Any other token is passed through verbatim.
func Capitalize(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, token := range tokens {
		if token != "" && token[0] >= 'a' && token[0] <= 'z' {
			token = string(token[0]-('a'-'A')) + token[1:]
		}
		out[i] = token
	}
	return out
}
