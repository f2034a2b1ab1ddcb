package sentiment

import (
	"sort"
	"strings"
)

var defaultPositive = []string{
	"amazing", "awesome", "best", "brilliant", "delightful", "excellent",
	"fantastic", "good", "great", "happy", "love", "nice", "pleased",
	"superb", "wonderful",
}

var defaultNegative = []string{
	"angry", "annoying", "awful", "bad", "broken", "disappointing",
	"dreadful", "hate", "horrible", "miserable", "poor", "sad",
	"terrible", "worst",
}

// Lexicon is a fixed set of words matched by exact string membership.
type Lexicon struct {
	words map[string]struct{}
}

// NewLexicon builds a lexicon from words. Entries are trimmed and lowercased
// so they match tokenizer output; blanks are ignored.
func NewLexicon(words ...string) Lexicon {
	lex := Lexicon{words: make(map[string]struct{}, len(words))}
	for _, word := range words {
		word = strings.ToLower(strings.TrimSpace(word))
		if word == "" {
			continue
		}
		lex.words[word] = struct{}{}
	}
	return lex
}

// DefaultPositive returns the built-in positive lexicon.
func DefaultPositive() Lexicon {
	return NewLexicon(defaultPositive...)
}

// DefaultNegative returns the built-in negative lexicon.
func DefaultNegative() Lexicon {
	return NewLexicon(defaultNegative...)
}

// Contains reports whether token is in the lexicon.
func (l Lexicon) Contains(token string) bool {
	_, ok := l.words[token]
	return ok
}

// Len returns the number of words in the lexicon.
func (l Lexicon) Len() int {
	return len(l.words)
}

// Words returns the lexicon entries in sorted order.
func (l Lexicon) Words() []string {
	out := make([]string, 0, len(l.words))
	for word := range l.words {
		out = append(out, word)
	}
	sort.Strings(out)
	return out
}

func (l Lexicon) with(words ...string) Lexicon {
	merged := make([]string, 0, len(l.words)+len(words))
	for word := range l.words {
		merged = append(merged, word)
	}
	merged = append(merged, words...)
	return NewLexicon(merged...)
}
