// Package sentiment scores token sequences by lexicon lookup.
//
// A Scorer counts tokens found in its positive and negative lexicons and
// reports the dominant polarity with magnitude |pos-neg| / len(tokens). An
// empty sequence is neutral. Lexicons default to a small built-in word list
// and can be extended from configuration.
package sentiment
