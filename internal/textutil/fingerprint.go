package textutil

import "math"

// fingerprintMinTokenLength drops short function words from fingerprints.
const fingerprintMinTokenLength = 3

// Fingerprint represents a term-frequency vector for text similarity comparison.
type Fingerprint struct {
	table FrequencyTable
	norm  float64
}

// NewFingerprint creates a fingerprint from the provided text.
// Returns nil if the text produces no tokens of at least three characters.
func NewFingerprint(text string) *Fingerprint {
	tokens, _ := FilterByMinLength(Tokenize(text), fingerprintMinTokenLength)
	if len(tokens) == 0 {
		return nil
	}
	table := Frequency(tokens)
	var norm float64
	for _, entry := range table.entries {
		norm += float64(entry.Count * entry.Count)
	}
	return &Fingerprint{
		table: table,
		norm:  math.Sqrt(norm),
	}
}

// TokenCount returns the number of unique tokens in the fingerprint.
func (f *Fingerprint) TokenCount() int {
	if f == nil {
		return 0
	}
	return f.table.Len()
}

// CosineSimilarity computes the cosine similarity between two fingerprints.
// Returns 0 if either fingerprint is nil or has zero norm.
func CosineSimilarity(a, b *Fingerprint) float64 {
	if a == nil || b == nil || a.norm == 0 || b.norm == 0 {
		return 0
	}
	var dot float64
	for _, entry := range a.table.entries {
		if other := b.table.Count(entry.Word); other > 0 {
			dot += float64(entry.Count * other)
		}
	}
	if dot == 0 {
		return 0
	}
	return dot / (a.norm * b.norm)
}
