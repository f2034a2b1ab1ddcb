package sentiment

import (
	"fmt"
	"strings"

	"quill/internal/faults"
)

// Label classifies the polarity of a token sequence.
type Label string

const (
	LabelPositive Label = "positive"
	LabelNegative Label = "negative"
	LabelNeutral  Label = "neutral"
)

// String returns the label value.
func (l Label) String() string {
	return string(l)
}

// Result is the polarity of a token sequence with a magnitude in [0,1].
// Neutral results always carry a zero magnitude.
type Result struct {
	Label     Label   `json:"label"`
	Magnitude float64 `json:"magnitude"`
}

// Positive builds a positive result.
func Positive(magnitude float64) Result {
	return Result{Label: LabelPositive, Magnitude: magnitude}
}

// Negative builds a negative result.
func Negative(magnitude float64) Result {
	return Result{Label: LabelNegative, Magnitude: magnitude}
}

// Neutral builds the neutral result.
func Neutral() Result {
	return Result{Label: LabelNeutral}
}

func (r Result) String() string {
	if r.Label == LabelNeutral || r.Label == "" {
		return "neutral"
	}
	return fmt.Sprintf("%s(%.4g)", r.Label, r.Magnitude)
}

// Scorer classifies token sequences against a positive and a negative lexicon.
type Scorer struct {
	positive Lexicon
	negative Lexicon
}

// Option configures a Scorer.
type Option func(*scorerOptions)

type scorerOptions struct {
	positive      Lexicon
	negative      Lexicon
	extraPositive []string
	extraNegative []string
}

// WithLexicons replaces the built-in lexicons.
func WithLexicons(positive, negative Lexicon) Option {
	return func(o *scorerOptions) {
		o.positive = positive
		o.negative = negative
	}
}

// WithExtraPositive adds words to the positive lexicon.
func WithExtraPositive(words ...string) Option {
	return func(o *scorerOptions) {
		o.extraPositive = append(o.extraPositive, words...)
	}
}

// WithExtraNegative adds words to the negative lexicon.
func WithExtraNegative(words ...string) Option {
	return func(o *scorerOptions) {
		o.extraNegative = append(o.extraNegative, words...)
	}
}

// NewScorer builds a scorer. A word that ends up in both lexicons is a
// configuration error.
func NewScorer(opts ...Option) (*Scorer, error) {
	options := &scorerOptions{
		positive: DefaultPositive(),
		negative: DefaultNegative(),
	}
	for _, opt := range opts {
		opt(options)
	}
	positive := options.positive.with(options.extraPositive...)
	negative := options.negative.with(options.extraNegative...)

	var overlap []string
	for _, word := range positive.Words() {
		if negative.Contains(word) {
			overlap = append(overlap, word)
		}
	}
	if len(overlap) > 0 {
		return nil, faults.Wrap(faults.ErrConfiguration, "sentiment", "build scorer",
			"words in both lexicons: "+strings.Join(overlap, ", "), nil)
	}
	return &Scorer{positive: positive, negative: negative}, nil
}

// DefaultScorer returns a scorer over the built-in lexicons.
func DefaultScorer() *Scorer {
	return &Scorer{positive: DefaultPositive(), negative: DefaultNegative()}
}

// Score classifies tokens. Tokens must already be normalized by the tokenizer.
func (s *Scorer) Score(tokens []string) Result {
	if len(tokens) == 0 {
		return Neutral()
	}
	var pos, neg int
	for _, token := range tokens {
		switch {
		case s.positive.Contains(token):
			pos++
		case s.negative.Contains(token):
			neg++
		}
	}
	total := float64(len(tokens))
	switch {
	case pos > neg:
		return Positive(float64(pos-neg) / total)
	case neg > pos:
		return Negative(float64(neg-pos) / total)
	default:
		return Neutral()
	}
}

// Positive returns the scorer's positive lexicon.
func (s *Scorer) Positive() Lexicon {
	return s.positive
}

// Negative returns the scorer's negative lexicon.
func (s *Scorer) Negative() Lexicon {
	return s.negative
}
