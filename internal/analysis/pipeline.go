package analysis

import (
	"fmt"

	"quill/internal/faults"
	"quill/internal/sentiment"
	"quill/internal/textutil"
)

// DefaultLongWordThreshold is the word length a token must exceed to be
// reported as a long word.
const DefaultLongWordThreshold = 5

// Result is the combined output of a full analysis.
type Result struct {
	Tokens      []string                `json:"tokens"`
	Sentiment   sentiment.Result        `json:"sentiment"`
	WordCount   int                     `json:"wordCount"`
	Frequency   textutil.FrequencyTable `json:"frequency"`
	LongWords   []string                `json:"longWords"`
	Capitalized []string                `json:"capitalized"`
}

// Pipeline chains tokenization, scoring, counting, filtering and
// capitalization over a single token slice.
type Pipeline struct {
	threshold int
	scorer    *sentiment.Scorer
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLongWordThreshold sets the long-word threshold.
func WithLongWordThreshold(n int) Option {
	return func(p *Pipeline) {
		p.threshold = n
	}
}

// WithScorer replaces the default sentiment scorer.
func WithScorer(scorer *sentiment.Scorer) Option {
	return func(p *Pipeline) {
		if scorer != nil {
			p.scorer = scorer
		}
	}
}

// New builds a pipeline.
func New(opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		threshold: DefaultLongWordThreshold,
		scorer:    sentiment.DefaultScorer(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.threshold < 0 {
		return nil, faults.Wrap(faults.ErrInvalidArgument, "analysis", "new pipeline",
			fmt.Sprintf("long word threshold %d is negative", p.threshold), nil)
	}
	return p, nil
}

// Threshold reports the configured long-word threshold.
func (p *Pipeline) Threshold() int {
	return p.threshold
}

// Scorer returns the pipeline's sentiment scorer.
func (p *Pipeline) Scorer() *sentiment.Scorer {
	return p.scorer
}

// Tokenize splits text into tokens.
func (p *Pipeline) Tokenize(text string) []string {
	return textutil.Tokenize(text)
}

// Sentiment tokenizes text and scores it.
func (p *Pipeline) Sentiment(text string) sentiment.Result {
	return p.scorer.Score(textutil.Tokenize(text))
}

// Analyze runs the full pipeline on text.
func (p *Pipeline) Analyze(text string) Result {
	return p.analyzeTokens(textutil.Tokenize(text))
}

// AnalyzeBytes decodes raw and runs the full pipeline.
func (p *Pipeline) AnalyzeBytes(raw []byte) (Result, error) {
	tokens, err := textutil.TokenizeBytes(raw)
	if err != nil {
		return Result{}, err
	}
	return p.analyzeTokens(tokens), nil
}

func (p *Pipeline) analyzeTokens(tokens []string) Result {
	// threshold is validated in New, so the filter cannot fail here.
	long, _ := textutil.FilterByMinLength(tokens, p.threshold+1)
	return Result{
		Tokens:      tokens,
		Sentiment:   p.scorer.Score(tokens),
		WordCount:   len(tokens),
		Frequency:   textutil.Frequency(tokens),
		LongWords:   long,
		Capitalized: textutil.Capitalize(tokens),
	}
}
