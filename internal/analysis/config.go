package analysis

import (
	"fmt"

	"quill/internal/config"
	"quill/internal/sentiment"
)

// FromConfig builds a pipeline whose scorer includes the configured extra
// lexicon words.
func FromConfig(cfg config.Analysis) (*Pipeline, error) {
	scorer, err := sentiment.NewScorer(
		sentiment.WithExtraPositive(cfg.PositiveWords...),
		sentiment.WithExtraNegative(cfg.NegativeWords...),
	)
	if err != nil {
		return nil, fmt.Errorf("build sentiment scorer: %w", err)
	}
	return New(WithLongWordThreshold(cfg.LongWordThreshold), WithScorer(scorer))
}
