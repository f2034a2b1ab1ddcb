package analysis

import (
	"errors"
	"testing"

	"quill/internal/config"
	"quill/internal/faults"
	"quill/internal/sentiment"
)

func TestFromConfig(t *testing.T) {
	cfg := config.Default().Analysis
	cfg.LongWordThreshold = 3
	cfg.PositiveWords = []string{"stellar"}
	cfg.NegativeWords = []string{"soggy"}

	p, err := FromConfig(cfg)
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}
	if p.Threshold() != 3 {
		t.Fatalf("threshold = %d, want 3", p.Threshold())
	}
	if got := p.Sentiment("stellar stellar soggy"); got.Label != sentiment.LabelPositive {
		t.Fatalf("sentiment = %s, want positive", got)
	}
	if got := p.Sentiment("good"); got.Label != sentiment.LabelPositive {
		t.Fatalf("built-in lexicon lost: %s", got)
	}
}

func TestFromConfigRejectsNegativeThreshold(t *testing.T) {
	cfg := config.Default().Analysis
	cfg.LongWordThreshold = -1
	if _, err := FromConfig(cfg); !errors.Is(err, faults.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}
