package analysis

import (
	"quill/internal/sentiment"
	"quill/internal/textutil"
)

var defaultPipeline = &Pipeline{
	threshold: DefaultLongWordThreshold,
	scorer:    sentiment.DefaultScorer(),
}

// Default returns the shared pipeline used by the package-level functions.
func Default() *Pipeline {
	return defaultPipeline
}

func Tokenize(text string) []string {
	return textutil.Tokenize(text)
}

func TokenizeBytes(raw []byte) ([]string, error) {
	return textutil.TokenizeBytes(raw)
}

func AnalyzeSentiment(text string) sentiment.Result {
	return defaultPipeline.Sentiment(text)
}

func ProcessText(text string) Result {
	return defaultPipeline.Analyze(text)
}

func WordFrequency(tokens []string) textutil.FrequencyTable {
	return textutil.Frequency(tokens)
}

// FilterWords keeps tokens of at least minLength runes.
func FilterWords(tokens []string, minLength int) ([]string, error) {
	return textutil.FilterByMinLength(tokens, minLength)
}

func CapitalizeWords(tokens []string) []string {
	return textutil.Capitalize(tokens)
}
