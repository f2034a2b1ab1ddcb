package analysis

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"quill/internal/faults"
	"quill/internal/sentiment"
)

func TestProcessTextScenario(t *testing.T) {
	got := ProcessText("Hello beautiful world")

	if got.WordCount != 3 {
		t.Fatalf("word count = %d, want 3", got.WordCount)
	}
	if got.Sentiment != sentiment.Neutral() {
		t.Fatalf("sentiment = %s, want neutral", got.Sentiment)
	}
	if got.Frequency.Len() != 3 {
		t.Fatalf("frequency entries = %d, want 3", got.Frequency.Len())
	}
	for _, entry := range got.Frequency.Entries() {
		if entry.Count != 1 {
			t.Fatalf("count for %q = %d, want 1", entry.Word, entry.Count)
		}
	}
	if want := []string{"beautiful"}; !reflect.DeepEqual(got.LongWords, want) {
		t.Fatalf("long words = %v, want %v", got.LongWords, want)
	}
	if want := []string{"Hello", "Beautiful", "World"}; !reflect.DeepEqual(got.Capitalized, want) {
		t.Fatalf("capitalized = %v, want %v", got.Capitalized, want)
	}
}

func TestProcessTextConsistency(t *testing.T) {
	inputs := []string{
		"",
		"   \t\n",
		"This is amazing and wonderful",
		"Bad, bad, BAD! good?",
		"one.two,three;four:five",
	}
	for _, text := range inputs {
		got := ProcessText(text)
		if got.WordCount != len(Tokenize(text)) {
			t.Fatalf("%q: word count %d != len(tokens) %d", text, got.WordCount, len(Tokenize(text)))
		}
		if got.Frequency.Total() != got.WordCount {
			t.Fatalf("%q: frequency total %d != word count %d", text, got.Frequency.Total(), got.WordCount)
		}
		if len(got.Capitalized) != got.WordCount {
			t.Fatalf("%q: capitalized length %d != word count %d", text, len(got.Capitalized), got.WordCount)
		}
		if got.Sentiment != AnalyzeSentiment(text) {
			t.Fatalf("%q: sentiment mismatch %s vs %s", text, got.Sentiment, AnalyzeSentiment(text))
		}
	}
}

func TestProcessTextEmpty(t *testing.T) {
	got := ProcessText("")
	if got.WordCount != 0 || got.Frequency.Len() != 0 || len(got.LongWords) != 0 {
		t.Fatalf("unexpected result for empty input: %+v", got)
	}
	if got.Sentiment != sentiment.Neutral() {
		t.Fatalf("sentiment = %s, want neutral", got.Sentiment)
	}
}

func TestAnalyzeSentimentScenario(t *testing.T) {
	got := AnalyzeSentiment("This is amazing and wonderful")
	if got.Label != sentiment.LabelPositive {
		t.Fatalf("label = %s, want positive", got.Label)
	}
	if got.Magnitude < 0.39 || got.Magnitude > 0.41 {
		t.Fatalf("magnitude = %v, want 0.4", got.Magnitude)
	}
}

func TestNewRejectsNegativeThreshold(t *testing.T) {
	_, err := New(WithLongWordThreshold(-1))
	if !errors.Is(err, faults.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestPipelineThreshold(t *testing.T) {
	p, err := New(WithLongWordThreshold(3))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got := p.Analyze("a cat sits here")
	if want := []string{"sits", "here"}; !reflect.DeepEqual(got.LongWords, want) {
		t.Fatalf("long words = %v, want %v", got.LongWords, want)
	}
}

func TestPipelineCustomScorer(t *testing.T) {
	scorer, err := sentiment.NewScorer(sentiment.WithExtraPositive("beautiful"))
	if err != nil {
		t.Fatalf("NewScorer: %v", err)
	}
	p, err := New(WithScorer(scorer))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := p.Analyze("Hello beautiful world").Sentiment.Label; got != sentiment.LabelPositive {
		t.Fatalf("label = %s, want positive", got)
	}
}

func TestAnalyzeBytes(t *testing.T) {
	p, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err := p.AnalyzeBytes([]byte("\xEF\xBB\xBFHello beautiful world"))
	if err != nil {
		t.Fatalf("AnalyzeBytes: %v", err)
	}
	if !reflect.DeepEqual(got.Tokens, []string{"hello", "beautiful", "world"}) {
		t.Fatalf("tokens = %v", got.Tokens)
	}
	if _, err := p.AnalyzeBytes(nil); !errors.Is(err, faults.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for nil bytes, got %v", err)
	}
}

func TestFacadeHelpers(t *testing.T) {
	tokens := Tokenize("Hello world! This is great.")
	if want := []string{"hello", "world", "this", "is", "great"}; !reflect.DeepEqual(tokens, want) {
		t.Fatalf("tokens = %v, want %v", tokens, want)
	}
	filtered, err := FilterWords(tokens, 5)
	if err != nil {
		t.Fatalf("FilterWords: %v", err)
	}
	if want := []string{"hello", "world", "great"}; !reflect.DeepEqual(filtered, want) {
		t.Fatalf("filtered = %v, want %v", filtered, want)
	}
	if _, err := FilterWords(tokens, -2); !errors.Is(err, faults.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if got := WordFrequency([]string{"a", "b", "a"}).Count("a"); got != 2 {
		t.Fatalf("count(a) = %d, want 2", got)
	}
	if got := CapitalizeWords([]string{"go", "Go", "1go"}); !reflect.DeepEqual(got, []string{"Go", "Go", "1go"}) {
		t.Fatalf("capitalized = %v", got)
	}
	raw, err := TokenizeBytes([]byte("Hello world! This is great."))
	if err != nil {
		t.Fatalf("TokenizeBytes: %v", err)
	}
	if !reflect.DeepEqual(raw, tokens) {
		t.Fatalf("TokenizeBytes = %v, want %v", raw, tokens)
	}
}

func TestResultJSON(t *testing.T) {
	data, err := json.Marshal(ProcessText("good good day"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded struct {
		WordCount int `json:"wordCount"`
		Sentiment struct {
			Label string `json:"label"`
		} `json:"sentiment"`
		Frequency []struct {
			Word  string `json:"word"`
			Count int    `json:"count"`
		} `json:"frequency"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.WordCount != 3 || decoded.Sentiment.Label != "positive" {
		t.Fatalf("unexpected decoded result: %+v", decoded)
	}
	if len(decoded.Frequency) != 2 || decoded.Frequency[0].Word != "good" || decoded.Frequency[0].Count != 2 {
		t.Fatalf("unexpected frequency: %+v", decoded.Frequency)
	}
}
