package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"quill/internal/analysis"
	"quill/internal/sentiment"
	"quill/internal/textutil"
)

// inputFlags are shared by every command that reads text.
type inputFlags struct {
	file string
	json bool
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "Read text from a file (- for stdin)")
	cmd.Flags().BoolVar(&f.json, "json", false, "Emit JSON output")
}

func newAnalysisCommands(ctx *commandContext) []*cobra.Command {
	return []*cobra.Command{
		newTokenizeCommand(ctx),
		newSentimentCommand(ctx),
		newFrequencyCommand(ctx),
		newAnalyzeCommand(ctx),
		newCompareCommand(),
	}
}

func newTokenizeCommand(ctx *commandContext) *cobra.Command {
	var flags inputFlags
	cmd := &cobra.Command{
		Use:   "tokenize [text...]",
		Short: "Split text into lowercase tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeline, err := ctx.pipeline()
			if err != nil {
				return err
			}
			text, err := readInputText(cmd, args, flags.file)
			if err != nil {
				return err
			}
			tokens := pipeline.Tokenize(text)
			if flags.json {
				return writeJSON(cmd, struct {
					Tokens []string `json:"tokens"`
				}{Tokens: nonNil(tokens)})
			}
			out := cmd.OutOrStdout()
			for _, token := range tokens {
				fmt.Fprintln(out, token)
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newSentimentCommand(ctx *commandContext) *cobra.Command {
	var flags inputFlags
	cmd := &cobra.Command{
		Use:   "sentiment [text...]",
		Short: "Classify text as positive, negative or neutral",
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeline, err := ctx.pipeline()
			if err != nil {
				return err
			}
			text, err := readInputText(cmd, args, flags.file)
			if err != nil {
				return err
			}
			result := pipeline.Sentiment(text)
			if flags.json {
				return writeJSON(cmd, result)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatSentiment(result))
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newFrequencyCommand(ctx *commandContext) *cobra.Command {
	var flags inputFlags
	var top int
	cmd := &cobra.Command{
		Use:   "frequency [text...]",
		Short: "Count how often each token occurs",
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeline, err := ctx.pipeline()
			if err != nil {
				return err
			}
			text, err := readInputText(cmd, args, flags.file)
			if err != nil {
				return err
			}
			freq := textutil.Frequency(pipeline.Tokenize(text))
			entries := freq.Top(top)
			if flags.json {
				return writeJSON(cmd, struct {
					Words []textutil.WordCount `json:"words"`
				}{Words: entries})
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tokens found")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), renderFrequencyTable(entries, freq.Total()))
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVar(&top, "top", 0, "Show only the N most frequent tokens (0 for all)")
	return cmd
}

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var flags inputFlags
	var top int
	cmd := &cobra.Command{
		Use:   "analyze [text...]",
		Short: "Run the full pipeline: tokens, sentiment, frequency, long words and capitalization",
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeline, err := ctx.pipeline()
			if err != nil {
				return err
			}
			text, err := readInputText(cmd, args, flags.file)
			if err != nil {
				return err
			}
			result := pipeline.Analyze(text)
			if flags.json {
				return writeJSON(cmd, result)
			}
			renderAnalysis(cmd, result, top)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVar(&top, "top", 10, "Rows shown in the frequency table (0 for all)")
	return cmd
}

func newCompareCommand() *cobra.Command {
	var files bool
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "compare <left> <right>",
		Short: "Score how similar two texts are by their word usage",
		Long: "Compare two texts using the cosine similarity of their term-frequency vectors. " +
			"Tokens shorter than three characters are ignored. Pass --files to treat the arguments as paths.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			texts := make([]string, 2)
			for i, arg := range args {
				if !files {
					texts[i] = arg
					continue
				}
				text, err := readInputText(cmd, nil, arg)
				if err != nil {
					return err
				}
				texts[i] = text
			}

			left := textutil.NewFingerprint(texts[0])
			right := textutil.NewFingerprint(texts[1])
			similarity := textutil.CosineSimilarity(left, right)

			if jsonOut {
				return writeJSON(cmd, struct {
					Similarity float64 `json:"similarity"`
					LeftTerms  int     `json:"leftTerms"`
					RightTerms int     `json:"rightTerms"`
				}{similarity, left.TokenCount(), right.TokenCount()})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Similarity: %.4f\n", similarity)
			fmt.Fprintf(out, "Distinct terms: %d / %d\n", left.TokenCount(), right.TokenCount())
			return nil
		},
	}
	cmd.Flags().BoolVar(&files, "files", false, "Treat both arguments as file paths")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON output")
	return cmd
}

func renderAnalysis(cmd *cobra.Command, result analysis.Result, top int) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Words:       %d\n", result.WordCount)
	fmt.Fprintf(out, "Sentiment:   %s\n", formatSentiment(result.Sentiment))
	fmt.Fprintf(out, "Long words:  %s\n", joinOrNone(result.LongWords))
	fmt.Fprintf(out, "Capitalized: %s\n", joinOrNone(result.Capitalized))
	if result.Frequency.Len() == 0 {
		return
	}
	fmt.Fprintln(out)
	fmt.Fprint(out, renderFrequencyTable(result.Frequency.Top(top), result.Frequency.Total()))
}

// renderFrequencyTable lists entries with a footer carrying the token count
// of the whole text, not just the rows shown.
func renderFrequencyTable(entries []textutil.WordCount, total int) string {
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, []string{entry.Word, strconv.Itoa(entry.Count)})
	}
	return renderTable(
		[]tableColumn{leftColumn("Word"), rightColumn("Count")},
		rows,
		[]string{"Total", strconv.Itoa(total)},
	)
}

func formatSentiment(result sentiment.Result) string {
	if result.Label == sentiment.LabelNeutral || result.Label == "" {
		return string(sentiment.LabelNeutral)
	}
	return fmt.Sprintf("%s (%.4f)", result.Label, result.Magnitude)
}

func joinOrNone(words []string) string {
	if len(words) == 0 {
		return "none"
	}
	return strings.Join(words, " ")
}

func nonNil(tokens []string) []string {
	if tokens == nil {
		return []string{}
	}
	return tokens
}
