package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"quill/internal/api"
	"quill/internal/historyaccess"
	"quill/internal/ipc"
	"quill/internal/journal"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOut bool

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List recently dispatched requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(func(access historyaccess.Access) error {
				entries, err := access.Recent(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, api.HistoryResponse{Entries: nonNilEntries(entries)})
				}
				if len(entries) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No requests recorded")
					return nil
				}
				fmt.Fprint(cmd.OutOrStdout(), renderHistoryTable(entries))
				return nil
			})
		},
	}
	historyCmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum entries to show (0 for all)")
	historyCmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON output")

	historyCmd.AddCommand(newHistoryShowCommand(ctx))
	historyCmd.AddCommand(newHistoryClearCommand(ctx))
	return historyCmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "show <request-id>",
		Short: "Show one recorded request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(func(access historyaccess.Access) error {
				entry, err := access.Describe(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if entry == nil {
					return fmt.Errorf("request %s not found in history", args[0])
				}
				if jsonOut {
					return writeJSON(cmd, entry)
				}
				renderHistoryEntry(cmd, *entry)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON output")
	return cmd
}

func newHistoryClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all recorded requests",
		Long: "Remove all recorded requests. When the daemon is not running and the journal " +
			"was written by an incompatible version, the database file is deleted instead.",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			err := ctx.withHistory(func(access historyaccess.Access) error {
				removed, err := access.Clear(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Removed %d history entries\n", removed)
				return nil
			})
			if !errors.Is(err, journal.ErrSchemaMismatch) {
				return err
			}
			cfg, cfgErr := ctx.ensureConfig()
			if cfgErr != nil {
				return cfgErr
			}
			if err := journal.Remove(cfg.JournalPath()); err != nil {
				return err
			}
			fmt.Fprintf(out, "Deleted incompatible journal %s\n", cfg.JournalPath())
			return nil
		},
	}
}

// withHistory runs fn against the daemon when it answers, otherwise against
// the journal database directly.
func (c *commandContext) withHistory(fn func(historyaccess.Access) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	openStore := func() (*journal.Store, error) {
		if !cfg.Journal.Enabled {
			return nil, errors.New("request history is disabled (journal.enabled = false)")
		}
		return journal.Open(cfg)
	}
	session, err := historyaccess.OpenWithFallback(
		func() (*ipc.Client, error) { return ipc.Dial(c.socketPath()) },
		openStore,
	)
	if err != nil {
		return err
	}
	defer session.Close()
	return fn(session.Access)
}

func renderHistoryTable(entries []api.HistoryEntry) string {
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, []string{
			entry.ReceivedAt,
			entry.RequestID,
			entry.Kind,
			historyOutcome(entry),
			strconv.Itoa(entry.WordCount),
			historySentiment(entry),
			formatDurationMS(entry.DurationMS),
		})
	}
	columns := []tableColumn{
		leftColumn("Received"),
		leftColumn("Request"),
		leftColumn("Kind"),
		leftColumn("Result"),
		rightColumn("Words"),
		leftColumn("Sentiment"),
		rightColumn("Duration"),
	}
	return renderTable(columns, rows, nil)
}

func renderHistoryEntry(cmd *cobra.Command, entry api.HistoryEntry) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Request:   %s\n", entry.RequestID)
	fmt.Fprintf(out, "Kind:      %s\n", entry.Kind)
	fmt.Fprintf(out, "Result:    %s\n", historyOutcome(entry))
	if entry.Error != "" {
		fmt.Fprintf(out, "Error:     %s\n", entry.Error)
	}
	fmt.Fprintf(out, "Words:     %d\n", entry.WordCount)
	fmt.Fprintf(out, "Sentiment: %s\n", historySentiment(entry))
	fmt.Fprintf(out, "Received:  %s\n", entry.ReceivedAt)
	fmt.Fprintf(out, "Duration:  %s\n", formatDurationMS(entry.DurationMS))
}

func historyOutcome(entry api.HistoryEntry) string {
	if entry.Code == "" {
		return "ok"
	}
	return entry.Code
}

func historySentiment(entry api.HistoryEntry) string {
	switch entry.Sentiment {
	case "":
		return "-"
	case "neutral":
		return "neutral"
	default:
		return fmt.Sprintf("%s (%.2f)", entry.Sentiment, entry.Magnitude)
	}
}

func formatDurationMS(ms float64) string {
	return strconv.FormatFloat(ms, 'f', 2, 64) + "ms"
}

func nonNilEntries(entries []api.HistoryEntry) []api.HistoryEntry {
	if entries == nil {
		return []api.HistoryEntry{}
	}
	return entries
}

