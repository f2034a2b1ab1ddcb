package main

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"quill/internal/api"
	"quill/internal/daemonctl"
	"quill/internal/preflight"
)

func newDaemonCommands(ctx *commandContext) []*cobra.Command {
	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Start the quill daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			exe, err := daemonExecutable()
			if err != nil {
				return err
			}

			result, err := daemonctl.EnsureStarted(
				cmd.Context(),
				ctx.socketPath(),
				exe,
				daemonLaunchOptions(ctx),
				10*time.Second,
			)
			if err != nil {
				return err
			}

			if result.Launched {
				fmt.Fprintln(stdout, "Daemon not running, launching...")
			}

			switch result.State {
			case daemonctl.StartStateStarted:
				fmt.Fprintln(stdout, "Daemon started")
			case daemonctl.StartStateAlreadyRunning:
				fmt.Fprintln(stdout, "Daemon already running")
			case daemonctl.StartStateRequested:
				fmt.Fprintln(stdout, result.Message)
			}
			return nil
		},
	}

	stopCmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the quill daemon and terminate its process",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			result, err := daemonctl.StopAndTerminate(cmd.Context(), ctx.socketPath(), ctx.configValue(), 5*time.Second)
			if errors.Is(err, daemonctl.ErrDaemonNotRunning) {
				fmt.Fprintln(stdout, "Daemon is not running")
				return nil
			}
			if err != nil {
				return err
			}
			if result.StopAcknowledged {
				fmt.Fprintln(stdout, "Dispatcher stopped")
			}
			if result.ForcedKill {
				fmt.Fprintf(stdout, "Daemon process (pid %d) did not exit in time and was killed\n", result.PID)
			}
			fmt.Fprintln(stdout, "Daemon stopped")
			return nil
		},
	}

	restartCmd := &cobra.Command{
		Use:   "restart",
		Short: "Restart the quill daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			exe, err := daemonExecutable()
			if err != nil {
				return err
			}

			result, err := daemonctl.Restart(
				cmd.Context(),
				ctx.socketPath(),
				ctx.configValue(),
				exe,
				daemonLaunchOptions(ctx),
				5*time.Second,
				10*time.Second,
			)
			if err != nil {
				return err
			}

			if result.WasRunning {
				if result.Stop.ForcedKill && result.Stop.PID > 0 {
					fmt.Fprintf(stdout, "Daemon process (pid %d) was killed\n", result.Stop.PID)
				}
				fmt.Fprintln(stdout, "Daemon stopped")
			}

			switch result.Start.State {
			case daemonctl.StartStateStarted, daemonctl.StartStateAlreadyRunning:
				fmt.Fprintln(stdout, "Daemon restarted")
			case daemonctl.StartStateRequested:
				fmt.Fprintln(stdout, result.Start.Message)
			}
			return nil
		},
	}

	var statusJSON bool
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon, dispatcher and history status",
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshot, err := daemonctl.BuildStatusSnapshot(cmd.Context(), ctx.socketPath(), ctx.configValue())
			if err != nil {
				return err
			}
			if statusJSON {
				return writeJSON(cmd, snapshot.Status)
			}

			stdout := cmd.OutOrStdout()
			colorize := shouldColorize(stdout)

			for _, line := range renderSectionHeader("Daemon", colorize) {
				fmt.Fprintln(stdout, line)
			}
			for _, line := range daemonStatusLines(snapshot, colorize) {
				fmt.Fprintln(stdout, line)
			}
			fmt.Fprintln(stdout)

			for _, line := range renderSectionHeader("Checks", colorize) {
				fmt.Fprintln(stdout, line)
			}
			for _, line := range preflightLines(preflight.RunAll(cmd.Context(), ctx.configValue()), colorize) {
				fmt.Fprintln(stdout, line)
			}
			fmt.Fprintln(stdout)

			for _, line := range renderSectionHeader("History", colorize) {
				fmt.Fprintln(stdout, line)
			}
			journal := snapshot.Status.Journal
			if journal == nil {
				fmt.Fprintln(stdout, renderStatusLine("Journal", statusInfo, "Unavailable", colorize))
				return nil
			}
			fmt.Fprintln(stdout, renderStatusLine("Journal", statusFor(journal.Failed == 0, statusWarn), journalDetail(journal), colorize))
			rows := buildKindRows(journal.ByKind)
			if len(rows) == 0 {
				fmt.Fprintln(stdout, "No requests recorded")
				return nil
			}
			fmt.Fprint(stdout, renderTable([]tableColumn{leftColumn("Kind"), rightColumn("Requests")}, rows, nil))
			return nil
		},
	}
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Emit JSON output")

	return []*cobra.Command{startCmd, stopCmd, restartCmd, statusCmd}
}

func daemonStatusLines(snapshot daemonctl.Snapshot, colorize bool) []string {
	status := snapshot.Status
	lines := make([]string, 0, 6)

	switch {
	case !snapshot.Reachable:
		lines = append(lines, renderStatusLine("Quill", statusWarn, "Not running (run `quill start`)", colorize))
	case status.Running:
		lines = append(lines, renderStatusLine("Quill", statusOK, fmt.Sprintf("Running (pid %d)", status.PID), colorize))
	default:
		lines = append(lines, renderStatusLine("Quill", statusWarn, fmt.Sprintf("Process up, dispatcher stopped (pid %d)", status.PID), colorize))
	}

	dispatcher := status.Dispatcher
	lines = append(lines, renderStatusLine("Dispatcher", statusFor(dispatcher.State == "running", statusWarn), fmt.Sprintf("%s (%s)", dispatcher.Name, dispatcher.State), colorize))
	lines = append(lines, renderStatusLine("Queue", statusInfo, fmt.Sprintf("%d/%d", dispatcher.QueueLength, dispatcher.QueueCapacity), colorize))

	if snapshot.Reachable {
		clean := dispatcher.Failed == 0 && dispatcher.TimedOut == 0
		lines = append(lines, renderStatusLine("Processed", statusFor(clean, statusWarn),
			fmt.Sprintf("%d (failed %d, timed out %d)", dispatcher.Processed, dispatcher.Failed, dispatcher.TimedOut), colorize))
		if dispatcher.LastError != "" {
			lines = append(lines, renderStatusLine("Last error", statusError, dispatcher.LastError, colorize))
		}
	}

	if status.APIAddress != "" {
		lines = append(lines, renderStatusLine("HTTP API", statusOK, status.APIAddress, colorize))
	} else {
		lines = append(lines, renderStatusLine("HTTP API", statusInfo, "Disabled", colorize))
	}
	lines = append(lines, renderStatusLine("Socket", statusInfo, status.SocketPath, colorize))
	return lines
}

func preflightLines(results []preflight.Result, colorize bool) []string {
	lines := make([]string, 0, len(results))
	for _, result := range results {
		lines = append(lines, renderStatusLine(result.Name, statusFor(result.Passed, statusError), result.Detail, colorize))
	}
	return lines
}

func journalDetail(stats *api.JournalStats) string {
	detail := fmt.Sprintf("%d recorded, %d failed", stats.Total, stats.Failed)
	if stats.Oldest != "" && stats.Newest != "" {
		detail += fmt.Sprintf(" (%s .. %s)", stats.Oldest, stats.Newest)
	}
	return detail
}

func buildKindRows(byKind map[string]int) [][]string {
	kinds := make([]string, 0, len(byKind))
	for kind := range byKind {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	rows := make([][]string, 0, len(kinds))
	for _, kind := range kinds {
		rows = append(rows, []string{kind, strconv.Itoa(byKind[kind])})
	}
	return rows
}

func daemonExecutable() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("resolve executable: %w", err)
	}
	return exe, nil
}

func daemonLaunchOptions(ctx *commandContext) daemonctl.LaunchOptions {
	opts := daemonctl.LaunchOptions{}
	if socket := ctx.socketOverride(); socket != "" {
		opts.SocketPath = socket
	}
	if config := strings.TrimSpace(ctx.configPath()); config != "" {
		opts.ConfigPath = config
	}
	return opts
}
