package main

import (
	"github.com/spf13/cobra"
)

const (
	groupAnalysis    = "analysis"
	groupDaemon      = "daemon"
	groupMaintenance = "maintenance"
)

func newRootCommand() *cobra.Command {
	var socketFlag string
	var configFlag string

	ctx := newCommandContext(&socketFlag, &configFlag)

	rootCmd := &cobra.Command{
		Use:   "quill",
		Short: "Tokenize, count and score text locally or through the quill daemon",
		Long: `quill analyzes text in-process (tokenize, sentiment, frequency, analyze,
compare) or forwards requests to a long-running daemon that serializes them
through a single dispatcher and records each one in its history journal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&socketFlag, "socket", "", "Path to the quill daemon socket")
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddGroup(
		&cobra.Group{ID: groupAnalysis, Title: "Local analysis:"},
		&cobra.Group{ID: groupDaemon, Title: "Daemon:"},
		&cobra.Group{ID: groupMaintenance, Title: "Maintenance:"},
	)

	addGrouped(rootCmd, groupAnalysis, newAnalysisCommands(ctx)...)
	addGrouped(rootCmd, groupDaemon, newDaemonCommands(ctx)...)
	addGrouped(rootCmd, groupDaemon, newSendCommand(ctx), newHistoryCommand(ctx), newLogsCommand(ctx))
	addGrouped(rootCmd, groupMaintenance, newConfigCommand(ctx))

	// Launched by `quill start`; hidden, so it stays ungrouped.
	rootCmd.AddCommand(newDaemonRunCommand(ctx))

	return rootCmd
}

func addGrouped(parent *cobra.Command, group string, cmds ...*cobra.Command) {
	for _, cmd := range cmds {
		cmd.GroupID = group
		parent.AddCommand(cmd)
	}
}
