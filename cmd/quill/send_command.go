package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"quill/internal/dispatcher"
	"quill/internal/ipc"
)

func newSendCommand(ctx *commandContext) *cobra.Command {
	var flags inputFlags
	var kind string
	var requestID string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "send [text...]",
		Short: "Submit a request to the daemon's dispatcher",
		Long: "Submit text to the running daemon. --kind selects the route: " +
			"tokenize, sentiment or full_analysis. Input bytes are sent as-is and decoded by the daemon.",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInputBytes(cmd, args, flags.file)
			if err != nil {
				return err
			}
			id := strings.TrimSpace(requestID)
			if id == "" {
				id = uuid.NewString()
			}
			req := dispatcher.Request{
				ID:   id,
				Kind: dispatcher.Kind(strings.TrimSpace(kind)),
				Raw:  raw,
			}

			callCtx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				callCtx, cancel = context.WithTimeout(callCtx, timeout)
				defer cancel()
			}

			var resp dispatcher.Response
			if err := ctx.withClient(func(client *ipc.Client) error {
				var callErr error
				resp, callErr = client.Dispatch(callCtx, req)
				return callErr
			}); err != nil {
				return err
			}

			if flags.json {
				if err := writeJSON(cmd, resp); err != nil {
					return err
				}
			} else if resp.OK() {
				renderResponse(cmd, resp)
			}
			if !resp.OK() {
				return fmt.Errorf("request %s failed: %w", resp.ID, resp.Err())
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&kind, "kind", "k", string(dispatcher.KindFullAnalysis), "Request kind: tokenize, sentiment or full_analysis")
	cmd.Flags().StringVar(&requestID, "id", "", "Request ID (generated when empty)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Give up waiting after this long (daemon default when zero)")
	return cmd
}

func renderResponse(cmd *cobra.Command, resp dispatcher.Response) {
	out := cmd.OutOrStdout()
	switch {
	case resp.Analysis != nil:
		fmt.Fprintf(out, "Request:     %s\n", resp.ID)
		renderAnalysis(cmd, *resp.Analysis, 10)
	case resp.Sentiment != nil:
		fmt.Fprintln(out, formatSentiment(*resp.Sentiment))
	default:
		for _, token := range resp.Tokens {
			fmt.Fprintln(out, token)
		}
	}
}
