package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"quill/internal/faults"
)

const (
	exitFailure     = 1
	exitUsage       = 2
	exitUnavailable = 3
)

func main() {
	cmd := newRootCommand()
	err := cmd.Execute()
	if err == nil {
		return
	}
	if !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(exitCode(err))
}

// exitCode lets scripts tell bad input apart from a missing daemon.
func exitCode(err error) int {
	switch {
	case errors.Is(err, faults.ErrInvalidInput), errors.Is(err, faults.ErrInvalidArgument), errors.Is(err, faults.ErrConfiguration):
		return exitUsage
	case errors.Is(err, faults.ErrNotRunning), errors.Is(err, errDaemonUnavailable):
		return exitUnavailable
	default:
		return exitFailure
	}
}
