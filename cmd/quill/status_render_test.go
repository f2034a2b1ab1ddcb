package main

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"quill/internal/api"
	"quill/internal/daemonctl"
	"quill/internal/preflight"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("Quill", statusError, "Not running", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "Quill:", "[ERROR] Not running")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("Quill", statusOK, "Running", true)
	if !strings.HasPrefix(got, ansiGreen) {
		t.Fatalf("expected green prefix, got %q", got)
	}
	if !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected reset suffix, got %q", got)
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(io.Discard) {
		t.Fatalf("expected non-file writer to disable color")
	}
}

func TestDaemonStatusLines(t *testing.T) {
	snapshot := daemonctl.Snapshot{
		Reachable: true,
		Status: api.DaemonStatus{
			Running:    true,
			PID:        42,
			SocketPath: "/tmp/quill.sock",
			APIAddress: "127.0.0.1:7490",
			Dispatcher: api.DispatcherStatus{
				Name:          "default",
				State:         "running",
				Processed:     10,
				Failed:        2,
				QueueLength:   1,
				QueueCapacity: 64,
				LastError:     "unknown_endpoint: Unknown endpoint",
			},
		},
	}
	lines := daemonStatusLines(snapshot, false)
	joined := strings.Join(lines, "\n")
	for _, want := range []string{
		"[OK] Running (pid 42)",
		"[OK] default (running)",
		"[INFO] 1/64",
		"[WARN] 10 (failed 2, timed out 0)",
		"[ERROR] unknown_endpoint: Unknown endpoint",
		"[OK] 127.0.0.1:7490",
	} {
		if !strings.Contains(joined, want) {
			t.Fatalf("expected %q in:\n%s", want, joined)
		}
	}

	offline := daemonStatusLines(daemonctl.Snapshot{Status: api.DaemonStatus{
		Dispatcher: api.DispatcherStatus{Name: "default", State: "stopped"},
	}}, false)
	joined = strings.Join(offline, "\n")
	if !strings.Contains(joined, "[WARN] Not running") || strings.Contains(joined, "Processed") {
		t.Fatalf("unexpected offline lines:\n%s", joined)
	}
	if !strings.Contains(joined, "[INFO] Disabled") {
		t.Fatalf("expected disabled API line:\n%s", joined)
	}
}

func TestBuildKindRowsSorted(t *testing.T) {
	rows := buildKindRows(map[string]int{"tokenize": 3, "full_analysis": 1, "sentiment": 2})
	if len(rows) != 3 || rows[0][0] != "full_analysis" || rows[2][0] != "tokenize" || rows[2][1] != "3" {
		t.Fatalf("unexpected rows: %v", rows)
	}
}

func TestPreflightLines(t *testing.T) {
	lines := preflightLines([]preflight.Result{
		{Name: "State directory", Passed: true, Detail: "/tmp/state (read/write ok)"},
		{Name: "Journal", Detail: "/tmp/state/journal.db (incompatible schema)"},
	}, false)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "[OK] /tmp/state (read/write ok)") {
		t.Fatalf("unexpected line: %q", lines[0])
	}
	if !strings.Contains(lines[1], "[ERROR] /tmp/state/journal.db") {
		t.Fatalf("unexpected line: %q", lines[1])
	}
}
