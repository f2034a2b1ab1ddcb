package main

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"quill/internal/api"
	"quill/internal/dispatcher"
	"quill/internal/faults"
	"quill/internal/testsupport"
)

func TestDaemonStartSendHistoryStop(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithLexicon([]string{"stellar"}, nil))

	out, _, err := runCLI(t, []string{"start"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	requireContains(t, out, "Daemon started")

	out, _, err = runCLI(t, []string{"start"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("start (again): %v", err)
	}
	requireContains(t, out, "Daemon already running")

	out, _, err = runCLI(t, []string{"send", "--kind", "tokenize", "--id", "req-tok", "Hello, World"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("send tokenize: %v", err)
	}
	if out != "hello\nworld\n" {
		t.Fatalf("unexpected tokenize output %q", out)
	}

	out, _, err = runCLIWithInput(t, []string{"send", "--kind", "sentiment", "--id", "req-sent"}, env.socketPath, env.configPath, "a stellar day")
	if err != nil {
		t.Fatalf("send sentiment: %v", err)
	}
	requireContains(t, out, "positive (0.3333)")

	out, _, err = runCLI(t, []string{"send", "--json", "--id", "req-full", "Hello beautiful world"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("send full_analysis: %v", err)
	}
	var resp dispatcher.Response
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Analysis == nil || resp.Analysis.WordCount != 3 {
		t.Fatalf("unexpected analysis response: %+v", resp)
	}

	_, _, err = runCLI(t, []string{"send", "--kind", "shout", "--id", "req-bad", "hi"}, env.socketPath, env.configPath)
	if !errors.Is(err, faults.ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}

	waitForHistory(t, env, 4)

	out, _, err = runCLI(t, []string{"history", "--json"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("history --json: %v", err)
	}
	var history api.HistoryResponse
	if err := json.Unmarshal([]byte(out), &history); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(history.Entries) != 4 || history.Entries[0].RequestID != "req-bad" {
		t.Fatalf("unexpected history: %+v", history.Entries)
	}
	if history.Entries[0].Code != faults.CodeUnknownEndpoint {
		t.Fatalf("expected unknown endpoint code, got %q", history.Entries[0].Code)
	}

	out, _, err = runCLI(t, []string{"history", "--limit", "2"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "req-bad")
	requireContains(t, out, "req-full")

	out, _, err = runCLI(t, []string{"history", "show", "req-sent"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("history show: %v", err)
	}
	requireContains(t, out, "Kind:      sentiment")
	requireContains(t, out, "Sentiment: positive (0.33)")

	if _, _, err := runCLI(t, []string{"history", "show", "missing"}, env.socketPath, env.configPath); err == nil {
		t.Fatal("expected error for unknown request id")
	}

	out, _, err = runCLI(t, []string{"status"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "== Daemon ==")
	requireContains(t, out, "== Checks ==")
	requireContains(t, out, "[OK] Running")
	requireContains(t, out, "test (running)")
	requireContains(t, out, "4 recorded, 1 failed")

	out, _, err = runCLI(t, []string{"history", "clear"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("history clear: %v", err)
	}
	requireContains(t, out, "Removed 4 history entries")

	out, _, err = runCLI(t, []string{"stop"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	requireContains(t, out, "Dispatcher stopped")
	requireContains(t, out, "Daemon stopped")
	if env.daemon.Running() {
		t.Fatal("expected daemon to be stopped")
	}

	_, _, err = runCLI(t, []string{"send", "hi"}, env.socketPath, env.configPath)
	if !errors.Is(err, faults.ErrNotRunning) {
		t.Fatalf("expected ErrNotRunning after stop, got %v", err)
	}
}

func TestStatusAndHistoryWithoutDaemon(t *testing.T) {
	cfg, configPath := writeTestConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)
	testsupport.RecordEntry(t, store, "offline-1", "tokenize")

	out, _, err := runCLI(t, []string{"status"}, "", configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "Not running (run `quill start`)")
	requireContains(t, out, "1 recorded, 0 failed")

	out, _, err = runCLI(t, []string{"history"}, "", configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "offline-1")

	out, _, err = runCLI(t, []string{"stop"}, "", configPath)
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	requireContains(t, out, "Daemon is not running")
}

func TestSendWithoutDaemon(t *testing.T) {
	_, configPath := writeTestConfig(t)
	socket := filepath.Join(t.TempDir(), "absent.sock")
	_, _, err := runCLI(t, []string{"send", "hello"}, socket, configPath)
	if err == nil {
		t.Fatal("expected dial error")
	}
	requireContains(t, err.Error(), "quill start")
}

func TestStatusJSON(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithoutJournal())

	out, _, err := runCLI(t, []string{"status", "--json"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("status --json: %v", err)
	}
	var status api.DaemonStatus
	if err := json.Unmarshal([]byte(out), &status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if status.Running {
		t.Fatal("dispatcher was never started")
	}
	if status.Journal != nil {
		t.Fatalf("expected no journal stats, got %+v", status.Journal)
	}
	if status.SocketPath != env.socketPath {
		t.Fatalf("socket = %q, want %q", status.SocketPath, env.socketPath)
	}
}

func waitForHistory(t *testing.T, env *cliTestEnv, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		entries, err := env.daemon.History(t.Context(), 0)
		if err != nil {
			t.Fatalf("History: %v", err)
		}
		if len(entries) >= want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected %d history entries", want)
}
