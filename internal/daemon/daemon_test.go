package daemon_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"quill/internal/api"
	"quill/internal/config"
	"quill/internal/daemon"
	"quill/internal/dispatcher"
	"quill/internal/faults"
	"quill/internal/logging"
	"quill/internal/sentiment"
	"quill/internal/testsupport"
)

func newDaemon(t *testing.T, cfg *config.Config) *daemon.Daemon {
	t.Helper()
	d, err := daemon.New(cfg, logging.NewNop(), daemon.WithDispatcherRegistry(dispatcher.NewRegistry()))
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() {
		d.Close()
	})
	return d
}

func waitForHistory(t *testing.T, d *daemon.Daemon, want int) []api.HistoryEntry {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		entries, err := d.History(context.Background(), 0)
		if err != nil {
			t.Fatalf("History: %v", err)
		}
		if len(entries) >= want {
			return entries
		}
		if time.Now().After(deadline) {
			t.Fatalf("expected %d history entries, got %d", want, len(entries))
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestDaemonStartStop(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	d := newDaemon(t, cfg)
	ctx := context.Background()

	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	status := d.Status(ctx)
	if !status.Running || status.Dispatcher.State != "running" {
		t.Fatalf("expected daemon to report running, got %+v", status)
	}
	if status.LockFilePath != cfg.LockPath() || status.JournalPath != cfg.JournalPath() {
		t.Fatalf("unexpected paths in status: %+v", status)
	}

	if err := d.Start(ctx); !errors.Is(err, faults.ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning on second start, got %v", err)
	}

	if err := d.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if d.Status(ctx).Running {
		t.Fatal("expected daemon to be stopped")
	}
	if err := d.Stop(); !errors.Is(err, faults.ErrNotRunning) {
		t.Fatalf("expected ErrNotRunning on second stop, got %v", err)
	}
	if _, err := d.Dispatch(ctx, dispatcher.Request{Kind: dispatcher.KindTokenize, Text: "x"}); !errors.Is(err, faults.ErrNotRunning) {
		t.Fatalf("expected ErrNotRunning after stop, got %v", err)
	}

	// The lock is released, so the daemon can start again.
	if err := d.Start(ctx); err != nil {
		t.Fatalf("restart failed: %v", err)
	}
}

func TestSecondInstanceBlockedByLock(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	first := newDaemon(t, cfg)
	second := newDaemon(t, cfg)

	if err := first.Start(context.Background()); err != nil {
		t.Fatalf("first Start: %v", err)
	}
	err := second.Start(context.Background())
	if !errors.Is(err, faults.ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning from second instance, got %v", err)
	}
	if !strings.Contains(err.Error(), "another quill daemon") {
		t.Fatalf("unexpected error text: %v", err)
	}
	if second.Running() {
		t.Fatal("second daemon should not be running")
	}
}

func TestDaemonDispatchRecordsHistory(t *testing.T) {
	cfg := testsupport.NewConfig(t,
		testsupport.WithLexicon([]string{"stellar"}, []string{"meh"}),
		testsupport.WithLongWordThreshold(3),
	)
	d := newDaemon(t, cfg)
	ctx := context.Background()
	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	resp, err := d.Dispatch(ctx, dispatcher.Request{ID: "s1", Kind: dispatcher.KindSentiment, Text: "stellar"})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if resp.Sentiment == nil || *resp.Sentiment != sentiment.Positive(1) {
		t.Fatalf("configured lexicon not applied: %+v", resp.Sentiment)
	}

	resp, err = d.Dispatch(ctx, dispatcher.Request{ID: "a1", Kind: dispatcher.KindFullAnalysis, Text: "the cat sat meh"})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if resp.Analysis == nil || resp.Analysis.Sentiment.Label != sentiment.LabelNegative {
		t.Fatalf("unexpected analysis: %+v", resp.Analysis)
	}
	if len(resp.Analysis.LongWords) != 0 {
		t.Fatalf("threshold 3 should find no long words, got %v", resp.Analysis.LongWords)
	}

	if _, err := d.Dispatch(ctx, dispatcher.Request{ID: "u1", Kind: "nope"}); err != nil {
		t.Fatalf("Dispatch unknown: %v", err)
	}

	entries := waitForHistory(t, d, 3)
	if entries[0].RequestID != "u1" || entries[0].Code != faults.CodeUnknownEndpoint {
		t.Fatalf("unexpected newest entry: %+v", entries[0])
	}
	if entries[2].RequestID != "s1" || entries[2].Sentiment != "positive" {
		t.Fatalf("unexpected oldest entry: %+v", entries[2])
	}

	entry, err := d.DescribeRequest(ctx, "a1")
	if err != nil || entry == nil || entry.WordCount != 4 {
		t.Fatalf("DescribeRequest = %+v, %v", entry, err)
	}

	status := d.Status(ctx)
	if status.Journal == nil || status.Journal.Total != 3 || status.Journal.Failed != 1 {
		t.Fatalf("unexpected journal stats: %+v", status.Journal)
	}
	if status.Dispatcher.Processed != 3 {
		t.Fatalf("processed = %d, want 3", status.Dispatcher.Processed)
	}

	removed, err := d.ClearHistory(ctx)
	if err != nil || removed != 3 {
		t.Fatalf("ClearHistory = %d, %v", removed, err)
	}
}

func TestDaemonWithoutJournal(t *testing.T) {
	d := newDaemon(t, testsupport.NewConfig(t, testsupport.WithoutJournal()))
	if _, err := d.History(context.Background(), 10); !errors.Is(err, faults.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
	if status := d.Status(context.Background()); status.Journal != nil || status.JournalPath != "" {
		t.Fatalf("journal should be absent from status: %+v", status)
	}
}

func TestDaemonHTTPAPI(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithAPIBind("127.0.0.1:0"))
	d := newDaemon(t, cfg)
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	base := "http://" + d.Status(context.Background()).APIAddress

	body := strings.NewReader(`{"kind":"tokenize","text":"Hello, HTTP world"}`)
	res, err := http.Post(base+"/api/dispatch", "application/json", body)
	if err != nil {
		t.Fatalf("POST dispatch: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("dispatch status = %d", res.StatusCode)
	}
	var resp dispatcher.Response
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		t.Fatalf("decode dispatch response: %v", err)
	}
	if strings.Join(resp.Tokens, " ") != "hello http world" {
		t.Fatalf("unexpected tokens: %v", resp.Tokens)
	}

	statusRes, err := http.Get(base + "/api/status")
	if err != nil {
		t.Fatalf("GET status: %v", err)
	}
	defer statusRes.Body.Close()
	var status api.DaemonStatus
	if err := json.NewDecoder(statusRes.Body).Decode(&status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if !status.Running || status.Dispatcher.Name != "test" {
		t.Fatalf("unexpected status: %+v", status)
	}

	metricsRes, err := http.Get(base + "/metrics")
	if err != nil {
		t.Fatalf("GET metrics: %v", err)
	}
	defer metricsRes.Body.Close()
	raw, err := io.ReadAll(metricsRes.Body)
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	if !strings.Contains(string(raw), `quill_dispatch_requests_total{code="ok",kind="tokenize"} 1`) {
		t.Fatalf("metrics missing dispatch counter:\n%s", raw)
	}
}
