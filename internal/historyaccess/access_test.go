package historyaccess_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"quill/internal/daemon"
	"quill/internal/dispatcher"
	"quill/internal/historyaccess"
	"quill/internal/ipc"
	"quill/internal/journal"
	"quill/internal/logging"
	"quill/internal/testsupport"
)

func TestOpenWithFallbackUsesStoreWhenDaemonUnavailable(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	seed := testsupport.MustOpenJournal(t, cfg)
	testsupport.RecordEntry(t, seed, "req-1", "tokenize")
	testsupport.RecordEntry(t, seed, "req-2", "sentiment")

	session, err := historyaccess.OpenWithFallback(
		func() (*ipc.Client, error) { return nil, errors.New("no daemon") },
		func() (*journal.Store, error) { return journal.Open(cfg) },
	)
	if err != nil {
		t.Fatalf("OpenWithFallback: %v", err)
	}
	defer session.Close()

	if session.Source != historyaccess.SourceJournal {
		t.Fatalf("source = %q, want journal", session.Source)
	}
	ctx := context.Background()
	entries, err := session.Access.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 2 || entries[0].RequestID != "req-2" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
	entry, err := session.Access.Describe(ctx, "req-1")
	if err != nil || entry == nil || entry.Kind != "tokenize" {
		t.Fatalf("Describe = %+v, %v", entry, err)
	}
	stats, err := session.Access.Stats(ctx)
	if err != nil || stats == nil || stats.Total != 2 {
		t.Fatalf("Stats = %+v, %v", stats, err)
	}
	removed, err := session.Access.Clear(ctx)
	if err != nil || removed != 2 {
		t.Fatalf("Clear = %d, %v", removed, err)
	}
}

func TestOpenWithFallbackPrefersDaemon(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	logger := logging.NewNop()
	d, err := daemon.New(cfg, logger, daemon.WithDispatcherRegistry(dispatcher.NewRegistry()))
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	srv, err := ipc.NewServer(ctx, cfg.Paths.SocketPath, d, logger)
	if err != nil {
		cancel()
		t.Fatalf("ipc.NewServer: %v", err)
	}
	srv.Serve()
	t.Cleanup(func() {
		cancel()
		srv.Close()
		d.Close()
	})
	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := d.Dispatch(ctx, dispatcher.Request{ID: "via-daemon", Kind: dispatcher.KindTokenize, Text: "a b"}); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	openedStore := false
	session, err := historyaccess.OpenWithFallback(
		func() (*ipc.Client, error) { return ipc.Dial(cfg.Paths.SocketPath) },
		func() (*journal.Store, error) {
			openedStore = true
			return nil, errors.New("should not open store")
		},
	)
	if err != nil {
		t.Fatalf("OpenWithFallback: %v", err)
	}
	defer session.Close()
	if session.Source != historyaccess.SourceDaemon || openedStore {
		t.Fatalf("expected daemon-backed session, source=%q openedStore=%v", session.Source, openedStore)
	}

	var found bool
	for i := 0; i < 100 && !found; i++ {
		entry, err := session.Access.Describe(context.Background(), "via-daemon")
		if err != nil {
			t.Fatalf("Describe: %v", err)
		}
		found = entry != nil
		if !found {
			time.Sleep(10 * time.Millisecond)
		}
	}
	if !found {
		t.Fatal("expected dispatched request in history")
	}
	stats, err := session.Access.Stats(context.Background())
	if err != nil || stats == nil || stats.Total < 1 {
		t.Fatalf("Stats = %+v, %v", stats, err)
	}
}

func TestOpenWithFallbackWithoutOpener(t *testing.T) {
	if _, err := historyaccess.OpenWithFallback(nil, nil); err == nil {
		t.Fatal("expected error without any backing")
	}
}
