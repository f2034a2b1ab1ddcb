package testsupport

import (
	"context"
	"testing"

	"quill/internal/config"
	"quill/internal/journal"
)

// MustOpenJournal opens a journal.Store for tests and registers cleanup.
func MustOpenJournal(t testing.TB, cfg *config.Config, opts ...journal.Option) *journal.Store {
	t.Helper()

	store, err := journal.Open(cfg, opts...)
	if err != nil {
		t.Fatalf("journal.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// RecordEntry inserts a minimal successful entry.
func RecordEntry(t testing.TB, store *journal.Store, requestID, kind string) journal.Entry {
	t.Helper()

	entry, err := store.Record(context.Background(), journal.Entry{RequestID: requestID, Kind: kind})
	if err != nil {
		t.Fatalf("store.Record: %v", err)
	}
	return entry
}
