package api

import (
	"context"

	"quill/internal/journal"
)

// HistoryReader abstracts journal interactions needed for API queries.
type HistoryReader interface {
	Recent(ctx context.Context, limit int) ([]journal.Entry, error)
	Get(ctx context.Context, requestID string) (*journal.Entry, error)
	Stats(ctx context.Context) (journal.Stats, error)
}

// HistoryService exposes read-only history operations returning API DTOs.
type HistoryService struct {
	store HistoryReader
}

// NewHistoryService constructs a HistoryService around the provided reader.
func NewHistoryService(store HistoryReader) *HistoryService {
	if store == nil {
		return nil
	}
	return &HistoryService{store: store}
}

// Recent returns up to limit entries, newest first.
func (s *HistoryService) Recent(ctx context.Context, limit int) ([]HistoryEntry, error) {
	if s == nil || s.store == nil {
		return nil, nil
	}
	entries, err := s.store.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}
	return FromJournalEntries(entries), nil
}

// Describe fetches the latest entry for a request ID.
func (s *HistoryService) Describe(ctx context.Context, requestID string) (*HistoryEntry, error) {
	if s == nil || s.store == nil {
		return nil, nil
	}
	entry, err := s.store.Get(ctx, requestID)
	if err != nil || entry == nil {
		return nil, err
	}
	dto := FromJournalEntry(*entry)
	return &dto, nil
}

// Stats returns journal aggregates, or nil when history is disabled.
func (s *HistoryService) Stats(ctx context.Context) (*JournalStats, error) {
	if s == nil || s.store == nil {
		return nil, nil
	}
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, err
	}
	dto := FromJournalStats(stats)
	return &dto, nil
}
