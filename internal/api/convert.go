package api

import (
	"maps"
	"time"

	"quill/internal/dispatcher"
	"quill/internal/journal"
)

// FromDispatcherStatus converts a dispatcher snapshot to its API representation.
func FromDispatcherStatus(status dispatcher.Status) DispatcherStatus {
	return DispatcherStatus{
		Name:          status.Name,
		State:         status.State.String(),
		Processed:     status.Processed,
		Failed:        status.Failed,
		TimedOut:      status.TimedOut,
		QueueLength:   status.QueueLength,
		QueueCapacity: status.QueueCapacity,
		LastError:     status.LastError,
		StartedAt:     formatTime(status.StartedAt),
	}
}

// FromJournalStats converts journal aggregates to their API representation.
func FromJournalStats(stats journal.Stats) JournalStats {
	byKind := make(map[string]int, len(stats.ByKind))
	maps.Copy(byKind, stats.ByKind)
	return JournalStats{
		Total:  stats.Total,
		Failed: stats.Failed,
		ByKind: byKind,
		Oldest: formatTime(stats.Oldest),
		Newest: formatTime(stats.Newest),
	}
}

// FromJournalEntry converts a journal row to a history entry.
func FromJournalEntry(entry journal.Entry) HistoryEntry {
	return HistoryEntry{
		ID:         entry.ID,
		RequestID:  entry.RequestID,
		Kind:       entry.Kind,
		Code:       entry.Code,
		Error:      entry.Error,
		WordCount:  entry.WordCount,
		Sentiment:  entry.SentimentLabel,
		Magnitude:  entry.SentimentMagnitude,
		ReceivedAt: formatTime(entry.ReceivedAt),
		DurationMS: float64(entry.Duration) / float64(time.Millisecond),
	}
}

// FromJournalEntries converts a slice of journal rows, preserving order.
func FromJournalEntries(entries []journal.Entry) []HistoryEntry {
	if len(entries) == 0 {
		return nil
	}
	out := make([]HistoryEntry, 0, len(entries))
	for _, entry := range entries {
		out = append(out, FromJournalEntry(entry))
	}
	return out
}

// EntryFromResponse builds the journal row recorded for a dispatcher response.
func EntryFromResponse(resp dispatcher.Response) journal.Entry {
	entry := journal.Entry{
		RequestID:  resp.ID,
		Kind:       string(resp.Kind),
		Code:       resp.Code,
		Error:      resp.Error,
		WordCount:  resp.WordCount(),
		ReceivedAt: resp.ReceivedAt,
		Duration:   resp.Duration,
	}
	sent := resp.Sentiment
	if sent == nil && resp.Analysis != nil {
		sent = &resp.Analysis.Sentiment
	}
	if sent != nil {
		entry.SentimentLabel = sent.Label.String()
		entry.SentimentMagnitude = sent.Magnitude
	}
	if entry.Kind == "" {
		entry.Kind = "unknown"
	}
	return entry
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateTimeFormat)
}
