package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"quill/internal/faults"
)

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const entryColumns = "id, request_id, kind, code, error_message, word_count, sentiment_label, sentiment_magnitude, received_at, duration_ns, recorded_at"

// Entry is one recorded request.
type Entry struct {
	ID                 int64         `json:"id"`
	RequestID          string        `json:"requestId"`
	Kind               string        `json:"kind"`
	Code               string        `json:"code,omitempty"`
	Error              string        `json:"error,omitempty"`
	WordCount          int           `json:"wordCount"`
	SentimentLabel     string        `json:"sentimentLabel,omitempty"`
	SentimentMagnitude float64       `json:"sentimentMagnitude,omitempty"`
	ReceivedAt         time.Time     `json:"receivedAt"`
	Duration           time.Duration `json:"duration"`
	RecordedAt         time.Time     `json:"recordedAt"`
}

// Failed reports whether the request ended with an error code.
func (e Entry) Failed() bool {
	return e.Code != ""
}

// Stats summarizes the journal contents.
type Stats struct {
	Total  int            `json:"total"`
	Failed int            `json:"failed"`
	ByKind map[string]int `json:"byKind"`
	Oldest time.Time      `json:"oldest,omitzero"`
	Newest time.Time      `json:"newest,omitzero"`
}

// Record inserts an entry. RecordedAt is always stamped by the store.
func (s *Store) Record(ctx context.Context, e Entry) (Entry, error) {
	e.RequestID = strings.TrimSpace(e.RequestID)
	e.Kind = strings.TrimSpace(e.Kind)
	if e.RequestID == "" || e.Kind == "" {
		return Entry{}, faults.Wrap(faults.ErrInvalidArgument, "journal", "record", "request id and kind are required", nil)
	}
	e.RecordedAt = s.clock.Now().UTC()
	if e.ReceivedAt.IsZero() {
		e.ReceivedAt = e.RecordedAt
	}

	res, err := s.execWithRetry(ctx,
		`INSERT INTO requests (
            request_id, kind, code, error_message, word_count,
            sentiment_label, sentiment_magnitude, received_at, duration_ns, recorded_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.RequestID,
		e.Kind,
		e.Code,
		nullableString(e.Error),
		e.WordCount,
		nullableString(e.SentimentLabel),
		e.SentimentMagnitude,
		e.ReceivedAt.UTC().Format(timeLayout),
		int64(e.Duration),
		e.RecordedAt.Format(timeLayout),
	)
	if err != nil {
		return Entry{}, fmt.Errorf("insert request: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Entry{}, fmt.Errorf("last insert id: %w", err)
	}
	e.ID = id

	if s.retain > 0 && s.sincePrune.Add(1) >= pruneInterval {
		s.sincePrune.Store(0)
		if _, err := s.Prune(ctx, s.retain); err != nil {
			return e, fmt.Errorf("prune after insert: %w", err)
		}
	}
	return e, nil
}

// Recent returns up to limit entries, newest first. A limit of zero or less
// returns everything.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	ctx = ensureContext(ctx)
	query := "SELECT " + entryColumns + " FROM requests ORDER BY id DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query recent requests: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Get returns the most recent entry for requestID, or nil when absent.
func (s *Store) Get(ctx context.Context, requestID string) (*Entry, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		"SELECT "+entryColumns+" FROM requests WHERE request_id = ? ORDER BY id DESC LIMIT 1",
		requestID,
	)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Stats aggregates counts per kind and failures.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT kind, COUNT(1), SUM(CASE WHEN code <> '' THEN 1 ELSE 0 END) FROM requests GROUP BY kind`)
	if err != nil {
		return Stats{}, fmt.Errorf("journal stats: %w", err)
	}
	defer rows.Close()

	stats := Stats{ByKind: make(map[string]int)}
	for rows.Next() {
		var (
			kind   string
			count  int
			failed int
		)
		if err := rows.Scan(&kind, &count, &failed); err != nil {
			return Stats{}, err
		}
		stats.ByKind[kind] = count
		stats.Total += count
		stats.Failed += failed
	}
	if err := rows.Err(); err != nil {
		return Stats{}, err
	}
	if stats.Total == 0 {
		return stats, nil
	}

	var oldest, newest sql.NullString
	if err := s.db.QueryRowContext(ctx, "SELECT MIN(received_at), MAX(received_at) FROM requests").Scan(&oldest, &newest); err != nil {
		return Stats{}, fmt.Errorf("journal range: %w", err)
	}
	if t, err := parseTimeString(oldest.String); err == nil {
		stats.Oldest = t
	}
	if t, err := parseTimeString(newest.String); err == nil {
		stats.Newest = t
	}
	return stats, nil
}

// Prune deletes everything but the newest keep entries and reports how many
// rows were removed.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		return 0, faults.Wrap(faults.ErrInvalidArgument, "journal", "prune", fmt.Sprintf("keep must be >= 0, got %d", keep), nil)
	}
	res, err := s.execWithRetry(ctx,
		"DELETE FROM requests WHERE id NOT IN (SELECT id FROM requests ORDER BY id DESC LIMIT ?)", keep)
	if err != nil {
		return 0, fmt.Errorf("prune requests: %w", err)
	}
	return res.RowsAffected()
}

// Clear removes every entry.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, "DELETE FROM requests")
	if err != nil {
		return 0, fmt.Errorf("clear requests: %w", err)
	}
	return res.RowsAffected()
}

func scanEntry(scanner interface{ Scan(dest ...any) error }) (Entry, error) {
	var (
		entry       Entry
		errorMsg    sql.NullString
		label       sql.NullString
		receivedRaw string
		durationNS  int64
		recordedRaw string
	)
	if err := scanner.Scan(
		&entry.ID,
		&entry.RequestID,
		&entry.Kind,
		&entry.Code,
		&errorMsg,
		&entry.WordCount,
		&label,
		&entry.SentimentMagnitude,
		&receivedRaw,
		&durationNS,
		&recordedRaw,
	); err != nil {
		return Entry{}, err
	}
	entry.Error = errorMsg.String
	entry.SentimentLabel = label.String
	entry.Duration = time.Duration(durationNS)
	if t, err := parseTimeString(receivedRaw); err == nil {
		entry.ReceivedAt = t
	}
	if t, err := parseTimeString(recordedRaw); err == nil {
		entry.RecordedAt = t
	}
	return entry, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	return time.Parse(timeLayout, value)
}
