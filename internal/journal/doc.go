// Package journal keeps a bounded history of dispatched requests in SQLite.
//
// The store is opened with WAL journaling and a busy timeout, and every write
// is retried with backoff when SQLite reports the database as locked. The
// schema is embedded and versioned; a mismatched version fails Open with
// ErrSchemaMismatch instead of migrating in place.
package journal
