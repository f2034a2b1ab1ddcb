// Package logging assembles the slog loggers used by the quill daemon and CLI.
//
// It owns the console and JSON handlers, level parsing and output plumbing,
// and the context helpers that tag log lines with request IDs and kinds. The
// console handler colorizes level labels when writing to a terminal. A no-op
// logger is provided for tests and wiring code that cannot fail.
package logging
