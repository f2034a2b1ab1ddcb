// Package api defines wire-format types and converters shared by the HTTP API,
// the IPC socket and the CLI. It translates dispatcher snapshots and journal
// rows into transport-friendly DTOs so consumers never couple to internal types.
//
// DTOs use camelCase JSON tags. Timestamps use RFC3339 with milliseconds and
// are omitted when zero. EntryFromResponse is the single place a dispatcher
// response is turned into a journal row.
package api
