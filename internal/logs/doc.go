// Package logs reads the daemon's JSON log file for `quill logs`.
//
// Tail returns the last N lines and the offset just past them; Follow polls
// from an offset and hands each new line to a callback until the context ends.
// Lines can be filtered by minimum level without decoding the whole record.
package logs
