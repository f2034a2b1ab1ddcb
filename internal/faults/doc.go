// Package faults defines the error taxonomy shared by the analysis core, the
// dispatcher and the daemon adapters.
//
// Errors are plain sentinels tagged with %w so callers classify them with
// errors.Is. Code and FromCode translate between sentinels and the stable
// snake_case codes carried on dispatcher responses and over the IPC socket.
package faults
