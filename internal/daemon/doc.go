// Package daemon coordinates the long-running quill process.
//
// It wires configuration, the analysis pipeline, the request journal and
// Prometheus metrics into a single dispatcher lifecycle, with flock-based
// locking to prevent multiple instances sharing a state directory. An optional
// HTTP API exposes status, history, dispatch and metrics.
//
// Keep orchestration here: text processing lives in analysis and request
// routing in dispatcher, while the daemon focuses on startup, shutdown and
// wiring.
package daemon
