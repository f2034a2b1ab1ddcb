// Package main hosts the quill CLI.
//
// Analysis commands (tokenize, sentiment, frequency, analyze, compare) run the
// pipeline in-process using the configured lexicon and long-word threshold.
// The remaining commands talk to the daemon over its JSON-RPC socket: send
// forwards a request to the daemon's dispatcher, start/stop/restart manage the
// daemon process, and history reads the request journal.
package main
