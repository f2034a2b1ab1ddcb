// Package daemonctl launches, stops and inspects the quill daemon process on
// behalf of the CLI. It talks to the daemon over the IPC socket and falls back
// to reading the journal directly when no daemon answers.
package daemonctl
