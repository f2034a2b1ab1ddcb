// Package ipc exposes the daemon over JSON-RPC Unix sockets and ships the
// matching client used by the CLI.
//
// It owns socket lifecycle management and the request/response DTOs. Failures
// travel as a Fault (stable code plus message) inside a successful RPC reply,
// and the client rebuilds them with faults.FromCode so errors.Is keeps working
// on the far side of the socket. Client calls take a context so CLI commands
// fail fast when the daemon stops answering.
package ipc
