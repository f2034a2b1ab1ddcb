// Package dispatcher runs analysis requests through a single worker goroutine.
//
// A Dispatcher moves through Stopped, Starting and Running. Start claims the
// dispatcher's name in a Registry and spawns one worker that drains a buffered
// request channel in FIFO order, so at most one request is in flight. Dispatch
// enqueues a request and waits for its reply, the caller's context, the default
// timeout, or worker shutdown, whichever comes first. Stop lets the in-flight
// request finish and fails everything still queued with faults.ErrNotRunning.
//
// Requests with an unknown kind, undecodable bytes, or a handler panic produce
// a Response carrying a stable error code rather than a Go error, matching what
// remote callers receive over IPC.
package dispatcher
