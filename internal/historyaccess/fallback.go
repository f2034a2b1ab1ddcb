package historyaccess

import (
	"fmt"

	"quill/internal/ipc"
	"quill/internal/journal"
)

// Source names the backing of a Session.
type Source string

const (
	SourceDaemon  Source = "daemon"
	SourceJournal Source = "journal"
)

// Session represents a history access handle and its cleanup function.
type Session struct {
	Access Access
	Source Source
	close  func() error
}

// Close releases resources associated with the session.
func (s Session) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// OpenWithFallback tries IPC-backed access first, then falls back to direct store access.
func OpenWithFallback(
	dial func() (*ipc.Client, error),
	openStore func() (*journal.Store, error),
) (Session, error) {
	if dial != nil {
		if client, err := dial(); err == nil {
			return Session{
				Access: NewIPCAccess(client),
				Source: SourceDaemon,
				close:  client.Close,
			}, nil
		}
	}

	if openStore == nil {
		return Session{}, fmt.Errorf("open journal: no store opener configured")
	}
	store, err := openStore()
	if err != nil {
		return Session{}, fmt.Errorf("open journal: %w", err)
	}
	return Session{
		Access: NewStoreAccess(store),
		Source: SourceJournal,
		close:  store.Close,
	}, nil
}
