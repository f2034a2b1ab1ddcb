package historyaccess

import (
	"context"

	"quill/internal/api"
	"quill/internal/ipc"
	"quill/internal/journal"
)

// Access provides history operations regardless of IPC or direct store backing.
type Access interface {
	Recent(ctx context.Context, limit int) ([]api.HistoryEntry, error)
	Describe(ctx context.Context, requestID string) (*api.HistoryEntry, error)
	Stats(ctx context.Context) (*api.JournalStats, error)
	Clear(ctx context.Context) (int64, error)
}

// NewIPCAccess returns an Access backed by daemon IPC.
func NewIPCAccess(client *ipc.Client) Access {
	return &ipcAccess{client: client}
}

// NewStoreAccess returns an Access backed by direct DB access.
func NewStoreAccess(store *journal.Store) Access {
	return &storeAccess{store: store, service: api.NewHistoryService(store)}
}

type ipcAccess struct {
	client *ipc.Client
}

func (a *ipcAccess) Recent(ctx context.Context, limit int) ([]api.HistoryEntry, error) {
	return a.client.History(ctx, limit)
}

func (a *ipcAccess) Describe(ctx context.Context, requestID string) (*api.HistoryEntry, error) {
	return a.client.HistoryDescribe(ctx, requestID)
}

func (a *ipcAccess) Stats(ctx context.Context) (*api.JournalStats, error) {
	status, err := a.client.Status(ctx)
	if err != nil {
		return nil, err
	}
	return status.Journal, nil
}

func (a *ipcAccess) Clear(ctx context.Context) (int64, error) {
	return a.client.HistoryClear(ctx)
}

type storeAccess struct {
	store   *journal.Store
	service *api.HistoryService
}

func (a *storeAccess) Recent(ctx context.Context, limit int) ([]api.HistoryEntry, error) {
	return a.service.Recent(ctx, limit)
}

func (a *storeAccess) Describe(ctx context.Context, requestID string) (*api.HistoryEntry, error) {
	return a.service.Describe(ctx, requestID)
}

func (a *storeAccess) Stats(ctx context.Context) (*api.JournalStats, error) {
	return a.service.Stats(ctx)
}

func (a *storeAccess) Clear(ctx context.Context) (int64, error) {
	return a.store.Clear(ctx)
}
