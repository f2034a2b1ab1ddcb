package ipc

import (
	"context"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"

	"quill/internal/api"
	"quill/internal/dispatcher"
	"quill/internal/faults"
)

const dialTimeout = 2 * time.Second

// Client provides RPC access to the daemon.
type Client struct {
	conn   net.Conn
	client *rpc.Client
}

// Dial connects to the IPC server at the given socket path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, dialTimeout)
	if err != nil {
		return nil, err
	}
	rpcClient := rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
	return &Client{conn: conn, client: rpcClient}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// call issues method and waits for the reply or ctx, whichever is first.
func (c *Client) call(ctx context.Context, method string, req, resp any) error {
	if ctx == nil {
		ctx = context.Background()
	}
	pending := c.client.Go(serviceName+"."+method, req, resp, make(chan *rpc.Call, 1))
	select {
	case done := <-pending.Done:
		return done.Error
	case <-ctx.Done():
		return faults.Wrap(faults.ErrTimeout, "ipc", method, "no reply from daemon", ctx.Err())
	}
}

// Start requests the daemon to start its dispatcher.
func (c *Client) Start(ctx context.Context) (*StartResponse, error) {
	var resp StartResponse
	if err := c.call(ctx, "Start", StartRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, resp.Fault.Err()
}

// Stop requests the daemon to stop its dispatcher.
func (c *Client) Stop(ctx context.Context) (*StopResponse, error) {
	var resp StopResponse
	if err := c.call(ctx, "Stop", StopRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, resp.Fault.Err()
}

// Status retrieves the daemon status.
func (c *Client) Status(ctx context.Context) (*api.DaemonStatus, error) {
	var resp StatusResponse
	if err := c.call(ctx, "Status", StatusRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp.Status, nil
}

// Dispatch submits a request and returns the dispatcher response. Lifecycle
// and timeout failures are returned as errors matching the faults sentinels.
func (c *Client) Dispatch(ctx context.Context, req dispatcher.Request) (dispatcher.Response, error) {
	var resp DispatchResponse
	if err := c.call(ctx, "Dispatch", DispatchRequest{Request: req}, &resp); err != nil {
		return dispatcher.Response{}, err
	}
	if err := resp.Fault.Err(); err != nil {
		return dispatcher.Response{}, err
	}
	return resp.Response, nil
}

// History returns up to limit recent requests.
func (c *Client) History(ctx context.Context, limit int) ([]api.HistoryEntry, error) {
	var resp HistoryResponse
	if err := c.call(ctx, "History", HistoryRequest{Limit: limit}, &resp); err != nil {
		return nil, err
	}
	return resp.Entries, resp.Fault.Err()
}

// HistoryDescribe returns one request's history entry, or nil when absent.
func (c *Client) HistoryDescribe(ctx context.Context, requestID string) (*api.HistoryEntry, error) {
	var resp HistoryDescribeResponse
	if err := c.call(ctx, "HistoryDescribe", HistoryDescribeRequest{RequestID: requestID}, &resp); err != nil {
		return nil, err
	}
	return resp.Entry, resp.Fault.Err()
}

// HistoryClear removes all recorded history.
func (c *Client) HistoryClear(ctx context.Context) (int64, error) {
	var resp HistoryClearResponse
	if err := c.call(ctx, "HistoryClear", HistoryClearRequest{}, &resp); err != nil {
		return 0, err
	}
	return resp.Removed, resp.Fault.Err()
}
