package ipc

import (
	"quill/internal/api"
	"quill/internal/dispatcher"
	"quill/internal/faults"
)

// Fault carries a failure across the socket as a stable code plus message so
// the client can rebuild an error that matches the faults sentinels.
type Fault struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

func faultFrom(err error) Fault {
	if err == nil {
		return Fault{}
	}
	return Fault{Code: faults.Code(err), Message: err.Error()}
}

// Err returns nil when no fault was reported.
func (f Fault) Err() error {
	if f.Code == faults.CodeOK && f.Message == "" {
		return nil
	}
	code := f.Code
	if code == faults.CodeOK {
		code = faults.CodeInternal
	}
	return faults.FromCode(code, f.Message)
}

// StartRequest starts the hosted dispatcher.
type StartRequest struct{}

// StartResponse indicates whether the daemon was started.
type StartResponse struct {
	Started bool   `json:"started"`
	Message string `json:"message"`
	Fault   Fault  `json:"fault"`
}

// StopRequest stops the hosted dispatcher.
type StopRequest struct{}

// StopResponse indicates stop result.
type StopResponse struct {
	Stopped bool  `json:"stopped"`
	Fault   Fault `json:"fault"`
}

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// StatusResponse wraps the daemon status DTO shared with the HTTP API.
type StatusResponse struct {
	Status api.DaemonStatus `json:"status"`
}

// DispatchRequest submits one request to the dispatcher.
type DispatchRequest struct {
	Request dispatcher.Request `json:"request"`
}

// DispatchResponse carries the dispatcher response. Routing failures live in
// Response.Code; Fault is reserved for lifecycle and timeout failures.
type DispatchResponse struct {
	Response dispatcher.Response `json:"response"`
	Fault    Fault               `json:"fault"`
}

// HistoryRequest lists recent requests. Limit <= 0 returns everything.
type HistoryRequest struct {
	Limit int `json:"limit"`
}

// HistoryResponse contains history entries, newest first.
type HistoryResponse struct {
	Entries []api.HistoryEntry `json:"entries"`
	Fault   Fault              `json:"fault"`
}

// HistoryDescribeRequest fetches one request by ID.
type HistoryDescribeRequest struct {
	RequestID string `json:"request_id"`
}

// HistoryDescribeResponse contains the entry, or nil when absent.
type HistoryDescribeResponse struct {
	Entry *api.HistoryEntry `json:"entry"`
	Fault Fault             `json:"fault"`
}

// HistoryClearRequest removes all history.
type HistoryClearRequest struct{}

// HistoryClearResponse reports number of removed entries.
type HistoryClearResponse struct {
	Removed int64 `json:"removed"`
	Fault   Fault `json:"fault"`
}
