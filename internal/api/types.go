package api

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// DispatcherStatus describes the request dispatcher in a transport-friendly format.
type DispatcherStatus struct {
	Name          string `json:"name"`
	State         string `json:"state"`
	Processed     uint64 `json:"processed"`
	Failed        uint64 `json:"failed"`
	TimedOut      uint64 `json:"timedOut"`
	QueueLength   int    `json:"queueLength"`
	QueueCapacity int    `json:"queueCapacity"`
	LastError     string `json:"lastError,omitempty"`
	StartedAt     string `json:"startedAt,omitempty"`
}

// JournalStats summarizes recorded request history.
type JournalStats struct {
	Total  int            `json:"total"`
	Failed int            `json:"failed"`
	ByKind map[string]int `json:"byKind"`
	Oldest string         `json:"oldest,omitempty"`
	Newest string         `json:"newest,omitempty"`
}

// DaemonStatus aggregates daemon runtime information for API consumers.
type DaemonStatus struct {
	Running      bool             `json:"running"`
	PID          int              `json:"pid"`
	SocketPath   string           `json:"socketPath"`
	LockFilePath string           `json:"lockFilePath"`
	JournalPath  string           `json:"journalPath,omitempty"`
	APIAddress   string           `json:"apiAddress,omitempty"`
	Dispatcher   DispatcherStatus `json:"dispatcher"`
	Journal      *JournalStats    `json:"journal,omitempty"`
}

// HistoryEntry is one recorded request.
type HistoryEntry struct {
	ID         int64   `json:"id"`
	RequestID  string  `json:"requestId"`
	Kind       string  `json:"kind"`
	Code       string  `json:"code,omitempty"`
	Error      string  `json:"error,omitempty"`
	WordCount  int     `json:"wordCount"`
	Sentiment  string  `json:"sentiment,omitempty"`
	Magnitude  float64 `json:"magnitude,omitempty"`
	ReceivedAt string  `json:"receivedAt"`
	DurationMS float64 `json:"durationMs"`
}

// HistoryResponse wraps recent history entries, newest first.
type HistoryResponse struct {
	Entries []HistoryEntry `json:"entries"`
}

// DispatchRequest is the HTTP body accepted by the dispatch endpoint.
type DispatchRequest struct {
	ID   string `json:"id,omitempty"`
	Kind string `json:"kind"`
	Text string `json:"text"`
}

// ErrorResponse is returned for any non-2xx API reply.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
