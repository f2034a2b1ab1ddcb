package dispatcher

import (
	"fmt"
	"time"

	"quill/internal/analysis"
	"quill/internal/faults"
	"quill/internal/sentiment"
)

// Kind selects the operation a request is routed to.
type Kind string

const (
	KindTokenize     Kind = "tokenize"
	KindSentiment    Kind = "sentiment"
	KindFullAnalysis Kind = "full_analysis"
)

// Kinds lists every routable kind.
func Kinds() []Kind {
	return []Kind{KindTokenize, KindSentiment, KindFullAnalysis}
}

// Valid reports whether k names a known route.
func (k Kind) Valid() bool {
	switch k {
	case KindTokenize, KindSentiment, KindFullAnalysis:
		return true
	default:
		return false
	}
}

// unknownEndpointMessage is the literal error text returned for an unrouted kind.
const unknownEndpointMessage = "Unknown endpoint"

// Request is a unit of work submitted to a Dispatcher. Raw takes precedence
// over Text when it is non-nil.
type Request struct {
	ID   string `json:"id,omitempty"`
	Kind Kind   `json:"kind"`
	Text string `json:"text,omitempty"`
	Raw  []byte `json:"raw,omitempty"`
}

// Response carries exactly one payload on success, or Code and Error on failure.
type Response struct {
	ID          string            `json:"id"`
	Kind        Kind              `json:"kind"`
	Tokens      []string          `json:"tokens,omitempty"`
	Sentiment   *sentiment.Result `json:"sentiment,omitempty"`
	Analysis    *analysis.Result  `json:"analysis,omitempty"`
	Code        string            `json:"code,omitempty"`
	Error       string            `json:"error,omitempty"`
	ReceivedAt  time.Time         `json:"receivedAt"`
	ProcessedAt time.Time         `json:"processedAt"`
	Duration    time.Duration     `json:"duration"`
}

// OK reports whether the request succeeded.
func (r Response) OK() bool {
	return r.Code == faults.CodeOK
}

// Err rebuilds the failure as an error that matches the faults sentinels.
func (r Response) Err() error {
	return faults.FromCode(r.Code, r.Error)
}

// WordCount returns the number of tokens the response covers, or zero when
// the payload does not carry tokens.
func (r Response) WordCount() int {
	switch {
	case r.Analysis != nil:
		return r.Analysis.WordCount
	default:
		return len(r.Tokens)
	}
}

// State is the lifecycle position of a Dispatcher.
type State int32

const (
	StateStopped State = iota
	StateStarting
	StateRunning
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// MarshalText renders the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a state name.
func (s *State) UnmarshalText(text []byte) error {
	switch string(text) {
	case "stopped":
		*s = StateStopped
	case "starting":
		*s = StateStarting
	case "running":
		*s = StateRunning
	default:
		return fmt.Errorf("unknown dispatcher state %q", text)
	}
	return nil
}

// Status is a point-in-time snapshot of a Dispatcher.
type Status struct {
	Name          string    `json:"name"`
	State         State     `json:"state"`
	Processed     uint64    `json:"processed"`
	Failed        uint64    `json:"failed"`
	TimedOut      uint64    `json:"timedOut"`
	QueueLength   int       `json:"queueLength"`
	QueueCapacity int       `json:"queueCapacity"`
	LastError     string    `json:"lastError,omitempty"`
	StartedAt     time.Time `json:"startedAt,omitzero"`
}
