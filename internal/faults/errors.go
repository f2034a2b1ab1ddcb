package faults

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrAlreadyRunning    = errors.New("already running")
	ErrNotRunning        = errors.New("not running")
	ErrTimeout           = errors.New("timeout")
	ErrUnknownKind       = errors.New("unknown endpoint")
	ErrAlreadyRegistered = errors.New("already registered")
	ErrConfiguration     = errors.New("configuration error")
	ErrInternal          = errors.New("internal error")
)

// Stable codes carried on dispatcher responses and across the IPC socket.
const (
	CodeOK                = ""
	CodeInvalidInput      = "invalid_input"
	CodeInvalidArgument   = "invalid_argument"
	CodeAlreadyRunning    = "already_running"
	CodeNotRunning        = "not_running"
	CodeTimeout           = "timeout"
	CodeUnknownEndpoint   = "unknown_endpoint"
	CodeAlreadyRegistered = "already_registered"
	CodeConfiguration     = "configuration"
	CodeInternal          = "internal"
)

var codeMarkers = []struct {
	code   string
	marker error
}{
	{CodeInvalidInput, ErrInvalidInput},
	{CodeInvalidArgument, ErrInvalidArgument},
	{CodeAlreadyRunning, ErrAlreadyRunning},
	{CodeNotRunning, ErrNotRunning},
	{CodeTimeout, ErrTimeout},
	{CodeUnknownEndpoint, ErrUnknownKind},
	{CodeAlreadyRegistered, ErrAlreadyRegistered},
	{CodeConfiguration, ErrConfiguration},
	{CodeInternal, ErrInternal},
}

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrInternal
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Code maps an error to its stable code. Nil maps to CodeOK and errors that
// carry no known marker map to CodeInternal.
func Code(err error) string {
	if err == nil {
		return CodeOK
	}
	for _, cm := range codeMarkers {
		if errors.Is(err, cm.marker) {
			return cm.code
		}
	}
	return CodeInternal
}

// FromCode rebuilds an error from a code and message received over the wire so
// callers can keep using errors.Is against the sentinels.
func FromCode(code, message string) error {
	code = strings.TrimSpace(code)
	if code == CodeOK {
		return nil
	}
	marker := ErrInternal
	for _, cm := range codeMarkers {
		if cm.code == code {
			marker = cm.marker
			break
		}
	}
	message = strings.TrimSpace(message)
	if message == "" || strings.EqualFold(message, marker.Error()) {
		return marker
	}
	message = strings.TrimPrefix(message, marker.Error()+": ")
	return fmt.Errorf("%w: %s", marker, message)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "failure"
	}
	return strings.Join(parts, ": ")
}
