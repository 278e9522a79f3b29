// Package apierror defines the structured error shape that crosses the
// analyzer's boundary. Failures surface as values with an enumerated kind,
// never as panics, so callers can distinguish retryable from non-retryable
// conditions while the wire shape stays a plain {"error": ...} object.
package apierror

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Kind enumerates the failure categories the analyzer can produce
type Kind int

const (
	// KindNotFound means a chain or pattern lookup missed
	KindNotFound Kind = iota

	// KindUpstreamUnavailable means a provider fetch failed (network,
	// timeout or HTTP error)
	KindUpstreamUnavailable

	// KindInvalidInput means the caller's request was malformed
	KindInvalidInput

	// KindDegradedResult means a documented fallback value was substituted
	// for a missing upstream input
	KindDegradedResult
)

// String returns the kind's wire name
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindUpstreamUnavailable:
		return "upstream_unavailable"
	case KindInvalidInput:
		return "invalid_input"
	case KindDegradedResult:
		return "degraded_result"
	default:
		return "unknown"
	}
}

// Error is a structured failure with optional context fields that are
// flattened alongside the message when serialized.
type Error struct {
	Kind    Kind
	Message string
	Context map[string]interface{}
}

// Error implements the error interface
func (e *Error) Error() string {
	return e.Message
}

// With attaches a context field and returns the error for chaining
func (e *Error) With(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// MarshalJSON serializes the error as {"error": <message>, ...context}
func (e *Error) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(e.Context)+1)
	for k, v := range e.Context {
		out[k] = v
	}
	out["error"] = e.Message
	return json.Marshal(out)
}

// NotFound creates a lookup-miss error
func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Upstream wraps a provider failure, preserving the original message
func Upstream(err error, url string) *Error {
	e := &Error{Kind: KindUpstreamUnavailable, Message: err.Error()}
	if url != "" {
		e.With("url", url)
	}
	return e
}

// UpstreamStatus creates an error for a non-2xx provider response
func UpstreamStatus(status int, url string) *Error {
	return (&Error{
		Kind:    KindUpstreamUnavailable,
		Message: fmt.Sprintf("HTTP %d", status),
	}).With("url", url)
}

// InvalidInput creates a bad-request error
func InvalidInput(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidInput, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the kind from an error chain; ok is false when the error
// is not a structured analyzer error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// IsNotFound reports whether err is a lookup miss
func IsNotFound(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindNotFound
}

// IsUpstream reports whether err is an upstream availability failure
func IsUpstream(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindUpstreamUnavailable
}
