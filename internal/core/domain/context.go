package domain

import (
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// RequestContext is the immutable snapshot of an outgoing request taken
// before any plugin runs. Headers are copied, so later mutation of the
// underlying request does not leak into plugins.
type RequestContext struct {
	URL    *url.URL
	Method string
	Header http.Header
}

// ResponseContext is the snapshot of a non-exceptional response. It is
// absent when the transport call failed.
type ResponseContext struct {
	StatusCode int
	Header     http.Header
}

// CallContext is the mutable container threaded through every pipeline
// phase of a single call. It is created at call start, discarded at call
// end, and never shared across calls, so no locking is required.
//
// After the transport invocation exactly one of Response or Err is set,
// and Delay is set before the POST or EXCEPTION phase runs.
type CallContext struct {
	// ID uniquely identifies the call across log lines and records.
	ID string

	Request  *RequestContext
	Response *ResponseContext
	Err      error
	Delay    time.Duration

	// Target is the resolved callee instance, when known.
	Target *CallEndpoint

	// Values lets plugins attach their own per-call telemetry. Keys are
	// owned by the plugin that writes them.
	Values map[string]any
}

// NewCallContext creates a fresh per-call context for the given request
// snapshot.
func NewCallContext(req *RequestContext) *CallContext {
	return &CallContext{
		ID:      uuid.New().String(),
		Request: req,
		Values:  make(map[string]any),
	}
}

// CloneHeader copies h so context snapshots stay stable. A nil header
// clones to an empty one.
func CloneHeader(h http.Header) http.Header {
	if h == nil {
		return make(http.Header)
	}
	return h.Clone()
}
