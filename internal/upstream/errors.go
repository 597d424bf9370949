package upstream

import (
	"errors"
	"fmt"
)

// ErrTimeout is returned when a request exceeds the per-attempt timeout.
// Timeouts are retryable.
var ErrTimeout = errors.New("upstream: request timed out")

// APIError is a non-2xx response from the clinic API.
type APIError struct {
	StatusCode int
	Message    string
	Method     string
	Path       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("upstream: %s %s returned %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// Retryable reports whether the status indicates a transient condition.
// Client errors (4xx) are malformed requests that retries cannot fix.
func (e *APIError) Retryable() bool {
	return e.StatusCode >= 500
}

// TransportError is a network-level failure before any response arrived.
// Transport errors are treated as transient and retried.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("upstream: %s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// SuppressedError is returned when a negative cache entry short-circuits
// the call: the same endpoint failed recently and is still inside its
// suppression window.
type SuppressedError struct {
	Message string
}

func (e *SuppressedError) Error() string {
	return "upstream: suppressed by negative cache: " + e.Message
}

// retryable reports whether err should trigger another attempt.
func retryable(err error) bool {
	if errors.Is(err, ErrTimeout) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable()
	}
	var tErr *TransportError
	return errors.As(err, &tErr)
}
