// Package store defines the persistence models and interfaces for the
// gateway's audit trail.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("store: not found")

// InvocationRecord is one audited tool invocation. Params are redacted
// before the record reaches the store.
type InvocationRecord struct {
	ID           string          `json:"id"`
	Timestamp    time.Time       `json:"timestamp"`
	Client       string          `json:"client"`
	Tool         string          `json:"tool"`
	Params       json.RawMessage `json:"params,omitempty"`
	Status       string          `json:"status"`
	ErrorCode    int             `json:"error_code,omitempty"`
	ErrorMessage string          `json:"error_message,omitempty"`
	LatencyMs    int64           `json:"latency_ms"`
	CacheHit     bool            `json:"cache_hit"`
}

// Invocation statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// InvocationFilter narrows QueryInvocations results.
type InvocationFilter struct {
	Tool   string
	Client string
	Status string
	Limit  int
	Offset int
}

// AuditStore persists and queries invocation records.
type AuditStore interface {
	InsertInvocation(ctx context.Context, rec *InvocationRecord) error
	QueryInvocations(ctx context.Context, f InvocationFilter) ([]InvocationRecord, int, error)
}
