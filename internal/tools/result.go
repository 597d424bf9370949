package tools

import (
	"encoding/json"
	"time"
)

// Result is the outcome of a tool invocation. Exactly one of Data/Error
// is meaningful, selected by Success. Meta carries contextual flags such
// as cache hits or result truncation. Results are never mutated after
// return.
type Result struct {
	Success bool           `json:"success"`
	Data    any            `json:"data,omitempty"`
	Error   string         `json:"error,omitempty"`
	Meta    map[string]any `json:"meta,omitempty"`
}

// ok wraps a raw upstream payload in a successful result.
func ok(data json.RawMessage) *Result {
	return &Result{Success: true, Data: data}
}

// okMeta wraps a payload with contextual metadata.
func okMeta(data json.RawMessage, meta map[string]any) *Result {
	return &Result{Success: true, Data: data, Meta: meta}
}

// cached wraps a cache hit, marking its origin and age so callers can
// judge staleness.
func cached(value json.RawMessage, age time.Duration) *Result {
	return okMeta(value, map[string]any{
		"cached":        true,
		"cache_age_sec": int(age.Seconds()),
	})
}
