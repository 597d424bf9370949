package tools

import (
	"strings"

	"github.com/vetgate/vetgate/internal/validate"
)

// Argument extraction helpers. Arguments arrive as a decoded JSON
// object; missing or mistyped required fields are validation errors
// surfaced before any network call.

func requireString(args map[string]any, key string) (string, error) {
	v, ok := args[key]
	if !ok {
		return "", &validate.Error{Field: key, Reason: "required"}
	}
	s, ok := v.(string)
	if !ok {
		return "", &validate.Error{Field: key, Reason: "must be a string"}
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", &validate.Error{Field: key, Reason: "must not be empty"}
	}
	return s, nil
}

func optString(args map[string]any, key string) string {
	if v, ok := args[key]; ok {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// optInt reads an optional integer argument, clamping to [1, max] and
// falling back to def when absent or mistyped. JSON numbers decode as
// float64.
func optInt(args map[string]any, key string, def, max int) int {
	v, ok := args[key]
	if !ok {
		return def
	}
	f, ok := v.(float64)
	if !ok {
		return def
	}
	n := int(f)
	if n < 1 {
		return def
	}
	if n > max {
		return max
	}
	return n
}
