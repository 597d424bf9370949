package config

import (
	"fmt"
	"strings"
)

// ValidationError holds all validation failures for a config file.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: %s", strings.Join(e.Errors, "; "))
}

// validate checks the parsed config for correctness.
func validate(cfg *FileConfig) error {
	var errs []string

	for name, v := range map[string]int{
		"cache.max_entries":       cfg.Cache.MaxEntries,
		"cache.clients_ttl_sec":   cfg.Cache.ClientsTTLSec,
		"cache.pets_ttl_sec":      cfg.Cache.PetsTTLSec,
		"cache.schedule_ttl_sec":  cfg.Cache.ScheduleTTLSec,
		"cache.reference_ttl_sec": cfg.Cache.ReferenceTTLSec,
		"cache.billing_ttl_sec":   cfg.Cache.BillingTTLSec,
		"cache.dashboard_ttl_sec": cfg.Cache.DashboardTTLSec,
		"cache.negative_ttl_sec":  cfg.Cache.NegativeTTLSec,
		"rate_limit.limit":        cfg.RateLimit.Limit,
		"rate_limit.window_sec":   cfg.RateLimit.WindowSec,
	} {
		if v < 0 {
			errs = append(errs, fmt.Sprintf("%s: must not be negative", name))
		}
	}

	seen := make(map[string]bool, len(cfg.DisabledTools))
	for i, tool := range cfg.DisabledTools {
		if tool == "" {
			errs = append(errs, fmt.Sprintf("disabled_tools[%d]: empty tool name", i))
			continue
		}
		if seen[tool] {
			errs = append(errs, fmt.Sprintf("disabled_tools[%d]: duplicate %q", i, tool))
		}
		seen[tool] = true
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}
