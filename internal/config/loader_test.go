package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParse_FullConfig(t *testing.T) {
	data := []byte(`
cache:
  max_entries: 500
  pets_ttl_sec: 45
  schedule_ttl_sec: 15
  negative_ttl_sec: 60
rate_limit:
  limit: 30
  window_sec: 120
disabled_tools:
  - record_sale
redact_hints:
  - phone
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Cache.MaxEntries != 500 {
		t.Fatalf("max_entries = %d", cfg.Cache.MaxEntries)
	}
	if got := cfg.Cache.ScheduleTTL(); got != 15*time.Second {
		t.Fatalf("schedule ttl = %v", got)
	}
	if got := cfg.Cache.PetsTTL(); got != 45*time.Second {
		t.Fatalf("pets ttl = %v", got)
	}
	if got := cfg.Cache.ClientsTTL(); got != 0 {
		t.Fatalf("unset ttl should be zero, got %v", got)
	}
	if cfg.RateLimit.Limit != 30 || cfg.RateLimit.Window() != 2*time.Minute {
		t.Fatalf("rate limit = %+v", cfg.RateLimit)
	}
	if len(cfg.DisabledTools) != 1 || cfg.DisabledTools[0] != "record_sale" {
		t.Fatalf("disabled tools = %v", cfg.DisabledTools)
	}
	if len(cfg.RedactHints) != 1 || cfg.RedactHints[0] != "phone" {
		t.Fatalf("redact hints = %v", cfg.RedactHints)
	}
}

func TestParse_EmptyIsValid(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Cache.NegativeTTL() != 0 || cfg.RateLimit.Limit != 0 {
		t.Fatalf("empty config should carry no overrides: %+v", cfg)
	}
}

func TestParse_CollectsAllErrors(t *testing.T) {
	data := []byte(`
cache:
  max_entries: -1
rate_limit:
  window_sec: -5
disabled_tools:
  - get_client
  - get_client
`)
	_, err := Parse(data)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Errors) != 3 {
		t.Fatalf("expected 3 errors, got %d: %v", len(verr.Errors), verr.Errors)
	}
}

func TestParse_BadYAML(t *testing.T) {
	_, err := Parse([]byte("cache: ["))
	if err == nil || !strings.Contains(err.Error(), "parse yaml") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vetgate.yaml")
	if err := os.WriteFile(path, []byte("rate_limit:\n  limit: 10\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.RateLimit.Limit != 10 {
		t.Fatalf("limit = %d", cfg.RateLimit.Limit)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
