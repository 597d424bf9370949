// Package config loads the optional vetgate.yaml file that overrides
// cache, rate-limit, and tool settings beyond the environment defaults.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// FileConfig represents the top-level vetgate.yaml structure.
type FileConfig struct {
	Cache         cacheConfig     `yaml:"cache"`
	RateLimit     rateLimitConfig `yaml:"rate_limit"`
	DisabledTools []string        `yaml:"disabled_tools,omitempty"`
	RedactHints   []string        `yaml:"redact_hints,omitempty"`
}

type cacheConfig struct {
	MaxEntries int `yaml:"max_entries,omitempty"`

	// Per-tier TTL overrides in seconds. Zero keeps the default.
	ClientsTTLSec   int `yaml:"clients_ttl_sec,omitempty"`
	PetsTTLSec      int `yaml:"pets_ttl_sec,omitempty"`
	ScheduleTTLSec  int `yaml:"schedule_ttl_sec,omitempty"`
	ReferenceTTLSec int `yaml:"reference_ttl_sec,omitempty"`
	BillingTTLSec   int `yaml:"billing_ttl_sec,omitempty"`
	DashboardTTLSec int `yaml:"dashboard_ttl_sec,omitempty"`
	NegativeTTLSec  int `yaml:"negative_ttl_sec,omitempty"`
}

type rateLimitConfig struct {
	Limit     int `yaml:"limit,omitempty"`
	WindowSec int `yaml:"window_sec,omitempty"`
}

// LoadFile reads, parses, and validates a YAML config file.
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses and validates YAML config data.
func Parse(data []byte) (*FileConfig, error) {
	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// TTL helpers return the override as a duration, or zero when unset.

func (c cacheConfig) ClientsTTL() time.Duration   { return secs(c.ClientsTTLSec) }
func (c cacheConfig) PetsTTL() time.Duration      { return secs(c.PetsTTLSec) }
func (c cacheConfig) ScheduleTTL() time.Duration  { return secs(c.ScheduleTTLSec) }
func (c cacheConfig) ReferenceTTL() time.Duration { return secs(c.ReferenceTTLSec) }
func (c cacheConfig) BillingTTL() time.Duration   { return secs(c.BillingTTLSec) }
func (c cacheConfig) DashboardTTL() time.Duration { return secs(c.DashboardTTLSec) }
func (c cacheConfig) NegativeTTL() time.Duration  { return secs(c.NegativeTTLSec) }

func (r rateLimitConfig) Window() time.Duration { return secs(r.WindowSec) }

func secs(n int) time.Duration {
	return time.Duration(n) * time.Second
}
