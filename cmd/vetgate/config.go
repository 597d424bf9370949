package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	Mode     string // "stdio", "http", or "both"
	HTTPAddr string // "127.0.0.1:8080"

	UpstreamURL string        // clinic API base URL
	APIKey      string        // plaintext key; wins over APIKeyFile
	APIKeyFile  string        // age-encrypted key file
	Timeout     time.Duration // per-attempt upstream timeout
	MaxAttempts int
	RetryDelay  time.Duration

	RateLimit  int
	RateWindow time.Duration

	CacheEnabled     bool
	RateLimitEnabled bool
	MetricsEnabled   bool

	DBPath     string // "off" disables the audit trail
	AgeKeyPath string // path to age identity file
	ConfigFile string // path to vetgate.yaml
	LogLevel   slog.Level
}

// defaultDataPath returns ~/.vetgate/<filename>, falling back to
// a CWD-relative path if the home directory can't be resolved.
func defaultDataPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filename
	}
	return filepath.Join(home, ".vetgate", filename)
}

func loadConfig() (*Config, error) {
	cfg := &Config{
		Mode:     envOr("VETGATE_MODE", "stdio"),
		HTTPAddr: envOr("VETGATE_HTTP_ADDR", "127.0.0.1:8080"),

		UpstreamURL: envOr("VETGATE_UPSTREAM_URL", "http://localhost:3000"),
		APIKey:      envOr("VETGATE_API_KEY", ""),
		APIKeyFile:  envOr("VETGATE_API_KEY_FILE", ""),
		Timeout:     envDuration("VETGATE_TIMEOUT_SEC", 10*time.Second, time.Second),
		MaxAttempts: envInt("VETGATE_MAX_ATTEMPTS", 3),
		RetryDelay:  envDuration("VETGATE_RETRY_DELAY_MS", 500*time.Millisecond, time.Millisecond),

		RateLimit:  envInt("VETGATE_RATE_LIMIT", 60),
		RateWindow: envDuration("VETGATE_RATE_WINDOW_SEC", time.Minute, time.Second),

		CacheEnabled:     envBool("VETGATE_CACHE", true),
		RateLimitEnabled: envBool("VETGATE_RATELIMIT", true),
		MetricsEnabled:   envBool("VETGATE_METRICS", true),

		DBPath:     envOr("VETGATE_DB_PATH", defaultDataPath("vetgate.db")),
		AgeKeyPath: envOr("VETGATE_AGE_KEY", defaultDataPath("vetgate.key")),
		ConfigFile: envOr("VETGATE_CONFIG", defaultDataPath("vetgate.yaml")),
		LogLevel:   parseLogLevel(envOr("VETGATE_LOG_LEVEL", "info")),
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback, unit time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * unit
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	switch os.Getenv(key) {
	case "on", "true", "1":
		return true
	case "off", "false", "0":
		return false
	default:
		return fallback
	}
}

func parseLogLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
