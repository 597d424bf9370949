package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/vetgate/vetgate/internal/api"
	"github.com/vetgate/vetgate/internal/audit"
	"github.com/vetgate/vetgate/internal/cache"
	"github.com/vetgate/vetgate/internal/config"
	"github.com/vetgate/vetgate/internal/gateway"
	"github.com/vetgate/vetgate/internal/metrics"
	"github.com/vetgate/vetgate/internal/ratelimit"
	"github.com/vetgate/vetgate/internal/secrets"
	"github.com/vetgate/vetgate/internal/store/sqlite"
	"github.com/vetgate/vetgate/internal/tools"
	"github.com/vetgate/vetgate/internal/upstream"
	"golang.org/x/sync/errgroup"
)

func cmdServe(args []string) error {
	ctx, cancel := signal.NotifyContext(
		context.Background(), syscall.SIGINT, syscall.SIGTERM,
	)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyFlags(cfg, args)

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	// Optional YAML overrides on top of the environment.
	var fileCfg *config.FileConfig
	if cfg.ConfigFile != "" {
		if _, err := os.Stat(cfg.ConfigFile); err == nil {
			fileCfg, err = config.LoadFile(cfg.ConfigFile)
			if err != nil {
				return err
			}
			logger.Info("loaded config", "file", cfg.ConfigFile)
		}
	}

	apiKey, err := resolveAPIKey(cfg)
	if err != nil {
		return err
	}

	tiers := buildTiers(cfg, fileCfg)
	tiers.StartJanitors(ctx, time.Minute)

	limiter := buildLimiter(cfg, fileCfg)
	limiter.StartSweeper(ctx, 5*time.Minute)

	apiClient := upstream.New(upstream.Config{
		BaseURL:     cfg.UpstreamURL,
		APIKey:      apiKey,
		Timeout:     cfg.Timeout,
		MaxAttempts: cfg.MaxAttempts,
		RetryDelay:  cfg.RetryDelay,
	}, tiers.Negative)

	registry := tools.NewRegistry()
	svc := tools.NewService(apiClient, tiers)
	if err := svc.RegisterAll(registry); err != nil {
		return fmt.Errorf("register tools: %w", err)
	}
	if fileCfg != nil {
		for _, name := range fileCfg.DisabledTools {
			registry.Remove(name)
			logger.Info("tool disabled", "tool", name)
		}
	}
	if err := registry.Verify(); err != nil {
		return fmt.Errorf("verify registry: %w", err)
	}

	collector := metrics.New(cfg.MetricsEnabled)

	var db *sqlite.DB
	var auditor *audit.Logger
	if cfg.DBPath != "off" {
		db, err = sqlite.New(ctx, cfg.DBPath)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		hints := []string{"phone"}
		if fileCfg != nil {
			hints = append(hints, fileCfg.RedactHints...)
		}
		auditor = audit.NewLogger(db, hints)
	}

	gw := gateway.NewServer(registry, limiter, collector, auditor, "vetgate", version)

	logger.Info("starting",
		"mode", cfg.Mode,
		"upstream", cfg.UpstreamURL,
		"tools", registry.Len(),
		"cache", cfg.CacheEnabled,
		"rate_limit", cfg.RateLimitEnabled,
	)

	switch cfg.Mode {
	case "stdio":
		return gw.RunStdio(ctx)
	case "http":
		return runHTTP(ctx, cfg, gw, registry, tiers, limiter, collector, apiClient, db)
	case "both":
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return gw.RunStdio(gctx)
		})
		g.Go(func() error {
			return runHTTP(gctx, cfg, gw, registry, tiers, limiter, collector, apiClient, db)
		})
		return g.Wait()
	default:
		return fmt.Errorf("unknown mode: %s", cfg.Mode)
	}
}

// applyFlags parses --mode=X flags from the args list.
func applyFlags(cfg *Config, args []string) {
	for _, arg := range args {
		if v, ok := strings.CutPrefix(arg, "--mode="); ok {
			cfg.Mode = v
		}
		if v, ok := strings.CutPrefix(arg, "--addr="); ok {
			cfg.HTTPAddr = v
		}
		if v, ok := strings.CutPrefix(arg, "--upstream="); ok {
			cfg.UpstreamURL = v
		}
	}
}

// resolveAPIKey prefers the environment key, falling back to the
// age-encrypted key file written by `vetgate secret set-api-key`.
func resolveAPIKey(cfg *Config) (string, error) {
	if cfg.APIKey != "" {
		return cfg.APIKey, nil
	}
	if cfg.APIKeyFile == "" {
		return "", nil
	}
	enc, err := secrets.NewAgeEncryptor(cfg.AgeKeyPath)
	if err != nil {
		return "", fmt.Errorf("load age key: %w", err)
	}
	key, err := secrets.LoadAPIKey(enc, cfg.APIKeyFile)
	if err != nil {
		return "", fmt.Errorf("load api key: %w", err)
	}
	return key, nil
}

func buildTiers(cfg *Config, fileCfg *config.FileConfig) *cache.Tiers {
	tc := cache.TiersConfig{Disabled: !cfg.CacheEnabled}
	if fileCfg != nil {
		tc.MaxEntries = fileCfg.Cache.MaxEntries
		tc.ClientsTTL = fileCfg.Cache.ClientsTTL()
		tc.PetsTTL = fileCfg.Cache.PetsTTL()
		tc.ScheduleTTL = fileCfg.Cache.ScheduleTTL()
		tc.ReferenceTTL = fileCfg.Cache.ReferenceTTL()
		tc.BillingTTL = fileCfg.Cache.BillingTTL()
		tc.DashboardTTL = fileCfg.Cache.DashboardTTL()
		tc.NegativeTTL = fileCfg.Cache.NegativeTTL()
	}
	return cache.NewTiers(tc)
}

func buildLimiter(cfg *Config, fileCfg *config.FileConfig) *ratelimit.Limiter {
	rc := ratelimit.Config{
		Limit:    cfg.RateLimit,
		Window:   cfg.RateWindow,
		Disabled: !cfg.RateLimitEnabled,
	}
	if fileCfg != nil {
		if fileCfg.RateLimit.Limit > 0 {
			rc.Limit = fileCfg.RateLimit.Limit
		}
		if w := fileCfg.RateLimit.Window(); w > 0 {
			rc.Window = w
		}
	}
	return ratelimit.New(rc)
}

func runHTTP(
	ctx context.Context, cfg *Config, gw *gateway.Server,
	registry *tools.Registry, tiers *cache.Tiers, limiter *ratelimit.Limiter,
	collector *metrics.Collector, apiClient *upstream.Client, db *sqlite.DB,
) error {
	gw.Bootstrap("http")

	deps := api.RouterDeps{
		Gateway:   gw,
		Registry:  registry,
		Caches:    tiers,
		Limiter:   limiter,
		Collector: collector,
		Upstream:  apiClient,
		Version:   version,
	}
	if db != nil {
		deps.Store = db
		deps.DB = db
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.NewRouter(deps),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http listening", "addr", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
