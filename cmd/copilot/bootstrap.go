package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"symphony-copilot/internal/econdata"
	"symphony-copilot/internal/interfaces"
	"symphony-copilot/internal/logger"
	"symphony-copilot/internal/marketdata"
	"symphony-copilot/internal/news"
	"symphony-copilot/internal/platform"
	"symphony-copilot/internal/sessionlog"
	"symphony-copilot/internal/store"
	"symphony-copilot/internal/tools"
	"symphony-copilot/internal/tools/toolobs"
	"symphony-copilot/internal/trace"
)

// initializeSystem initializes env, logger and tracer
func initializeSystem() error {
	// Load environment variables
	_ = godotenv.Load()

	// Initialize logger
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Initialize tracer
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	return nil
}

// loadConfig loads and returns the configuration
func loadConfig(ctx context.Context) (*store.Config, error) {
	path := os.Getenv("COPILOT_CONFIG")
	if path == "" {
		path = "config.yaml"
	}
	cfg, err := store.LoadConfig(path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err)
		return nil, err
	}
	return cfg, nil
}

// compressOldLogs compresses old session log files if retention is configured
func compressOldLogs(ctx context.Context) {
	if v := os.Getenv("COPILOT_LOG_RETENTION_DAYS"); v != "" {
		var n int
		fmt.Sscanf(v, "%d", &n)
		if err := sessionlog.CompressOlder(n); err != nil {
			logger.Warn(ctx, "Failed to compress old logs", "error", err)
		}
	}
}

// buildRegistry wires the tool registry over the configured providers
// with observability middleware
func buildRegistry(ctx context.Context, cfg *store.Config, assistant interfaces.Assistant) interfaces.Invoker {
	econ := econdata.NewClient(econdata.Config{
		BaseURL:    cfg.EconData.BaseURL,
		APIKey:     os.Getenv(cfg.EconData.APIKeyEnv),
		CacheDir:   cfg.EconData.CacheDir,
		CacheTTL:   cfg.EconCacheTTL(),
		RatePerSec: cfg.EconData.RateLimit,
	})

	market := marketdata.New(marketdata.Params{
		DataSource:       cfg.DataSource,
		Exchange:         cfg.Exchange,
		APIKey:           os.Getenv("KITE_API_KEY"),
		AccessToken:      os.Getenv("KITE_ACCESS_TOKEN"),
		InstrumentTokens: cfg.MarketData.InstrumentTokens,
	})

	if cfg.DataSource == "LIVE" {
		logger.Info(ctx, "Using LIVE market data")
	} else {
		logger.Info(ctx, "Using STATIC synthetic market data")
	}

	plat := platform.NewClient(platform.Config{
		BaseURL: cfg.Platform.BaseURL,
		Token:   os.Getenv(cfg.Platform.TokenEnv),
		Timeout: cfg.PlatformTimeout(),
		DryRun:  cfg.Mode == "DRY_RUN",
	})

	if cfg.Mode == "DRY_RUN" {
		logger.Warn(ctx, "Running in DRY_RUN mode - deploys will be simulated")
	}

	// Always constructed; a disabled service answers with a neutral
	// sentiment instead of an error.
	newsSvc := news.NewService(assistant, &news.ServiceConfig{
		MaxArticles:    cfg.News.MaxArticles,
		CacheDuration:  time.Duration(cfg.News.CacheTTLHours) * time.Hour,
		ScraperTimeout: time.Duration(cfg.News.TimeoutSecs) * time.Second,
		Enabled:        cfg.News.Enabled,
	})

	registry := tools.NewRegistry(tools.Deps{
		Econ:     econ,
		Market:   market,
		Platform: plat,
		News:     newsSvc,
	})

	// Wrap with observability middleware
	return toolobs.Wrap(registry, uuid.New().String())
}
