package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"symphony-copilot/internal/agent"
	"symphony-copilot/internal/econdata"
	"symphony-copilot/internal/interfaces"
	"symphony-copilot/internal/logger"
	"symphony-copilot/internal/marketdata"
	"symphony-copilot/internal/news"
	"symphony-copilot/internal/platform"
	"symphony-copilot/internal/server"
	"symphony-copilot/internal/store"
	"symphony-copilot/internal/tools"
	"symphony-copilot/internal/tools/toolobs"
	"symphony-copilot/internal/trace"
)

func main() {
	_ = godotenv.Load()

	// Logs go to stderr; stdout carries the MCP stdio transport
	if err := logger.Init(); err != nil {
		log.Fatal(err)
	}
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	ctx := context.Background()
	defer func() { _ = logger.Shutdown(context.Background()) }()
	defer func() { _ = trace.Shutdown(context.Background()) }()

	path := os.Getenv("COPILOT_CONFIG")
	if path == "" {
		path = "config.yaml"
	}
	cfg, err := store.LoadConfig(path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err)
		os.Exit(1)
	}

	s := server.New(buildRegistry(ctx, cfg))

	logger.Info(ctx, "MCP server starting", "mode", cfg.Mode, "data_source", cfg.DataSource)
	if err := server.ServeStdio(s); err != nil {
		logger.ErrorWithErr(ctx, "MCP server stopped", err)
		os.Exit(1)
	}
}

// buildRegistry wires the tool registry over the configured providers
func buildRegistry(ctx context.Context, cfg *store.Config) interfaces.Invoker {
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

	plat := platform.NewClient(platform.Config{
		BaseURL: cfg.Platform.BaseURL,
		Token:   os.Getenv(cfg.Platform.TokenEnv),
		Timeout: cfg.PlatformTimeout(),
		DryRun:  cfg.Mode == "DRY_RUN",
	})

	if cfg.Mode == "DRY_RUN" {
		logger.Warn(ctx, "Running in DRY_RUN mode - deploys will be simulated")
	}

	// Sentiment scoring in the MCP server uses the same provider the
	// interactive copilot would. The service is always constructed so
	// a disabled lookup answers with a neutral sentiment instead of
	// an error; the assistant is only built when it will be used.
	var newsAssistant interfaces.Assistant
	if cfg.News.Enabled {
		newsAssistant = agent.NewAssistant(ctx, cfg.LLM.Provider, cfg.LLM.Model)
	}
	newsSvc := news.NewService(newsAssistant, &news.ServiceConfig{
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

	return toolobs.Wrap(registry, uuid.New().String())
}
