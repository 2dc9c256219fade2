package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/snow-ghost/evalbench/core"
	"github.com/snow-ghost/evalbench/pkg/cache"
	"github.com/snow-ghost/evalbench/pkg/config"
	"github.com/snow-ghost/evalbench/pkg/httpserver"
	"github.com/snow-ghost/evalbench/pkg/logging"
	"github.com/snow-ghost/evalbench/pkg/metrics"
	"github.com/snow-ghost/evalbench/pkg/providers"
	"github.com/snow-ghost/evalbench/pkg/run"
	"github.com/snow-ghost/evalbench/pkg/scenarios"
	"github.com/snow-ghost/evalbench/pkg/store"
	"github.com/snow-ghost/evalbench/pkg/tracing"
)

func main() {
	// .env is optional; real environments set variables directly
	_ = godotenv.Load()

	cfg := config.LoadConfig()

	logger, err := logging.NewLogger(logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	st, err := openStore(cfg, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	m := metrics.NewPrometheusMetrics()
	registry := buildRegistry(cfg, logger, m)

	source := scenarios.NewSource(cfg.ScenariosPath)
	orchestrator := run.NewOrchestrator(source, st, registry, logger, m)

	if cfg.TracingEnabled {
		tracer, err := tracing.NewTracer(tracing.Config{
			ServiceName:    "evalbench",
			ServiceVersion: "1.0.0",
			JaegerEndpoint: cfg.JaegerEndpoint,
			Environment:    cfg.Environment,
		})
		if err != nil {
			logger.Warn("tracing disabled", "error", err)
		} else {
			orchestrator.SetTracer(tracer)
			defer tracer.Shutdown(context.Background())
		}
	}

	server := httpserver.NewServer(cfg.Port, orchestrator, st, source, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(server.Start)
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	logger.Info("evalbench started",
		"port", cfg.Port,
		"families", registry.Families(),
		"db", cfg.DBPath,
	)

	if err := g.Wait(); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

// openStore picks SQLite when a path is configured, otherwise the
// in-memory store.
func openStore(cfg *config.Config, logger *logging.Logger) (core.EvalStore, error) {
	if cfg.DBPath == "" {
		logger.Warn("no database configured, runs will not survive restarts")
		return store.NewMemory(), nil
	}
	return store.NewSQLite(cfg.DBPath)
}

// buildRegistry registers one adapter per configured family. The
// scripted adapter is always available so the service can run without
// provider credentials.
func buildRegistry(cfg *config.Config, logger *logging.Logger, m *metrics.PrometheusMetrics) *providers.Registry {
	registry := providers.NewRegistry()
	registry.Register(providers.FamilyScripted, providers.NewScripted())

	var replies *cache.ReplyCache
	if cfg.JudgeCacheSize > 0 {
		c, err := cache.New(cfg.JudgeCacheSize)
		if err != nil {
			logger.Warn("judge cache disabled", "error", err)
		} else {
			replies = c
		}
	}

	if cfg.OpenAIAPIKey != "" {
		registry.Register(providers.FamilyOpenAI,
			wrap(providers.NewOpenAIAdapter(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel), "openai", cfg, replies, m))
		logger.Info("registered adapter", "family", "openai", "model", cfg.OpenAIModel)
	}
	if cfg.AnthropicAPIKey != "" {
		registry.Register(providers.FamilyAnthropic,
			wrap(providers.NewAnthropicAdapter(cfg.AnthropicAPIKey, cfg.AnthropicURL, cfg.AnthropicModel), "anthropic", cfg, replies, m))
		logger.Info("registered adapter", "family", "anthropic", "model", cfg.AnthropicModel)
	}

	return registry
}

// wrap layers the circuit breaker and judge-reply cache around a
// provider adapter.
func wrap(adapter core.ModelAdapter, name string, cfg *config.Config, replies *cache.ReplyCache, m *metrics.PrometheusMetrics) core.ModelAdapter {
	if cfg.BreakerEnabled {
		adapter = providers.WithBreaker(name, adapter)
	}
	if replies != nil {
		adapter = providers.WithEvalCache(adapter, replies, m)
	}
	return adapter
}
