// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"pnl-insights/internal/analytics"
	"pnl-insights/internal/assistant"
	"pnl-insights/internal/common/config"
	"pnl-insights/internal/common/database"
	"pnl-insights/internal/common/logger"
	"pnl-insights/internal/common/observability"
	"pnl-insights/internal/insights/board"
	"pnl-insights/internal/insights/loader"
	"pnl-insights/internal/insights/registry"
	"pnl-insights/internal/server"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting dashboard server...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name, cfg.Tracing.JaegerEndpoint)
	defer obs.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- Init PostgreSQL with retry (optional) ---
	// Without the warehouse the data endpoints degrade to demo values.
	var pg *database.PostgresClient
	if cfg.Database.Postgres.Host != "" {
		err = retryWithBackoff(func() error {
			var perr error
			pg, perr = database.NewPostgres(cfg.Database.Postgres)
			if perr != nil {
				return perr
			}
			return pg.Ping(ctx)
		}, 5, 2*time.Second, zapLog, "PostgreSQL initialization")

		if err != nil {
			zapLog.Warn("continuing without PostgreSQL", zap.Error(err))
			pg = nil
		} else {
			zapLog.Info("PostgreSQL connected successfully")
			defer pg.Close()
		}
	}

	// --- Init Redis with retry (optional) ---
	// Without redis the assistant answers every question uncached.
	var rdb *database.RedisClient
	if cfg.Database.Redis.Address != "" {
		err = retryWithBackoff(func() error {
			var rerr error
			rdb, rerr = database.NewRedis(cfg.Database.Redis)
			if rerr != nil {
				return rerr
			}
			return rdb.Ping(ctx)
		}, 5, 2*time.Second, zapLog, "Redis initialization")

		if err != nil {
			zapLog.Warn("continuing without Redis", zap.Error(err))
			rdb = nil
		} else {
			zapLog.Info("Redis connected successfully")
			defer rdb.Close()
		}
	}

	// --- Insight board ---
	configLoader := loader.New(cfg.Insights.Source, config.GetDuration(cfg.Insights.RequestTimeout), log)
	actionRegistry := registry.New()
	insightBoard := board.New(configLoader, actionRegistry, config.GetDuration(cfg.Insights.RefreshInterval), log)

	// --- Assistant ---
	assistantClient := assistant.NewClient(cfg.Assistant, log)
	var cache assistant.Cache
	if rdb != nil {
		cache = rdb
	}
	assistantSvc := assistant.NewService(assistantClient, cache, config.GetDuration(cfg.Assistant.CacheTTL), log)

	// --- Analytics ---
	analyticsSvc := analytics.NewService(pg, cfg.Analytics, log)

	srv := server.New(server.Deps{
		Config:        cfg,
		Board:         insightBoard,
		Assistant:     assistantSvc,
		Analytics:     analyticsSvc,
		Postgres:      pg,
		Redis:         rdb,
		Observability: obs,
		Logger:        log,
	})

	// Initial load happens before the listener starts so the first request
	// never sees the Loading state.
	insightBoard.Start(ctx)
	zapLog.Info("insight board ready", zap.String("source", string(insightBoard.Source())))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(ctx)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		zapLog.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			zapLog.Error("http server failed", zap.Error(err))
		}
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("graceful shutdown failed", zap.Error(err))
	}

	zapLog.Info("dashboard server stopped")
}
