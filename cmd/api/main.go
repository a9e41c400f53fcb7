package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/propcodes/platform/internal/app"
	"github.com/propcodes/platform/internal/auth"
	"github.com/propcodes/platform/internal/infra"
	"github.com/propcodes/platform/internal/repository"
)

func main() {
	if err := infra.LoadDotEnv(); err != nil {
		slog.Error("load .env", "error", err)
		os.Exit(1)
	}

	cfg, err := infra.LoadConfig()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	logger := infra.NewLogger(cfg.SlogLevel())
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *infra.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Connect to Postgres
	pool, err := infra.NewPostgresPool(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()
	logger.Info("connected to postgres")

	if cfg.RunMigrations {
		if err := infra.RunMigrations(cfg.DSN(), cfg.MigrationsDir, logger); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
	}

	jwtMgr, err := auth.NewJWTManager(cfg.JWTSecret, cfg.SessionTTL)
	if err != nil {
		return fmt.Errorf("session manager: %w", err)
	}

	db := repository.NewPgDatabase(pool)
	metrics := infra.NewMetrics()

	// In-process outbox relay when Kafka is enabled; otherwise rows wait for cmd/outbox-relay.
	producer := infra.NewKafkaProducer(cfg.KafkaBrokers, cfg.KafkaEnabled, logger)
	defer producer.Close()
	if producer.Enabled() {
		outboxRepo := repository.NewOutboxRepository()
		janitor, err := infra.NewOutboxJanitor(db, outboxRepo, cfg.OutboxRetention, cfg.OutboxPurgeSchedule, logger)
		if err != nil {
			return err
		}
		janitor.Start()
		defer janitor.Stop()

		poller := infra.NewOutboxPoller(db, outboxRepo, producer, metrics, infra.OutboxPollerConfig{
			Interval:    cfg.OutboxPollInterval,
			BatchSize:   cfg.OutboxBatchSize,
			TopicPrefix: cfg.KafkaTopicPrefix,
		}, logger)
		poller.Start(ctx)
	}
	infra.LogOutboxRelayMode(logger, producer.Enabled())

	deps := app.RouterDepsFromConfig(cfg)
	deps.DB = db
	deps.JWTMgr = jwtMgr
	deps.Logger = logger
	deps.Metrics = metrics
	r := app.NewRouter(deps)

	// Start server
	addr := fmt.Sprintf(":%d", cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		logger.Info("api server starting", "addr", addr, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}

	// Shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logger.Info("server stopped gracefully")
	return nil
}
