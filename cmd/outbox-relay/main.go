package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

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
		logger.Error("outbox relay failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *infra.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !cfg.KafkaEnabled {
		return fmt.Errorf("KAFKA_ENABLED is false; nothing to relay to")
	}

	pool, err := infra.NewPostgresPool(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()
	logger.Info("outbox-relay connected to postgres")

	producer := infra.NewKafkaProducer(cfg.KafkaBrokers, cfg.KafkaEnabled, logger)
	defer producer.Close()

	outboxRepo := repository.NewOutboxRepository()
	janitor, err := infra.NewOutboxJanitor(pool, outboxRepo, cfg.OutboxRetention, cfg.OutboxPurgeSchedule, logger)
	if err != nil {
		return err
	}
	janitor.Start()
	defer janitor.Stop()

	poller := infra.NewOutboxPoller(pool, outboxRepo, producer, nil, infra.OutboxPollerConfig{
		Interval:    cfg.OutboxPollInterval,
		BatchSize:   cfg.OutboxBatchSize,
		TopicPrefix: cfg.KafkaTopicPrefix,
	}, logger)

	// Run blocks until the signal context is cancelled.
	poller.Run(ctx)
	logger.Info("outbox-relay shutting down")
	return nil
}
