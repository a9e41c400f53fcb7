package infra

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/propcodes/platform/internal/repository"
)

// OutboxJanitor periodically deletes outbox rows that were published longer
// than the retention period ago. Unpublished rows are never touched.
type OutboxJanitor struct {
	db        repository.DBTX
	outbox    repository.OutboxRepository
	retention time.Duration
	schedule  string
	cron      *cron.Cron
	logger    *slog.Logger
	now       func() time.Time
}

// NewOutboxJanitor validates the cron schedule and returns a stopped janitor.
func NewOutboxJanitor(db repository.DBTX, outbox repository.OutboxRepository, retention time.Duration, schedule string, logger *slog.Logger) (*OutboxJanitor, error) {
	if retention <= 0 {
		return nil, fmt.Errorf("outbox retention must be positive, got %s", retention)
	}
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("parse outbox purge schedule %q: %w", schedule, err)
	}
	return &OutboxJanitor{
		db:        db,
		outbox:    outbox,
		retention: retention,
		schedule:  schedule,
		logger:    logger,
		now:       time.Now,
	}, nil
}

// Start schedules the purge job. Call Stop to end it.
func (j *OutboxJanitor) Start() {
	j.cron = cron.New()
	_, _ = j.cron.AddFunc(j.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if _, err := j.PurgeOnce(ctx); err != nil {
			j.logger.Error("outbox purge failed", "error", err)
		}
	})
	j.cron.Start()
	j.logger.Info("outbox janitor started", "schedule", j.schedule, "retention", j.retention)
}

// Stop waits for a running purge to finish.
func (j *OutboxJanitor) Stop() {
	if j.cron == nil {
		return
	}
	<-j.cron.Stop().Done()
}

// PurgeOnce deletes rows published before now minus the retention period.
func (j *OutboxJanitor) PurgeOnce(ctx context.Context) (int64, error) {
	cutoff := j.now().Add(-j.retention)
	n, err := j.outbox.PurgePublished(ctx, j.db, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		j.logger.Info("outbox purged", "rows", n, "cutoff", cutoff)
	}
	return n, nil
}
