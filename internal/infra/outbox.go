package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/propcodes/platform/internal/domain"
	"github.com/propcodes/platform/internal/guard"
	"github.com/propcodes/platform/internal/repository"
)

// EventPublisher is satisfied by *KafkaProducer.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key, value []byte, headers map[string]string) error
}

// OutboxObserver is notified of every publish attempt.
type OutboxObserver interface {
	OutboxPublished(topic string, ok bool)
}

// OutboxPollerConfig tunes an OutboxPoller.
type OutboxPollerConfig struct {
	Interval    time.Duration
	BatchSize   int
	TopicPrefix string
}

// OutboxPoller relays event_outbox rows to the broker and marks them published.
// A topic whose publishes keep failing is skipped by a circuit breaker until it
// recovers; its rows stay unpublished and are retried on a later poll.
type OutboxPoller struct {
	db        repository.DBTX
	outbox    repository.OutboxRepository
	publisher EventPublisher
	breaker   *guard.CircuitBreaker
	observer  OutboxObserver
	logger    *slog.Logger
	cfg       OutboxPollerConfig
}

// NewOutboxPoller creates a new outbox poller. observer may be nil.
func NewOutboxPoller(
	db repository.DBTX,
	outbox repository.OutboxRepository,
	publisher EventPublisher,
	observer OutboxObserver,
	cfg OutboxPollerConfig,
	logger *slog.Logger,
) *OutboxPoller {
	if cfg.Interval <= 0 {
		cfg.Interval = 2 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.TopicPrefix == "" {
		cfg.TopicPrefix = "propcodes"
	}
	return &OutboxPoller{
		db:        db,
		outbox:    outbox,
		publisher: publisher,
		breaker:   guard.NewCircuitBreaker(5, 30*time.Second),
		observer:  observer,
		logger:    logger,
		cfg:       cfg,
	}
}

// Start begins polling in a goroutine. Stops when ctx is cancelled.
func (p *OutboxPoller) Start(ctx context.Context) {
	go p.Run(ctx)
}

// Run polls until ctx is cancelled.
func (p *OutboxPoller) Run(ctx context.Context) {
	p.logger.Info("outbox poller started",
		"interval", p.cfg.Interval,
		"batch_size", p.cfg.BatchSize,
		"topic_prefix", p.cfg.TopicPrefix,
	)

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("outbox poller stopped")
			return
		case <-ticker.C:
			if _, err := p.PollOnce(ctx); err != nil {
				p.logger.Error("outbox poll error", "error", err)
			}
		}
	}
}

// PollOnce publishes one batch and returns how many rows were marked published.
// Once a topic fails within a batch its remaining rows are held back so
// per-topic order is kept.
func (p *OutboxPoller) PollOnce(ctx context.Context) (int, error) {
	events, err := p.outbox.FetchUnpublished(ctx, p.db, p.cfg.BatchSize)
	if err != nil {
		return 0, fmt.Errorf("fetch: %w", err)
	}
	if len(events) == 0 {
		return 0, nil
	}

	held := make(map[string]bool)
	published := make([]int64, 0, len(events))
	for _, e := range events {
		topic := e.Topic(p.cfg.TopicPrefix)
		if held[topic] {
			continue
		}
		if res := p.breaker.Check(ctx, topic); !res.Allowed {
			held[topic] = true
			continue
		}

		if err := p.publish(ctx, topic, e); err != nil {
			p.breaker.RecordFailure(topic)
			p.observe(topic, false)
			p.logger.Error("outbox publish failed",
				"event_id", e.EventID,
				"topic", topic,
				"circuit", p.breaker.State(topic).String(),
				"error", err,
			)
			held[topic] = true
			continue
		}
		p.breaker.RecordSuccess(topic)
		p.observe(topic, true)
		published = append(published, e.SeqID)
	}

	if err := p.outbox.MarkPublished(ctx, p.db, published); err != nil {
		return 0, fmt.Errorf("mark published: %w", err)
	}

	p.logger.Debug("outbox poll complete", "fetched", len(events), "published", len(published))
	return len(published), nil
}

func (p *OutboxPoller) publish(ctx context.Context, topic string, e domain.OutboxDraft) error {
	value, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	key := e.PartitionKey
	if key == "" {
		key = e.AggregateID
	}

	headers := map[string]string{}
	if len(e.Headers) > 0 {
		// Non-string header values are dropped.
		var raw map[string]interface{}
		if err := json.Unmarshal(e.Headers, &raw); err == nil {
			for k, v := range raw {
				if s, ok := v.(string); ok {
					headers[k] = s
				}
			}
		}
	}
	headers["event_id"] = e.EventID.String()
	headers["event_type"] = string(e.EventType)

	return p.publisher.Publish(ctx, topic, []byte(key), value, headers)
}

func (p *OutboxPoller) observe(topic string, ok bool) {
	if p.observer != nil {
		p.observer.OutboxPublished(topic, ok)
	}
}

// LogOutboxRelayMode reports at startup whether this process relays the
// outbox. Without a relay, rows are never published and so never purged.
func LogOutboxRelayMode(logger *slog.Logger, inProcess bool) {
	if inProcess {
		logger.Info("outbox relay running in-process")
		return
	}
	logger.Warn("kafka disabled, outbox rows accumulate until cmd/outbox-relay runs against this database")
}
