// Package outbox relays post events from the backend's outbox table to
// Kafka with at-least-once delivery.
package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/vidora/vidora/internal/storage/postgres"
)

// OutboxSource is the slice of the outbox repository the publisher reads
// and acknowledges through.
type OutboxSource interface {
	GetPending(ctx context.Context, limit int) ([]postgres.OutboxRecord, error)
	MarkProcessed(ctx context.Context, id int64) error
}

// EventPublisher delivers one event payload to the broker.
type EventPublisher interface {
	Publish(ctx context.Context, key string, value []byte) error
}

type PublisherConfig struct {
	OutboxRepo OutboxSource
	Producer   EventPublisher
	Interval   time.Duration
	BatchSize  int
	Logger     zerolog.Logger
}

type Publisher struct {
	outboxRepo OutboxSource
	producer   EventPublisher
	interval   time.Duration
	batchSize  int
	logger     zerolog.Logger
}

func NewPublisher(cfg PublisherConfig) (*Publisher, error) {
	if cfg.OutboxRepo == nil {
		return nil, fmt.Errorf("outbox repository is required")
	}
	if cfg.Producer == nil {
		return nil, fmt.Errorf("kafka producer is required")
	}
	if cfg.Interval <= 0 {
		return nil, fmt.Errorf("interval must be positive, got: %v", cfg.Interval)
	}
	if cfg.BatchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive, got: %d", cfg.BatchSize)
	}

	return &Publisher{
		outboxRepo: cfg.OutboxRepo,
		producer:   cfg.Producer,
		interval:   cfg.Interval,
		batchSize:  cfg.BatchSize,
		logger:     cfg.Logger.With().Str("component", "outbox_publisher").Logger(),
	}, nil
}

// Start polls the outbox until ctx is cancelled. Publish failures of
// individual records are logged and retried on a later tick; consumers
// must tolerate duplicates.
func (p *Publisher) Start(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.Info().
		Dur("interval", p.interval).
		Int("batch_size", p.batchSize).
		Msg("outbox publisher started")

	for {
		select {
		case <-ctx.Done():
			p.logger.Info().Err(ctx.Err()).Msg("outbox publisher stopped")
			return ctx.Err()

		case <-ticker.C:
			if err := p.publishBatch(ctx); err != nil {
				p.logger.Error().Err(err).Msg("failed to publish batch")
			}
		}
	}
}

func (p *Publisher) publishBatch(ctx context.Context) error {
	records, err := p.outboxRepo.GetPending(ctx, p.batchSize)
	if err != nil {
		return fmt.Errorf("get pending records: %w", err)
	}
	if len(records) == 0 {
		return nil
	}

	var published, failed int
	for _, record := range records {
		eventLogger := p.logger.With().
			Str("event_id", record.EventID).
			Str("event_type", record.EventType).
			Int64("outbox_id", record.ID).
			Logger()

		if err := p.producer.Publish(ctx, record.EventID, record.Payload); err != nil {
			eventLogger.Error().Err(err).Msg("failed to publish event")
			failed++
			continue
		}
		published++

		if err := p.outboxRepo.MarkProcessed(ctx, record.ID); err != nil {
			// The event was published but stays pending and will go out
			// again. Acceptable under at-least-once delivery.
			eventLogger.Warn().Err(err).Msg("failed to mark event as processed")
		}
	}

	p.logger.Info().
		Int("total", len(records)).
		Int("published", published).
		Int("failed", failed).
		Msg("batch processed")
	return nil
}
