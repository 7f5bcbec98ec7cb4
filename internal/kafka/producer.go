// Package kafka publishes post events to the broker for downstream
// consumers such as search indexers.
package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	kafkago "github.com/segmentio/kafka-go"
)

const (
	defaultMaxRetries   = 3
	defaultRetryBackoff = 100 * time.Millisecond
	defaultWriteTimeout = 10 * time.Second
)

type ProducerConfig struct {
	Brokers      []string
	Topic        string
	MaxRetries   int
	RetryBackoff time.Duration
	WriteTimeout time.Duration
	Logger       zerolog.Logger
}

type Producer struct {
	writer *kafkago.Writer
	config ProducerConfig
	logger zerolog.Logger
}

func NewProducer(cfg ProducerConfig) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("brokers list is empty")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("topic is empty")
	}
	if cfg.MaxRetries < 0 {
		return nil, fmt.Errorf("max_retries cannot be negative, got: %d", cfg.MaxRetries)
	}
	if cfg.RetryBackoff < 0 {
		return nil, fmt.Errorf("retry_backoff cannot be negative, got: %v", cfg.RetryBackoff)
	}
	if cfg.WriteTimeout < 0 {
		return nil, fmt.Errorf("write_timeout cannot be negative, got: %v", cfg.WriteTimeout)
	}

	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.RetryBackoff == 0 {
		cfg.RetryBackoff = defaultRetryBackoff
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = defaultWriteTimeout
	}

	return &Producer{
		writer: &kafkago.Writer{
			Addr:         kafkago.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafkago.LeastBytes{},
			WriteTimeout: cfg.WriteTimeout,
		},
		config: cfg,
		logger: cfg.Logger.With().Str("component", "kafka_producer").Logger(),
	}, nil
}

// Publish writes one message, retrying transient failures with a fixed
// backoff. The last error wins when all attempts fail.
func (p *Producer) Publish(ctx context.Context, key string, value []byte) error {
	var lastErr error
	for attempt := 0; attempt <= p.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.config.RetryBackoff):
			}
			p.logger.Debug().Int("attempt", attempt).Str("key", key).Msg("retrying publish")
		}

		lastErr = p.writer.WriteMessages(ctx, kafkago.Message{
			Key:   []byte(key),
			Value: value,
		})
		if lastErr == nil {
			return nil
		}
	}
	return fmt.Errorf("kafka publish after %d attempts: %w", p.config.MaxRetries+1, lastErr)
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
