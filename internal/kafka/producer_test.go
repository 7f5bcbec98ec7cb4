package kafka

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProducer_Defaults(t *testing.T) {
	producer, err := NewProducer(ProducerConfig{
		Brokers: []string{"localhost:9092"},
		Topic:   "vidora.posts",
		Logger:  zerolog.Nop(),
	})

	require.NoError(t, err)
	assert.NotNil(t, producer)
	assert.Equal(t, "vidora.posts", producer.config.Topic)
	assert.Equal(t, defaultMaxRetries, producer.config.MaxRetries)
	assert.Equal(t, defaultRetryBackoff, producer.config.RetryBackoff)
	assert.Equal(t, defaultWriteTimeout, producer.config.WriteTimeout)
}

func TestNewProducer_Validation(t *testing.T) {
	tests := []struct {
		name    string
		config  ProducerConfig
		wantErr string
	}{
		{
			name: "empty brokers",
			config: ProducerConfig{
				Brokers: []string{},
				Topic:   "vidora.posts",
				Logger:  zerolog.Nop(),
			},
			wantErr: "brokers list is empty",
		},
		{
			name: "empty topic",
			config: ProducerConfig{
				Brokers: []string{"localhost:9092"},
				Logger:  zerolog.Nop(),
			},
			wantErr: "topic is empty",
		},
		{
			name: "negative max retries",
			config: ProducerConfig{
				Brokers:    []string{"localhost:9092"},
				Topic:      "vidora.posts",
				MaxRetries: -1,
				Logger:     zerolog.Nop(),
			},
			wantErr: "max_retries cannot be negative",
		},
		{
			name: "negative retry backoff",
			config: ProducerConfig{
				Brokers:      []string{"localhost:9092"},
				Topic:        "vidora.posts",
				RetryBackoff: -time.Second,
				Logger:       zerolog.Nop(),
			},
			wantErr: "retry_backoff cannot be negative",
		},
		{
			name: "negative write timeout",
			config: ProducerConfig{
				Brokers:      []string{"localhost:9092"},
				Topic:        "vidora.posts",
				WriteTimeout: -time.Second,
				Logger:       zerolog.Nop(),
			},
			wantErr: "write_timeout cannot be negative",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			producer, err := NewProducer(tc.config)
			require.Error(t, err)
			assert.Nil(t, producer)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
