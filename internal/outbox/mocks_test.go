package outbox

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/vidora/vidora/internal/storage/postgres"
)

type OutboxSourceMock struct {
	mock.Mock
}

func (m *OutboxSourceMock) GetPending(ctx context.Context, limit int) ([]postgres.OutboxRecord, error) {
	args := m.Called(ctx, limit)
	if v := args.Get(0); v != nil {
		return v.([]postgres.OutboxRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *OutboxSourceMock) MarkProcessed(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type EventPublisherMock struct {
	mock.Mock
}

func (m *EventPublisherMock) Publish(ctx context.Context, key string, value []byte) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}
