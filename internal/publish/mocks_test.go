package publish

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/vidora/vidora/internal/store"
)

type MediaStoreMock struct {
	mock.Mock
}

func (m *MediaStoreMock) UploadFile(ctx context.Context, r io.Reader, size int64, contentType string) (store.FileRef, error) {
	args := m.Called(ctx, r, size, contentType)
	return args.Get(0).(store.FileRef), args.Error(1)
}

func (m *MediaStoreMock) FileURL(ref store.FileRef, variant store.Variant) (string, error) {
	args := m.Called(ref, variant)
	return args.String(0), args.Error(1)
}

func (m *MediaStoreMock) CreateDocument(ctx context.Context, collection string, fields map[string]any) (store.Document, error) {
	args := m.Called(ctx, collection, fields)
	return args.Get(0).(store.Document), args.Error(1)
}
