package service

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/vidora/vidora/internal/store"
)

type StoreMock struct {
	mock.Mock
}

func (m *StoreMock) CreateAccount(ctx context.Context, email, password, name string) (store.Account, error) {
	args := m.Called(ctx, email, password, name)
	return args.Get(0).(store.Account), args.Error(1)
}

func (m *StoreMock) CreateSession(ctx context.Context, email, password string) (store.Session, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(store.Session), args.Error(1)
}

func (m *StoreMock) DeleteSession(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *StoreMock) CurrentAccount(ctx context.Context) (store.Account, error) {
	args := m.Called(ctx)
	return args.Get(0).(store.Account), args.Error(1)
}

func (m *StoreMock) ListDocuments(ctx context.Context, collection string, q store.Query) ([]store.Document, error) {
	args := m.Called(ctx, collection, q)
	if v := args.Get(0); v != nil {
		return v.([]store.Document), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *StoreMock) CreateDocument(ctx context.Context, collection string, fields map[string]any) (store.Document, error) {
	args := m.Called(ctx, collection, fields)
	return args.Get(0).(store.Document), args.Error(1)
}

func (m *StoreMock) UploadFile(ctx context.Context, r io.Reader, size int64, contentType string) (store.FileRef, error) {
	args := m.Called(ctx, r, size, contentType)
	return args.Get(0).(store.FileRef), args.Error(1)
}

func (m *StoreMock) FileURL(ref store.FileRef, variant store.Variant) (string, error) {
	args := m.Called(ref, variant)
	return args.String(0), args.Error(1)
}
