// Package store defines the narrow contract the client core consumes from
// the remote media backend. The wire protocol behind it belongs to the
// backend implementation, not to callers.
package store

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

type Account struct {
	ID    uuid.UUID
	Email string
	Name  string
}

type Session struct {
	ID        uuid.UUID
	AccountID uuid.UUID
	Token     string
	CreatedAt time.Time
}

// Document is a schemaless record in a named collection.
type Document struct {
	ID         uuid.UUID
	Collection string
	Fields     map[string]any
	CreatedAt  time.Time
}

type FileRef struct {
	ID          uuid.UUID
	ContentType string
	SizeBytes   int64
}

// Variant selects which rendition of a stored file a URL points at.
type Variant string

const (
	VariantRaw            Variant = "raw"
	VariantPreviewResized Variant = "previewResized"
)

// Query narrows and orders a document listing. Zero value lists everything
// in insertion order.
type Query struct {
	Equal       map[string]string
	Search      map[string]string
	OrderDescBy string
	Limit       int
}

type Accounts interface {
	CreateAccount(ctx context.Context, email, password, name string) (Account, error)
	CreateSession(ctx context.Context, email, password string) (Session, error)
	DeleteSession(ctx context.Context) error
	CurrentAccount(ctx context.Context) (Account, error)
}

type Documents interface {
	ListDocuments(ctx context.Context, collection string, q Query) ([]Document, error)
	CreateDocument(ctx context.Context, collection string, fields map[string]any) (Document, error)
}

type Files interface {
	UploadFile(ctx context.Context, r io.Reader, size int64, contentType string) (FileRef, error)
	FileURL(ref FileRef, variant Variant) (string, error)
}

type Store interface {
	Accounts
	Documents
	Files
}
