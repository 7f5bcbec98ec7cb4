package rest

import (
	"time"

	"github.com/google/uuid"

	"github.com/vidora/vidora/internal/store"
)

type errorResponse struct {
	Error string `json:"error"`
}

type accountDTO struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
}

type sessionDTO struct {
	ID        uuid.UUID `json:"id"`
	AccountID uuid.UUID `json:"account_id"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
}

type documentDTO struct {
	ID         uuid.UUID      `json:"id"`
	Collection string         `json:"collection"`
	Fields     map[string]any `json:"fields"`
	CreatedAt  time.Time      `json:"created_at"`
}

type fileDTO struct {
	ID          uuid.UUID `json:"id"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
}

type listDocumentsResponse struct {
	Documents []documentDTO `json:"documents"`
}

func (d documentDTO) toDocument() store.Document {
	return store.Document{
		ID:         d.ID,
		Collection: d.Collection,
		Fields:     d.Fields,
		CreatedAt:  d.CreatedAt,
	}
}
