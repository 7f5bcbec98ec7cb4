package httpapi

import (
	"time"

	"github.com/google/uuid"

	"github.com/vidora/vidora/internal/store"
)

type createAccountRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type createSessionRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type createDocumentRequest struct {
	Fields map[string]any `json:"fields"`
}

type accountResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
}

type sessionResponse struct {
	ID        uuid.UUID `json:"id"`
	AccountID uuid.UUID `json:"account_id"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
}

type documentResponse struct {
	ID         uuid.UUID      `json:"id"`
	Collection string         `json:"collection"`
	Fields     map[string]any `json:"fields"`
	CreatedAt  time.Time      `json:"created_at"`
}

type listDocumentsResponse struct {
	Documents []documentResponse `json:"documents"`
}

type fileResponse struct {
	ID          uuid.UUID `json:"id"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
}

func toAccountResponse(a store.Account) accountResponse {
	return accountResponse{ID: a.ID, Email: a.Email, Name: a.Name}
}

func toSessionResponse(s store.Session) sessionResponse {
	return sessionResponse{ID: s.ID, AccountID: s.AccountID, Token: s.Token, CreatedAt: s.CreatedAt}
}

func toDocumentResponse(d store.Document) documentResponse {
	return documentResponse{ID: d.ID, Collection: d.Collection, Fields: d.Fields, CreatedAt: d.CreatedAt}
}
