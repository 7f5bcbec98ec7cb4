// Package httpapi is the dev backend's HTTP surface. It speaks the same
// wire protocol the rest client consumes, backed by pluggable document,
// blob, and account stores.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vidora/vidora/internal/store"
)

const sessionHeader = "X-Vidora-Session"

// AccountStore extends the account contract with token validation for the
// session header. The dev backend tracks a single active session.
type AccountStore interface {
	store.Accounts
	SessionFor(token string) (store.Session, bool)
}

// BlobReader serves stored file bytes.
type BlobReader interface {
	Open(id uuid.UUID) (io.ReadCloser, string, error)
}

type Config struct {
	Accounts   AccountStore
	Documents  store.Documents
	Files      store.Files
	Blobs      BlobReader
	DatabaseID string
	BucketID   string
	Logger     zerolog.Logger
}

type Handler struct {
	accounts   AccountStore
	documents  store.Documents
	files      store.Files
	blobs      BlobReader
	databaseID string
	bucketID   string
	logger     zerolog.Logger
}

func New(cfg Config) (*Handler, error) {
	if cfg.Accounts == nil || cfg.Documents == nil || cfg.Files == nil || cfg.Blobs == nil {
		return nil, fmt.Errorf("accounts, documents, files, and blobs stores are required")
	}
	if cfg.DatabaseID == "" || cfg.BucketID == "" {
		return nil, fmt.Errorf("database id and bucket id are required")
	}
	return &Handler{
		accounts:   cfg.Accounts,
		documents:  cfg.Documents,
		files:      cfg.Files,
		blobs:      cfg.Blobs,
		databaseID: cfg.DatabaseID,
		bucketID:   cfg.BucketID,
		logger:     cfg.Logger.With().Str("component", "httpapi").Logger(),
	}, nil
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid json body")
		return
	}

	acct, err := h.accounts.CreateAccount(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAccountResponse(acct))
}

func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid json body")
		return
	}

	sess, err := h.accounts.CreateSession(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSessionResponse(sess))
}

func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.accounts.SessionFor(r.Header.Get(sessionHeader)); !ok {
		writeErrorJSON(w, http.StatusUnauthorized, "no active session")
		return
	}
	if err := h.accounts.DeleteSession(r.Context()); err != nil {
		h.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) CurrentAccount(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.accounts.SessionFor(r.Header.Get(sessionHeader)); !ok {
		writeErrorJSON(w, http.StatusUnauthorized, "no active session")
		return
	}
	acct, err := h.accounts.CurrentAccount(r.Context())
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountResponse(acct))
}

func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	collection, ok := h.collectionFromPath(w, r)
	if !ok {
		return
	}

	q, err := queryFromRequest(r)
	if err != nil {
		writeErrorJSON(w, http.StatusBadRequest, err.Error())
		return
	}

	docs, err := h.documents.ListDocuments(r.Context(), collection, q)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	resp := listDocumentsResponse{Documents: make([]documentResponse, 0, len(docs))}
	for _, doc := range docs {
		resp.Documents = append(resp.Documents, toDocumentResponse(doc))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	collection, ok := h.collectionFromPath(w, r)
	if !ok {
		return
	}
	defer r.Body.Close()

	var req createDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid json body")
		return
	}

	doc, err := h.documents.CreateDocument(r.Context(), collection, req.Fields)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toDocumentResponse(doc))
}

func (h *Handler) UploadFile(w http.ResponseWriter, r *http.Request) {
	if r.PathValue("bucket") != h.bucketID {
		writeErrorJSON(w, http.StatusNotFound, "unknown bucket")
		return
	}
	defer r.Body.Close()

	contentType := r.Header.Get("Content-Type")
	ref, err := h.files.UploadFile(r.Context(), r.Body, r.ContentLength, contentType)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, fileResponse{ID: ref.ID, ContentType: ref.ContentType, SizeBytes: ref.SizeBytes})
}

func (h *Handler) ServeFile(w http.ResponseWriter, r *http.Request) {
	if r.PathValue("bucket") != h.bucketID {
		writeErrorJSON(w, http.StatusNotFound, "unknown bucket")
		return
	}
	variant := r.PathValue("variant")
	if variant != "view" && variant != "preview" {
		writeErrorJSON(w, http.StatusNotFound, "unknown variant")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid file id")
		return
	}

	blob, contentType, err := h.blobs.Open(id)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	defer blob.Close()

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, blob); err != nil {
		h.logger.Warn().Err(err).Str("file_id", id.String()).Msg("serve file interrupted")
	}
}

func (h *Handler) collectionFromPath(w http.ResponseWriter, r *http.Request) (string, bool) {
	if r.PathValue("db") != h.databaseID {
		writeErrorJSON(w, http.StatusNotFound, "unknown database")
		return "", false
	}
	collection := r.PathValue("col")
	if collection == "" {
		writeErrorJSON(w, http.StatusBadRequest, "missing collection")
		return "", false
	}
	return collection, true
}

// queryFromRequest decodes equal/search params of the form "field:value".
func queryFromRequest(r *http.Request) (store.Query, error) {
	var q store.Query

	params := r.URL.Query()
	for _, raw := range params["equal"] {
		field, value, ok := strings.Cut(raw, ":")
		if !ok || field == "" {
			return store.Query{}, fmt.Errorf("bad equal filter %q", raw)
		}
		if q.Equal == nil {
			q.Equal = make(map[string]string)
		}
		q.Equal[field] = value
	}
	for _, raw := range params["search"] {
		field, value, ok := strings.Cut(raw, ":")
		if !ok || field == "" {
			return store.Query{}, fmt.Errorf("bad search filter %q", raw)
		}
		if q.Search == nil {
			q.Search = make(map[string]string)
		}
		q.Search[field] = value
	}
	q.OrderDescBy = params.Get("orderDesc")
	if raw := params.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return store.Query{}, fmt.Errorf("bad limit %q", raw)
		}
		q.Limit = limit
	}
	return q, nil
}

func (h *Handler) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrInvalidArgument):
		writeErrorJSON(w, http.StatusBadRequest, "invalid argument")
	case errors.Is(err, store.ErrNotAuthenticated):
		writeErrorJSON(w, http.StatusUnauthorized, "not authenticated")
	case errors.Is(err, store.ErrNotFound):
		writeErrorJSON(w, http.StatusNotFound, "not found")
	case errors.Is(err, store.ErrConflict):
		writeErrorJSON(w, http.StatusConflict, "conflict")
	default:
		h.logger.Error().Err(err).Msg("internal error")
		writeErrorJSON(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorJSON(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
