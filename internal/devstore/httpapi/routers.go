package httpapi

import "net/http"

func NewRouter(h *Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.Health)

	mux.HandleFunc("POST /v1/account", h.CreateAccount)
	mux.HandleFunc("POST /v1/account/sessions", h.CreateSession)
	mux.HandleFunc("DELETE /v1/account/sessions/current", h.DeleteSession)
	mux.HandleFunc("GET /v1/account", h.CurrentAccount)

	mux.HandleFunc("GET /v1/databases/{db}/collections/{col}/documents", h.ListDocuments)
	mux.HandleFunc("POST /v1/databases/{db}/collections/{col}/documents", h.CreateDocument)

	mux.HandleFunc("POST /v1/storage/buckets/{bucket}/files", h.UploadFile)
	mux.HandleFunc("GET /v1/storage/buckets/{bucket}/files/{id}/{variant}", h.ServeFile)

	return mux
}
