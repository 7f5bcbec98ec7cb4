// Package disk stores uploaded blobs on the local filesystem for the dev
// backend. Each file gets its own directory holding the blob and a small
// metadata sidecar.
package disk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vidora/vidora/internal/store"
)

const (
	blobName = "blob"
	metaName = "meta.json"
)

type FileStore struct {
	baseDir string
	baseURL string
	idGen   func() uuid.UUID
	logger  zerolog.Logger
}

var _ store.Files = (*FileStore)(nil)

type fileMeta struct {
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// New creates the store rooted at baseDir. baseURL is the public prefix
// file URLs are built from, e.g. https://api.vidora.dev/v1/storage/buckets/b/files.
func New(baseDir, baseURL string, logger zerolog.Logger) (*FileStore, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("base dir is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create base dir: %w", err)
	}
	return &FileStore{
		baseDir: baseDir,
		baseURL: strings.TrimRight(baseURL, "/"),
		idGen:   uuid.New,
		logger:  logger.With().Str("component", "disk_files").Logger(),
	}, nil
}

func (s *FileStore) UploadFile(ctx context.Context, r io.Reader, size int64, contentType string) (store.FileRef, error) {
	if err := ctx.Err(); err != nil {
		return store.FileRef{}, err
	}
	if contentType == "" {
		return store.FileRef{}, store.ErrInvalidArgument
	}

	id := s.idGen()
	dir := filepath.Join(s.baseDir, id.String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return store.FileRef{}, fmt.Errorf("create file dir: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, blobName))
	if err != nil {
		return store.FileRef{}, fmt.Errorf("create blob: %w", err)
	}
	written, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.RemoveAll(dir)
		return store.FileRef{}, fmt.Errorf("write blob: %w", err)
	}

	meta := fileMeta{ContentType: contentType, SizeBytes: written, UploadedAt: time.Now()}
	payload, err := json.Marshal(meta)
	if err != nil {
		_ = os.RemoveAll(dir)
		return store.FileRef{}, fmt.Errorf("encode meta: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, metaName), payload, 0o644); err != nil {
		_ = os.RemoveAll(dir)
		return store.FileRef{}, fmt.Errorf("write meta: %w", err)
	}

	s.logger.Debug().Str("file_id", id.String()).Int64("size", written).Str("content_type", contentType).Msg("blob stored")
	return store.FileRef{ID: id, ContentType: contentType, SizeBytes: written}, nil
}

func (s *FileStore) FileURL(ref store.FileRef, variant store.Variant) (string, error) {
	if ref.ID == uuid.Nil {
		return "", store.ErrInvalidArgument
	}
	if _, err := os.Stat(filepath.Join(s.baseDir, ref.ID.String(), blobName)); err != nil {
		return "", store.ErrNotFound
	}
	switch variant {
	case store.VariantRaw:
		return fmt.Sprintf("%s/%s/view", s.baseURL, ref.ID), nil
	case store.VariantPreviewResized:
		return fmt.Sprintf("%s/%s/preview", s.baseURL, ref.ID), nil
	default:
		return "", fmt.Errorf("unknown variant %q: %w", variant, store.ErrInvalidArgument)
	}
}

// Open returns the stored blob and its content type for serving. The dev
// backend serves identical bytes for the raw and preview variants; it does
// no image resizing.
func (s *FileStore) Open(id uuid.UUID) (io.ReadCloser, string, error) {
	dir := filepath.Join(s.baseDir, id.String())

	payload, err := os.ReadFile(filepath.Join(dir, metaName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", store.ErrNotFound
		}
		return nil, "", fmt.Errorf("read meta: %w", err)
	}
	var meta fileMeta
	if err := json.Unmarshal(payload, &meta); err != nil {
		return nil, "", fmt.Errorf("decode meta: %w", err)
	}

	f, err := os.Open(filepath.Join(dir, blobName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", store.ErrNotFound
		}
		return nil, "", fmt.Errorf("open blob: %w", err)
	}
	return f, meta.ContentType, nil
}
