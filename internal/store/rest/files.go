package rest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/vidora/vidora/internal/store"
)

func (c *Client) filesPath() string {
	return fmt.Sprintf("/storage/buckets/%s/files", url.PathEscape(c.bucketID))
}

func (c *Client) UploadFile(ctx context.Context, r io.Reader, size int64, contentType string) (store.FileRef, error) {
	if contentType == "" {
		return store.FileRef{}, store.ErrInvalidArgument
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+c.filesPath(), r)
	if err != nil {
		return store.FileRef{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = size

	var dto fileDTO
	if err := c.send(req, &dto); err != nil {
		return store.FileRef{}, err
	}
	return store.FileRef{ID: dto.ID, ContentType: dto.ContentType, SizeBytes: dto.SizeBytes}, nil
}

// FileURL builds the public URL for a stored file. No network call.
func (c *Client) FileURL(ref store.FileRef, variant store.Variant) (string, error) {
	if ref.ID == uuid.Nil {
		return "", store.ErrInvalidArgument
	}
	switch variant {
	case store.VariantRaw:
		return fmt.Sprintf("%s%s/%s/view", c.endpoint, c.filesPath(), ref.ID), nil
	case store.VariantPreviewResized:
		return fmt.Sprintf("%s%s/%s/preview", c.endpoint, c.filesPath(), ref.ID), nil
	default:
		return "", fmt.Errorf("unknown variant %q: %w", variant, store.ErrInvalidArgument)
	}
}
