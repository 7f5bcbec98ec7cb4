// Package publish orchestrates the two-leg media upload and the metadata
// write that turns a filled form into a video post.
package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/vidora/vidora/internal/nav"
	"github.com/vidora/vidora/internal/notify"
	"github.com/vidora/vidora/internal/posts/models"
	"github.com/vidora/vidora/internal/store"
)

const feedPath = "/home"

var ErrSubmitInProgress = errors.New("submit already in progress")

// PartialUploadError reports that one leg of the dual upload failed. The
// sibling leg's already-uploaded object is not cleaned up here; orphan
// handling is the storage backend's concern.
type PartialUploadError struct {
	Leg string
	Err error
}

func (e *PartialUploadError) Error() string {
	return fmt.Sprintf("%s upload failed: %v", e.Leg, e.Err)
}

func (e *PartialUploadError) Unwrap() error { return e.Err }

// MediaStore is the slice of the backend contract the pipeline needs.
type MediaStore interface {
	UploadFile(ctx context.Context, r io.Reader, size int64, contentType string) (store.FileRef, error)
	FileURL(ref store.FileRef, variant store.Variant) (string, error)
	CreateDocument(ctx context.Context, collection string, fields map[string]any) (store.Document, error)
}

type Config struct {
	Store            MediaStore
	VideosCollection string
	Notifier         notify.Notifier
	Navigator        nav.Navigator
	Logger           zerolog.Logger
}

type Pipeline struct {
	store            MediaStore
	videosCollection string
	notifier         notify.Notifier
	navigator        nav.Navigator
	logger           zerolog.Logger

	mu         sync.Mutex
	form       Form
	submitting bool
}

func New(cfg Config) (*Pipeline, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if cfg.VideosCollection == "" {
		return nil, fmt.Errorf("videos collection is required")
	}
	if cfg.Notifier == nil {
		return nil, fmt.Errorf("notifier is required")
	}
	if cfg.Navigator == nil {
		return nil, fmt.Errorf("navigator is required")
	}
	return &Pipeline{
		store:            cfg.Store,
		videosCollection: cfg.VideosCollection,
		notifier:         cfg.Notifier,
		navigator:        cfg.Navigator,
		logger:           cfg.Logger.With().Str("component", "upload_pipeline").Logger(),
	}, nil
}

func (p *Pipeline) SetTitle(title string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.form.Title = title
}

func (p *Pipeline) SetPrompt(prompt string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.form.Prompt = prompt
}

func (p *Pipeline) AttachVideo(asset *models.MediaAsset) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.form.Video = asset
}

func (p *Pipeline) AttachThumbnail(asset *models.MediaAsset) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.form.Thumbnail = asset
}

func (p *Pipeline) Form() Form {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.form
}

func (p *Pipeline) Submitting() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.submitting
}

// Submit publishes the current form as a post owned by creatorID.
//
// The video and thumbnail legs run concurrently; the metadata write is
// strictly ordered after both settle. If either leg fails no metadata
// record is written. Once validation has passed, the form is reset to its
// empty state on success and failure alike.
func (p *Pipeline) Submit(ctx context.Context, creatorID uuid.UUID) (*models.VideoPost, error) {
	p.mu.Lock()
	if p.submitting {
		p.mu.Unlock()
		return nil, ErrSubmitInProgress
	}
	form := p.form
	if creatorID == uuid.Nil || !form.Complete() {
		p.mu.Unlock()
		p.notifier.Error("Missing fields", "Please fill all fields")
		return nil, fmt.Errorf("incomplete submission: %w", models.ErrValidation)
	}
	p.submitting = true
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.form = Form{}
		p.submitting = false
		p.mu.Unlock()
	}()

	post, err := p.publish(ctx, form, creatorID)
	if err != nil {
		p.logger.Error().Err(err).Str("title", form.Title).Msg("publish failed")
		p.notifier.Error("Error uploading video", err.Error())
		return nil, err
	}

	p.notifier.Success("Success", "Post uploaded successfully")
	p.navigator.Push(feedPath)
	return post, nil
}

func (p *Pipeline) publish(ctx context.Context, form Form, creatorID uuid.UUID) (*models.VideoPost, error) {
	var videoURL, thumbnailURL string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		url, err := p.uploadAsset(gctx, form.Video, store.VariantRaw)
		if err != nil {
			return &PartialUploadError{Leg: "video", Err: err}
		}
		videoURL = url
		return nil
	})
	g.Go(func() error {
		url, err := p.uploadAsset(gctx, form.Thumbnail, store.VariantPreviewResized)
		if err != nil {
			return &PartialUploadError{Leg: "thumbnail", Err: err}
		}
		thumbnailURL = url
		return nil
	})
	if err := g.Wait(); err != nil {
		// The sibling leg may have finished; its object is orphaned in
		// storage, not rolled back here.
		return nil, err
	}

	if videoURL == "" || thumbnailURL == "" {
		return nil, fmt.Errorf("upload produced empty url (video=%q thumbnail=%q)", videoURL, thumbnailURL)
	}

	doc, err := p.store.CreateDocument(ctx, p.videosCollection, map[string]any{
		models.FieldTitle:     form.Title,
		models.FieldPrompt:    form.Prompt,
		models.FieldThumbnail: thumbnailURL,
		models.FieldSourceURL: videoURL,
		models.FieldCreator:   creatorID.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("create post record: %w", err)
	}

	post, err := models.PostFromDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("map post record: %w", err)
	}

	p.logger.Info().Str("post_id", post.ID.String()).Str("title", post.Title).Msg("post published")
	return &post, nil
}

func (p *Pipeline) uploadAsset(ctx context.Context, asset *models.MediaAsset, variant store.Variant) (string, error) {
	ref, err := p.store.UploadFile(ctx, bytes.NewReader(asset.Data), asset.SizeBytes, asset.MIMEType)
	if err != nil {
		return "", err
	}
	url, err := p.store.FileURL(ref, variant)
	if err != nil {
		return "", err
	}
	return url, nil
}
