package publish

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vidora/vidora/internal/nav"
	"github.com/vidora/vidora/internal/notify"
	"github.com/vidora/vidora/internal/posts/models"
	"github.com/vidora/vidora/internal/store"
	"github.com/vidora/vidora/internal/store/memory"
)

const videosCollection = "videos"

func newPipeline(t *testing.T, st MediaStore) (*Pipeline, *notify.Recorder, *nav.Memory) {
	t.Helper()
	rec := &notify.Recorder{}
	navigator := nav.NewMemory("/create")
	p, err := New(Config{
		Store:            st,
		VideosCollection: videosCollection,
		Notifier:         rec,
		Navigator:        navigator,
		Logger:           zerolog.Nop(),
	})
	require.NoError(t, err)
	return p, rec, navigator
}

func videoAsset(size int) *models.MediaAsset {
	return &models.MediaAsset{
		URI:         "file:///clips/v.mp4",
		MIMEType:    "video/mp4",
		SizeBytes:   int64(size),
		DisplayName: "v.mp4",
		Data:        bytes.Repeat([]byte{0x56}, size),
	}
}

func thumbnailAsset(size int) *models.MediaAsset {
	return &models.MediaAsset{
		URI:         "file:///clips/t.jpg",
		MIMEType:    "image/jpeg",
		SizeBytes:   int64(size),
		DisplayName: "t.jpg",
		Data:        bytes.Repeat([]byte{0x54}, size),
	}
}

func fillForm(p *Pipeline) {
	p.SetTitle("My Clip")
	p.SetPrompt("a clip")
	p.AttachVideo(videoAsset(1024))
	p.AttachThumbnail(thumbnailAsset(256))
}

func TestSubmit_ValidationFailsFast(t *testing.T) {
	ctx := context.Background()
	creator := uuid.New()

	cases := []struct {
		name string
		fill func(p *Pipeline)
	}{
		{name: "empty form", fill: func(p *Pipeline) {}},
		{name: "missing title", fill: func(p *Pipeline) {
			fillForm(p)
			p.SetTitle("   ")
		}},
		{name: "missing prompt", fill: func(p *Pipeline) {
			fillForm(p)
			p.SetPrompt("")
		}},
		{name: "missing video", fill: func(p *Pipeline) {
			fillForm(p)
			p.AttachVideo(nil)
		}},
		{name: "missing thumbnail", fill: func(p *Pipeline) {
			fillForm(p)
			p.AttachThumbnail(nil)
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st := new(MediaStoreMock)
			p, rec, navigator := newPipeline(t, st)
			tc.fill(p)
			before := p.Form()

			post, err := p.Submit(ctx, creator)
			require.ErrorIs(t, err, models.ErrValidation)
			require.Nil(t, post)

			// No network call is attempted and the form is left as typed.
			st.AssertNotCalled(t, "UploadFile", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			st.AssertNotCalled(t, "CreateDocument", mock.Anything, mock.Anything, mock.Anything)
			require.Equal(t, before, p.Form())
			require.Len(t, rec.Errors(), 1)
			require.Empty(t, navigator.Pushes())
		})
	}
}

func TestSubmit_MissingCreatorFailsFast(t *testing.T) {
	st := new(MediaStoreMock)
	p, rec, _ := newPipeline(t, st)
	fillForm(p)

	post, err := p.Submit(context.Background(), uuid.Nil)
	require.ErrorIs(t, err, models.ErrValidation)
	require.Nil(t, post)
	require.Len(t, rec.Errors(), 1)
	st.AssertNotCalled(t, "UploadFile", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmit_Success(t *testing.T) {
	ctx := context.Background()
	creator := uuid.New()

	st := new(MediaStoreMock)
	p, rec, navigator := newPipeline(t, st)
	fillForm(p)

	videoRef := store.FileRef{ID: uuid.New(), ContentType: "video/mp4"}
	thumbRef := store.FileRef{ID: uuid.New(), ContentType: "image/jpeg"}
	st.On("UploadFile", mock.Anything, mock.Anything, int64(1024), "video/mp4").Return(videoRef, nil).Once()
	st.On("UploadFile", mock.Anything, mock.Anything, int64(256), "image/jpeg").Return(thumbRef, nil).Once()
	st.On("FileURL", videoRef, store.VariantRaw).Return("https://cdn.test/v/view", nil).Once()
	st.On("FileURL", thumbRef, store.VariantPreviewResized).Return("https://cdn.test/t/preview", nil).Once()

	docID := uuid.New()
	createdAt := time.Date(2026, 2, 3, 12, 0, 0, 0, time.UTC)
	st.On("CreateDocument", mock.Anything, videosCollection, mock.MatchedBy(func(fields map[string]any) bool {
		return fields[models.FieldTitle] == "My Clip" &&
			fields[models.FieldPrompt] == "a clip" &&
			fields[models.FieldSourceURL] == "https://cdn.test/v/view" &&
			fields[models.FieldThumbnail] == "https://cdn.test/t/preview" &&
			fields[models.FieldCreator] == creator.String()
	})).Return(store.Document{
		ID:         docID,
		Collection: videosCollection,
		Fields: map[string]any{
			models.FieldTitle:     "My Clip",
			models.FieldPrompt:    "a clip",
			models.FieldSourceURL: "https://cdn.test/v/view",
			models.FieldThumbnail: "https://cdn.test/t/preview",
			models.FieldCreator:   creator.String(),
		},
		CreatedAt: createdAt,
	}, nil).Once()

	post, err := p.Submit(ctx, creator)
	require.NoError(t, err)
	require.NotNil(t, post)
	require.Equal(t, docID, post.ID)
	require.Equal(t, "https://cdn.test/v/view", post.SourceURL)
	require.Equal(t, "https://cdn.test/t/preview", post.ThumbnailURL)
	require.Equal(t, creator, post.CreatorID)

	require.True(t, p.Form().Empty())
	require.Len(t, rec.Successes(), 1)
	require.Empty(t, rec.Errors())
	require.Equal(t, []string{"/home"}, navigator.Pushes())
	st.AssertExpectations(t)
}

func TestSubmit_ThumbnailLegFailure(t *testing.T) {
	ctx := context.Background()
	creator := uuid.New()

	st := new(MediaStoreMock)
	p, rec, navigator := newPipeline(t, st)
	fillForm(p)

	videoRef := store.FileRef{ID: uuid.New(), ContentType: "video/mp4"}
	st.On("UploadFile", mock.Anything, mock.Anything, int64(1024), "video/mp4").Return(videoRef, nil).Maybe()
	st.On("FileURL", videoRef, store.VariantRaw).Return("https://cdn.test/v/view", nil).Maybe()
	st.On("UploadFile", mock.Anything, mock.Anything, int64(256), "image/jpeg").
		Return(store.FileRef{}, errors.New("storage write refused")).Once()

	post, err := p.Submit(ctx, creator)
	require.Error(t, err)
	require.Nil(t, post)

	var partial *PartialUploadError
	require.ErrorAs(t, err, &partial)
	require.Equal(t, "thumbnail", partial.Leg)

	// One leg failing aborts the run before any metadata write.
	st.AssertNotCalled(t, "CreateDocument", mock.Anything, mock.Anything, mock.Anything)
	require.True(t, p.Form().Empty())
	require.Len(t, rec.Errors(), 1)
	require.Empty(t, navigator.Pushes())
}

func TestSubmit_MetadataWriteFailure(t *testing.T) {
	ctx := context.Background()
	creator := uuid.New()

	st := new(MediaStoreMock)
	p, rec, _ := newPipeline(t, st)
	fillForm(p)

	videoRef := store.FileRef{ID: uuid.New()}
	thumbRef := store.FileRef{ID: uuid.New()}
	st.On("UploadFile", mock.Anything, mock.Anything, int64(1024), "video/mp4").Return(videoRef, nil).Once()
	st.On("UploadFile", mock.Anything, mock.Anything, int64(256), "image/jpeg").Return(thumbRef, nil).Once()
	st.On("FileURL", videoRef, store.VariantRaw).Return("https://cdn.test/v/view", nil).Once()
	st.On("FileURL", thumbRef, store.VariantPreviewResized).Return("https://cdn.test/t/preview", nil).Once()
	st.On("CreateDocument", mock.Anything, videosCollection, mock.Anything).
		Return(store.Document{}, store.ErrNetwork).Once()

	post, err := p.Submit(ctx, creator)
	require.ErrorIs(t, err, store.ErrNetwork)
	require.Nil(t, post)
	require.True(t, p.Form().Empty())
	require.Len(t, rec.Errors(), 1)
	st.AssertExpectations(t)
}

func TestSubmit_RejectsOverlappingSubmit(t *testing.T) {
	ctx := context.Background()
	creator := uuid.New()

	st := new(MediaStoreMock)
	p, _, _ := newPipeline(t, st)
	fillForm(p)

	release := make(chan struct{})
	st.On("UploadFile", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { <-release }).
		Return(store.FileRef{}, errors.New("interrupted")).Twice()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = p.Submit(ctx, creator)
	}()

	require.Eventually(t, p.Submitting, time.Second, time.Millisecond)
	_, err := p.Submit(ctx, creator)
	require.ErrorIs(t, err, ErrSubmitInProgress)

	close(release)
	<-done
	require.False(t, p.Submitting())
}

// flakyStore fails uploads of one content type and delegates the rest.
type flakyStore struct {
	*memory.Store
	failContentType string
}

func (f *flakyStore) UploadFile(ctx context.Context, r io.Reader, size int64, contentType string) (store.FileRef, error) {
	if contentType == f.failContentType {
		return store.FileRef{}, errors.New("thumbnail leg down")
	}
	return f.Store.UploadFile(ctx, r, size, contentType)
}

func fileIDFromURL(t *testing.T, url string) uuid.UUID {
	t.Helper()
	trimmed := strings.TrimPrefix(url, "memory://files/")
	id, err := uuid.Parse(trimmed[:strings.Index(trimmed, "/")])
	require.NoError(t, err)
	return id
}

func TestSubmit_EndToEnd(t *testing.T) {
	ctx := context.Background()
	creator := uuid.New()

	mem := memory.New()
	p, rec, navigator := newPipeline(t, mem)

	video := videoAsset(2 << 20)
	thumbnail := thumbnailAsset(100 << 10)
	p.SetTitle("My Clip")
	p.SetPrompt("a clip")
	p.AttachVideo(video)
	p.AttachThumbnail(thumbnail)

	post, err := p.Submit(ctx, creator)
	require.NoError(t, err)
	require.NotNil(t, post)
	require.Equal(t, "My Clip", post.Title)
	require.Equal(t, creator, post.CreatorID)
	require.True(t, strings.HasSuffix(post.SourceURL, "/view"))
	require.True(t, strings.HasSuffix(post.ThumbnailURL, "/preview"))

	// The URLs point at the uploaded bytes.
	stored, ok := mem.FileData(fileIDFromURL(t, post.SourceURL))
	require.True(t, ok)
	require.Equal(t, video.Data, stored)
	stored, ok = mem.FileData(fileIDFromURL(t, post.ThumbnailURL))
	require.True(t, ok)
	require.Equal(t, thumbnail.Data, stored)

	docs, err := mem.ListDocuments(ctx, videosCollection, store.Query{})
	require.NoError(t, err)
	require.Len(t, docs, 1)

	require.True(t, p.Form().Empty())
	require.Len(t, rec.Successes(), 1)
	require.Equal(t, []string{"/home"}, navigator.Pushes())
}

func TestSubmit_EndToEnd_ThumbnailFailure(t *testing.T) {
	ctx := context.Background()
	creator := uuid.New()

	mem := memory.New()
	p, rec, navigator := newPipeline(t, &flakyStore{Store: mem, failContentType: "image/jpeg"})

	p.SetTitle("My Clip")
	p.SetPrompt("a clip")
	p.AttachVideo(videoAsset(2 << 20))
	p.AttachThumbnail(thumbnailAsset(100 << 10))

	post, err := p.Submit(ctx, creator)
	require.Error(t, err)
	require.Nil(t, post)

	docs, err := mem.ListDocuments(ctx, videosCollection, store.Query{})
	require.NoError(t, err)
	require.Empty(t, docs, "no metadata record on partial upload failure")

	require.True(t, p.Form().Empty())
	require.Len(t, rec.Errors(), 1)
	require.Empty(t, navigator.Pushes())
}
