package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vidora/vidora/internal/store"
)

func TestListDocuments_ReturnedFieldsAreDetached(t *testing.T) {
	s := New()
	ctx := context.Background()

	created, err := s.CreateDocument(ctx, "videos", map[string]any{"title": "cats"})
	require.NoError(t, err)

	created.Fields["title"] = "scribbled on the create result"

	docs, err := s.ListDocuments(ctx, "videos", store.Query{})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Equal(t, "cats", docs[0].Fields["title"])

	docs[0].Fields["title"] = "scribbled on the list result"

	again, err := s.ListDocuments(ctx, "videos", store.Query{})
	require.NoError(t, err)
	require.Equal(t, "cats", again[0].Fields["title"])
}

func TestCreateDocument_DetachedFromCallerMap(t *testing.T) {
	s := New()
	ctx := context.Background()

	fields := map[string]any{"title": "cats"}
	_, err := s.CreateDocument(ctx, "videos", fields)
	require.NoError(t, err)

	fields["title"] = "mutated after create"

	docs, err := s.ListDocuments(ctx, "videos", store.Query{})
	require.NoError(t, err)
	require.Equal(t, "cats", docs[0].Fields["title"])
}
