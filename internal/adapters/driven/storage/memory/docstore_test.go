package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tutora-cli/internal/core/domain"
)

func TestNewDocumentStore(t *testing.T) {
	store := NewDocumentStore()
	require.NotNil(t, store)
	assert.NotNil(t, store.documents)
	assert.NotNil(t, store.chunks)
}

func TestDocumentStore_SaveAndGet(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	now := time.Now()
	doc := &domain.Document{
		ID:         "doc-1",
		OwnerID:    "owner-1",
		Filename:   "notes.txt",
		Format:     domain.FormatText,
		Indexed:    true,
		ChunkCount: 3,
		UploadedAt: now,
		Metadata:   map[string]any{"mime_type": "text/plain"},
	}

	require.NoError(t, store.SaveDocument(ctx, doc))

	saved, err := store.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "owner-1", saved.OwnerID)
	assert.Equal(t, "notes.txt", saved.Filename)
	assert.True(t, saved.Indexed)
	assert.Equal(t, 3, saved.ChunkCount)
}

func TestDocumentStore_SaveDocument_Update(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, &domain.Document{
		ID: "doc-1", OwnerID: "owner-1", Indexed: false,
	}))
	require.NoError(t, store.SaveDocument(ctx, &domain.Document{
		ID: "doc-1", OwnerID: "owner-1", Indexed: true,
	}))

	saved, err := store.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.True(t, saved.Indexed)
}

func TestDocumentStore_GetDocument_NotFound(t *testing.T) {
	store := NewDocumentStore()

	_, err := store.GetDocument(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_SaveChunks_OrdersByPosition(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	chunks := []domain.Chunk{
		{ID: "c2", DocumentID: "doc-1", Content: "second", Position: 1},
		{ID: "c1", DocumentID: "doc-1", Content: "first", Position: 0},
	}
	require.NoError(t, store.SaveChunks(ctx, "doc-1", chunks))

	got, err := store.GetChunks(ctx, "doc-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "c1", got[0].ID)
	assert.Equal(t, "c2", got[1].ID)
}

func TestDocumentStore_SaveChunks_ReplacesExistingSet(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.SaveChunks(ctx, "doc-1", []domain.Chunk{
		{ID: "a", DocumentID: "doc-1", Position: 0},
		{ID: "b", DocumentID: "doc-1", Position: 1},
	}))
	require.NoError(t, store.SaveChunks(ctx, "doc-1", []domain.Chunk{
		{ID: "c", DocumentID: "doc-1", Position: 0},
	}))

	got, err := store.GetChunks(ctx, "doc-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "c", got[0].ID)
}

func TestDocumentStore_GetChunk(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.SaveChunks(ctx, "doc-1", []domain.Chunk{
		{ID: "c1", DocumentID: "doc-1", Content: "passage", Position: 0},
	}))

	chunk, err := store.GetChunk(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "passage", chunk.Content)

	_, err = store.GetChunk(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_DeleteDocument(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "doc-1", OwnerID: "owner-1"}))
	require.NoError(t, store.SaveChunks(ctx, "doc-1", []domain.Chunk{
		{ID: "c1", DocumentID: "doc-1", Position: 0},
	}))

	require.NoError(t, store.DeleteDocument(ctx, "doc-1"))

	_, err := store.GetDocument(ctx, "doc-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	chunks, err := store.GetChunks(ctx, "doc-1")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestDocumentStore_ListDocuments_OwnerFilteredNewestFirst(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	base := time.Now()
	require.NoError(t, store.SaveDocument(ctx, &domain.Document{
		ID: "old", OwnerID: "owner-1", UploadedAt: base.Add(-time.Hour),
	}))
	require.NoError(t, store.SaveDocument(ctx, &domain.Document{
		ID: "new", OwnerID: "owner-1", UploadedAt: base,
	}))
	require.NoError(t, store.SaveDocument(ctx, &domain.Document{
		ID: "foreign", OwnerID: "owner-2", UploadedAt: base,
	}))

	docs, err := store.ListDocuments(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "new", docs[0].ID)
	assert.Equal(t, "old", docs[1].ID)
}

func TestDocumentStore_ConcurrentAccess(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			doc := &domain.Document{ID: string(rune('a' + n)), OwnerID: "owner-1"}
			_ = store.SaveDocument(ctx, doc)
			_, _ = store.ListDocuments(ctx, "owner-1")
		}(i)
	}
	wg.Wait()

	docs, err := store.ListDocuments(ctx, "owner-1")
	require.NoError(t, err)
	assert.Len(t, docs, 10)
}
