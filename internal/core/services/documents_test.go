package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tutora-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/tutora-cli/internal/core/domain"
	"github.com/custodia-labs/tutora-cli/internal/core/ports/driven"
)

// --- Test helpers ---

type documentsFixture struct {
	service    *DocumentService
	docStore   *memory.DocumentStore
	exclusions *memory.ExclusionStore
	vectors    *memory.VectorStore
	index      *IndexService
}

func newDocumentsFixture(embedder driven.EmbeddingService) *documentsFixture {
	docStore := memory.NewDocumentStore()
	exclusions := memory.NewExclusionStore()
	vectors := memory.NewVectorStore()
	index := NewIndexService(vectors, embedder, exclusions)

	return &documentsFixture{
		service:    NewDocumentService(docStore, exclusions, index),
		docStore:   docStore,
		exclusions: exclusions,
		vectors:    vectors,
		index:      index,
	}
}

// seed stores a document record with chunks and indexes them.
func (f *documentsFixture) seed(t *testing.T, documentID, ownerID, filename string, contents ...string) {
	t.Helper()
	ctx := context.Background()

	chunks := make([]domain.Chunk, len(contents))
	for i, content := range contents {
		chunks[i] = domain.Chunk{
			ID:         fmt.Sprintf("%s-c%d", documentID, i),
			DocumentID: documentID,
			OwnerID:    ownerID,
			Content:    content,
			Position:   i,
			Filename:   filename,
			UploadedAt: testUploadTime,
		}
	}

	require.NoError(t, f.index.Add(ctx, chunks))
	require.NoError(t, f.docStore.SaveChunks(ctx, documentID, chunks))
	require.NoError(t, f.docStore.SaveDocument(ctx, &domain.Document{
		ID:         documentID,
		OwnerID:    ownerID,
		Filename:   filename,
		Format:     domain.FormatText,
		Indexed:    true,
		ChunkCount: len(chunks),
		UploadedAt: testUploadTime,
	}))
}

// --- Tests ---

func TestDocumentService_List_OwnerOnly(t *testing.T) {
	f := newDocumentsFixture(&mockEmbeddingService{})
	f.seed(t, "d1", "alice", "biology.txt", "content")
	f.seed(t, "d2", "alice", "history.md", "content")
	f.seed(t, "d3", "bob", "physics.txt", "content")

	docs, err := f.service.List(context.Background(), "alice")

	require.NoError(t, err)
	assert.Len(t, docs, 2)
	for _, doc := range docs {
		assert.Equal(t, "alice", doc.OwnerID)
	}
}

func TestDocumentService_Get(t *testing.T) {
	f := newDocumentsFixture(&mockEmbeddingService{})
	f.seed(t, "d1", "alice", "biology.txt", "content")

	doc, err := f.service.Get(context.Background(), "d1")

	require.NoError(t, err)
	assert.Equal(t, "biology.txt", doc.Filename)
}

func TestDocumentService_Get_NotFound(t *testing.T) {
	f := newDocumentsFixture(&mockEmbeddingService{})

	_, err := f.service.Get(context.Background(), "absent")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentService_GetContent_JoinsChunksInOrder(t *testing.T) {
	f := newDocumentsFixture(&mockEmbeddingService{})
	ctx := context.Background()

	require.NoError(t, f.docStore.SaveDocument(ctx, &domain.Document{
		ID: "d1", OwnerID: "alice", Filename: "biology.txt",
	}))
	// Saved out of order; positions define the reading order.
	require.NoError(t, f.docStore.SaveChunks(ctx, "d1", []domain.Chunk{
		{ID: "c2", DocumentID: "d1", Content: "third", Position: 2},
		{ID: "c0", DocumentID: "d1", Content: "first", Position: 0},
		{ID: "c1", DocumentID: "d1", Content: "second", Position: 1},
	}))

	content, err := f.service.GetContent(ctx, "d1")

	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\nthird", content)
}

func TestDocumentService_GetContent_NotFound(t *testing.T) {
	f := newDocumentsFixture(&mockEmbeddingService{})

	_, err := f.service.GetContent(context.Background(), "absent")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentService_GetDetails(t *testing.T) {
	f := newDocumentsFixture(&mockEmbeddingService{})
	f.seed(t, "d1", "alice", "biology.txt", "one", "two", "three")

	details, err := f.service.GetDetails(context.Background(), "d1")

	require.NoError(t, err)
	assert.Equal(t, "d1", details.ID)
	assert.Equal(t, "alice", details.OwnerID)
	assert.Equal(t, "biology.txt", details.Filename)
	assert.Equal(t, "txt", details.Format)
	assert.Equal(t, 3, details.ChunkCount)
	assert.True(t, details.Indexed)
	assert.Equal(t, testUploadTime, details.UploadedAt)
}

func TestDocumentService_Remove(t *testing.T) {
	f := newDocumentsFixture(&mockEmbeddingService{fallback: []float32{0, 1, 0}})
	ctx := context.Background()
	f.seed(t, "d1", "alice", "biology.txt", "one", "two")

	before, err := f.vectors.Count(ctx)
	require.NoError(t, err)

	require.NoError(t, f.service.Remove(ctx, "alice", "d1"))

	// Record and chunks are gone.
	_, err = f.docStore.GetDocument(ctx, "d1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	chunks, err := f.docStore.GetChunks(ctx, "d1")
	require.NoError(t, err)
	assert.Empty(t, chunks)

	// Vectors stay until compaction, behind a tombstone.
	after, err := f.vectors.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	excluded, err := f.exclusions.IsExcluded(ctx, "d1")
	require.NoError(t, err)
	assert.True(t, excluded)

	// Retrieval no longer surfaces the document.
	hits, err := f.index.Search(ctx, "anything", "alice", 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestDocumentService_Remove_NotOwner(t *testing.T) {
	f := newDocumentsFixture(&mockEmbeddingService{})
	ctx := context.Background()
	f.seed(t, "d1", "alice", "biology.txt", "content")

	err := f.service.Remove(ctx, "bob", "d1")

	require.ErrorIs(t, err, domain.ErrNotOwner)

	// Nothing was touched.
	_, err = f.docStore.GetDocument(ctx, "d1")
	require.NoError(t, err)
	excluded, err := f.exclusions.IsExcluded(ctx, "d1")
	require.NoError(t, err)
	assert.False(t, excluded)
}

func TestDocumentService_Remove_NotFound(t *testing.T) {
	f := newDocumentsFixture(&mockEmbeddingService{})

	err := f.service.Remove(context.Background(), "alice", "absent")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentService_Remove_AfterPartialFailure(t *testing.T) {
	f := newDocumentsFixture(&mockEmbeddingService{})
	ctx := context.Background()
	f.seed(t, "d1", "alice", "biology.txt", "content")

	// A previous Remove tombstoned the document but died before
	// deleting the record. Running it again must finish the job
	// without stacking tombstones.
	require.NoError(t, f.exclusions.Add(ctx, &domain.Exclusion{
		ID: "excl-d1", OwnerID: "alice", DocumentID: "d1", Filename: "biology.txt",
	}))

	require.NoError(t, f.service.Remove(ctx, "alice", "d1"))

	_, err := f.docStore.GetDocument(ctx, "d1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	tombstones, err := f.exclusions.List(ctx)
	require.NoError(t, err)
	assert.Len(t, tombstones, 1)
}

func TestDocumentService_Compact(t *testing.T) {
	f := newDocumentsFixture(&mockEmbeddingService{})
	ctx := context.Background()
	f.seed(t, "d1", "alice", "biology.txt", "one", "two", "three")
	f.seed(t, "d2", "alice", "history.md", "kept")

	require.NoError(t, f.service.Remove(ctx, "alice", "d1"))

	compacted, err := f.service.Compact(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, compacted)

	// d1's three vectors are reclaimed; the placeholder and d2 remain.
	count, err := f.vectors.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	tombstones, err := f.exclusions.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, tombstones)
}

func TestDocumentService_Compact_NothingToDo(t *testing.T) {
	f := newDocumentsFixture(&mockEmbeddingService{})

	compacted, err := f.service.Compact(context.Background())

	require.NoError(t, err)
	assert.Zero(t, compacted)
}

func TestDocumentService_Compact_NoIndex(t *testing.T) {
	f := newDocumentsFixture(&mockEmbeddingService{})
	f.service.index = nil
	ctx := context.Background()

	require.NoError(t, f.exclusions.Add(ctx, &domain.Exclusion{
		ID: "excl-d1", OwnerID: "alice", DocumentID: "d1", Filename: "biology.txt",
	}))

	compacted, err := f.service.Compact(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, compacted)
	tombstones, err := f.exclusions.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, tombstones)
}

func TestDocumentService_Stats(t *testing.T) {
	f := newDocumentsFixture(&mockEmbeddingService{})
	ctx := context.Background()
	f.seed(t, "d1", "alice", "biology.txt", "one", "two")
	f.seed(t, "d2", "alice", "history.md", "three")
	f.seed(t, "d3", "bob", "physics.txt", "four")

	require.NoError(t, f.service.Remove(ctx, "alice", "d2"))

	stats, err := f.service.Stats(ctx, "alice")

	require.NoError(t, err)
	assert.Equal(t, 1, stats.Documents)          // d2's record is gone
	assert.Equal(t, 1+2+1+1, stats.Vectors)      // placeholder + d1 + d2 (tombstoned) + d3
	assert.Equal(t, 1, stats.Tombstoned)
}

func TestDocumentService_RemoveCompactReingestLifecycle(t *testing.T) {
	// Full lifecycle over one set of stores: ingest, remove, blocked
	// re-ingest, compact, successful re-ingest.
	f := newIngestFixture(&mockEmbeddingService{fallback: []float32{0, 1, 0}})
	docs := NewDocumentService(f.docStore, f.exclusions, f.index)
	retrieval := NewRetrievalService(f.index, f.docStore)
	ctx := context.Background()
	dir := t.TempDir()
	path := writeNote(t, dir, "biology.txt", "Cells divide by mitosis.")

	result, err := f.service.Ingest(ctx, path, "alice")
	require.NoError(t, err)
	require.True(t, result.Indexed)

	require.NoError(t, docs.Remove(ctx, "alice", result.Document.ID))

	// Same filename is blocked until compaction.
	_, err = f.service.Ingest(ctx, path, "alice")
	require.ErrorIs(t, err, domain.ErrExcluded)

	hits, err := retrieval.Retrieve(ctx, "mitosis", "alice", 4)
	require.NoError(t, err)
	assert.Empty(t, hits)

	compacted, err := docs.Compact(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, compacted)

	// Re-ingest works again and the content is retrievable.
	result, err = f.service.Ingest(ctx, path, "alice")
	require.NoError(t, err)
	assert.True(t, result.Indexed)

	hits, err = retrieval.Retrieve(ctx, "mitosis", "alice", 4)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, "Cells divide by mitosis.", hits[0].Chunk.Content)
}

func TestDocumentService_NilStores(t *testing.T) {
	service := NewDocumentService(nil, nil, nil)
	ctx := context.Background()

	_, err := service.List(ctx, "alice")
	assert.ErrorIs(t, err, domain.ErrNotImplemented)

	err = service.Remove(ctx, "alice", "d1")
	assert.ErrorIs(t, err, domain.ErrNotImplemented)

	_, err = service.Compact(ctx)
	assert.ErrorIs(t, err, domain.ErrNotImplemented)

	_, err = service.Stats(ctx, "alice")
	assert.ErrorIs(t, err, domain.ErrNotImplemented)
}
