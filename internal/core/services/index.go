package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/tutora-cli/internal/core/domain"
	"github.com/custodia-labs/tutora-cli/internal/core/ports/driven"
	"github.com/custodia-labs/tutora-cli/internal/logger"
)

// Bootstrap identity. A fresh index is seeded with exactly one entry
// under this reserved owner so the backing store always exists; real
// owners never match it and its chunk has no stored row, so it can
// never surface in results.
const (
	placeholderOwnerID    = "0"
	placeholderDocumentID = "0"
	placeholderChunkID    = "0"
	placeholderContent    = "placeholder"
)

// IndexService owns the vector index. It pairs an embedding backend
// with a vector store and serialises every mutation behind a single
// writer lock, so concurrent ingests cannot interleave partial batches.
// Searches do not take the lock; they run against the last committed
// state of the store.
type IndexService struct {
	vectors    driven.VectorStore
	embedder   driven.EmbeddingService
	exclusions driven.ExclusionStore

	mu    sync.Mutex
	ready bool
}

// NewIndexService creates a new index service.
// The embedder may be nil when no provider is configured; every
// operation that needs it then returns domain.ErrEmbeddingUnavailable.
func NewIndexService(
	vectors driven.VectorStore,
	embedder driven.EmbeddingService,
	exclusions driven.ExclusionStore,
) *IndexService {
	return &IndexService{
		vectors:    vectors,
		embedder:   embedder,
		exclusions: exclusions,
	}
}

// Initialise opens the index, seeding the placeholder entry when the
// store is empty. Idempotent; Add and Search call it implicitly.
func (s *IndexService) Initialise(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureLocked(ctx)
}

// ensureLocked bootstraps the index. Caller must hold mu.
func (s *IndexService) ensureLocked(ctx context.Context) error {
	if s.ready {
		return nil
	}
	if s.vectors == nil {
		return domain.ErrVectorIndexUnavailable
	}

	count, err := s.vectors.Count(ctx)
	if err != nil {
		return fmt.Errorf("counting index entries: %w", err)
	}

	if count == 0 {
		if s.embedder == nil {
			return domain.ErrEmbeddingUnavailable
		}
		vec, err := s.embedder.Embed(ctx, placeholderContent)
		if err != nil {
			return fmt.Errorf("embedding placeholder: %w", err)
		}
		seed := driven.VectorEntry{
			ChunkID:    placeholderChunkID,
			DocumentID: placeholderDocumentID,
			OwnerID:    placeholderOwnerID,
			Embedding:  vec,
		}
		// Persisted before the index is considered open, so a fresh
		// store is never observed structurally empty.
		if err := s.vectors.Add(ctx, []driven.VectorEntry{seed}); err != nil {
			return fmt.Errorf("seeding index: %w", err)
		}
		logger.Debug("Vector index bootstrapped with placeholder entry")
	}

	s.ready = true
	return nil
}

// Add embeds chunks in order and appends them to the index. The whole
// batch is embedded, then persisted durably before Add returns.
func (s *IndexService) Add(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLocked(ctx); err != nil {
		return err
	}
	if s.embedder == nil {
		return domain.ErrEmbeddingUnavailable
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}

	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("embedding chunks: got %d vectors for %d chunks", len(vectors), len(chunks))
	}

	entries := make([]driven.VectorEntry, len(chunks))
	for i := range chunks {
		chunks[i].Embedding = vectors[i]
		entries[i] = driven.VectorEntry{
			ChunkID:    chunks[i].ID,
			DocumentID: chunks[i].DocumentID,
			OwnerID:    chunks[i].OwnerID,
			Embedding:  vectors[i],
		}
	}

	if err := s.vectors.Add(ctx, entries); err != nil {
		return fmt.Errorf("adding vectors: %w", err)
	}

	logger.Debug("Indexed %d chunks", len(chunks))
	return nil
}

// Search embeds the query and returns the owner's k most similar
// entries, best first. Tombstoned documents are filtered out; other
// owners' entries are never candidates.
func (s *IndexService) Search(ctx context.Context, query, ownerID string, k int) ([]driven.VectorHit, error) {
	if err := s.Initialise(ctx); err != nil {
		return nil, err
	}
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	excluded, err := s.excludedDocuments(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	hits, err := s.vectors.Search(ctx, vec, ownerID, k, excluded)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}

	logger.Debug("Index search: owner=%s k=%d hits=%d excluded=%d", ownerID, k, len(hits), len(excluded))
	return hits, nil
}

// DeleteDocument physically removes a document's vectors. Used by
// compaction; logical removal is a tombstone, not a call here.
func (s *IndexService) DeleteDocument(ctx context.Context, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLocked(ctx); err != nil {
		return err
	}
	if err := s.vectors.DeleteByDocument(ctx, documentID); err != nil {
		return fmt.Errorf("deleting vectors: %w", err)
	}
	return nil
}

// Count returns the number of entries in the index, including the
// placeholder and any tombstoned entries awaiting compaction.
func (s *IndexService) Count(ctx context.Context) (int, error) {
	if s.vectors == nil {
		return 0, domain.ErrVectorIndexUnavailable
	}
	return s.vectors.Count(ctx)
}

// excludedDocuments returns the owner's tombstoned document IDs.
func (s *IndexService) excludedDocuments(ctx context.Context, ownerID string) ([]string, error) {
	if s.exclusions == nil {
		return nil, nil
	}

	exclusions, err := s.exclusions.GetByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("loading exclusions: %w", err)
	}

	ids := make([]string, 0, len(exclusions))
	for _, excl := range exclusions {
		ids = append(ids, excl.DocumentID)
	}
	return ids, nil
}
