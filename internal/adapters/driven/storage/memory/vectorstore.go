package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/tutora-cli/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

// VectorStore is an in-memory implementation of driven.VectorStore.
// Search is a flat scan over the owner's entries, matching the
// behaviour of the SQLite adapter without the disk round trip.
type VectorStore struct {
	mu      sync.RWMutex
	entries map[string]driven.VectorEntry
}

// NewVectorStore creates a new in-memory vector store.
func NewVectorStore() *VectorStore {
	return &VectorStore{
		entries: make(map[string]driven.VectorEntry),
	}
}

// Add stores entries. Entries for an existing chunk ID are replaced.
func (s *VectorStore) Add(_ context.Context, entries []driven.VectorEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, entry := range entries {
		stored := entry
		stored.Embedding = make([]float32, len(entry.Embedding))
		copy(stored.Embedding, entry.Embedding)
		s.entries[entry.ChunkID] = stored
	}
	return nil
}

// Search returns up to k hits for the owner, ordered by descending similarity.
func (s *VectorStore) Search(
	_ context.Context, vector []float32, ownerID string, k int, excludedDocs []string,
) ([]driven.VectorHit, error) {
	if k <= 0 {
		return nil, nil
	}

	excluded := make(map[string]bool, len(excludedDocs))
	for _, id := range excludedDocs {
		excluded[id] = true
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var hits []driven.VectorHit
	for _, entry := range s.entries {
		if entry.OwnerID != ownerID || excluded[entry.DocumentID] {
			continue
		}
		similarity, ok := cosineSimilarity(vector, entry.Embedding)
		if !ok {
			continue
		}
		hits = append(hits, driven.VectorHit{
			ChunkID:    entry.ChunkID,
			DocumentID: entry.DocumentID,
			Similarity: similarity,
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Similarity == hits[j].Similarity {
			return hits[i].ChunkID < hits[j].ChunkID
		}
		return hits[i].Similarity > hits[j].Similarity
	})

	if len(hits) > k {
		hits = hits[:k]
	}

	return hits, nil
}

// DeleteByDocument removes all entries for a document.
func (s *VectorStore) DeleteByDocument(_ context.Context, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, entry := range s.entries {
		if entry.DocumentID == documentID {
			delete(s.entries, id)
		}
	}
	return nil
}

// Count returns the number of stored entries.
func (s *VectorStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}

// Close releases resources (no-op for memory store).
func (s *VectorStore) Close() error {
	return nil
}

// cosineSimilarity returns the cosine similarity of two vectors, with
// false when they are not comparable.
func cosineSimilarity(a, b []float32) (float64, bool) {
	if len(a) == 0 || len(a) != len(b) {
		return 0, false
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0, false
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), true
}
