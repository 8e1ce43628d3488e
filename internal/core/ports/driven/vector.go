package driven

import "context"

// VectorEntry is a single embedding written to the vector store.
type VectorEntry struct {
	// ChunkID identifies the chunk this vector belongs to.
	ChunkID string

	// DocumentID identifies the owning document.
	DocumentID string

	// OwnerID identifies the owner for retrieval filtering.
	OwnerID string

	// Embedding is the vector itself.
	Embedding []float32
}

// VectorHit is a single search result.
type VectorHit struct {
	// ChunkID identifies the matching chunk.
	ChunkID string

	// DocumentID identifies the chunk's document.
	DocumentID string

	// Similarity is the cosine similarity against the query vector,
	// in [-1, 1] with higher meaning closer.
	Similarity float64
}

// VectorStore persists embeddings and answers similarity queries.
// All writes must be durable before the call returns.
type VectorStore interface {
	// Add stores entries. Entries for an existing chunk ID are replaced.
	Add(ctx context.Context, entries []VectorEntry) error

	// Search returns up to k hits for the owner, ordered by descending
	// similarity. Documents listed in excludedDocs are skipped. Entries
	// belonging to other owners are never candidates.
	Search(ctx context.Context, vector []float32, ownerID string, k int, excludedDocs []string) ([]VectorHit, error)

	// DeleteByDocument removes all entries for a document.
	DeleteByDocument(ctx context.Context, documentID string) error

	// Count returns the number of stored entries.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}
