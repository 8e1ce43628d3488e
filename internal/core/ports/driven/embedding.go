package driven

import "context"

// EmbeddingService generates vector embeddings for text.
// Chunk text and query text go through the same model so they land in
// the same metric space; an index populated by one backend must never
// be searched or extended with vectors from another.
type EmbeddingService interface {
	// Embed generates an embedding vector for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts, preserving order.
	// More efficient than calling Embed repeatedly for remote providers.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size.
	Dimensions() int

	// ModelName returns the active model identifier.
	ModelName() string

	// Ping verifies the service is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
