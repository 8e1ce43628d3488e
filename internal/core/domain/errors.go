package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// Ingestion errors.

	// ErrUnsupportedFormat indicates a file extension outside pdf/txt/md.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrExtractionFailed indicates text could not be decoded or extracted
	// from a supported file.
	ErrExtractionFailed = errors.New("extraction failed")

	// ErrNotOwner indicates an operation on a document the requesting
	// owner does not hold.
	ErrNotOwner = errors.New("document belongs to a different owner")

	// ErrExcluded indicates the file was previously removed by the
	// owner. Re-ingest is blocked until compaction clears the tombstone.
	ErrExcluded = errors.New("document excluded")

	// AI backend errors.

	// ErrEmbeddingUnavailable indicates the embedding backend is not
	// configured or cannot be reached. Surfaced immediately, never
	// retried: a configuration problem, not a transient one.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the language-model backend is not
	// configured or cannot be reached.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrRateLimited indicates the backend rejected a request for
	// quota/rate reasons. Retryable up to the generation budget.
	ErrRateLimited = errors.New("rate limited")

	// ErrModelNotFound indicates the configured model is not present on
	// the backend (e.g. not pulled into a local Ollama instance).
	ErrModelNotFound = errors.New("model not found")

	// Retrieval errors.

	// ErrNoDocuments indicates the owner has no indexed content to
	// ground a study-material request on.
	ErrNoDocuments = errors.New("no indexed documents")

	// ErrVectorIndexUnavailable indicates the vector index is not configured.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")
)
