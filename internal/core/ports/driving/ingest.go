package driving

import (
	"context"

	"github.com/custodia-labs/tutora-cli/internal/core/domain"
)

// IngestResult reports the outcome of ingesting one file.
type IngestResult struct {
	// Document is the stored document record.
	Document *domain.Document

	// ChunkCount is the number of chunks produced.
	ChunkCount int

	// Indexed reports whether the chunks were embedded and added to
	// the vector index. False when indexing failed or no embedding
	// provider is configured; the document record still exists.
	Indexed bool

	// Warning describes why indexing was skipped, when it was.
	Warning string
}

// IngestService turns note files into indexed documents.
type IngestService interface {
	// Ingest reads, extracts, chunks, embeds and indexes a single file
	// for the owner. Unreadable files, unsupported formats and excluded
	// filenames abort the ingest; extraction and indexing failures do
	// not - the document record is kept with Indexed false and the
	// failure reported via the result's Warning.
	Ingest(ctx context.Context, path, ownerID string) (*IngestResult, error)

	// IngestDir ingests every supported file directly under dir.
	// Unsupported and excluded files are skipped; other per-file
	// failures are collected rather than aborting the batch.
	IngestDir(ctx context.Context, dir, ownerID string) ([]IngestResult, error)
}
