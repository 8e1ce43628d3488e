package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/tutora-cli/internal/core/domain"
)

// DocumentService manages an owner's document library.
type DocumentService interface {
	// List returns the owner's documents, newest first.
	List(ctx context.Context, ownerID string) ([]domain.Document, error)

	// Get retrieves a document by ID.
	Get(ctx context.Context, documentID string) (*domain.Document, error)

	// GetContent returns the concatenated content of all chunks.
	GetContent(ctx context.Context, documentID string) (string, error)

	// GetDetails returns metadata for display.
	GetDetails(ctx context.Context, documentID string) (*DocumentDetails, error)

	// Remove deletes the document record and tombstones its vectors so
	// they stop appearing in retrieval. The vectors themselves stay in
	// the index until Compact runs. Returns domain.ErrNotOwner when the
	// document belongs to someone else.
	Remove(ctx context.Context, ownerID, documentID string) error

	// Compact physically deletes tombstoned vectors from the index and
	// clears the tombstones. Returns the number of documents compacted.
	Compact(ctx context.Context) (int, error)

	// Stats returns the owner's document count alongside index-wide
	// vector and tombstone counts.
	Stats(ctx context.Context, ownerID string) (*LibraryStats, error)
}

// DocumentDetails provides a standardised view of document metadata.
type DocumentDetails struct {
	// ID is the unique document identifier.
	ID string

	// OwnerID identifies the document's owner.
	OwnerID string

	// Filename is the original file name.
	Filename string

	// Format is the detected document format.
	Format string

	// ChunkCount is the number of chunks.
	ChunkCount int

	// Indexed reports whether the document's chunks are retrievable.
	Indexed bool

	// UploadedAt is when the document was ingested.
	UploadedAt time.Time
}

// LibraryStats summarises the state of the library and index.
type LibraryStats struct {
	// Documents is the number of stored document records.
	Documents int

	// Vectors is the number of entries in the vector index, including
	// the bootstrap placeholder and any tombstoned entries.
	Vectors int

	// Tombstoned is the number of documents awaiting compaction.
	Tombstoned int
}
