package driven

import (
	"context"

	"github.com/custodia-labs/tutora-cli/internal/core/domain"
)

// ExclusionStore persists document tombstones. An excluded document's
// vectors stay in the index but are filtered out of every search until
// compaction removes them for good.
type ExclusionStore interface {
	// Add records an exclusion.
	Add(ctx context.Context, exclusion *domain.Exclusion) error

	// Remove deletes an exclusion by document ID.
	Remove(ctx context.Context, documentID string) error

	// GetByOwnerID returns all exclusions for an owner.
	GetByOwnerID(ctx context.Context, ownerID string) ([]domain.Exclusion, error)

	// IsExcluded reports whether a document is excluded.
	IsExcluded(ctx context.Context, documentID string) (bool, error)

	// List returns all exclusions.
	List(ctx context.Context) ([]domain.Exclusion, error)

	// Close releases resources.
	Close() error
}
