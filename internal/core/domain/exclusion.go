package domain

import "time"

// Exclusion is a tombstone for a soft-deleted document.
// The document's vectors stay in the index; retrieval consults the
// exclusion set at filter time, and compaction reclaims the space later.
type Exclusion struct {
	// ID is the unique identifier for the exclusion.
	ID string

	// OwnerID identifies the user who removed the document.
	OwnerID string

	// DocumentID is the ID of the excluded document.
	DocumentID string

	// Filename is the display name at the time of removal.
	Filename string

	// Reason is an optional explanation for the exclusion.
	Reason string

	// ExcludedAt is when the document was removed.
	ExcludedAt time.Time
}
