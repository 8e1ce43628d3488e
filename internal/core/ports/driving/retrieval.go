package driving

import (
	"context"

	"github.com/custodia-labs/tutora-cli/internal/core/domain"
)

// RetrievalService finds the chunks most relevant to a question.
type RetrievalService interface {
	// Retrieve embeds the question and returns the owner's k most
	// similar chunks, best first. k <= 0 falls back to the default.
	// An owner with no indexed material gets an empty slice, not an
	// error.
	Retrieve(ctx context.Context, question, ownerID string, k int) ([]domain.RetrievedChunk, error)
}
