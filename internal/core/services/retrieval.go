package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/tutora-cli/internal/core/domain"
	"github.com/custodia-labs/tutora-cli/internal/core/ports/driven"
	"github.com/custodia-labs/tutora-cli/internal/core/ports/driving"
	"github.com/custodia-labs/tutora-cli/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// RetrievalService finds the chunks most relevant to a question.
// It is the sole gate between owners: hits come back from the index
// already owner-filtered, and hydration only ever surfaces chunk rows
// written under that owner.
type RetrievalService struct {
	index    *IndexService
	docStore driven.DocumentStore
}

// NewRetrievalService creates a new retrieval service.
func NewRetrievalService(index *IndexService, docStore driven.DocumentStore) *RetrievalService {
	return &RetrievalService{
		index:    index,
		docStore: docStore,
	}
}

// Retrieve embeds the question and returns the owner's k most similar
// chunks, best first. An owner with no indexed material gets an empty
// result, not an error.
func (s *RetrievalService) Retrieve(ctx context.Context, question, ownerID string, k int) ([]domain.RetrievedChunk, error) {
	if s.index == nil || s.docStore == nil {
		return nil, domain.ErrNotImplemented
	}
	if k <= 0 {
		k = domain.AnswerTopK
	}

	hits, err := s.index.Search(ctx, question, ownerID, k)
	if err != nil {
		return nil, err
	}

	results := make([]domain.RetrievedChunk, 0, len(hits))
	for _, hit := range hits {
		chunk, err := s.docStore.GetChunk(ctx, hit.ChunkID)
		if err != nil {
			// The placeholder and tombstoned entries have no chunk row.
			if errors.Is(err, domain.ErrNotFound) {
				logger.Debug("No chunk row for hit %s, skipping", hit.ChunkID)
				continue
			}
			return nil, fmt.Errorf("hydrating chunk %s: %w", hit.ChunkID, err)
		}
		results = append(results, domain.RetrievedChunk{
			Chunk:      *chunk,
			Similarity: hit.Similarity,
		})
	}

	logger.Debug("Retrieved %d/%d chunks for owner %s", len(results), k, ownerID)
	return results, nil
}
