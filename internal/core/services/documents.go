package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/tutora-cli/internal/core/domain"
	"github.com/custodia-labs/tutora-cli/internal/core/ports/driven"
	"github.com/custodia-labs/tutora-cli/internal/core/ports/driving"
	"github.com/custodia-labs/tutora-cli/internal/logger"
)

// DocumentService manages the library of stored documents. Removal is
// a two-step affair: the record and its chunks go immediately, while
// the vectors are tombstoned and only reclaimed by Compact. Retrieval
// filters tombstoned documents out, so a removed document disappears
// from answers the moment Remove returns.
type DocumentService struct {
	docStore   driven.DocumentStore
	exclusions driven.ExclusionStore
	index      *IndexService
}

// Interface guard.
var _ driving.DocumentService = (*DocumentService)(nil)

// NewDocumentService creates a document service over the given stores.
// The index may be nil; Compact then only clears tombstones that have
// no vectors behind them.
func NewDocumentService(docStore driven.DocumentStore, exclusions driven.ExclusionStore, index *IndexService) *DocumentService {
	return &DocumentService{
		docStore:   docStore,
		exclusions: exclusions,
		index:      index,
	}
}

// List returns all documents belonging to the owner.
func (s *DocumentService) List(ctx context.Context, ownerID string) ([]domain.Document, error) {
	if s.docStore == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.docStore.ListDocuments(ctx, ownerID)
}

// Get returns a single document by ID.
func (s *DocumentService) Get(ctx context.Context, documentID string) (*domain.Document, error) {
	if s.docStore == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.docStore.GetDocument(ctx, documentID)
}

// GetContent reassembles the document's extracted text from its stored
// chunks, in chunk order.
func (s *DocumentService) GetContent(ctx context.Context, documentID string) (string, error) {
	if s.docStore == nil {
		return "", domain.ErrNotImplemented
	}

	if _, err := s.docStore.GetDocument(ctx, documentID); err != nil {
		return "", err
	}

	chunks, err := s.docStore.GetChunks(ctx, documentID)
	if err != nil {
		return "", fmt.Errorf("loading chunks: %w", err)
	}

	parts := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		parts = append(parts, chunk.Content)
	}
	return strings.Join(parts, "\n"), nil
}

// GetDetails returns display metadata for a document. The chunk count
// is read live from the store; the count recorded on the document is a
// fallback for stores that cannot list chunks.
func (s *DocumentService) GetDetails(ctx context.Context, documentID string) (*driving.DocumentDetails, error) {
	if s.docStore == nil {
		return nil, domain.ErrNotImplemented
	}

	doc, err := s.docStore.GetDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	chunkCount := doc.ChunkCount
	if chunks, err := s.docStore.GetChunks(ctx, documentID); err == nil {
		chunkCount = len(chunks)
	}

	return &driving.DocumentDetails{
		ID:         doc.ID,
		OwnerID:    doc.OwnerID,
		Filename:   doc.Filename,
		Format:     string(doc.Format),
		ChunkCount: chunkCount,
		Indexed:    doc.Indexed,
		UploadedAt: doc.UploadedAt,
	}, nil
}

// Remove deletes the owner's document. The record and chunks are
// deleted now; the vectors are tombstoned for a later Compact. Only
// the owner may remove a document.
func (s *DocumentService) Remove(ctx context.Context, ownerID, documentID string) error {
	if s.docStore == nil || s.exclusions == nil {
		return domain.ErrNotImplemented
	}

	doc, err := s.docStore.GetDocument(ctx, documentID)
	if err != nil {
		return err
	}
	if doc.OwnerID != ownerID {
		return fmt.Errorf("document %s: %w", documentID, domain.ErrNotOwner)
	}

	excluded, err := s.exclusions.IsExcluded(ctx, documentID)
	if err != nil {
		return fmt.Errorf("checking exclusions: %w", err)
	}
	if !excluded {
		// Tombstone before deleting the record. If the delete fails the
		// document is already invisible to retrieval, and Remove can run
		// again without tripping over its own tombstone.
		exclusion := &domain.Exclusion{
			ID:         fmt.Sprintf("excl-%s", documentID),
			OwnerID:    ownerID,
			DocumentID: documentID,
			Filename:   doc.Filename,
			Reason:     "removed by owner",
			ExcludedAt: time.Now().UTC(),
		}
		if err := s.exclusions.Add(ctx, exclusion); err != nil {
			return fmt.Errorf("recording exclusion: %w", err)
		}
	}

	if err := s.docStore.DeleteDocument(ctx, documentID); err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}

	logger.Info("Removed document %s (%s), vectors tombstoned until compaction", documentID, doc.Filename)
	return nil
}

// Compact physically deletes tombstoned vectors and clears the
// tombstones, across all owners. Tombstones whose vectors cannot be
// deleted are kept so a later run can retry them.
func (s *DocumentService) Compact(ctx context.Context) (int, error) {
	if s.exclusions == nil {
		return 0, domain.ErrNotImplemented
	}

	tombstones, err := s.exclusions.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing tombstones: %w", err)
	}
	if len(tombstones) == 0 {
		logger.Debug("Nothing to compact")
		return 0, nil
	}

	var errs []error
	compacted := 0
	for _, t := range tombstones {
		if s.index != nil {
			if err := s.index.DeleteDocument(ctx, t.DocumentID); err != nil {
				errs = append(errs, fmt.Errorf("document %s: %w", t.DocumentID, err))
				continue
			}
		}
		if err := s.exclusions.Remove(ctx, t.DocumentID); err != nil {
			errs = append(errs, fmt.Errorf("clearing tombstone %s: %w", t.DocumentID, err))
			continue
		}
		compacted++
	}

	logger.Info("Compacted %d of %d tombstoned documents", compacted, len(tombstones))
	return compacted, errors.Join(errs...)
}

// Stats returns the owner's document count alongside index-wide vector
// and tombstone counts.
func (s *DocumentService) Stats(ctx context.Context, ownerID string) (*driving.LibraryStats, error) {
	if s.docStore == nil || s.exclusions == nil {
		return nil, domain.ErrNotImplemented
	}

	docs, err := s.docStore.ListDocuments(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	tombstones, err := s.exclusions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing tombstones: %w", err)
	}

	vectors := 0
	if s.index != nil {
		if vectors, err = s.index.Count(ctx); err != nil {
			return nil, fmt.Errorf("counting vectors: %w", err)
		}
	}

	return &driving.LibraryStats{
		Documents:  len(docs),
		Vectors:    vectors,
		Tombstoned: len(tombstones),
	}, nil
}
