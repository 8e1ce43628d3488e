package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/tutora-cli/internal/core/domain"
	"github.com/custodia-labs/tutora-cli/internal/core/ports/driven"
	"github.com/custodia-labs/tutora-cli/internal/core/ports/driving"
	"github.com/custodia-labs/tutora-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService turns note files into indexed documents. The record
// operation and the RAG stage are deliberately decoupled: a failure to
// extract, chunk, embed or index never discards the document record,
// it just leaves the document unsearchable with a warning.
type IngestService struct {
	docStore   driven.DocumentStore
	exclusions driven.ExclusionStore
	registry   driven.NormaliserRegistry
	pipeline   driven.PostProcessorPipeline
	index      *IndexService
}

// NewIngestService creates a new ingest service.
// The index may be nil when no embedding provider is configured;
// documents are then stored without being searchable.
func NewIngestService(
	docStore driven.DocumentStore,
	exclusions driven.ExclusionStore,
	registry driven.NormaliserRegistry,
	pipeline driven.PostProcessorPipeline,
	index *IndexService,
) *IngestService {
	return &IngestService{
		docStore:   docStore,
		exclusions: exclusions,
		registry:   registry,
		pipeline:   pipeline,
		index:      index,
	}
}

// Ingest reads, extracts, chunks, embeds and indexes a single file.
func (s *IngestService) Ingest(ctx context.Context, path, ownerID string) (*driving.IngestResult, error) {
	if s.docStore == nil || s.registry == nil || s.pipeline == nil {
		return nil, domain.ErrNotImplemented
	}
	if ownerID == "" || ownerID == placeholderOwnerID {
		return nil, fmt.Errorf("owner ID %q: %w", ownerID, domain.ErrInvalidInput)
	}

	format, err := domain.FormatFromPath(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	filename := filepath.Base(path)

	excluded, err := s.isExcluded(ctx, ownerID, filename)
	if err != nil {
		return nil, err
	}
	if excluded {
		return nil, fmt.Errorf("%q was removed earlier; compact the index to ingest it again: %w",
			filename, domain.ErrExcluded)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	raw := &domain.RawDocument{
		OwnerID:    ownerID,
		Path:       path,
		Filename:   filename,
		MIMEType:   domain.MIMETypeForFormat(format),
		Content:    content,
		UploadedAt: time.Now().UTC(),
	}

	logger.Debug("Ingesting %s (%s) for owner %s", filename, format, ownerID)

	// Extraction and chunking failures downgrade to a warning; the
	// document record is kept either way.
	var warning string
	var sections []domain.Section
	var doc *domain.Document

	result, err := s.registry.Normalise(ctx, raw)
	if err != nil {
		warning = fmt.Sprintf("extraction failed: %v", err)
		doc = fallbackDocument(raw, format)
	} else {
		doc = result.Document
		sections = result.Sections
	}

	var chunks []domain.Chunk
	if warning == "" {
		chunks, err = s.pipeline.Process(ctx, doc, sections)
		if err != nil {
			warning = fmt.Sprintf("chunking failed: %v", err)
			chunks = nil
		}
	}

	doc.ChunkCount = len(chunks)
	doc.Indexed = false

	if err := s.docStore.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("saving document: %w", err)
	}

	if warning == "" && len(chunks) > 0 {
		switch {
		case s.index == nil:
			warning = "vector index not configured; document stored but not searchable"
		default:
			if err := s.index.Add(ctx, chunks); err != nil {
				warning = fmt.Sprintf("indexing skipped: %v", err)
			} else {
				doc.Indexed = true
			}
		}
	}

	// Chunk rows carry their embeddings when indexing succeeded.
	if err := s.docStore.SaveChunks(ctx, doc.ID, chunks); err != nil {
		return nil, fmt.Errorf("saving chunks: %w", err)
	}

	if doc.Indexed {
		if err := s.docStore.SaveDocument(ctx, doc); err != nil {
			return nil, fmt.Errorf("saving document: %w", err)
		}
	}

	if warning != "" {
		logger.Warn("Ingested %s without indexing: %s", filename, warning)
	} else {
		logger.Info("Ingested %s: %d chunks", filename, len(chunks))
	}

	return &driving.IngestResult{
		Document:   doc,
		ChunkCount: len(chunks),
		Indexed:    doc.Indexed,
		Warning:    warning,
	}, nil
}

// IngestDir ingests every supported file directly under dir.
func (s *IngestService) IngestDir(ctx context.Context, dir, ownerID string) ([]driving.IngestResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory: %w", err)
	}

	var results []driving.IngestResult
	var errs []error

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if _, err := domain.FormatFromPath(name); err != nil {
			logger.Debug("Skipping %s: unsupported format", name)
			continue
		}

		result, err := s.Ingest(ctx, filepath.Join(dir, name), ownerID)
		if err != nil {
			if errors.Is(err, domain.ErrExcluded) {
				logger.Debug("Skipping %s: previously removed", name)
				continue
			}
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		results = append(results, *result)
	}

	return results, errors.Join(errs...)
}

// isExcluded reports whether the owner removed a document with this
// filename and has not compacted since.
func (s *IngestService) isExcluded(ctx context.Context, ownerID, filename string) (bool, error) {
	if s.exclusions == nil {
		return false, nil
	}

	exclusions, err := s.exclusions.GetByOwnerID(ctx, ownerID)
	if err != nil {
		return false, fmt.Errorf("checking exclusions: %w", err)
	}
	for _, excl := range exclusions {
		if excl.Filename == filename {
			return true, nil
		}
	}
	return false, nil
}

// fallbackDocument builds a bare record for a file whose content could
// not be extracted, so the note still shows up in listings.
func fallbackDocument(raw *domain.RawDocument, format domain.Format) *domain.Document {
	return &domain.Document{
		ID:         uuid.New().String(),
		OwnerID:    raw.OwnerID,
		Filename:   raw.Filename,
		Path:       raw.Path,
		Format:     format,
		UploadedAt: raw.UploadedAt,
		Metadata:   map[string]any{"mime_type": raw.MIMEType},
	}
}
