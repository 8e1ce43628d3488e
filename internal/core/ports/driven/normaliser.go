package driven

import (
	"context"

	"github.com/custodia-labs/tutora-cli/internal/core/domain"
)

// NormaliseResult is the outcome of extracting a raw document.
type NormaliseResult struct {
	// Document is the normalised document record.
	Document *domain.Document

	// Sections holds the extracted text split into logical sections.
	// Paginated formats produce one section per page; flat formats
	// produce a single section covering the whole file.
	Sections []domain.Section
}

// Normaliser extracts plain text from one raw document format.
type Normaliser interface {
	// SupportedMIMETypes returns the MIME types this normaliser handles.
	SupportedMIMETypes() []string

	// SupportedFormats returns the document formats this normaliser handles.
	SupportedFormats() []domain.Format

	// Priority determines selection order when multiple normalisers
	// support the same MIME type. Higher wins.
	Priority() int

	// Normalise extracts text from the raw document.
	// Returns domain.ErrExtractionFailed (wrapped) when the format is
	// recognised but the content cannot be read.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*NormaliseResult, error)
}

// NormaliserRegistry routes raw documents to the right normaliser.
type NormaliserRegistry interface {
	// Register adds a normaliser to the registry.
	Register(n Normaliser)

	// Normalise selects a normaliser by MIME type and runs it.
	// Returns domain.ErrUnsupportedFormat if no normaliser matches.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*NormaliseResult, error)

	// SupportedMIMETypes returns all MIME types with a registered normaliser.
	SupportedMIMETypes() []string
}
