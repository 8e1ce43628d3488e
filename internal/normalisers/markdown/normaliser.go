// Package markdown normalises Markdown notes.
package markdown

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/custodia-labs/tutora-cli/internal/core/domain"
	"github.com/custodia-labs/tutora-cli/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles Markdown documents. The text is kept verbatim,
// formatting included, so retrieval returns what the user wrote; the
// whole file becomes a single section.
type Normaliser struct{}

// New creates a new Markdown normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/markdown", "text/x-markdown"}
}

// SupportedFormats returns the document formats this normaliser handles.
func (n *Normaliser) SupportedFormats() []domain.Format {
	return []domain.Format{domain.FormatMarkdown}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Higher than the plaintext fallback
}

// Normalise converts a raw Markdown file into a document with one section.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}
	if !utf8.Valid(raw.Content) {
		return nil, fmt.Errorf("decoding %s: not valid UTF-8: %w", raw.Filename, domain.ErrExtractionFailed)
	}

	content := strings.ReplaceAll(string(raw.Content), "\r\n", "\n")

	uploadedAt := raw.UploadedAt
	if uploadedAt.IsZero() {
		uploadedAt = time.Now()
	}

	doc := &domain.Document{
		ID:         uuid.New().String(),
		OwnerID:    raw.OwnerID,
		Filename:   raw.Filename,
		Path:       raw.Path,
		Format:     domain.FormatMarkdown,
		UploadedAt: uploadedAt,
		Metadata:   copyMetadata(raw.Metadata),
	}

	if doc.Metadata == nil {
		doc.Metadata = make(map[string]any)
	}
	doc.Metadata["mime_type"] = raw.MIMEType
	if title := extractHeadingTitle(content); title != "" {
		doc.Metadata["title"] = title
	}

	return &driven.NormaliseResult{
		Document: doc,
		Sections: []domain.Section{{Content: content, Page: 0}},
	}, nil
}

// extractHeadingTitle returns the first H1 heading, or "" if none exists.
func extractHeadingTitle(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "#"))
		}
	}
	return ""
}

// copyMetadata creates a shallow copy of metadata.
func copyMetadata(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
