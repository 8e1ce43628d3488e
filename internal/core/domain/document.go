package domain

import (
	"strings"
	"time"
)

// Format identifies a supported note file format.
type Format string

// Supported formats.
const (
	// FormatPDF is a PDF file, extracted page by page.
	FormatPDF Format = "pdf"

	// FormatText is a plain text file.
	FormatText Format = "txt"

	// FormatMarkdown is a Markdown file.
	FormatMarkdown Format = "md"
)

// IsValid returns true if the format is recognised.
func (f Format) IsValid() bool {
	switch f {
	case FormatPDF, FormatText, FormatMarkdown:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (f Format) String() string {
	return string(f)
}

// FormatFromPath derives the format from a file path's extension.
// Returns ErrUnsupportedFormat for anything outside pdf/txt/md.
func FormatFromPath(path string) (Format, error) {
	idx := strings.LastIndex(path, ".")
	if idx < 0 || idx == len(path)-1 {
		return "", ErrUnsupportedFormat
	}
	f := Format(strings.ToLower(path[idx+1:]))
	if !f.IsValid() {
		return "", ErrUnsupportedFormat
	}
	return f, nil
}

// Document represents an ingested note with metadata.
// It is the canonical record after normalisation; the full text lives
// in its chunks, not here.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// OwnerID identifies the user the document belongs to.
	// Opaque and stable; supplied by the consuming application.
	OwnerID string

	// Filename is the display name shown in prompts and listings.
	Filename string

	// Path is the original file location on disk.
	Path string

	// Format is the detected note format.
	Format Format

	// Indexed reports whether the document's chunks made it into the
	// vector index. False when the RAG stage failed at ingest time;
	// the record is kept so the note still appears in listings.
	Indexed bool

	// ChunkCount is the number of chunks produced at ingest time.
	ChunkCount int

	// UploadedAt is when the document was ingested.
	UploadedAt time.Time

	// Metadata contains arbitrary key-value pairs.
	Metadata map[string]any
}

// Chunk represents an embeddable passage within a document.
// Documents are split into overlapping chunks for retrieval.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// OwnerID identifies the user the chunk belongs to.
	// Retrieval never surfaces a chunk to a different owner.
	OwnerID string

	// Content is the text content of this chunk.
	Content string

	// Position is the ordinal position within the document.
	Position int

	// Page is the source page for PDF documents, zero otherwise.
	Page int

	// Filename is the source document's display name, carried so
	// prompts can label context blocks without a store lookup.
	Filename string

	// UploadedAt is the source document's ingest timestamp.
	UploadedAt time.Time

	// Embedding is the vector representation for similarity search.
	Embedding []float32

	// Metadata contains chunk-specific key-value pairs.
	Metadata map[string]any
}

// RawDocument represents opaque bytes before normalisation.
type RawDocument struct {
	// OwnerID identifies the user ingesting the document.
	OwnerID string

	// Path is the file location on disk.
	Path string

	// Filename is the display name.
	Filename string

	// MIMEType is the content type (e.g., "application/pdf").
	MIMEType string

	// Content is the raw bytes.
	Content []byte

	// UploadedAt is when ingestion started.
	UploadedAt time.Time

	// Metadata contains caller-specific key-value pairs.
	Metadata map[string]any
}

// Section is one unit of extracted text: a single PDF page, or the
// whole file for plain text and Markdown. Chunking runs per section
// so passages never straddle a page boundary.
type Section struct {
	// Content is the extracted text.
	Content string

	// Page is the 1-based source page for PDFs, zero otherwise.
	Page int
}

// MIMETypeForFormat returns the canonical MIME type for a format.
func MIMETypeForFormat(f Format) string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatMarkdown:
		return "text/markdown"
	case FormatText:
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}
