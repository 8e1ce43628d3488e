package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFormat_IsValid tests all valid and invalid formats
func TestFormat_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		format   Format
		expected bool
	}{
		{
			name:     "pdf is valid",
			format:   FormatPDF,
			expected: true,
		},
		{
			name:     "txt is valid",
			format:   FormatText,
			expected: true,
		},
		{
			name:     "md is valid",
			format:   FormatMarkdown,
			expected: true,
		},
		{
			name:     "empty string is invalid",
			format:   Format(""),
			expected: false,
		},
		{
			name:     "docx is invalid",
			format:   Format("docx"),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.format.IsValid())
		})
	}
}

// TestFormatFromPath tests extension-based format detection
func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected Format
		wantErr  bool
	}{
		{
			name:     "pdf path",
			path:     "/notes/biology.pdf",
			expected: FormatPDF,
		},
		{
			name:     "uppercase extension",
			path:     "NOTES.PDF",
			expected: FormatPDF,
		},
		{
			name:     "markdown path",
			path:     "lecture.md",
			expected: FormatMarkdown,
		},
		{
			name:     "text path",
			path:     "todo.txt",
			expected: FormatText,
		},
		{
			name:    "unsupported extension",
			path:    "image.png",
			wantErr: true,
		},
		{
			name:    "no extension",
			path:    "Makefile",
			wantErr: true,
		},
		{
			name:    "trailing dot",
			path:    "notes.",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			format, err := FormatFromPath(tt.path)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, format)
		})
	}
}

// TestChunk_Fields tests Chunk structure fields
func TestChunk_Fields(t *testing.T) {
	uploaded := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

	chunk := Chunk{
		ID:         "chunk-1",
		DocumentID: "doc-42",
		OwnerID:    "7",
		Content:    "Mitochondria are the powerhouse of the cell.",
		Position:   3,
		Page:       2,
		Filename:   "biology.pdf",
		UploadedAt: uploaded,
		Embedding:  []float32{0.1, 0.2, 0.3},
	}

	assert.Equal(t, "chunk-1", chunk.ID)
	assert.Equal(t, "doc-42", chunk.DocumentID)
	assert.Equal(t, "7", chunk.OwnerID)
	assert.Equal(t, 3, chunk.Position)
	assert.Equal(t, 2, chunk.Page)
	assert.Equal(t, "biology.pdf", chunk.Filename)
	assert.Equal(t, uploaded, chunk.UploadedAt)
	require.Len(t, chunk.Embedding, 3)
}

// TestMIMETypeForFormat tests MIME type mapping
func TestMIMETypeForFormat(t *testing.T) {
	assert.Equal(t, "application/pdf", MIMETypeForFormat(FormatPDF))
	assert.Equal(t, "text/markdown", MIMETypeForFormat(FormatMarkdown))
	assert.Equal(t, "text/plain", MIMETypeForFormat(FormatText))
	assert.Equal(t, "application/octet-stream", MIMETypeForFormat(Format("docx")))
}
