// Package chunker provides a recursive character splitting processor.
package chunker

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/tutora-cli/internal/core/domain"
)

// defaultSeparators is the split priority: paragraph, line, sentence,
// word, and finally single characters.
var defaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// Processor splits section text into overlapping chunks. It prefers
// breaking at paragraph boundaries and degrades towards character
// splits only when a piece is still too large.
// It implements the PostProcessor interface.
type Processor struct {
	chunkSize  int
	overlap    int
	separators []string
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// WithSeparators overrides the split priority list. The final entry
// should be "" so oversized pieces can always be broken up.
func WithSeparators(separators []string) Option {
	return func(p *Processor) {
		if len(separators) > 0 {
			p.separators = separators
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize:  domain.DefaultChunkSize,
		overlap:    domain.DefaultChunkOverlap,
		separators: defaultSeparators,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits each section into chunks. Input chunks are ignored;
// this processor creates the chunk set. Positions run across the whole
// document so chunk order reconstructs the original reading order, and
// each chunk remembers the page of the section it came from.
func (p *Processor) Process(_ context.Context, doc *domain.Document, sections []domain.Section, _ []domain.Chunk) ([]domain.Chunk, error) {
	var chunks []domain.Chunk
	position := 0

	for _, section := range sections {
		for _, content := range p.splitText(section.Content, p.separators) {
			chunk := domain.Chunk{
				ID:         uuid.New().String(),
				DocumentID: doc.ID,
				OwnerID:    doc.OwnerID,
				Content:    content,
				Position:   position,
				Page:       section.Page,
				Filename:   doc.Filename,
				UploadedAt: doc.UploadedAt,
				Metadata:   make(map[string]any),
			}
			chunks = append(chunks, chunk)
			position++
		}
	}

	return chunks, nil
}

// splitText recursively splits text using the first separator present,
// merging the resulting pieces back into chunks of at most chunkSize
// characters. Pieces still too large carry on to the next separator.
func (p *Processor) splitText(text string, separators []string) []string {
	separator := separators[len(separators)-1]
	var next []string
	for i, s := range separators {
		if s == "" {
			separator = s
			break
		}
		if strings.Contains(text, s) {
			separator = s
			next = separators[i+1:]
			break
		}
	}

	splits := splitKeepingSeparator(text, separator)

	var final []string
	var good []string
	for _, s := range splits {
		if len(s) < p.chunkSize {
			good = append(good, s)
			continue
		}
		if len(good) > 0 {
			final = append(final, p.mergeSplits(good)...)
			good = nil
		}
		if len(next) == 0 {
			final = append(final, s)
		} else {
			final = append(final, p.splitText(s, next)...)
		}
	}
	if len(good) > 0 {
		final = append(final, p.mergeSplits(good)...)
	}

	return final
}

// splitKeepingSeparator splits text and re-attaches the separator to
// the start of each following piece, so nothing is lost in the joins.
// An empty separator splits into single characters.
func splitKeepingSeparator(text, separator string) []string {
	parts := strings.Split(text, separator)
	splits := make([]string, 0, len(parts))
	for i, part := range parts {
		if i > 0 && separator != "" {
			part = separator + part
		}
		if part != "" {
			splits = append(splits, part)
		}
	}
	return splits
}

// mergeSplits greedily packs pieces into chunks of at most chunkSize
// characters. When a chunk closes, pieces are dropped from the front
// of the window until at most overlap characters remain; those carry
// into the next chunk.
func (p *Processor) mergeSplits(splits []string) []string {
	var docs []string
	var window []string
	total := 0

	for _, s := range splits {
		if total+len(s) > p.chunkSize && len(window) > 0 {
			if doc := strings.TrimSpace(strings.Join(window, "")); doc != "" {
				docs = append(docs, doc)
			}
			for total > p.overlap || (total+len(s) > p.chunkSize && total > 0) {
				total -= len(window[0])
				window = window[1:]
			}
		}
		window = append(window, s)
		total += len(s)
	}

	if doc := strings.TrimSpace(strings.Join(window, "")); doc != "" {
		docs = append(docs, doc)
	}

	return docs
}
