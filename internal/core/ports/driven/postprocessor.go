package driven

import (
	"context"

	"github.com/custodia-labs/tutora-cli/internal/core/domain"
)

// PostProcessor transforms extracted sections into chunks, or refines
// chunks produced by an earlier processor in the pipeline.
type PostProcessor interface {
	// Name returns the processor's identifier for config and logging.
	Name() string

	// Process runs the processor. The first processor in a pipeline
	// receives sections and nil chunks and is expected to create the
	// chunk set; later processors receive the accumulated chunks and
	// may transform them.
	Process(ctx context.Context, doc *domain.Document, sections []domain.Section, chunks []domain.Chunk) ([]domain.Chunk, error)
}

// PostProcessorPipeline runs an ordered set of post-processors.
type PostProcessorPipeline interface {
	// Process runs all processors in order.
	Process(ctx context.Context, doc *domain.Document, sections []domain.Section) ([]domain.Chunk, error)

	// Processors returns the ordered processor names.
	Processors() []string
}
