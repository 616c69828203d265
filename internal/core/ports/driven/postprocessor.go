package driven

import (
	"context"

	"github.com/custodia-labs/brdify/internal/core/domain"
)

// PostProcessor prepares source text for extraction.
// PostProcessors are chained in a pipeline (e.g., cleaning, chunking).
type PostProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process takes the source and the chunks produced so far.
	// Text processors (e.g., cleaner) rewrite src.Normalised and pass chunks through.
	// The chunker splits src.Normalised and returns new chunks.
	Process(ctx context.Context, src *domain.SourceData, chunks []domain.SourceChunk) ([]domain.SourceChunk, error)
}

// PostProcessorPipeline chains multiple PostProcessors.
type PostProcessorPipeline interface {
	// Process runs the source through all processors in order.
	// Returns the final chunks after all processing.
	Process(ctx context.Context, src *domain.SourceData) ([]domain.SourceChunk, error)
}
