package driving

import (
	"context"

	"github.com/custodia-labs/brdify/internal/core/domain"
)

// IngestService turns many files into documents in parallel.
type IngestService interface {
	// IngestFiles processes each path independently and returns one result
	// per path, in input order. A failing file does not stop the others.
	IngestFiles(ctx context.Context, paths []string) []IngestResult
}

// IngestResult is the outcome of ingesting one file.
type IngestResult struct {
	Path     string
	Document *domain.BrdDocument
	Err      error
}
