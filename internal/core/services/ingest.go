package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/brdify/internal/core/domain"
	"github.com/custodia-labs/brdify/internal/core/ports/driving"
	"github.com/custodia-labs/brdify/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService creates one document per file, several files at a time.
// Each document's own pipeline stays sequential.
type IngestService struct {
	brd         driving.BrdService
	concurrency int
}

// NewIngestService creates an ingest service running at most concurrency
// documents at once. Values below one mean one.
func NewIngestService(brd driving.BrdService, concurrency int) *IngestService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &IngestService{brd: brd, concurrency: concurrency}
}

// IngestFiles processes each path independently and returns one result
// per path, in input order.
func (s *IngestService) IngestFiles(ctx context.Context, paths []string) []driving.IngestResult {
	results := make([]driving.IngestResult, len(paths))

	// Failures are recorded per file, so the group never cancels.
	var g errgroup.Group
	g.SetLimit(s.concurrency)

	for i, path := range paths {
		results[i].Path = path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			doc, err := s.brd.CreateFromFile(ctx, path, "")
			if err != nil {
				logger.Warn("ingest %s: %v", path, err)
				results[i].Err = err
				return nil
			}
			logger.Info("ingested %s as %s", path, doc.ID)
			results[i].Document = doc
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// Succeeded returns the documents of the successful results.
func Succeeded(results []driving.IngestResult) []*domain.BrdDocument {
	var docs []*domain.BrdDocument
	for _, r := range results {
		if r.Err == nil && r.Document != nil {
			docs = append(docs, r.Document)
		}
	}
	return docs
}
