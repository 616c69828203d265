package driven

import (
	"context"

	"github.com/custodia-labs/brdify/internal/core/domain"
)

// Extractor runs one extraction task over a piece of text and returns the
// raw provider output. For ProfileRequirements the output is expected to be
// a JSON object following the extraction schema; for ProfileSummary it is
// prose. Decoding is the caller's job.
type Extractor interface {
	// Extract runs the task selected by profile over text.
	// Failures and timeouts are reported wrapped in domain.ErrExtractorUnavailable.
	Extract(ctx context.Context, text string, profile domain.TaskProfile) (string, error)
}
