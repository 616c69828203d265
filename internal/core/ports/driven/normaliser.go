package driven

import (
	"context"

	"github.com/custodia-labs/brdify/internal/core/domain"
)

// Normaliser transforms raw uploads into plain text.
// Each normaliser handles specific MIME types (e.g., email, Word).
type Normaliser interface {
	// SupportedMIMETypes returns the MIME types this normaliser handles.
	SupportedMIMETypes() []string

	// Priority returns the selection priority (higher = preferred).
	// Format-specific normalisers should return 50-89.
	// Fallback normalisers should return 1-9.
	Priority() int

	// Normalise extracts the text content of a raw document.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*NormaliseResult, error)
}

// NormaliseResult contains the output of normalisation.
// Note: Normalisation only produces text. Cleaning and chunking are
// handled by the PostProcessor pipeline.
type NormaliseResult struct {
	// Title is a human-readable title derived from the upload.
	Title string

	// Content is the extracted plain text.
	Content string

	// Metadata holds format-specific details (subject, sender, MIME type).
	Metadata map[string]any
}
