package driven

import (
	"context"

	"github.com/custodia-labs/brdify/internal/core/domain"
)

// BrdStore persists BRD documents and assigns identifiers.
//
// Save replaces every entity list of the document wholesale. Any document,
// source, entity or RTM entry with an empty ID gets a fresh one. The
// returned document holds its lists in the order they were submitted;
// callers resolve positions against it, so implementations must never
// reorder, merge or drop entries.
type BrdStore interface {
	// Save stores the document and returns the stored copy with IDs filled.
	Save(ctx context.Context, doc *domain.BrdDocument) (*domain.BrdDocument, error)

	// Get retrieves a document by ID. Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, id string) (*domain.BrdDocument, error)

	// List returns summaries of all documents, newest first.
	List(ctx context.Context) ([]domain.BrdSummary, error)

	// Delete removes a document and everything it owns.
	// Returns domain.ErrNotFound if absent.
	Delete(ctx context.Context, id string) error
}
