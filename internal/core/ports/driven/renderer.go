package driven

import (
	"context"
	"io"

	"github.com/custodia-labs/brdify/internal/core/domain"
)

// Renderer writes a document in one export format (PDF, Markdown, JSON).
type Renderer interface {
	// Format returns the format name used to select this renderer.
	Format() string

	// Extension returns the file extension for this format, including the dot.
	Extension() string

	// Render writes the document to w.
	Render(ctx context.Context, doc *domain.BrdDocument, w io.Writer) error
}
