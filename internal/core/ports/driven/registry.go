package driven

import (
	"context"

	"github.com/custodia-labs/brdify/internal/core/domain"
)

// NormaliserRegistry selects the appropriate normaliser for an upload.
// It maintains a priority-ordered list of normalisers and dispatches
// based on MIME type.
type NormaliserRegistry interface {
	// Normalise transforms a raw document using the best matching normaliser.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*NormaliseResult, error)

	// Register adds a normaliser to the registry.
	Register(normaliser Normaliser)

	// SupportedMIMETypes returns all MIME types that can be normalised.
	SupportedMIMETypes() []string

	// DetectMIMEType returns the MIME type of a file from its path, or ""
	// when the extension is unknown.
	DetectMIMEType(path string) string
}

// RendererRegistry looks up export renderers by format name.
type RendererRegistry interface {
	// Get returns the renderer for a format, or domain.ErrUnsupportedType.
	Get(format string) (Renderer, error)

	// Formats returns the registered format names.
	Formats() []string
}
