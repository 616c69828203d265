package render

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/custodia-labs/brdify/internal/core/domain"
	"github.com/custodia-labs/brdify/internal/core/ports/driven"
)

// FormatJSON is the JSON export format name.
const FormatJSON = "json"

var _ driven.Renderer = (*JSON)(nil)

// JSON writes the document view as indented JSON.
type JSON struct{}

// NewJSON creates a JSON renderer.
func NewJSON() *JSON {
	return &JSON{}
}

// Format returns "json".
func (r *JSON) Format() string { return FormatJSON }

// Extension returns ".json".
func (r *JSON) Extension() string { return ".json" }

// Render writes doc to w.
func (r *JSON) Render(_ context.Context, doc *domain.BrdDocument, w io.Writer) error {
	if doc == nil {
		return fmt.Errorf("%w: nil document", domain.ErrInvalidInput)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
