package render

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/brdify/internal/core/domain"
	"github.com/custodia-labs/brdify/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.RendererRegistry = (*Registry)(nil)

// Registry maps format names to renderers.
type Registry struct {
	mu        sync.RWMutex
	renderers map[string]driven.Renderer
}

// NewRegistry creates a registry holding the given renderers.
func NewRegistry(renderers ...driven.Renderer) *Registry {
	r := &Registry{renderers: make(map[string]driven.Renderer)}
	for _, rn := range renderers {
		r.Register(rn)
	}
	return r
}

// NewDefaultRegistry creates a registry with every built-in renderer.
func NewDefaultRegistry() *Registry {
	return NewRegistry(NewPDF(), NewMarkdown(), NewJSON())
}

// Register adds a renderer, replacing any with the same format name.
func (r *Registry) Register(rn driven.Renderer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.renderers[strings.ToLower(rn.Format())] = rn
}

// Get returns the renderer for format. Names are case-insensitive and
// "md" is accepted for markdown.
func (r *Registry) Get(format string) (driven.Renderer, error) {
	name := strings.ToLower(strings.TrimSpace(format))
	if name == "md" {
		name = FormatMarkdown
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	rn, ok := r.renderers[name]
	if !ok {
		return nil, fmt.Errorf("%w: export format %q", domain.ErrUnsupportedType, format)
	}
	return rn, nil
}

// Formats returns the registered format names, sorted.
func (r *Registry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.renderers))
	for name := range r.renderers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
