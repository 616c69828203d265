// Package tui provides an interactive terminal user interface for browsing
// generated BRDs. It implements a driving adapter following hexagonal
// architecture principles.
package tui

import (
	"github.com/custodia-labs/brdify/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the TUI.
type Ports struct {
	// Brd lists, loads and deletes documents.
	Brd driving.BrdService
}

// NewPorts creates a new Ports aggregate.
func NewPorts(brd driving.BrdService) *Ports {
	return &Ports{Brd: brd}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Brd == nil {
		return ErrMissingBrdService
	}
	return nil
}
