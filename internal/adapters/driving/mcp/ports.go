package mcp

import (
	"github.com/custodia-labs/brdify/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the MCP server.
type Ports struct {
	// Brd creates and reads BRD documents.
	Brd driving.BrdService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Brd == nil {
		return ErrMissingBrdService
	}
	return nil
}
