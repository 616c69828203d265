// Package mcp provides an MCP (Model Context Protocol) server adapter for brdify.
// It lets AI assistants create BRDs from text and read documents and their
// traceability matrices.
package mcp

import "errors"

// ErrMissingBrdService is returned when the BRD service is not provided.
var ErrMissingBrdService = errors.New("mcp: brd service is required")
