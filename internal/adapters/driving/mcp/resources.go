package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for brdify resources.
	uriScheme = "brdify://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "brds",
		Name:        "brds",
		Description: "List of stored BRD documents",
		MIMEType:    "application/json",
	}, s.handleBrdsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "brds/{id}",
		Name:        "brd-markdown",
		Description: "A BRD document rendered as Markdown",
		MIMEType:    "text/markdown",
	}, s.handleBrdMarkdownResource)
}

// handleBrdsResource returns summaries of all documents.
func (s *Server) handleBrdsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	summaries, err := s.ports.Brd.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	data, err := json.MarshalIndent(summaries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling documents: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleBrdMarkdownResource renders one document as Markdown.
func (s *Server) handleBrdMarkdownResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	id := extractBrdID(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	var buf bytes.Buffer
	if err := s.ports.Brd.Render(ctx, id, "markdown", &buf); err != nil {
		return nil, fmt.Errorf("rendering document: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/markdown",
			Text:     buf.String(),
		}},
	}, nil
}

// extractBrdID extracts the document ID from a URI like brdify://brds/{id}.
func extractBrdID(uri string) string {
	const prefix = uriScheme + "brds/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
