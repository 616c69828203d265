package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/brdify/internal/core/domain"
)

func TestExtractBrdID(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{name: "valid document URI", uri: "brdify://brds/brd-456", expected: "brd-456"},
		{name: "invalid prefix", uri: "file://brds/brd-456", expected: ""},
		{name: "nested path", uri: "brdify://brds/brd-456/rtm", expected: ""},
		{name: "empty URI", uri: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractBrdID(tt.uri))
		})
	}
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleBrdsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns summaries", func(t *testing.T) {
		server := newTestServer(t, &mockBrdService{summaries: []domain.BrdSummary{
			{ID: "brd-1", Title: "Kickoff", Status: domain.StatusDraft},
		}})

		result, err := server.handleBrdsResource(ctx, makeReadResourceRequest("brdify://brds"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
		assert.Contains(t, result.Contents[0].Text, `"id": "brd-1"`)
		assert.Contains(t, result.Contents[0].Text, "Kickoff")
	})

	t.Run("returns error on list failure", func(t *testing.T) {
		server := newTestServer(t, &mockBrdService{err: errors.New("database error")})

		_, err := server.handleBrdsResource(ctx, makeReadResourceRequest("brdify://brds"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "listing documents")
	})
}

func TestServer_handleBrdMarkdownResource(t *testing.T) {
	ctx := context.Background()

	t.Run("renders markdown", func(t *testing.T) {
		server := newTestServer(t, &mockBrdService{})

		result, err := server.handleBrdMarkdownResource(ctx, makeReadResourceRequest("brdify://brds/brd-9"))

		require.NoError(t, err)
		assert.Equal(t, "# brd-9 (markdown)\n", result.Contents[0].Text)
		assert.Equal(t, "text/markdown", result.Contents[0].MIMEType)
	})

	t.Run("invalid URI returns not found", func(t *testing.T) {
		server := newTestServer(t, &mockBrdService{})
		_, err := server.handleBrdMarkdownResource(ctx, makeReadResourceRequest("brdify://other/x"))
		require.Error(t, err)
	})

	t.Run("render failure is wrapped", func(t *testing.T) {
		server := newTestServer(t, &mockBrdService{err: domain.ErrNotFound})
		_, err := server.handleBrdMarkdownResource(ctx, makeReadResourceRequest("brdify://brds/x"))
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Contains(t, err.Error(), "rendering document")
	})
}
