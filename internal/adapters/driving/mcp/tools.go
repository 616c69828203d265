package mcp

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/brdify/internal/core/domain"
	"github.com/custodia-labs/brdify/internal/core/ports/driving"
)

// CreateBrdInput is the input schema for the create_brd tool.
type CreateBrdInput struct {
	Content    string `json:"content" jsonschema:"meeting transcript, email thread or other text to extract requirements from"`
	SourceType string `json:"source_type,omitempty" jsonschema:"TRANSCRIPT, DOCUMENT or TEXT_INPUT (default TEXT_INPUT)"`
	Title      string `json:"title,omitempty" jsonschema:"document title (default: BRD from <source type>)"`
}

// BrdIDInput selects one document.
type BrdIDInput struct {
	ID string `json:"id" jsonschema:"the BRD document id"`
}

// ListBrdsInput is the input schema for the list_brds tool.
type ListBrdsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of documents to return (default 50)"`
}

// BrdOutput is a document as returned to assistants.
type BrdOutput struct {
	ID           string                 `json:"id"`
	Title        string                 `json:"title"`
	Status       string                 `json:"status"`
	Summary      string                 `json:"summary,omitempty"`
	SourceType   string                 `json:"source_type"`
	CreatedAt    string                 `json:"created_at"`
	UpdatedAt    string                 `json:"updated_at"`
	Requirements []domain.Requirement   `json:"requirements"`
	Decisions    []domain.Decision      `json:"decisions"`
	Stakeholders []domain.Stakeholder   `json:"stakeholders"`
	Risks        []domain.Risk          `json:"risks"`
	Timeline     []domain.TimelineEntry `json:"timeline"`
	RTM          []driving.RtmRow       `json:"rtm"`
}

// BrdListOutput is the output schema for the list_brds tool.
type BrdListOutput struct {
	Documents []BrdSummaryOutput `json:"documents"`
	Count     int                `json:"count"`
}

// BrdSummaryOutput is one listed document.
type BrdSummaryOutput struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Status           string `json:"status"`
	SourceType       string `json:"source_type"`
	RequirementCount int    `json:"requirement_count"`
	CreatedAt        string `json:"created_at"`
}

// RtmOutput is the output schema for the get_rtm tool.
type RtmOutput struct {
	ID    string           `json:"id"`
	Rows  []driving.RtmRow `json:"rows"`
	Count int              `json:"count"`
}

const defaultListLimit = 50

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "create_brd",
		Description: "Extract a Business Requirements Document with a traceability matrix from text",
	}, s.handleCreateBrd)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_brd",
		Description: "Get a BRD document with its requirements, decisions, stakeholders, risks and timeline",
	}, s.handleGetBrd)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_brds",
		Description: "List stored BRD documents, newest first",
	}, s.handleListBrds)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_rtm",
		Description: "Get the requirements traceability matrix of a BRD document",
	}, s.handleGetRTM)
}

func (s *Server) handleCreateBrd(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CreateBrdInput,
) (*mcp.CallToolResult, BrdOutput, error) {
	doc, err := s.ports.Brd.Create(ctx, driving.CreateRequest{
		Content:    input.Content,
		SourceType: domain.SourceType(input.SourceType),
		Title:      input.Title,
	})
	if err != nil {
		return nil, BrdOutput{}, err
	}
	return s.documentOutput(ctx, doc)
}

func (s *Server) handleGetBrd(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input BrdIDInput,
) (*mcp.CallToolResult, BrdOutput, error) {
	doc, err := s.ports.Brd.Get(ctx, input.ID)
	if err != nil {
		return nil, BrdOutput{}, err
	}
	return s.documentOutput(ctx, doc)
}

func (s *Server) handleListBrds(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListBrdsInput,
) (*mcp.CallToolResult, BrdListOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	summaries, err := s.ports.Brd.List(ctx)
	if err != nil {
		return nil, BrdListOutput{}, err
	}
	if len(summaries) > limit {
		summaries = summaries[:limit]
	}

	output := BrdListOutput{
		Documents: make([]BrdSummaryOutput, len(summaries)),
		Count:     len(summaries),
	}
	for i, sum := range summaries {
		output.Documents[i] = BrdSummaryOutput{
			ID:               sum.ID,
			Title:            sum.Title,
			Status:           string(sum.Status),
			SourceType:       sum.SourceType,
			RequirementCount: sum.RequirementCount,
			CreatedAt:        formatTime(sum.CreatedAt),
		}
	}
	return nil, output, nil
}

func (s *Server) handleGetRTM(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input BrdIDInput,
) (*mcp.CallToolResult, RtmOutput, error) {
	rows, err := s.ports.Brd.RTM(ctx, input.ID)
	if err != nil {
		return nil, RtmOutput{}, err
	}
	if rows == nil {
		rows = []driving.RtmRow{}
	}
	return nil, RtmOutput{ID: input.ID, Rows: rows, Count: len(rows)}, nil
}

// documentOutput converts doc, resolving its RTM through the service so
// assistants see keys and text rather than internal identifiers.
func (s *Server) documentOutput(ctx context.Context, doc *domain.BrdDocument) (*mcp.CallToolResult, BrdOutput, error) {
	rows, err := s.ports.Brd.RTM(ctx, doc.ID)
	if err != nil {
		return nil, BrdOutput{}, err
	}

	out := BrdOutput{
		ID:           doc.ID,
		Title:        doc.Title,
		Status:       string(doc.Status),
		Summary:      doc.Summary,
		SourceType:   doc.Source.SourceType.String(),
		CreatedAt:    formatTime(doc.CreatedAt),
		UpdatedAt:    formatTime(doc.UpdatedAt),
		Requirements: append([]domain.Requirement{}, doc.Requirements...),
		Decisions:    append([]domain.Decision{}, doc.Decisions...),
		Stakeholders: append([]domain.Stakeholder{}, doc.Stakeholders...),
		Risks:        append([]domain.Risk{}, doc.Risks...),
		Timeline:     append([]domain.TimelineEntry{}, doc.Timeline...),
		RTM:          append([]driving.RtmRow{}, rows...),
	}
	return nil, out, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
