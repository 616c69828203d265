package driving

import (
	"context"
	"io"

	"github.com/custodia-labs/brdify/internal/core/domain"
)

// BrdService creates, reads, edits and exports BRD documents.
type BrdService interface {
	// Create runs the extraction pipeline over text and stores the result.
	// It either returns a document with a complete RTM or fails; a partial
	// document is never returned or left behind.
	Create(ctx context.Context, req CreateRequest) (*domain.BrdDocument, error)

	// CreateFromFile reads and normalises a file, then runs Create.
	// An empty title keeps the default.
	CreateFromFile(ctx context.Context, path, title string) (*domain.BrdDocument, error)

	// Get retrieves a document by ID.
	Get(ctx context.Context, id string) (*domain.BrdDocument, error)

	// List returns summaries of all documents, newest first.
	List(ctx context.Context) ([]domain.BrdSummary, error)

	// Delete removes a document.
	Delete(ctx context.Context, id string) error

	// RTM returns the traceability view of a document.
	RTM(ctx context.Context, id string) ([]RtmRow, error)

	// Update replaces the entity lists of a document and reconciles its RTM.
	Update(ctx context.Context, id string, upd BrdUpdate) (*domain.BrdDocument, error)

	// Render writes the document in the named format to w.
	Render(ctx context.Context, id, format string, w io.Writer) error

	// Formats returns the supported export formats.
	Formats() []string
}

// CreateRequest describes text to turn into a BRD.
type CreateRequest struct {
	// Content is the text after format normalisation.
	Content string

	// SourceType classifies the text. Defaults to TEXT_INPUT.
	SourceType domain.SourceType

	// URI is the originating file, if any.
	URI string

	// Title overrides the default "BRD from <type>" title.
	Title string
}

// BrdUpdate is a full replacement of a document's mutable lists.
// Identifiers on submitted entities are ignored. Entities that echo the
// Key they were given at creation keep their traceability links.
type BrdUpdate struct {
	Title        *string                `json:"title,omitempty"`
	Summary      *string                `json:"summary,omitempty"`
	Requirements []domain.Requirement   `json:"requirements"`
	Decisions    []domain.Decision      `json:"decisions"`
	Stakeholders []domain.Stakeholder   `json:"stakeholders"`
	Risks        []domain.Risk          `json:"risks"`
	Timeline     []domain.TimelineEntry `json:"timeline"`
}

// RtmRow is one RTM entry resolved to display values.
type RtmRow struct {
	RequirementKey string `json:"requirementKey"`
	Requirement    string `json:"requirement"`
	SourceChunk    string `json:"sourceChunk,omitempty"`
	DecisionKey    string `json:"decisionKey,omitempty"`
	Decision       string `json:"decision,omitempty"`
	RiskKey        string `json:"riskKey,omitempty"`
	Risk           string `json:"risk,omitempty"`
	TimelineKey    string `json:"timelineKey,omitempty"`
	Milestone      string `json:"milestone,omitempty"`
}
