package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func linkedDoc() *BrdDocument {
	return &BrdDocument{
		ID: "doc-1",
		Requirements: []Requirement{
			{ID: "r1", Description: "Support SSO"},
			{ID: "r2", Description: "Export to PDF"},
		},
		Decisions: []Decision{{ID: "d1", Description: "Use Okta"}},
		Risks:     []Risk{{ID: "k1", Description: "Vendor lock-in"}},
		Timeline:  []TimelineEntry{{ID: "t1", Milestone: "Beta"}},
		RTM: []RtmEntry{
			{ID: "e1", RequirementID: "r1", DecisionID: "d1", RiskID: "k1"},
			{ID: "e2", RequirementID: "r2", TimelineID: "t1"},
		},
	}
}

// TestBrdDocument_Validate_OK tests a fully linked document
func TestBrdDocument_Validate_OK(t *testing.T) {
	require.NoError(t, linkedDoc().Validate())
}

// TestBrdDocument_Validate_Incomplete tests RTM count mismatch
func TestBrdDocument_Validate_Incomplete(t *testing.T) {
	doc := linkedDoc()
	doc.RTM = doc.RTM[:1]

	err := doc.Validate()
	assert.True(t, errors.Is(err, ErrRTMIncomplete))

	// Reference-only validation accepts a partial matrix.
	assert.NoError(t, doc.ValidateReferences())
}

// TestBrdDocument_Validate_Dangling tests unresolved references
func TestBrdDocument_Validate_Dangling(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(e *RtmEntry)
	}{
		{"requirement", func(e *RtmEntry) { e.RequirementID = "missing" }},
		{"decision", func(e *RtmEntry) { e.DecisionID = "missing" }},
		{"risk", func(e *RtmEntry) { e.RiskID = "missing" }},
		{"timeline", func(e *RtmEntry) { e.TimelineID = "missing" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := linkedDoc()
			tt.mutate(&doc.RTM[0])
			err := doc.Validate()
			assert.True(t, errors.Is(err, ErrDanglingReference), "got %v", err)
		})
	}
}

// TestBrdDocument_Validate_Duplicate tests a requirement traced twice
func TestBrdDocument_Validate_Duplicate(t *testing.T) {
	doc := linkedDoc()
	doc.RTM[1].RequirementID = "r1"

	err := doc.Validate()
	assert.True(t, errors.Is(err, ErrRTMIncomplete))
}

// TestBrdDocument_Summarise tests the listing view
func TestBrdDocument_Summarise(t *testing.T) {
	doc := linkedDoc()
	doc.Title = "BRD from TRANSCRIPT"
	doc.Status = StatusDraft
	doc.Source.SourceType = SourceTypeTranscript

	s := doc.Summarise()
	assert.Equal(t, "doc-1", s.ID)
	assert.Equal(t, "TRANSCRIPT", s.SourceType)
	assert.Equal(t, 2, s.RequirementCount)
	assert.Equal(t, StatusDraft, s.Status)
}

// TestEntityKey tests key formatting
func TestEntityKey(t *testing.T) {
	assert.Equal(t, "REQ-1", EntityKey(KeyPrefixRequirement, 1))
	assert.Equal(t, "TML-12", EntityKey(KeyPrefixTimeline, 12))
}

// TestBrdDocument_Clone tests that clones do not share lists
func TestBrdDocument_Clone(t *testing.T) {
	doc := linkedDoc()
	c := doc.Clone()

	c.Requirements[0].Description = "changed"
	c.RTM = append(c.RTM, RtmEntry{})

	assert.Equal(t, "Support SSO", doc.Requirements[0].Description)
	assert.Len(t, doc.RTM, 2)
}

func TestBrdDocument_Traces(t *testing.T) {
	doc := linkedDoc()
	doc.RTM = append(doc.RTM, RtmEntry{RequirementID: "gone"})
	doc.RTM[1].SourceChunk = "export it"

	traces := doc.Traces()

	require.Len(t, traces, 2)
	assert.Equal(t, "Support SSO", traces[0].Requirement.Description)
	require.NotNil(t, traces[0].Decision)
	assert.Equal(t, "Use Okta", traces[0].Decision.Description)
	require.NotNil(t, traces[0].Risk)
	assert.Nil(t, traces[0].Timeline)

	assert.Equal(t, "export it", traces[1].SourceChunk)
	require.NotNil(t, traces[1].Timeline)
	assert.Equal(t, "Beta", traces[1].Timeline.Milestone)
	assert.Nil(t, traces[1].Decision)
}
