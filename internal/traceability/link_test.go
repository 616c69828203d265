package traceability

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/brdify/internal/core/domain"
	"github.com/custodia-labs/brdify/internal/logger"
)

func TestLink_SingleSignOnRisk(t *testing.T) {
	doc, err := build(chunksOf("We need SSO but worry about lock-in."), []string{
		`{"requirements":[{"description":"Support SSO","relatedRiskIndex":0}], "risks":[{"description":"Vendor lock-in"}]}`,
	})
	require.NoError(t, err)

	require.Len(t, doc.RTM, 1)
	entry := doc.RTM[0]
	assert.Equal(t, doc.Requirements[0].ID, entry.RequirementID)
	assert.Equal(t, "Vendor lock-in", doc.Risks[0].Description)
	assert.Equal(t, doc.Risks[0].ID, entry.RiskID)
	assert.Empty(t, entry.DecisionID)
	assert.Equal(t, "src", entry.SourceID)
	assert.NoError(t, doc.Validate())
}

// A null entry still occupies its slot in the emitted list.
func TestLink_NullEntryKeepsIndices(t *testing.T) {
	doc, err := build(chunksOf("Risks were discussed."), []string{
		`{"requirements":[{"description":"Support SSO","relatedRiskIndex":1,"relatedDecisionIndex":1}],
		  "decisions":[null,"Use Okta"],
		  "risks":[null,{"description":"Vendor lock-in"},{"description":"Data breach"}]}`,
	})
	require.NoError(t, err)

	require.Len(t, doc.Risks, 3)
	assert.Empty(t, doc.Risks[0].Description)
	assert.Equal(t, domain.LevelMedium, doc.Risks[0].Probability)

	require.Len(t, doc.RTM, 1)
	assert.Equal(t, doc.Risks[1].ID, doc.RTM[0].RiskID)
	assert.Equal(t, "Vendor lock-in", doc.Risks[1].Description)
	assert.Equal(t, doc.Decisions[1].ID, doc.RTM[0].DecisionID)
	assert.Equal(t, "Use Okta", doc.Decisions[1].Description)
	assert.NoError(t, doc.Validate())
}

// Local indices resolve against the requirement's own chunk only.
func TestLink_ChunkScopedIndices(t *testing.T) {
	doc, err := build(chunksOf("first", "second"), []string{
		`{"requirements":["A"], "decisions":["D-first-0", "D-first-1"]}`,
		`{"requirements":[{"description":"B","relatedDecisionIndex":0,"relatedTimelineIndex":0}],
		  "decisions":["D-second-0"], "timeline":["M-second"]}`,
	})
	require.NoError(t, err)

	require.Len(t, doc.RTM, 2)
	assert.Empty(t, doc.RTM[0].DecisionID)
	assert.Equal(t, doc.Decisions[2].ID, doc.RTM[1].DecisionID, "index 0 of chunk 1 is global decision 2")
	assert.Equal(t, "D-second-0", doc.Decisions[2].Description)
	assert.Equal(t, doc.Timeline[0].ID, doc.RTM[1].TimelineID)
	assert.Equal(t, "first", doc.RTM[0].SourceChunk)
	assert.Equal(t, "second", doc.RTM[1].SourceChunk)
}

func TestLink_OutOfRangeLeavesUnset(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	defer logger.SetOutput(os.Stderr)

	// Chunk 1 has one risk; index 1 would be valid globally but not locally.
	doc, err := build(chunksOf("first", "second"), []string{
		`{"risks":["K0"]}`,
		`{"requirements":[{"description":"B","relatedRiskIndex":1},{"description":"C","relatedDecisionIndex":-1}], "risks":["K1"]}`,
	})
	require.NoError(t, err)

	require.Len(t, doc.RTM, 2)
	assert.Empty(t, doc.RTM[0].RiskID)
	assert.Empty(t, doc.RTM[1].DecisionID)
	assert.Contains(t, buf.String(), "risk index 1 out of range")
	assert.NoError(t, doc.Validate())
}

func TestLink_OrderMatchesRequirements(t *testing.T) {
	doc, err := build(chunksOf("a", "b", "c"), []string{
		`{"requirements":["R1","R2"]}`,
		`{}`,
		`{"requirements":["R3"]}`,
	})
	require.NoError(t, err)

	require.Len(t, doc.RTM, len(doc.Requirements))
	for i := range doc.RTM {
		assert.Equal(t, doc.Requirements[i].ID, doc.RTM[i].RequirementID)
	}
	assert.Equal(t, "c", doc.RTM[2].SourceChunk)
}

func TestLink_LedgerBeyondSavedDocument(t *testing.T) {
	results := decodeAll(t, `{"requirements":["A","B"]}`)
	c, ledger, err := Aggregate(chunksOf("x"), results)
	require.NoError(t, err)

	saved := fakeSave(c.Document(), "v1")
	saved.Requirements = saved.Requirements[:1]

	_, err = Link(saved, ledger)
	assert.True(t, errors.Is(err, domain.ErrIdentityMismatch))
}

func TestLink_NilLedger(t *testing.T) {
	_, err := Link(&domain.BrdDocument{}, nil)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

// Property: every created document has one RTM entry per requirement and
// all references resolve, whatever indices the extractor produced.
func TestLink_InvariantsHoldForArbitraryIndices(t *testing.T) {
	outputs := []string{
		`{"requirements":[{"description":"A","relatedDecisionIndex":5,"relatedRiskIndex":0,"relatedTimelineIndex":"0"}], "risks":["K"], "timeline":["T"]}`,
		`{"requirements":[{"description":"B","relatedDecisionIndex":0}, {"description":"C","relatedRiskIndex":3}], "decisions":["D"]}`,
		`{"requirements":["D"], "risks":["K2","K3"]}`,
	}

	doc, err := build(chunksOf("1", "2", "3"), outputs)
	require.NoError(t, err)

	assert.Len(t, doc.RTM, len(doc.Requirements))
	assert.NoError(t, doc.Validate())
}
