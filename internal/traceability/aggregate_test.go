package traceability

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/brdify/internal/core/domain"
)

func decodeAll(t *testing.T, outputs ...string) []domain.ExtractionResult {
	t.Helper()
	out := make([]domain.ExtractionResult, len(outputs))
	for i, raw := range outputs {
		res, err := Decode(raw)
		require.NoError(t, err)
		out[i] = res
	}
	return out
}

func TestAggregate_OrderAndOffsets(t *testing.T) {
	chunks := chunksOf("chunk zero text", "chunk one text")
	results := decodeAll(t,
		`{"requirements": ["R0a", "R0b"], "decisions": ["D0"], "risks": []}`,
		`{"requirements": [{"description": "R1a", "relatedDecisionIndex": 1}], "decisions": ["D1a", "D1b"], "risks": ["K1"]}`,
	)

	c, l, err := Aggregate(chunks, results)
	require.NoError(t, err)

	assert.Equal(t, []string{"R0a", "R0b", "R1a"}, descriptions(c.Requirements))
	assert.Equal(t, "D1b", c.Decisions[2].Description)

	require.Len(t, l.Chunks, 2)
	assert.Equal(t, Span{Start: 0, Count: 2}, l.Chunks[0].Requirements)
	assert.Equal(t, Span{Start: 2, Count: 1}, l.Chunks[1].Requirements)
	assert.Equal(t, Span{Start: 1, Count: 2}, l.Chunks[1].Decisions)
	assert.Equal(t, Span{Start: 0, Count: 1}, l.Chunks[1].Risks)
	assert.Equal(t, Ref{Index: 1, Present: true}, l.Chunks[1].Refs[0].Decision)
	assert.False(t, l.Chunks[1].Refs[0].Risk.Present)
}

func TestAggregate_QuoteFallsBackToChunk(t *testing.T) {
	chunks := chunksOf("the whole chunk")
	results := decodeAll(t, `{"requirements": [{"description": "A"}, {"description": "B", "sourceQuote": "exact words"}, "C"]}`)

	c, l, err := Aggregate(chunks, results)
	require.NoError(t, err)

	assert.Equal(t, "the whole chunk", l.Chunks[0].Refs[0].Quote)
	assert.Equal(t, "exact words", l.Chunks[0].Refs[1].Quote)
	assert.Equal(t, "the whole chunk", l.Chunks[0].Refs[2].Quote)
	assert.Equal(t, "exact words", c.Requirements[1].SourceQuote)
}

func TestAggregate_Defaults(t *testing.T) {
	results := decodeAll(t, `{
		"requirements": ["Plain", {"description": "NFR", "type": "non-functional", "priority": "high"}],
		"decisions": ["Go with vendor"],
		"risks": ["Data breach"],
		"timeline": ["Launch"]
	}`)

	c, _, err := Aggregate(chunksOf("x"), results)
	require.NoError(t, err)

	assert.Equal(t, domain.RequirementFunctional, c.Requirements[0].Type)
	assert.Equal(t, domain.PriorityMedium, c.Requirements[0].Priority)
	assert.Equal(t, domain.RequirementNonFunctional, c.Requirements[1].Type)
	assert.Equal(t, domain.PriorityHigh, c.Requirements[1].Priority)

	assert.Equal(t, domain.DecisionPending, c.Decisions[0].Status)

	require.Len(t, c.Risks, 1)
	assert.Equal(t, "Data breach", c.Risks[0].Description)
	assert.Equal(t, "MEDIUM", c.Risks[0].Probability)
	assert.Equal(t, "MEDIUM", c.Risks[0].Impact)

	assert.Equal(t, "Launch", c.Timeline[0].Milestone)
}

func TestAggregate_Stakeholders(t *testing.T) {
	results := decodeAll(t, `{"stakeholders": [
		"Alice: Product Owner",
		"Bob",
		" Carol : CTO: acting ",
		{"name": "Dan", "role": "QA"},
		{"description": "Eve: Legal"}
	]}`)

	c, _, err := Aggregate(chunksOf("x"), results)
	require.NoError(t, err)

	require.Len(t, c.Stakeholders, 5)
	assert.Equal(t, domain.Stakeholder{Key: "STK-1", Name: "Alice", Role: "Product Owner"}, c.Stakeholders[0])
	assert.Equal(t, "Bob", c.Stakeholders[1].Name)
	assert.Empty(t, c.Stakeholders[1].Role)
	assert.Equal(t, "Carol", c.Stakeholders[2].Name)
	assert.Equal(t, "CTO: acting", c.Stakeholders[2].Role)
	assert.Equal(t, "QA", c.Stakeholders[3].Role)
	assert.Equal(t, "Legal", c.Stakeholders[4].Role)
}

func TestAggregate_AssignsKeys(t *testing.T) {
	results := decodeAll(t,
		`{"requirements": ["A", "B"], "risks": ["K"]}`,
		`{"requirements": ["C"], "timeline": ["T"]}`,
	)

	c, _, err := Aggregate(chunksOf("one", "two"), results)
	require.NoError(t, err)

	assert.Equal(t, "REQ-1", c.Requirements[0].Key)
	assert.Equal(t, "REQ-3", c.Requirements[2].Key)
	assert.Equal(t, "RSK-1", c.Risks[0].Key)
	assert.Equal(t, "TML-1", c.Timeline[0].Key)
}

func TestAggregate_LengthMismatch(t *testing.T) {
	_, _, err := Aggregate(chunksOf("a", "b"), []domain.ExtractionResult{{}})

	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestAggregate_Empty(t *testing.T) {
	c, l, err := Aggregate(nil, nil)

	require.NoError(t, err)
	assert.Empty(t, c.Requirements)
	assert.Empty(t, l.Chunks)
}

func descriptions(reqs []domain.Requirement) []string {
	out := make([]string, len(reqs))
	for i, r := range reqs {
		out[i] = r.Description
	}
	return out
}
