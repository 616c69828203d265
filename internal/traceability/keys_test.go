package traceability

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/brdify/internal/core/domain"
)

func TestAssignKeys_Fresh(t *testing.T) {
	doc := &domain.BrdDocument{
		Requirements: []domain.Requirement{{Description: "A"}, {Description: "B"}},
		Stakeholders: []domain.Stakeholder{{Name: "Alice"}},
	}

	require.NoError(t, AssignKeys(nil, doc))

	assert.Equal(t, "REQ-1", doc.Requirements[0].Key)
	assert.Equal(t, "REQ-2", doc.Requirements[1].Key)
	assert.Equal(t, "STK-1", doc.Stakeholders[0].Key)
}

func TestAssignKeys_ContinuesAfterHighest(t *testing.T) {
	prev := &domain.BrdDocument{
		Requirements: []domain.Requirement{{Key: "REQ-1"}, {Key: "REQ-7"}},
	}
	doc := &domain.BrdDocument{
		Requirements: []domain.Requirement{{Key: "REQ-1"}, {Description: "new"}, {Key: " REQ-9 "}, {Key: "  "}},
	}

	require.NoError(t, AssignKeys(prev, doc))

	assert.Equal(t, "REQ-1", doc.Requirements[0].Key)
	assert.Equal(t, "REQ-10", doc.Requirements[1].Key)
	assert.Equal(t, "REQ-9", doc.Requirements[2].Key)
	assert.Equal(t, "REQ-11", doc.Requirements[3].Key)
}

func TestAssignKeys_Duplicate(t *testing.T) {
	doc := &domain.BrdDocument{
		Risks: []domain.Risk{{Key: "RSK-1"}, {Key: "RSK-1"}},
	}

	err := AssignKeys(nil, doc)

	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestAssignKeys_ForeignKeysKept(t *testing.T) {
	doc := &domain.BrdDocument{
		Timeline: []domain.TimelineEntry{{Key: "launch"}, {Milestone: "GA"}},
	}

	require.NoError(t, AssignKeys(nil, doc))

	assert.Equal(t, "launch", doc.Timeline[0].Key)
	assert.Equal(t, "TML-1", doc.Timeline[1].Key)
}
