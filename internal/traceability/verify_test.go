package traceability

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/brdify/internal/core/domain"
)

func submittedDoc() *domain.BrdDocument {
	return &domain.BrdDocument{
		Requirements: []domain.Requirement{{Key: "REQ-1", Description: "A"}, {Key: "REQ-2", Description: "B"}},
		Decisions:    []domain.Decision{{Key: "DEC-1", Description: "D"}},
		Stakeholders: []domain.Stakeholder{{Key: "STK-1", Name: "Alice"}},
		Risks:        []domain.Risk{{Key: "RSK-1", Description: "K"}},
		Timeline:     []domain.TimelineEntry{{Key: "TML-1", Milestone: "Beta"}},
	}
}

func TestVerifyIdentity_OK(t *testing.T) {
	sub := submittedDoc()
	assert.NoError(t, VerifyIdentity(sub, fakeSave(sub, "v1")))
}

func TestVerifyIdentity_Violations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(saved *domain.BrdDocument)
	}{
		{"nil document", nil},
		{"missing document id", func(s *domain.BrdDocument) { s.ID = "" }},
		{"dropped requirement", func(s *domain.BrdDocument) { s.Requirements = s.Requirements[:1] }},
		{"reordered requirements", func(s *domain.BrdDocument) {
			s.Requirements[0], s.Requirements[1] = s.Requirements[1], s.Requirements[0]
		}},
		{"extra risk", func(s *domain.BrdDocument) { s.Risks = append(s.Risks, domain.Risk{ID: "x"}) }},
		{"missing decision id", func(s *domain.BrdDocument) { s.Decisions[0].ID = "" }},
		{"renamed stakeholder", func(s *domain.BrdDocument) { s.Stakeholders[0].Name = "Bob" }},
		{"missing timeline id", func(s *domain.BrdDocument) { s.Timeline[0].ID = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := submittedDoc()
			var saved *domain.BrdDocument
			if tt.mutate != nil {
				saved = fakeSave(sub, "v1")
				tt.mutate(saved)
			}
			err := VerifyIdentity(sub, saved)
			assert.True(t, errors.Is(err, domain.ErrIdentityMismatch), "got %v", err)
		})
	}
}
