package traceability

import (
	"fmt"

	"github.com/custodia-labs/brdify/internal/core/domain"
)

// VerifyIdentity checks that saved is submitted with identifiers filled
// in: every list has the same length, every position holds the same
// entity, and every ID is set. Linking resolves positions against saved,
// so any mismatch is fatal.
func VerifyIdentity(submitted, saved *domain.BrdDocument) error {
	if saved == nil {
		return fmt.Errorf("%w: store returned no document", domain.ErrIdentityMismatch)
	}
	if saved.ID == "" {
		return fmt.Errorf("%w: document has no id", domain.ErrIdentityMismatch)
	}

	checks := []struct {
		name      string
		want, got int
		same      func(i int) bool
		id        func(i int) string
	}{
		{
			"requirements", len(submitted.Requirements), len(saved.Requirements),
			func(i int) bool {
				return submitted.Requirements[i].Key == saved.Requirements[i].Key &&
					submitted.Requirements[i].Description == saved.Requirements[i].Description
			},
			func(i int) string { return saved.Requirements[i].ID },
		},
		{
			"decisions", len(submitted.Decisions), len(saved.Decisions),
			func(i int) bool {
				return submitted.Decisions[i].Key == saved.Decisions[i].Key &&
					submitted.Decisions[i].Description == saved.Decisions[i].Description
			},
			func(i int) string { return saved.Decisions[i].ID },
		},
		{
			"stakeholders", len(submitted.Stakeholders), len(saved.Stakeholders),
			func(i int) bool {
				return submitted.Stakeholders[i].Key == saved.Stakeholders[i].Key &&
					submitted.Stakeholders[i].Name == saved.Stakeholders[i].Name
			},
			func(i int) string { return saved.Stakeholders[i].ID },
		},
		{
			"risks", len(submitted.Risks), len(saved.Risks),
			func(i int) bool {
				return submitted.Risks[i].Key == saved.Risks[i].Key &&
					submitted.Risks[i].Description == saved.Risks[i].Description
			},
			func(i int) string { return saved.Risks[i].ID },
		},
		{
			"timeline", len(submitted.Timeline), len(saved.Timeline),
			func(i int) bool {
				return submitted.Timeline[i].Key == saved.Timeline[i].Key &&
					submitted.Timeline[i].Milestone == saved.Timeline[i].Milestone
			},
			func(i int) string { return saved.Timeline[i].ID },
		},
	}

	for _, c := range checks {
		if c.want != c.got {
			return fmt.Errorf("%w: submitted %d %s, store returned %d",
				domain.ErrIdentityMismatch, c.want, c.name, c.got)
		}
		for i := 0; i < c.got; i++ {
			if !c.same(i) {
				return fmt.Errorf("%w: %s reordered at position %d", domain.ErrIdentityMismatch, c.name, i)
			}
			if c.id(i) == "" {
				return fmt.Errorf("%w: %s at position %d has no id", domain.ErrIdentityMismatch, c.name, i)
			}
		}
	}
	return nil
}
