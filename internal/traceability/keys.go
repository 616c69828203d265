package traceability

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/brdify/internal/core/domain"
)

// AssignKeys gives every entity of doc that has no key a fresh one and
// rejects duplicate keys within a category. Fresh keys continue after the
// highest key number seen in doc or in prev, so a key never points at two
// different entities across one edit. prev may be nil.
func AssignKeys(prev, doc *domain.BrdDocument) error {
	if prev == nil {
		prev = &domain.BrdDocument{}
	}
	steps := []struct {
		prefix   string
		n        int
		get      func(int) string
		set      func(int, string)
		reserved []string
	}{
		{
			domain.KeyPrefixRequirement, len(doc.Requirements),
			func(i int) string { return doc.Requirements[i].Key },
			func(i int, k string) { doc.Requirements[i].Key = k },
			requirementKeys(prev.Requirements),
		},
		{
			domain.KeyPrefixDecision, len(doc.Decisions),
			func(i int) string { return doc.Decisions[i].Key },
			func(i int, k string) { doc.Decisions[i].Key = k },
			decisionKeys(prev.Decisions),
		},
		{
			domain.KeyPrefixStakeholder, len(doc.Stakeholders),
			func(i int) string { return doc.Stakeholders[i].Key },
			func(i int, k string) { doc.Stakeholders[i].Key = k },
			stakeholderKeys(prev.Stakeholders),
		},
		{
			domain.KeyPrefixRisk, len(doc.Risks),
			func(i int) string { return doc.Risks[i].Key },
			func(i int, k string) { doc.Risks[i].Key = k },
			riskKeys(prev.Risks),
		},
		{
			domain.KeyPrefixTimeline, len(doc.Timeline),
			func(i int) string { return doc.Timeline[i].Key },
			func(i int, k string) { doc.Timeline[i].Key = k },
			timelineKeys(prev.Timeline),
		},
	}

	for _, s := range steps {
		if err := assign(s.prefix, s.n, s.get, s.set, s.reserved); err != nil {
			return err
		}
	}
	return nil
}

func assignFreshKeys(c *Candidates) {
	// A fresh document has no keys, so there is nothing to collide with.
	_ = AssignKeys(nil, c.Document())
}

func assign(prefix string, n int, get func(int) string, set func(int, string), reserved []string) error {
	highest := 0
	bump := func(key string) {
		if num, ok := keyNumber(prefix, key); ok && num > highest {
			highest = num
		}
	}
	for _, k := range reserved {
		bump(k)
	}

	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		k := strings.TrimSpace(get(i))
		if k == "" {
			set(i, "")
			continue
		}
		if seen[k] {
			return fmt.Errorf("%w: duplicate key %s", domain.ErrInvalidInput, k)
		}
		seen[k] = true
		set(i, k)
		bump(k)
	}

	for i := 0; i < n; i++ {
		if get(i) == "" {
			highest++
			set(i, domain.EntityKey(prefix, highest))
		}
	}
	return nil
}

func keyNumber(prefix, key string) (int, bool) {
	rest, ok := strings.CutPrefix(key, prefix+"-")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func requirementKeys(list []domain.Requirement) []string {
	out := make([]string, len(list))
	for i := range list {
		out[i] = list[i].Key
	}
	return out
}

func decisionKeys(list []domain.Decision) []string {
	out := make([]string, len(list))
	for i := range list {
		out[i] = list[i].Key
	}
	return out
}

func stakeholderKeys(list []domain.Stakeholder) []string {
	out := make([]string, len(list))
	for i := range list {
		out[i] = list[i].Key
	}
	return out
}

func riskKeys(list []domain.Risk) []string {
	out := make([]string, len(list))
	for i := range list {
		out[i] = list[i].Key
	}
	return out
}

func timelineKeys(list []domain.TimelineEntry) []string {
	out := make([]string, len(list))
	for i := range list {
		out[i] = list[i].Key
	}
	return out
}
