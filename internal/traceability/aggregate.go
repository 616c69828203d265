package traceability

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/brdify/internal/core/domain"
)

// Candidates are the document-scoped entity lists built from all chunks,
// in chunk order and, within a chunk, in extraction order. They carry
// keys but no identifiers yet.
type Candidates struct {
	Requirements []domain.Requirement
	Decisions    []domain.Decision
	Stakeholders []domain.Stakeholder
	Risks        []domain.Risk
	Timeline     []domain.TimelineEntry
}

// Ref is an optional chunk-local index.
type Ref struct {
	Index   int
	Present bool
}

// RequirementRefs holds what one requirement recorded about its own chunk.
type RequirementRefs struct {
	// Quote is the justifying source text, or the whole chunk text.
	Quote    string
	Decision Ref
	Risk     Ref
	Timeline Ref
}

// Span is the slice of each global list that one chunk contributed.
type Span struct {
	Start int
	Count int
}

// Contains reports whether a chunk-local index falls in the span.
func (s Span) Contains(local int) bool {
	return local >= 0 && local < s.Count
}

// ChunkEntry is the ledger record of one chunk.
type ChunkEntry struct {
	Position     int
	Requirements Span
	Decisions    Span
	Stakeholders Span
	Risks        Span
	Timeline     Span

	// Refs has one element per requirement of this chunk.
	Refs []RequirementRefs
}

// Ledger is the chunk bookkeeping needed to link a saved document.
// It only exists between aggregation and linking.
type Ledger struct {
	Chunks []ChunkEntry
}

// Aggregate merges per-chunk extraction results into global candidate
// lists and records each requirement's chunk-local references.
// results[i] must be the extraction of chunks[i].
func Aggregate(chunks []domain.SourceChunk, results []domain.ExtractionResult) (*Candidates, *Ledger, error) {
	if len(chunks) != len(results) {
		return nil, nil, fmt.Errorf("%w: %d chunks but %d extraction results",
			domain.ErrInvalidInput, len(chunks), len(results))
	}

	c := &Candidates{}
	l := &Ledger{Chunks: make([]ChunkEntry, 0, len(chunks))}

	for i, chunk := range chunks {
		res := results[i]
		entry := ChunkEntry{
			Position:     chunk.Position,
			Requirements: Span{Start: len(c.Requirements), Count: len(res.Requirements)},
			Decisions:    Span{Start: len(c.Decisions), Count: len(res.Decisions)},
			Stakeholders: Span{Start: len(c.Stakeholders), Count: len(res.Stakeholders)},
			Risks:        Span{Start: len(c.Risks), Count: len(res.Risks)},
			Timeline:     Span{Start: len(c.Timeline), Count: len(res.Timeline)},
			Refs:         make([]RequirementRefs, 0, len(res.Requirements)),
		}

		for _, rec := range res.Requirements {
			req, refs := requirementFrom(rec, chunk.Content)
			c.Requirements = append(c.Requirements, req)
			entry.Refs = append(entry.Refs, refs)
		}
		for _, rec := range res.Decisions {
			c.Decisions = append(c.Decisions, decisionFrom(rec))
		}
		for _, rec := range res.Stakeholders {
			c.Stakeholders = append(c.Stakeholders, stakeholderFrom(rec))
		}
		for _, rec := range res.Risks {
			c.Risks = append(c.Risks, riskFrom(rec))
		}
		for _, rec := range res.Timeline {
			c.Timeline = append(c.Timeline, timelineFrom(rec))
		}

		l.Chunks = append(l.Chunks, entry)
	}

	assignFreshKeys(c)
	return c, l, nil
}

// Document builds an unsaved document from the candidate lists.
func (c *Candidates) Document() *domain.BrdDocument {
	return &domain.BrdDocument{
		Requirements: c.Requirements,
		Decisions:    c.Decisions,
		Stakeholders: c.Stakeholders,
		Risks:        c.Risks,
		Timeline:     c.Timeline,
	}
}

func requirementFrom(rec domain.ExtractionRecord, chunkText string) (domain.Requirement, RequirementRefs) {
	req := domain.Requirement{
		Type:     domain.RequirementFunctional,
		Priority: domain.PriorityMedium,
	}
	refs := RequirementRefs{Quote: chunkText}

	if !rec.Structured {
		req.Description = strings.TrimSpace(rec.Text)
		req.SourceQuote = refs.Quote
		return req, refs
	}

	req.Description = strings.TrimSpace(rec.FieldOr(domain.FieldDescription, ""))
	if q := strings.TrimSpace(rec.FieldOr(domain.FieldSourceQuote, "")); q != "" {
		refs.Quote = q
	}
	if t := normaliseEnum(rec.FieldOr(domain.FieldType, "")); t == domain.RequirementNonFunctional {
		req.Type = t
	}
	switch p := normaliseEnum(rec.FieldOr(domain.FieldPriority, "")); p {
	case domain.PriorityHigh, domain.PriorityLow:
		req.Priority = p
	}
	refs.Decision = refFrom(rec, domain.FieldRelatedDecisionIndex)
	refs.Risk = refFrom(rec, domain.FieldRelatedRiskIndex)
	refs.Timeline = refFrom(rec, domain.FieldRelatedTimelineIndex)

	req.SourceQuote = refs.Quote
	return req, refs
}

func decisionFrom(rec domain.ExtractionRecord) domain.Decision {
	d := domain.Decision{Status: domain.DecisionPending}
	if !rec.Structured {
		d.Description = strings.TrimSpace(rec.Text)
		return d
	}
	d.Description = strings.TrimSpace(rec.FieldOr(domain.FieldDescription, ""))
	if s := normaliseEnum(rec.FieldOr("status", "")); s != "" {
		d.Status = s
	}
	return d
}

// stakeholderFrom reads "Name: Role" entries, splitting at the first colon.
func stakeholderFrom(rec domain.ExtractionRecord) domain.Stakeholder {
	if rec.Structured {
		s := domain.Stakeholder{
			Name:        strings.TrimSpace(rec.FieldOr(domain.FieldName, "")),
			Role:        strings.TrimSpace(rec.FieldOr(domain.FieldRole, "")),
			ContactInfo: strings.TrimSpace(rec.FieldOr("contactInfo", "")),
		}
		if s.Name == "" {
			return splitStakeholder(rec.FieldOr(domain.FieldDescription, ""))
		}
		return s
	}
	return splitStakeholder(rec.Text)
}

func splitStakeholder(raw string) domain.Stakeholder {
	name, role, _ := strings.Cut(raw, ":")
	return domain.Stakeholder{
		Name: strings.TrimSpace(name),
		Role: strings.TrimSpace(role),
	}
}

func riskFrom(rec domain.ExtractionRecord) domain.Risk {
	r := domain.Risk{
		Probability: domain.LevelMedium,
		Impact:      domain.LevelMedium,
	}
	if !rec.Structured {
		r.Description = strings.TrimSpace(rec.Text)
		return r
	}
	r.Description = strings.TrimSpace(rec.FieldOr(domain.FieldDescription, ""))
	if p := normaliseEnum(rec.FieldOr(domain.FieldProbability, "")); p != "" {
		r.Probability = p
	}
	if i := normaliseEnum(rec.FieldOr(domain.FieldImpact, "")); i != "" {
		r.Impact = i
	}
	r.Mitigation = strings.TrimSpace(rec.FieldOr(domain.FieldMitigation, ""))
	return r
}

func timelineFrom(rec domain.ExtractionRecord) domain.TimelineEntry {
	if !rec.Structured {
		return domain.TimelineEntry{Milestone: strings.TrimSpace(rec.Text)}
	}
	return domain.TimelineEntry{
		Milestone:    strings.TrimSpace(rec.FieldOr(domain.FieldMilestone, "")),
		ExpectedDate: strings.TrimSpace(rec.FieldOr(domain.FieldExpectedDate, "")),
		Description:  strings.TrimSpace(rec.FieldOr(domain.FieldDescription, "")),
	}
}

func refFrom(rec domain.ExtractionRecord, field string) Ref {
	idx, ok := rec.Index(field)
	return Ref{Index: idx, Present: ok}
}

// normaliseEnum upper-cases a label and joins words with underscores,
// so "non-functional" and "Non Functional" both read NON_FUNCTIONAL.
func normaliseEnum(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	return strings.NewReplacer("-", "_", " ", "_").Replace(s)
}
