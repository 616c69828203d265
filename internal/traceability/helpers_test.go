package traceability

import (
	"fmt"

	"github.com/custodia-labs/brdify/internal/core/domain"
)

// fakeSave mimics an order-preserving store: it copies the document and
// fills every empty ID with a predictable value.
func fakeSave(doc *domain.BrdDocument, gen string) *domain.BrdDocument {
	out := *doc
	if out.ID == "" {
		out.ID = "doc"
	}
	if out.Source.ID == "" {
		out.Source.ID = "src"
	}
	out.Requirements = append([]domain.Requirement(nil), doc.Requirements...)
	for i := range out.Requirements {
		if out.Requirements[i].ID == "" {
			out.Requirements[i].ID = fmt.Sprintf("%s-req-%d", gen, i)
		}
	}
	out.Decisions = append([]domain.Decision(nil), doc.Decisions...)
	for i := range out.Decisions {
		if out.Decisions[i].ID == "" {
			out.Decisions[i].ID = fmt.Sprintf("%s-dec-%d", gen, i)
		}
	}
	out.Stakeholders = append([]domain.Stakeholder(nil), doc.Stakeholders...)
	for i := range out.Stakeholders {
		if out.Stakeholders[i].ID == "" {
			out.Stakeholders[i].ID = fmt.Sprintf("%s-stk-%d", gen, i)
		}
	}
	out.Risks = append([]domain.Risk(nil), doc.Risks...)
	for i := range out.Risks {
		if out.Risks[i].ID == "" {
			out.Risks[i].ID = fmt.Sprintf("%s-rsk-%d", gen, i)
		}
	}
	out.Timeline = append([]domain.TimelineEntry(nil), doc.Timeline...)
	for i := range out.Timeline {
		if out.Timeline[i].ID == "" {
			out.Timeline[i].ID = fmt.Sprintf("%s-tml-%d", gen, i)
		}
	}
	out.RTM = append([]domain.RtmEntry(nil), doc.RTM...)
	return &out
}

// build runs decode, aggregate, save and link over raw chunk outputs.
func build(chunks []domain.SourceChunk, outputs []string) (*domain.BrdDocument, error) {
	results := make([]domain.ExtractionResult, len(outputs))
	for i, raw := range outputs {
		res, err := Decode(raw)
		if err != nil {
			return nil, err
		}
		results[i] = res
	}

	cands, ledger, err := Aggregate(chunks, results)
	if err != nil {
		return nil, err
	}
	submitted := cands.Document()
	saved := fakeSave(submitted, "v1")
	if err := VerifyIdentity(submitted, saved); err != nil {
		return nil, err
	}
	rtm, err := Link(saved, ledger)
	if err != nil {
		return nil, err
	}
	saved.RTM = rtm
	return saved, nil
}

func chunksOf(texts ...string) []domain.SourceChunk {
	out := make([]domain.SourceChunk, len(texts))
	start := 0
	for i, t := range texts {
		out[i] = domain.SourceChunk{Position: i, Start: start, End: start + len(t), Content: t}
		start += len(t)
	}
	return out
}

// stripIDs returns the lists of doc as an edit would submit them.
func stripIDs(doc *domain.BrdDocument) *domain.BrdDocument {
	out := *doc
	out.Requirements = append([]domain.Requirement(nil), doc.Requirements...)
	for i := range out.Requirements {
		out.Requirements[i].ID = ""
	}
	out.Decisions = append([]domain.Decision(nil), doc.Decisions...)
	for i := range out.Decisions {
		out.Decisions[i].ID = ""
	}
	out.Stakeholders = append([]domain.Stakeholder(nil), doc.Stakeholders...)
	for i := range out.Stakeholders {
		out.Stakeholders[i].ID = ""
	}
	out.Risks = append([]domain.Risk(nil), doc.Risks...)
	for i := range out.Risks {
		out.Risks[i].ID = ""
	}
	out.Timeline = append([]domain.TimelineEntry(nil), doc.Timeline...)
	for i := range out.Timeline {
		out.Timeline[i].ID = ""
	}
	out.RTM = nil
	return &out
}
