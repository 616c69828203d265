package traceability

import (
	"fmt"

	"github.com/custodia-labs/brdify/internal/core/domain"
	"github.com/custodia-labs/brdify/internal/logger"
)

// Link builds the RTM of a freshly saved document from the ledger written
// by Aggregate. Entries come out in global requirement order.
//
// A chunk-local reference resolves only against the sub-list of the chunk
// that produced it. A reference outside that sub-list leaves the link unset
// and is logged; it never fails the document. A ledger that addresses
// positions the saved document does not have fails with
// domain.ErrIdentityMismatch.
func Link(saved *domain.BrdDocument, ledger *Ledger) ([]domain.RtmEntry, error) {
	if ledger == nil {
		return nil, fmt.Errorf("%w: no ledger", domain.ErrInvalidInput)
	}

	decisions := make([]string, len(saved.Decisions))
	for i := range saved.Decisions {
		decisions[i] = saved.Decisions[i].ID
	}
	risks := make([]string, len(saved.Risks))
	for i := range saved.Risks {
		risks[i] = saved.Risks[i].ID
	}
	timeline := make([]string, len(saved.Timeline))
	for i := range saved.Timeline {
		timeline[i] = saved.Timeline[i].ID
	}

	rtm := make([]domain.RtmEntry, 0, len(saved.Requirements))
	for _, chunk := range ledger.Chunks {
		if len(chunk.Refs) != chunk.Requirements.Count {
			return nil, fmt.Errorf("%w: chunk %d has %d refs for %d requirements",
				domain.ErrInvalidInput, chunk.Position, len(chunk.Refs), chunk.Requirements.Count)
		}

		for i, refs := range chunk.Refs {
			pos := chunk.Requirements.Start + i
			if pos >= len(saved.Requirements) {
				return nil, fmt.Errorf("%w: chunk %d requirement %d maps to position %d of %d",
					domain.ErrIdentityMismatch, chunk.Position, i, pos, len(saved.Requirements))
			}

			entry := domain.RtmEntry{
				RequirementID: saved.Requirements[pos].ID,
				SourceID:      saved.Source.ID,
				SourceChunk:   refs.Quote,
			}

			var err error
			if entry.DecisionID, err = resolve(chunk.Position, i, "decision", refs.Decision, chunk.Decisions, decisions); err != nil {
				return nil, err
			}
			if entry.RiskID, err = resolve(chunk.Position, i, "risk", refs.Risk, chunk.Risks, risks); err != nil {
				return nil, err
			}
			if entry.TimelineID, err = resolve(chunk.Position, i, "timeline", refs.Timeline, chunk.Timeline, timeline); err != nil {
				return nil, err
			}

			rtm = append(rtm, entry)
		}
	}

	if len(rtm) != len(saved.Requirements) {
		return nil, fmt.Errorf("%w: ledger covers %d of %d requirements",
			domain.ErrIdentityMismatch, len(rtm), len(saved.Requirements))
	}
	return rtm, nil
}

// resolve translates a chunk-local reference into the saved entity's ID.
func resolve(chunk, req int, kind string, ref Ref, span Span, ids []string) (string, error) {
	if !ref.Present {
		return "", nil
	}
	if !span.Contains(ref.Index) {
		logger.Warn("chunk %d requirement %d: %s index %d out of range (chunk has %d); link left unset",
			chunk, req, kind, ref.Index, span.Count)
		return "", nil
	}
	pos := span.Start + ref.Index
	if pos >= len(ids) {
		return "", fmt.Errorf("%w: chunk %d %s %d maps to position %d of %d",
			domain.ErrIdentityMismatch, chunk, kind, ref.Index, pos, len(ids))
	}
	return ids[pos], nil
}
