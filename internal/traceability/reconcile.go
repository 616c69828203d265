package traceability

import (
	"github.com/custodia-labs/brdify/internal/core/domain"
	"github.com/custodia-labs/brdify/internal/logger"
)

// Reconcile derives the RTM of an edited document. old is the stored
// document before the edit; replacement is the saved document holding the
// submitted lists with their new identifiers.
//
// Each category is correlated by key when the submission echoes at least
// one key from the old list, and by position otherwise:
//
//   - By key, a requirement takes provenance from the old RTM entry of the
//     requirement with the same key, and a link to an old entity moves to
//     the submitted entity with that entity's key.
//   - By position, new requirement i takes provenance from old RTM entry i,
//     and a link to the old entity at position p moves to the new entity at
//     position p.
//
// Requirements with no old counterpart get no entry; they are logged.
// Links with no counterpart are left unset.
func Reconcile(old, replacement *domain.BrdDocument) []domain.RtmEntry {
	oldReqKeys := requirementKeys(old.Requirements)
	newReqKeys := requirementKeys(replacement.Requirements)
	keyed := echoesKey(oldReqKeys, newReqKeys)

	rtmByReq := make(map[string]int, len(old.RTM))
	for i, e := range old.RTM {
		rtmByReq[e.RequirementID] = i
	}
	oldReqByKey := indexKeys(oldReqKeys)

	decisions := newRebinder(
		decisionKeys(old.Decisions), decisionIDs(old.Decisions),
		decisionKeys(replacement.Decisions), decisionIDs(replacement.Decisions))
	risks := newRebinder(
		riskKeys(old.Risks), riskIDs(old.Risks),
		riskKeys(replacement.Risks), riskIDs(replacement.Risks))
	timeline := newRebinder(
		timelineKeys(old.Timeline), timelineIDs(old.Timeline),
		timelineKeys(replacement.Timeline), timelineIDs(replacement.Timeline))

	out := make([]domain.RtmEntry, 0, len(replacement.Requirements))
	var untraced []string
	for i, req := range replacement.Requirements {
		prev := -1
		if keyed {
			if oi, ok := oldReqByKey[req.Key]; ok {
				if ri, ok := rtmByReq[old.Requirements[oi].ID]; ok {
					prev = ri
				}
			}
		} else if i < len(old.RTM) {
			prev = i
		}
		if prev < 0 {
			untraced = append(untraced, req.Key)
			continue
		}

		p := old.RTM[prev]
		out = append(out, domain.RtmEntry{
			RequirementID: req.ID,
			SourceID:      p.SourceID,
			SourceChunk:   p.SourceChunk,
			DecisionID:    decisions.rebind(p.DecisionID),
			RiskID:        risks.rebind(p.RiskID),
			TimelineID:    timeline.rebind(p.TimelineID),
		})
	}

	if len(untraced) > 0 {
		logger.Warn("%d requirement(s) have no source trace after edit: %v", len(untraced), untraced)
	}
	logger.Debug("reconcile: %d rtm entries (keyed=%t, decisions keyed=%t, risks keyed=%t, timeline keyed=%t)",
		len(out), keyed, decisions.keyed, risks.keyed, timeline.keyed)
	return out
}

// rebinder moves links from old entities of one category to new ones.
type rebinder struct {
	keyed   bool
	oldPos  map[string]int
	oldKeys []string
	newIDs  []string
	newKey  map[string]int
}

func newRebinder(oldKeys, oldIDs, newKeys, newIDs []string) rebinder {
	return rebinder{
		keyed:   echoesKey(oldKeys, newKeys),
		oldPos:  indexKeys(oldIDs),
		oldKeys: oldKeys,
		newIDs:  newIDs,
		newKey:  indexKeys(newKeys),
	}
}

func (r rebinder) rebind(oldID string) string {
	if oldID == "" {
		return ""
	}
	p, ok := r.oldPos[oldID]
	if !ok {
		return ""
	}
	if r.keyed {
		ni, ok := r.newKey[r.oldKeys[p]]
		if !ok {
			return ""
		}
		return r.newIDs[ni]
	}
	if p < len(r.newIDs) {
		return r.newIDs[p]
	}
	return ""
}

// echoesKey reports whether any submitted key existed before.
func echoesKey(oldKeys, newKeys []string) bool {
	known := indexKeys(oldKeys)
	for _, k := range newKeys {
		if _, ok := known[k]; ok {
			return true
		}
	}
	return false
}

// indexKeys maps each non-empty value to its first position.
func indexKeys(values []string) map[string]int {
	m := make(map[string]int, len(values))
	for i, v := range values {
		if v == "" {
			continue
		}
		if _, dup := m[v]; !dup {
			m[v] = i
		}
	}
	return m
}

func decisionIDs(list []domain.Decision) []string {
	out := make([]string, len(list))
	for i := range list {
		out[i] = list[i].ID
	}
	return out
}

func riskIDs(list []domain.Risk) []string {
	out := make([]string, len(list))
	for i := range list {
		out[i] = list[i].ID
	}
	return out
}

func timelineIDs(list []domain.TimelineEntry) []string {
	out := make([]string, len(list))
	for i := range list {
		out[i] = list[i].ID
	}
	return out
}
