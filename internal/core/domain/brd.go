package domain

import (
	"fmt"
	"time"
)

// BrdStatus is the lifecycle state of a BRD.
type BrdStatus string

// Document statuses.
const (
	// StatusDraft is a freshly generated document.
	StatusDraft BrdStatus = "DRAFT"

	// StatusEdited is a document whose entity lists were replaced by a user.
	StatusEdited BrdStatus = "EDITED"
)

// Requirement types and priorities.
const (
	RequirementFunctional    = "FUNCTIONAL"
	RequirementNonFunctional = "NON_FUNCTIONAL"

	PriorityHigh   = "HIGH"
	PriorityMedium = "MEDIUM"
	PriorityLow    = "LOW"

	DecisionPending = "PENDING"

	// LevelMedium is the default risk probability and impact.
	LevelMedium = "MEDIUM"
)

// Key prefixes for client-visible correlation keys.
const (
	KeyPrefixRequirement = "REQ"
	KeyPrefixDecision    = "DEC"
	KeyPrefixStakeholder = "STK"
	KeyPrefixRisk        = "RSK"
	KeyPrefixTimeline    = "TML"
)

// EntityKey formats the n-th key (1-based) for a prefix, e.g. REQ-3.
func EntityKey(prefix string, n int) string {
	return fmt.Sprintf("%s-%d", prefix, n)
}

// Requirement is a single business requirement.
type Requirement struct {
	ID          string `json:"id,omitempty"`
	Key         string `json:"key,omitempty"`
	Description string `json:"description"`
	Type        string `json:"type,omitempty"`
	Priority    string `json:"priority,omitempty"`
	SourceQuote string `json:"sourceQuote,omitempty"`
}

// Decision is a decision recorded in the source.
type Decision struct {
	ID          string `json:"id,omitempty"`
	Key         string `json:"key,omitempty"`
	Description string `json:"description"`
	Status      string `json:"status,omitempty"`
}

// Stakeholder is a person or group with an interest in the project.
type Stakeholder struct {
	ID          string `json:"id,omitempty"`
	Key         string `json:"key,omitempty"`
	Name        string `json:"name"`
	Role        string `json:"role,omitempty"`
	ContactInfo string `json:"contactInfo,omitempty"`
}

// Risk is a project risk.
type Risk struct {
	ID          string `json:"id,omitempty"`
	Key         string `json:"key,omitempty"`
	Description string `json:"description"`
	Probability string `json:"probability,omitempty"`
	Impact      string `json:"impact,omitempty"`
	Mitigation  string `json:"mitigation,omitempty"`
}

// TimelineEntry is a milestone with an expected date.
type TimelineEntry struct {
	ID           string `json:"id,omitempty"`
	Key          string `json:"key,omitempty"`
	Milestone    string `json:"milestone"`
	ExpectedDate string `json:"expectedDate,omitempty"`
	Description  string `json:"description,omitempty"`
}

// RtmEntry links one requirement to its source text and to related
// entities of the same document. Empty reference strings are unset links.
type RtmEntry struct {
	ID            string `json:"id,omitempty"`
	RequirementID string `json:"requirementId"`
	SourceID      string `json:"sourceId,omitempty"`
	SourceChunk   string `json:"sourceChunk,omitempty"`
	DecisionID    string `json:"decisionId,omitempty"`
	RiskID        string `json:"riskId,omitempty"`
	TimelineID    string `json:"timelineId,omitempty"`
}

// BrdDocument is a Business Requirements Document with its entity lists
// and traceability matrix. List order is significant.
type BrdDocument struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Status       BrdStatus       `json:"status"`
	Summary      string          `json:"summary,omitempty"`
	Source       SourceData      `json:"source"`
	Requirements []Requirement   `json:"requirements"`
	Decisions    []Decision      `json:"decisions"`
	Stakeholders []Stakeholder   `json:"stakeholders"`
	Risks        []Risk          `json:"risks"`
	Timeline     []TimelineEntry `json:"timeline"`
	RTM          []RtmEntry      `json:"rtm"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// BrdSummary is a lightweight listing view of a document.
type BrdSummary struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Status           BrdStatus `json:"status"`
	SourceType       string    `json:"sourceType"`
	RequirementCount int       `json:"requirementCount"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Summarise returns the listing view of the document.
func (d *BrdDocument) Summarise() BrdSummary {
	return BrdSummary{
		ID:               d.ID,
		Title:            d.Title,
		Status:           d.Status,
		SourceType:       d.Source.SourceType.String(),
		RequirementCount: len(d.Requirements),
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

// Validate checks the traceability invariants of a created document:
// every requirement has exactly one RTM entry and every RTM reference
// resolves within this document.
func (d *BrdDocument) Validate() error {
	if len(d.RTM) != len(d.Requirements) {
		return fmt.Errorf("%w: %d rtm entries for %d requirements",
			ErrRTMIncomplete, len(d.RTM), len(d.Requirements))
	}
	return d.ValidateReferences()
}

// ValidateReferences checks only that RTM references resolve and that no
// requirement is traced twice. Edited documents may legitimately trace
// fewer requirements than they hold.
func (d *BrdDocument) ValidateReferences() error {
	reqs := make(map[string]bool, len(d.Requirements))
	for _, r := range d.Requirements {
		reqs[r.ID] = false
	}
	decisions := idSet(len(d.Decisions), func(i int) string { return d.Decisions[i].ID })
	risks := idSet(len(d.Risks), func(i int) string { return d.Risks[i].ID })
	timeline := idSet(len(d.Timeline), func(i int) string { return d.Timeline[i].ID })

	for i, e := range d.RTM {
		seen, ok := reqs[e.RequirementID]
		if !ok {
			return fmt.Errorf("%w: rtm entry %d requirement %q", ErrDanglingReference, i, e.RequirementID)
		}
		if seen {
			return fmt.Errorf("%w: requirement %q traced more than once", ErrRTMIncomplete, e.RequirementID)
		}
		reqs[e.RequirementID] = true

		if e.DecisionID != "" && !decisions[e.DecisionID] {
			return fmt.Errorf("%w: rtm entry %d decision %q", ErrDanglingReference, i, e.DecisionID)
		}
		if e.RiskID != "" && !risks[e.RiskID] {
			return fmt.Errorf("%w: rtm entry %d risk %q", ErrDanglingReference, i, e.RiskID)
		}
		if e.TimelineID != "" && !timeline[e.TimelineID] {
			return fmt.Errorf("%w: rtm entry %d timeline %q", ErrDanglingReference, i, e.TimelineID)
		}
	}
	return nil
}

func idSet(n int, id func(int) string) map[string]bool {
	set := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		set[id(i)] = true
	}
	return set
}

// Clone returns a deep copy of the document.
func (d *BrdDocument) Clone() *BrdDocument {
	out := *d
	out.Requirements = append([]Requirement(nil), d.Requirements...)
	out.Decisions = append([]Decision(nil), d.Decisions...)
	out.Stakeholders = append([]Stakeholder(nil), d.Stakeholders...)
	out.Risks = append([]Risk(nil), d.Risks...)
	out.Timeline = append([]TimelineEntry(nil), d.Timeline...)
	out.RTM = append([]RtmEntry(nil), d.RTM...)
	return &out
}

// Trace is one RTM entry resolved against the document's lists.
// Links that are unset or no longer resolve are nil.
type Trace struct {
	Requirement *Requirement
	SourceChunk string
	Decision    *Decision
	Risk        *Risk
	Timeline    *TimelineEntry
}

// Traces resolves the RTM in entry order. Entries whose requirement is
// gone are skipped.
func (d *BrdDocument) Traces() []Trace {
	reqs := make(map[string]*Requirement, len(d.Requirements))
	for i := range d.Requirements {
		reqs[d.Requirements[i].ID] = &d.Requirements[i]
	}
	decisions := make(map[string]*Decision, len(d.Decisions))
	for i := range d.Decisions {
		decisions[d.Decisions[i].ID] = &d.Decisions[i]
	}
	risks := make(map[string]*Risk, len(d.Risks))
	for i := range d.Risks {
		risks[d.Risks[i].ID] = &d.Risks[i]
	}
	timeline := make(map[string]*TimelineEntry, len(d.Timeline))
	for i := range d.Timeline {
		timeline[d.Timeline[i].ID] = &d.Timeline[i]
	}

	out := make([]Trace, 0, len(d.RTM))
	for _, e := range d.RTM {
		req, ok := reqs[e.RequirementID]
		if !ok {
			continue
		}
		t := Trace{Requirement: req, SourceChunk: e.SourceChunk}
		if e.DecisionID != "" {
			t.Decision = decisions[e.DecisionID]
		}
		if e.RiskID != "" {
			t.Risk = risks[e.RiskID]
		}
		if e.TimelineID != "" {
			t.Timeline = timeline[e.TimelineID]
		}
		out = append(out, t)
	}
	return out
}
