package domain

import (
	"strconv"
	"strings"
)

// Field names of the extraction schema.
const (
	FieldDescription          = "description"
	FieldSourceQuote          = "sourceQuote"
	FieldRelatedDecisionIndex = "relatedDecisionIndex"
	FieldRelatedRiskIndex     = "relatedRiskIndex"
	FieldRelatedTimelineIndex = "relatedTimelineIndex"
	FieldProbability          = "probability"
	FieldImpact               = "impact"
	FieldMitigation           = "mitigation"
	FieldMilestone            = "milestone"
	FieldExpectedDate         = "expectedDate"
	FieldName                 = "name"
	FieldRole                 = "role"
	FieldType                 = "type"
	FieldPriority             = "priority"
)

// ExtractionRecord is one entry of a category list in an extraction result.
// Extractors may return either objects or bare strings; a bare string is
// kept in Text with Structured set to false.
type ExtractionRecord struct {
	// Structured is true when the entry was an object.
	Structured bool

	// Text is the entry text for bare-string entries.
	Text string

	// Fields holds the scalar values of an object entry, as strings.
	// Null values are never stored.
	Fields map[string]string
}

// Field returns the value of a named field and whether it was present.
func (r ExtractionRecord) Field(name string) (string, bool) {
	if !r.Structured || r.Fields == nil {
		return "", false
	}
	v, ok := r.Fields[name]
	return v, ok
}

// FieldOr returns the named field or def when it is absent.
func (r ExtractionRecord) FieldOr(name, def string) string {
	if v, ok := r.Field(name); ok {
		return v
	}
	return def
}

// Index returns a chunk-local index field. Numeric strings are accepted;
// anything that is not an integer is treated as absent.
func (r ExtractionRecord) Index(name string) (int, bool) {
	v, ok := r.Field(name)
	if !ok {
		return 0, false
	}
	v = strings.TrimSpace(v)
	if n, err := strconv.Atoi(v); err == nil {
		return n, true
	}
	// Whole floats such as "1.0" are accepted.
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}

// ExtractionResult is the decoded output of one extraction call.
// It is scoped to a single chunk: any index it carries refers to the
// sub-lists of the same result.
type ExtractionResult struct {
	Requirements []ExtractionRecord
	Decisions    []ExtractionRecord
	Stakeholders []ExtractionRecord
	Risks        []ExtractionRecord
	Timeline     []ExtractionRecord
}

// IsEmpty returns true if the result carries no records at all.
func (r ExtractionResult) IsEmpty() bool {
	return len(r.Requirements) == 0 && len(r.Decisions) == 0 &&
		len(r.Stakeholders) == 0 && len(r.Risks) == 0 && len(r.Timeline) == 0
}

// TaskProfile selects which extraction task a call performs.
type TaskProfile string

// Known task profiles.
const (
	// ProfileRequirements extracts the structured entity lists from a chunk.
	ProfileRequirements TaskProfile = "requirements"

	// ProfileSummary writes an executive summary of the whole source text.
	ProfileSummary TaskProfile = "summary"
)
