package traceability

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/custodia-labs/brdify/internal/core/domain"
)

// Category keys of the extraction schema.
const (
	keyRequirements = "requirements"
	keyDecisions    = "decisions"
	keyStakeholders = "stakeholders"
	keyRisks        = "risks"
	keyTimeline     = "timeline"
)

// Decode parses raw extractor output into an ExtractionResult.
//
// Models often wrap the JSON object in prose or code fences, so only the
// text from the first '{' to the last '}' is parsed. Anything that is
// still not a JSON object is reported as domain.ErrMalformedExtraction.
// Missing categories decode as empty lists and null field values are
// dropped. Every list entry keeps its position, because chunk-local
// indices address the list as emitted: a null entry decodes as an empty
// unstructured record.
func Decode(raw string) (domain.ExtractionResult, error) {
	var res domain.ExtractionResult

	body, ok := salvage(raw)
	if !ok || !gjson.Valid(body) {
		return res, fmt.Errorf("%w: no JSON object in output %q", domain.ErrMalformedExtraction, preview(raw))
	}

	root := gjson.Parse(body)
	if !root.IsObject() {
		return res, fmt.Errorf("%w: output is not an object", domain.ErrMalformedExtraction)
	}

	res.Requirements = records(root.Get(keyRequirements))
	res.Decisions = records(root.Get(keyDecisions))
	res.Stakeholders = records(root.Get(keyStakeholders))
	res.Risks = records(root.Get(keyRisks))
	res.Timeline = records(root.Get(keyTimeline))

	// Some gateways answer a failed call with {"error": "..."}.
	if errMsg := root.Get("error"); errMsg.Exists() && res.IsEmpty() {
		return res, fmt.Errorf("%w: extractor reported %q", domain.ErrMalformedExtraction, errMsg.String())
	}

	return res, nil
}

func salvage(raw string) (string, bool) {
	start := strings.IndexByte(raw, '{')
	end := strings.LastIndexByte(raw, '}')
	if start < 0 || end < start {
		return "", false
	}
	return raw[start : end+1], true
}

func records(list gjson.Result) []domain.ExtractionRecord {
	if !list.Exists() || list.Type == gjson.Null {
		return nil
	}
	if !list.IsArray() {
		// A single entry where a list was expected.
		return []domain.ExtractionRecord{record(list)}
	}

	var out []domain.ExtractionRecord
	list.ForEach(func(_, item gjson.Result) bool {
		out = append(out, record(item))
		return true
	})
	return out
}

func record(item gjson.Result) domain.ExtractionRecord {
	switch {
	case item.Type == gjson.Null:
		return domain.ExtractionRecord{}
	case item.IsObject():
		fields := make(map[string]string)
		item.ForEach(func(key, value gjson.Result) bool {
			switch value.Type {
			case gjson.Null:
			case gjson.String, gjson.Number, gjson.True, gjson.False:
				fields[key.String()] = value.String()
			case gjson.JSON:
				fields[key.String()] = value.Raw
			}
			return true
		})
		return domain.ExtractionRecord{Structured: true, Fields: fields}
	case item.IsArray():
		return domain.ExtractionRecord{Text: item.Raw}
	default:
		return domain.ExtractionRecord{Text: item.String()}
	}
}

func preview(s string) string {
	const limit = 80
	s = strings.TrimSpace(s)
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
