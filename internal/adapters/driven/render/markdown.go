package render

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/brdify/internal/core/domain"
	"github.com/custodia-labs/brdify/internal/core/ports/driven"
)

// FormatMarkdown is the Markdown export format name.
const FormatMarkdown = "markdown"

var _ driven.Renderer = (*Markdown)(nil)

// Markdown writes a document as a Markdown report.
type Markdown struct{}

// NewMarkdown creates a Markdown renderer.
func NewMarkdown() *Markdown {
	return &Markdown{}
}

// Format returns "markdown".
func (r *Markdown) Format() string { return FormatMarkdown }

// Extension returns ".md".
func (r *Markdown) Extension() string { return ".md" }

// Render writes doc to w.
func (r *Markdown) Render(_ context.Context, doc *domain.BrdDocument, w io.Writer) error {
	if doc == nil {
		return fmt.Errorf("%w: nil document", domain.ErrInvalidInput)
	}

	b := bufio.NewWriter(w)
	fmt.Fprintf(b, "# %s\n\n", doc.Title)
	fmt.Fprintf(b, "_Produced by brdify. Status: %s. Source: %s._\n\n", doc.Status, doc.Source.SourceType)

	if doc.Summary != "" {
		fmt.Fprintf(b, "## Executive Summary\n\n%s\n\n", doc.Summary)
	}

	b.WriteString("## Requirements\n\n")
	if len(doc.Requirements) == 0 {
		b.WriteString("None identified.\n\n")
	} else {
		b.WriteString("| Key | Requirement | Type | Priority |\n|---|---|---|---|\n")
		for _, req := range doc.Requirements {
			fmt.Fprintf(b, "| %s | %s | %s | %s |\n", req.Key, cell(req.Description), req.Type, req.Priority)
		}
		b.WriteString("\n")
	}

	if len(doc.Decisions) > 0 {
		b.WriteString("## Decisions\n\n")
		for _, d := range doc.Decisions {
			fmt.Fprintf(b, "- **%s** %s (%s)\n", d.Key, d.Description, d.Status)
		}
		b.WriteString("\n")
	}

	if len(doc.Stakeholders) > 0 {
		b.WriteString("## Stakeholders\n\n")
		for _, s := range doc.Stakeholders {
			if s.Role != "" {
				fmt.Fprintf(b, "- **%s** %s: %s\n", s.Key, s.Name, s.Role)
			} else {
				fmt.Fprintf(b, "- **%s** %s\n", s.Key, s.Name)
			}
		}
		b.WriteString("\n")
	}

	if len(doc.Risks) > 0 {
		b.WriteString("## Risks\n\n| Key | Risk | Probability | Impact | Mitigation |\n|---|---|---|---|---|\n")
		for _, k := range doc.Risks {
			fmt.Fprintf(b, "| %s | %s | %s | %s | %s |\n",
				k.Key, cell(k.Description), k.Probability, k.Impact, cell(k.Mitigation))
		}
		b.WriteString("\n")
	}

	if len(doc.Timeline) > 0 {
		b.WriteString("## Timeline\n\n| Key | Milestone | Expected | Notes |\n|---|---|---|---|\n")
		for _, t := range doc.Timeline {
			fmt.Fprintf(b, "| %s | %s | %s | %s |\n", t.Key, cell(t.Milestone), cell(t.ExpectedDate), cell(t.Description))
		}
		b.WriteString("\n")
	}

	if traces := doc.Traces(); len(traces) > 0 {
		b.WriteString("## Requirements Traceability Matrix\n\n| Requirement | Decision | Risk | Milestone | Source |\n|---|---|---|---|---|\n")
		for _, t := range traces {
			fmt.Fprintf(b, "| %s | %s | %s | %s | %s |\n",
				t.Requirement.Key, decisionKey(t), riskKey(t), timelineKey(t), cell(excerpt(t.SourceChunk, 80)))
		}
		b.WriteString("\n")
	}

	return b.Flush()
}

// cell makes text safe for a single table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", `\|`)
}

func excerpt(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func decisionKey(t domain.Trace) string {
	if t.Decision == nil {
		return "-"
	}
	return t.Decision.Key
}

func riskKey(t domain.Trace) string {
	if t.Risk == nil {
		return "-"
	}
	return t.Risk.Key
}

func timelineKey(t domain.Trace) string {
	if t.Timeline == nil {
		return "-"
	}
	return t.Timeline.Key
}
