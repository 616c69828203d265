package render

import (
	"context"
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/custodia-labs/brdify/internal/core/domain"
	"github.com/custodia-labs/brdify/internal/core/ports/driven"
)

// FormatPDF is the PDF export format name.
const FormatPDF = "pdf"

var _ driven.Renderer = (*PDF)(nil)

// Page layout in millimetres.
const (
	pdfLineHeight = 6.0
	pdfMargin     = 18.0
)

// PDF writes a document as an A4 report.
type PDF struct{}

// NewPDF creates a PDF renderer.
func NewPDF() *PDF {
	return &PDF{}
}

// Format returns "pdf".
func (r *PDF) Format() string { return FormatPDF }

// Extension returns ".pdf".
func (r *PDF) Extension() string { return ".pdf" }

// Render writes doc to w. Text outside cp1252 is transliterated by
// gofpdf's core-font translator.
func (r *PDF) Render(ctx context.Context, doc *domain.BrdDocument, w io.Writer) error {
	if doc == nil {
		return fmt.Errorf("%w: nil document", domain.ErrInvalidInput)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.SetTitle(doc.Title, true)
	pdf.SetCreator("brdify", true)
	if !doc.CreatedAt.IsZero() {
		pdf.SetCreationDate(doc.CreatedAt)
	}
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 8, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(0, pdfLineHeight, "PRODUCED BY BRDIFY", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 18)
	pdf.MultiCell(0, 9, tr(doc.Title), "", "L", false)
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, pdfLineHeight, tr(fmt.Sprintf("Status: %s    Source: %s", doc.Status, doc.Source.SourceType)),
		"", 1, "L", false, 0, "")
	pdf.Ln(4)

	if doc.Summary != "" {
		heading(pdf, "Executive Summary")
		body(pdf, tr(doc.Summary))
	}

	heading(pdf, "Requirements")
	if len(doc.Requirements) == 0 {
		body(pdf, "None identified.")
	}
	for _, req := range doc.Requirements {
		line := fmt.Sprintf("%s  %s", req.Key, req.Description)
		if req.Type != "" || req.Priority != "" {
			line += fmt.Sprintf("  [%s, %s]", req.Type, req.Priority)
		}
		bullet(pdf, tr(line))
	}

	if len(doc.Decisions) > 0 {
		heading(pdf, "Decisions")
		for _, d := range doc.Decisions {
			bullet(pdf, tr(fmt.Sprintf("%s  %s (%s)", d.Key, d.Description, d.Status)))
		}
	}
	if len(doc.Stakeholders) > 0 {
		heading(pdf, "Stakeholders")
		for _, s := range doc.Stakeholders {
			bullet(pdf, tr(fmt.Sprintf("%s  %s: %s", s.Key, s.Name, s.Role)))
		}
	}
	if len(doc.Risks) > 0 {
		heading(pdf, "Risks")
		for _, k := range doc.Risks {
			bullet(pdf, tr(fmt.Sprintf("%s  %s (probability %s, impact %s). Mitigation: %s",
				k.Key, k.Description, k.Probability, k.Impact, k.Mitigation)))
		}
	}
	if len(doc.Timeline) > 0 {
		heading(pdf, "Timeline")
		for _, t := range doc.Timeline {
			bullet(pdf, tr(fmt.Sprintf("%s  %s, %s. %s", t.Key, t.Milestone, t.ExpectedDate, t.Description)))
		}
	}

	if traces := doc.Traces(); len(traces) > 0 {
		heading(pdf, "Traceability")
		for _, t := range traces {
			bullet(pdf, tr(fmt.Sprintf("%s -> decision %s, risk %s, milestone %s",
				t.Requirement.Key, decisionKey(t), riskKey(t), timelineKey(t))))
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func heading(pdf *gofpdf.Fpdf, text string) {
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, text, "B", 1, "L", false, 0, "")
	pdf.Ln(2)
}

func body(pdf *gofpdf.Fpdf, text string) {
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, pdfLineHeight, text, "", "L", false)
	pdf.Ln(2)
}

func bullet(pdf *gofpdf.Fpdf, text string) {
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(5, pdfLineHeight, "-", "", 0, "L", false, 0, "")
	pdf.MultiCell(0, pdfLineHeight, text, "", "L", false)
}
