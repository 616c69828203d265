// Package render writes BRD documents in export formats.
//
// Renderers:
//   - PDF: title, summary and the entity lists, via gofpdf
//   - Markdown: the full document including the traceability matrix
//   - JSON: the document view as stored
package render
