// Package cleaner provides a text clean-up processor that runs before chunking.
package cleaner

import (
	"context"
	"regexp"
	"strings"

	"github.com/custodia-labs/brdify/internal/core/domain"
	"github.com/custodia-labs/brdify/internal/logger"
)

var (
	headerLine     = regexp.MustCompile(`(?im)^(?:From:|To:|Sent:|Subject:).*`)
	disclaimerLine = regexp.MustCompile(`(?i)(?:Disclaimer:|Confidentiality Notice:).*`)
	blankRuns      = regexp.MustCompile(`\n{3,}`)
)

// Processor normalises line endings, strips email headers and legal
// footers, and collapses runs of blank lines.
// It implements the PostProcessor interface.
type Processor struct {
	stripHeaders     bool
	stripDisclaimers bool
}

// Option configures the cleaner processor.
type Option func(*Processor)

// WithHeaderStripping toggles removal of From/To/Sent/Subject lines.
func WithHeaderStripping(on bool) Option {
	return func(p *Processor) {
		p.stripHeaders = on
	}
}

// WithDisclaimerStripping toggles removal of disclaimer and confidentiality notices.
func WithDisclaimerStripping(on bool) Option {
	return func(p *Processor) {
		p.stripDisclaimers = on
	}
}

// New creates a cleaner with all rules enabled.
func New(opts ...Option) *Processor {
	p := &Processor{stripHeaders: true, stripDisclaimers: true}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "cleaner"
}

// Process rewrites src.Normalised and passes chunks through unchanged.
func (p *Processor) Process(_ context.Context, src *domain.SourceData, chunks []domain.SourceChunk) ([]domain.SourceChunk, error) {
	before := len(src.Normalised)
	src.Normalised = p.Clean(src.Normalised)
	logger.Debug("cleaner: %d -> %d bytes", before, len(src.Normalised))
	return chunks, nil
}

// Clean applies the cleaning rules to text.
func (p *Processor) Clean(text string) string {
	if text == "" {
		return ""
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	if p.stripHeaders {
		text = headerLine.ReplaceAllString(text, "")
	}
	if p.stripDisclaimers {
		text = disclaimerLine.ReplaceAllString(text, "")
	}

	// Collapse after stripping so removed lines don't leave tall gaps.
	text = blankRuns.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}
