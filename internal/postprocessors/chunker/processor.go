// Package chunker provides a boundary-aware text chunking processor.
package chunker

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/brdify/internal/core/domain"
	"github.com/custodia-labs/brdify/internal/logger"
)

// DefaultMaxSize is the default maximum chunk length in bytes.
const DefaultMaxSize = domain.DefaultChunkSize

// DefaultOverlap is the default number of bytes repeated between chunks.
// Zero, because overlapping text gets extracted twice.
const DefaultOverlap = domain.DefaultOverlap

// Processor splits the normalised source text into chunks.
// It implements the PostProcessor interface.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the maximum chunk size in bytes.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in bytes.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultMaxSize,
		overlap:   DefaultOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits src.Normalised into chunks.
// Input chunks are ignored; this processor creates new chunks.
func (p *Processor) Process(ctx context.Context, src *domain.SourceData, _ []domain.SourceChunk) ([]domain.SourceChunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	chunks := Split(src.Normalised, p.chunkSize, p.overlap)
	logger.Debug("chunker: %d bytes -> %d chunks (max %d, overlap %d)",
		len(src.Normalised), len(chunks), p.chunkSize, p.overlap)
	return chunks, nil
}

// Split cuts text into chunks of at most maxSize bytes.
//
// Text that fits is returned as a single chunk; empty text yields none.
// Otherwise each cut goes after the last newline in the window, or failing
// that after the last period, as long as the cut keeps at least half a
// window of text. Without such a boundary the window is cut hard, backed
// off to a rune boundary. A window narrower than the rune it starts in
// grows to the end of that rune, so chunks never split a character.
//
// With overlap the next chunk starts overlap bytes before the previous cut,
// but always strictly after the previous start.
func Split(text string, maxSize, overlap int) []domain.SourceChunk {
	if text == "" {
		return nil
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if overlap < 0 || overlap >= maxSize {
		overlap = 0
	}

	chunks := make([]domain.SourceChunk, 0, len(text)/maxSize+1)
	start := 0
	for start < len(text) {
		end := len(text)
		if end-start > maxSize {
			end = cut(text, start, maxSize)
		}

		chunks = append(chunks, domain.SourceChunk{
			Position: len(chunks),
			Start:    start,
			End:      end,
			Content:  text[start:end],
		})

		if end == len(text) {
			break
		}
		start = nextStart(text, start, end, overlap)
	}
	return chunks
}

// Strings is Split without offsets.
func Strings(text string, maxSize int) []string {
	chunks := Split(text, maxSize, 0)
	out := make([]string, len(chunks))
	for i, c := range chunks {
		out[i] = c.Content
	}
	return out
}

// cut returns the end offset of the chunk starting at start.
func cut(text string, start, maxSize int) int {
	limit := start + maxSize
	window := text[start:limit]
	minCut := maxSize / 2

	if i := strings.LastIndexByte(window, '\n'); i >= minCut {
		return start + i + 1
	}
	if i := strings.LastIndexByte(window, '.'); i >= minCut {
		return start + i + 1
	}

	end := limit
	for end > start && !utf8.RuneStart(text[end]) {
		end--
	}
	if end > start {
		return end
	}

	// The window holds part of a single rune.
	end = limit
	for end < len(text) && !utf8.RuneStart(text[end]) {
		end++
	}
	return end
}

func nextStart(text string, start, end, overlap int) int {
	next := end - overlap
	if next <= start {
		return end
	}
	for next < end && !utf8.RuneStart(text[next]) {
		next++
	}
	return next
}
