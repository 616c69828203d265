package chunker

import (
	"context"
	"math/rand"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/custodia-labs/brdify/internal/core/domain"
)

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		p := New()
		if p.chunkSize != DefaultMaxSize {
			t.Errorf("expected chunkSize %d, got %d", DefaultMaxSize, p.chunkSize)
		}
		if p.overlap != 0 {
			t.Errorf("expected overlap 0, got %d", p.overlap)
		}
	})

	t.Run("custom values", func(t *testing.T) {
		p := New(WithChunkSize(500), WithOverlap(50))
		if p.chunkSize != 500 || p.overlap != 50 {
			t.Errorf("unexpected settings: size %d overlap %d", p.chunkSize, p.overlap)
		}
	})

	t.Run("overlap exceeds chunk size", func(t *testing.T) {
		p := New(WithChunkSize(100), WithOverlap(150))
		if p.overlap >= p.chunkSize {
			t.Error("overlap should be reduced when it exceeds chunk size")
		}
	})

	t.Run("invalid values ignored", func(t *testing.T) {
		p := New(WithChunkSize(0), WithOverlap(-1))
		if p.chunkSize != DefaultMaxSize {
			t.Errorf("expected default chunkSize, got %d", p.chunkSize)
		}
		if p.overlap != DefaultOverlap {
			t.Errorf("expected default overlap, got %d", p.overlap)
		}
	})
}

func TestProcessor_Name(t *testing.T) {
	if New().Name() != "chunker" {
		t.Errorf("expected name 'chunker', got '%s'", New().Name())
	}
}

func TestProcessor_Process(t *testing.T) {
	p := New(WithChunkSize(40))
	src := &domain.SourceData{Normalised: strings.Repeat("The system shall log in.\n", 5)}

	chunks, err := p.Process(context.Background(), src, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := join(chunks); got != src.Normalised {
		t.Errorf("chunks do not reconstruct input")
	}
}

func TestProcessor_Process_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Process(ctx, &domain.SourceData{Normalised: "text"}, nil)
	if err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestSplit_Empty(t *testing.T) {
	if chunks := Split("", 100, 0); len(chunks) != 0 {
		t.Errorf("expected no chunks, got %d", len(chunks))
	}
}

func TestSplit_ShortInput(t *testing.T) {
	for _, text := range []string{"a", "Short text.", strings.Repeat("x", 100)} {
		chunks := Split(text, 100, 0)
		if len(chunks) != 1 {
			t.Fatalf("expected 1 chunk for %d bytes, got %d", len(text), len(chunks))
		}
		if chunks[0].Content != text || chunks[0].Start != 0 || chunks[0].End != len(text) {
			t.Errorf("single chunk should equal input: %+v", chunks[0])
		}
	}
}

// Two paragraph breaks near the midpoint and three-quarter point of a
// 25,000 byte text must be the cut points.
func TestSplit_ParagraphBreaks(t *testing.T) {
	buf := []byte(strings.Repeat("w", 25000))
	for i := 0; i < len(buf); i += 7 {
		buf[i] = ' '
	}
	buf[11500] = '\n'
	buf[18750] = '\n'
	text := string(buf)

	chunks := Split(text, 12000, 0)

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	if chunks[0].End != 11501 {
		t.Errorf("first cut should follow the break at 11500, got %d", chunks[0].End)
	}
	if chunks[1].End != 18751 {
		t.Errorf("second cut should follow the break at 18750, got %d", chunks[1].End)
	}
	if join(chunks) != text {
		t.Error("chunks do not reconstruct input")
	}
}

func TestSplit_PeriodFallback(t *testing.T) {
	text := strings.Repeat("a", 70) + "." + strings.Repeat("b", 60)

	chunks := Split(text, 100, 0)

	if chunks[0].Content != strings.Repeat("a", 70)+"." {
		t.Errorf("expected cut after period, got %q", chunks[0].Content)
	}
}

func TestSplit_BoundaryTooEarly(t *testing.T) {
	// A newline in the first half of the window is ignored.
	text := strings.Repeat("a", 10) + "\n" + strings.Repeat("b", 200)

	chunks := Split(text, 100, 0)

	if chunks[0].End != 100 {
		t.Errorf("expected hard cut at 100, got %d", chunks[0].End)
	}
}

func TestSplit_HardCutRespectsRunes(t *testing.T) {
	text := strings.Repeat("é", 120) // 2 bytes each

	chunks := Split(text, 51, 0)

	for _, c := range chunks {
		if !utf8.ValidString(c.Content) {
			t.Fatalf("chunk %d splits a rune", c.Position)
		}
		if c.Len() > 51 {
			t.Errorf("chunk %d exceeds max size: %d", c.Position, c.Len())
		}
	}
	if join(chunks) != text {
		t.Error("chunks do not reconstruct input")
	}
}

func TestSplit_WindowNarrowerThanRune(t *testing.T) {
	text := "€€" // 3 bytes each

	chunks := Split(text, 2, 0)

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	for _, c := range chunks {
		if c.Content != "€" {
			t.Errorf("chunk %d = %q, want a whole rune", c.Position, c.Content)
		}
		if !utf8.ValidString(c.Content) {
			t.Errorf("chunk %d splits a rune", c.Position)
		}
	}
	if join(chunks) != text {
		t.Error("chunks do not reconstruct input")
	}
}

func TestSplit_WindowNarrowerThanRuneWithOverlap(t *testing.T) {
	text := "a€b€"

	chunks := Split(text, 2, 1)

	for _, c := range chunks {
		if !utf8.ValidString(c.Content) {
			t.Fatalf("chunk %d splits a rune: %q", c.Position, c.Content)
		}
	}
	if chunks[len(chunks)-1].End != len(text) {
		t.Error("last chunk does not reach the end of the input")
	}
}

func TestSplit_Overlap(t *testing.T) {
	text := strings.Repeat("0123456789", 30)

	chunks := Split(text, 100, 20)

	for i := 1; i < len(chunks); i++ {
		if chunks[i].Start != chunks[i-1].End-20 {
			t.Errorf("chunk %d should start 20 bytes before previous end", i)
		}
		if chunks[i].Start <= chunks[i-1].Start {
			t.Fatalf("start positions must strictly increase")
		}
	}
	if chunks[len(chunks)-1].End != len(text) {
		t.Error("last chunk must reach end of text")
	}
}

func TestSplit_LargeOverlapStillTerminates(t *testing.T) {
	// A cut after a newline at 55 with overlap 60 would go backwards.
	text := strings.Repeat("a", 55) + "\n" + strings.Repeat("b", 200)

	chunks := Split(text, 99, 60)

	for i := 1; i < len(chunks); i++ {
		if chunks[i].Start <= chunks[i-1].Start {
			t.Fatalf("start positions must strictly increase: %d then %d", chunks[i-1].Start, chunks[i].Start)
		}
	}
}

// Property: contiguous positions, bounded size, no gaps, no loss.
func TestSplit_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	alphabet := []byte("abc def.\n")

	for n := 0; n < 200; n++ {
		size := rng.Intn(3000)
		buf := make([]byte, size)
		for i := range buf {
			buf[i] = alphabet[rng.Intn(len(alphabet))]
		}
		text := string(buf)
		maxSize := 10 + rng.Intn(400)

		chunks := Split(text, maxSize, 0)

		prevEnd := 0
		for i, c := range chunks {
			if c.Position != i {
				t.Fatalf("position %d at index %d", c.Position, i)
			}
			if c.Start != prevEnd {
				t.Fatalf("gap before chunk %d", i)
			}
			if c.Len() > maxSize || c.Len() == 0 {
				t.Fatalf("chunk %d has length %d (max %d)", i, c.Len(), maxSize)
			}
			if c.Content != text[c.Start:c.End] {
				t.Fatalf("chunk %d content does not match its span", i)
			}
			prevEnd = c.End
		}
		if prevEnd != len(text) {
			t.Fatalf("chunks end at %d, text is %d", prevEnd, len(text))
		}
	}
}

func TestStrings(t *testing.T) {
	parts := Strings("one.\ntwo.\nthree.\n", 10)
	if strings.Join(parts, "") != "one.\ntwo.\nthree.\n" {
		t.Errorf("unexpected parts: %q", parts)
	}
}

func join(chunks []domain.SourceChunk) string {
	var b strings.Builder
	for _, c := range chunks {
		b.WriteString(c.Content)
	}
	return b.String()
}
