package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/brdify/internal/core/domain"
	"github.com/custodia-labs/brdify/internal/core/ports/driving"
)

// fileBrd fakes CreateFromFile and tracks how many calls overlap.
type fileBrd struct {
	driving.BrdService
	fail    map[string]bool
	active  atomic.Int32
	maxSeen atomic.Int32
}

func (f *fileBrd) CreateFromFile(_ context.Context, path, _ string) (*domain.BrdDocument, error) {
	n := f.active.Add(1)
	defer f.active.Add(-1)
	for {
		seen := f.maxSeen.Load()
		if n <= seen || f.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)

	if f.fail[path] {
		return nil, domain.ErrUnsupportedType
	}
	return &domain.BrdDocument{ID: "doc-" + path}, nil
}

func TestIngestService_IngestFiles(t *testing.T) {
	brd := &fileBrd{fail: map[string]bool{"b.pptx": true}}
	svc := NewIngestService(brd, 2)
	paths := []string{"a.txt", "b.pptx", "c.md", "d.eml", "e.docx"}

	results := svc.IngestFiles(context.Background(), paths)

	require.Len(t, results, len(paths))
	for i, r := range results {
		assert.Equal(t, paths[i], r.Path)
	}
	assert.True(t, errors.Is(results[1].Err, domain.ErrUnsupportedType))
	assert.Nil(t, results[1].Document)
	assert.Equal(t, "doc-e.docx", results[4].Document.ID)
	assert.LessOrEqual(t, brd.maxSeen.Load(), int32(2))

	docs := Succeeded(results)
	assert.Len(t, docs, 4)
}

func TestIngestService_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc := NewIngestService(&fileBrd{}, 4)

	results := svc.IngestFiles(ctx, []string{"a.txt", "b.txt"})

	for _, r := range results {
		assert.ErrorIs(t, r.Err, context.Canceled)
	}
	assert.Empty(t, Succeeded(results))
}

func TestIngestService_WithRealService(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "kickoff.txt")
	require.NoError(t, os.WriteFile(good, []byte(twoChunks), 0600))
	bad := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(bad, []byte("  \n"), 0600))

	brd, store := setupBrdService(twoChunkExtractor())
	results := NewIngestService(brd, 0).IngestFiles(context.Background(), []string{good, bad})

	require.NoError(t, results[0].Err)
	assert.True(t, errors.Is(results[1].Err, domain.ErrInvalidInput))
	list, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
