package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/brdify/internal/core/domain"
)

type recordingCreator struct {
	mu    sync.Mutex
	paths []string
	err   error
}

func (c *recordingCreator) CreateFromFile(_ context.Context, path, _ string) (*domain.BrdDocument, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paths = append(c.paths, path)
	if c.err != nil {
		return nil, c.err
	}
	return &domain.BrdDocument{ID: "brd-" + filepath.Base(path)}, nil
}

type extFilter map[string]bool

func (f extFilter) Supports(path string) bool {
	return f[filepath.Ext(path)]
}

func TestIsHidden(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{".hidden", true},
		{"path/to/.hidden", true},
		{"dir/.git/config", true},
		{".config/.cache/data", true},
		{"file.txt", false},
		{"path/to/file.txt", false},
		{".", false},
		{"..", false},
		{"path/./file", false},
		{"", false},
		{"file.hidden", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, isHidden(tt.path))
		})
	}
}

func TestWatcher_Relevant(t *testing.T) {
	dir := t.TempDir()
	visible := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(visible, []byte("x"), 0644))
	hidden := filepath.Join(dir, ".notes.txt.swp")
	require.NoError(t, os.WriteFile(hidden, []byte("x"), 0644))
	unsupported := filepath.Join(dir, "slides.pptx")
	require.NoError(t, os.WriteFile(unsupported, []byte("x"), 0644))
	sub := filepath.Join(dir, "sub.txt")
	require.NoError(t, os.Mkdir(sub, 0755))

	w := New(dir, &recordingCreator{}, extFilter{".txt": true})

	tests := []struct {
		name string
		path string
		op   fsnotify.Op
		want bool
	}{
		{"create file", visible, fsnotify.Create, true},
		{"write file", visible, fsnotify.Write, true},
		{"chmod ignored", visible, fsnotify.Chmod, false},
		{"remove ignored", visible, fsnotify.Remove, false},
		{"hidden file", hidden, fsnotify.Create, false},
		{"unsupported type", unsupported, fsnotify.Create, false},
		{"directory", sub, fsnotify.Create, false},
		{"vanished file", filepath.Join(dir, "gone.txt"), fsnotify.Create, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, ok := w.relevant(fsnotify.Event{Name: tt.path, Op: tt.op})
			assert.Equal(t, tt.want, ok)
			if tt.want {
				assert.Equal(t, tt.path, path)
			}
		})
	}
}

func TestWatcher_HiddenInboxStillWatched(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".inbox")
	require.NoError(t, os.Mkdir(dir, 0755))
	file := filepath.Join(dir, "call.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	w := New(dir, &recordingCreator{}, nil)
	_, ok := w.relevant(fsnotify.Event{Name: file, Op: fsnotify.Create})

	assert.True(t, ok)
}

func TestWatcher_Watch(t *testing.T) {
	dir := t.TempDir()
	creator := &recordingCreator{}
	w := New(dir, creator, extFilter{".txt": true}, WithDebounce(40*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	results, err := w.Watch(ctx)
	require.NoError(t, err)

	path := filepath.Join(dir, "kickoff.txt")
	go func() {
		time.Sleep(50 * time.Millisecond)
		_ = os.WriteFile(filepath.Join(dir, ".tmp"), []byte("skip"), 0644)
		_ = os.WriteFile(filepath.Join(dir, "deck.pptx"), []byte("skip"), 0644)
		_ = os.WriteFile(path, []byte("first"), 0644)
		_ = os.WriteFile(path, []byte("first and second"), 0644)
	}()

	select {
	case res := <-results:
		require.NoError(t, res.Err)
		assert.Equal(t, path, res.Path)
		assert.Equal(t, "brd-kickoff.txt", res.Document.ID)
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for processed file")
	}

	cancel()
	for range results {
	}

	creator.mu.Lock()
	defer creator.mu.Unlock()
	assert.Equal(t, []string{path}, creator.paths, "writes are debounced into one create")
}

func TestWatcher_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := New(t.TempDir(), nil, nil).Watch(ctx)
	assert.Error(t, err)

	_, err = New(filepath.Join(t.TempDir(), "missing"), &recordingCreator{}, nil).Watch(ctx)
	assert.ErrorIs(t, err, os.ErrNotExist)

	file := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(file, nil, 0644))
	_, err = New(file, &recordingCreator{}, nil).Watch(ctx)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
