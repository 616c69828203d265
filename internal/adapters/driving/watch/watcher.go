// Package watch turns files dropped into an inbox directory into BRDs.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/brdify/internal/core/domain"
	"github.com/custodia-labs/brdify/internal/core/ports/driving"
	"github.com/custodia-labs/brdify/internal/logger"
)

// DefaultDebounce is how long a file must stay quiet before it is read.
// Editors and copies often produce a create followed by several writes.
const DefaultDebounce = 500 * time.Millisecond

// Creator builds a document from a file.
type Creator interface {
	CreateFromFile(ctx context.Context, path, title string) (*domain.BrdDocument, error)
}

// Filter reports whether a file can be normalised.
type Filter interface {
	Supports(path string) bool
}

// Watcher watches one directory (not recursively).
type Watcher struct {
	dir      string
	creator  Creator
	filter   Filter
	debounce time.Duration
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a file is processed.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// New creates a watcher for dir. filter may be nil to accept every file.
func New(dir string, creator Creator, filter Filter, opts ...Option) *Watcher {
	w := &Watcher{
		dir:      filepath.Clean(dir),
		creator:  creator,
		filter:   filter,
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Watch starts watching and returns one result per processed file.
// Files are processed one at a time in the order they settle. The channel
// is closed after ctx is cancelled.
func (w *Watcher) Watch(ctx context.Context) (<-chan driving.IngestResult, error) {
	if w.creator == nil {
		return nil, errors.New("watch: no creator configured")
	}
	info, err := os.Stat(w.dir)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", w.dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch %s: %w: not a directory", w.dir, domain.ErrInvalidInput)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fw.Add(w.dir); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch %s: %w", w.dir, err)
	}
	logger.Info("watching %s", w.dir)

	ready := make(chan string, 16)
	out := make(chan driving.IngestResult, 16)
	go w.collect(ctx, fw, ready)
	go w.process(ctx, ready, out)
	return out, nil
}

// collect debounces fsnotify events into settled paths.
func (w *Watcher) collect(ctx context.Context, fw *fsnotify.Watcher, ready chan<- string) {
	defer close(ready)
	defer fw.Close()

	pending := make(map[string]time.Time)
	tick := time.NewTicker(w.debounce / 2)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			if path, ok := w.relevant(event); ok {
				logger.Debug("watch: %s %s", event.Op, path)
				pending[path] = time.Now()
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			logger.Warn("watch: %v", err)
		case now := <-tick.C:
			for path, last := range pending {
				if now.Sub(last) < w.debounce {
					continue
				}
				delete(pending, path)
				select {
				case ready <- path:
				case <-ctx.Done():
					return
				}
			}
		}
	}
}

func (w *Watcher) process(ctx context.Context, ready <-chan string, out chan<- driving.IngestResult) {
	defer close(out)
	for path := range ready {
		res := driving.IngestResult{Path: path}
		res.Document, res.Err = w.creator.CreateFromFile(ctx, path, "")
		if res.Err != nil {
			logger.Warn("watch: %s: %v", path, res.Err)
		}
		select {
		case out <- res:
		case <-ctx.Done():
			return
		}
	}
}

// relevant reports whether event names a file that should be processed.
// Only creates and writes of visible, regular, supported files count.
func (w *Watcher) relevant(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}

	rel, err := filepath.Rel(w.dir, event.Name)
	if err != nil || isHidden(rel) {
		return "", false
	}

	info, err := os.Stat(event.Name)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	if w.filter != nil && !w.filter.Supports(event.Name) {
		logger.Debug("watch: skipping unsupported %s", event.Name)
		return "", false
	}
	return event.Name, true
}

// isHidden reports whether any element of path starts with a dot.
// "." and ".." are not hidden.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == "." || part == ".." {
			continue
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
