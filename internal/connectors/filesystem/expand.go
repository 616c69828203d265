// Package filesystem expands command line arguments into the files to
// ingest.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/brdify/internal/core/domain"
	"github.com/custodia-labs/brdify/internal/logger"
)

// Filter reports whether a file can be normalised.
type Filter interface {
	Supports(path string) bool
}

// Expand resolves each argument to files. Files are kept as given so
// unsupported types are reported by the caller. Directories contribute
// their visible files that filter supports, sorted by path; subdirectories
// are walked only when recursive is set. Duplicates are dropped.
func Expand(ctx context.Context, args []string, filter Filter, recursive bool) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, arg := range args {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path := ResolvePath(arg)
		info, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s does not exist", domain.ErrInvalidInput, path)
			}
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		if !info.IsDir() {
			add(path)
			continue
		}

		files, err := walk(ctx, path, filter, recursive)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			logger.Warn("no supported files in %s", path)
		}
		for _, f := range files {
			add(f)
		}
	}
	return out, nil
}

func walk(ctx context.Context, root string, filter Filter, recursive bool) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == root {
			return nil
		}
		if isHidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if filter != nil && !filter.Supports(path) {
			logger.Debug("skipping unsupported file %s", path)
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	sort.Strings(files)
	return files, nil
}

// isHidden reports whether a path has a component starting with a dot.
// "." and ".." are not hidden.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part != "" && part != "." && part != ".." && strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
