// Package fs provides the file system adapters: the local disk and an
// in-memory tree used by tests and dry runs.
package fs

import (
	"io/fs"
	"iter"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/rebund/internal/core/domain"
)

// Walker provides file walking functionality.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkFiles yields every file below dir, skipping the internal directories of
// the project at root and directories whose name matches one of ignores.
// Paths start with dir.
func (w *Walker) WalkFiles(root, dir string, ignores []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == dir {
					return err
				}
				return nil
			}
			if d.IsDir() {
				return w.skipDir(root, path, d.Name(), ignores)
			}
			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

func (w *Walker) skipDir(root, path, name string, ignores []string) error {
	if rel, err := filepath.Rel(root, path); err == nil && rel != "." && domain.IsInternalPath(rel) {
		return filepath.SkipDir
	}
	for _, ignore := range ignores {
		if ok, _ := doublestar.Match(ignore, name); ok {
			return filepath.SkipDir
		}
	}
	return nil
}
