package fs

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/rebund/internal/core/domain"
	"go.trai.ch/zerr"
)

// OS implements ports.FileSystem on the local disk.
type OS struct {
	walker *Walker
}

// NewOS creates a FileSystem using walker for globbing.
func NewOS(walker *Walker) *OS {
	return &OS{walker: walker}
}

// ReadFile reads the file at path.
func (o *OS) ReadFile(path string) ([]byte, error) {
	//nolint:gosec // paths come from the project configuration and resolved imports
	return os.ReadFile(path)
}

// Stat returns the file info of path.
func (o *OS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// IsFile reports whether path is a regular file.
func (o *OS) IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Glob returns the files below root whose slash-separated relative path
// matches pattern. Internal directories are never searched.
func (o *OS) Glob(root, pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidGlobPattern, ""), "pattern", pattern)
	}

	base, _ := doublestar.SplitPattern(pattern)
	dir := filepath.Join(root, filepath.FromSlash(base))
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	var out []string
	for path := range o.walker.WalkFiles(root, dir, nil) {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			continue
		}
		if ok, _ := doublestar.Match(pattern, filepath.ToSlash(rel)); ok {
			out = append(out, path)
		}
	}
	slices.Sort(out)
	return out, nil
}

// WriteFile writes data to path through a temporary file and a rename, so a
// reader never sees a partial file.
func (o *OS) WriteFile(path string, data []byte, perm fs.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(name)
		return err
	}
	if err := os.Chmod(name, perm); err != nil {
		_ = os.Remove(name)
		return err
	}
	return os.Rename(name, path)
}

// MkdirAll creates path and its parents.
func (o *OS) MkdirAll(path string, perm fs.FileMode) error {
	return os.MkdirAll(path, perm)
}

// RemoveAll removes path and everything below it.
func (o *OS) RemoveAll(path string) error {
	return os.RemoveAll(path)
}
