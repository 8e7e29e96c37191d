package fs

import (
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/rebund/internal/core/domain"
	"go.trai.ch/zerr"
)

// Memory is an in-memory FileSystem. Directories exist implicitly as the
// parents of stored files or when created with MkdirAll.
type Memory struct {
	mu    sync.RWMutex
	files map[string]memFile
	dirs  map[string]struct{}
	now   func() time.Time
}

type memFile struct {
	data    []byte
	mode    fs.FileMode
	modTime time.Time
}

// NewMemory creates a Memory holding files, keyed by absolute path.
func NewMemory(files map[string]string) *Memory {
	m := &Memory{
		files: make(map[string]memFile, len(files)),
		dirs:  make(map[string]struct{}),
		now:   time.Now,
	}
	for path, content := range files {
		m.put(path, []byte(content), domain.FilePerm)
	}
	return m
}

// Set writes content to path, creating it when missing.
func (m *Memory) Set(path, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.put(path, []byte(content), domain.FilePerm)
}

// Remove deletes the file at path.
func (m *Memory) Remove(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, filepath.Clean(path))
}

// Files returns the stored file paths, sorted.
func (m *Memory) Files() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.files))
	for path := range m.files {
		out = append(out, path)
	}
	slices.Sort(out)
	return out
}

func (m *Memory) put(path string, data []byte, perm fs.FileMode) {
	path = filepath.Clean(path)
	m.files[path] = memFile{data: slices.Clone(data), mode: perm, modTime: m.now()}
	for dir := filepath.Dir(path); ; dir = filepath.Dir(dir) {
		m.dirs[dir] = struct{}{}
		if dir == filepath.Dir(dir) {
			break
		}
	}
}

// ReadFile returns a copy of the file at path.
func (m *Memory) ReadFile(path string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.files[filepath.Clean(path)]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return slices.Clone(f.data), nil
}

// Stat returns the file info of path.
func (m *Memory) Stat(path string) (fs.FileInfo, error) {
	path = filepath.Clean(path)
	m.mu.RLock()
	defer m.mu.RUnlock()
	if f, ok := m.files[path]; ok {
		return memInfo{name: filepath.Base(path), size: int64(len(f.data)), mode: f.mode, modTime: f.modTime}, nil
	}
	if _, ok := m.dirs[path]; ok {
		return memInfo{name: filepath.Base(path), mode: fs.ModeDir | domain.DirPerm}, nil
	}
	return nil, &fs.PathError{Op: "stat", Path: path, Err: fs.ErrNotExist}
}

// IsFile reports whether path is a stored file.
func (m *Memory) IsFile(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.files[filepath.Clean(path)]
	return ok
}

// Glob matches the stored files below root against pattern.
func (m *Memory) Glob(root, pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidGlobPattern, ""), "pattern", pattern)
	}
	root = filepath.Clean(root)

	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []string
	for path := range m.files {
		rel, err := filepath.Rel(root, path)
		if err != nil || strings.HasPrefix(rel, "..") || domain.IsInternalPath(rel) {
			continue
		}
		if ok, _ := doublestar.Match(pattern, filepath.ToSlash(rel)); ok {
			out = append(out, path)
		}
	}
	slices.Sort(out)
	return out, nil
}

// WriteFile stores data at path.
func (m *Memory) WriteFile(path string, data []byte, perm fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.put(path, data, perm)
	return nil
}

// MkdirAll records path and its parents as directories.
func (m *Memory) MkdirAll(path string, _ fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for dir := filepath.Clean(path); ; dir = filepath.Dir(dir) {
		m.dirs[dir] = struct{}{}
		if dir == filepath.Dir(dir) {
			break
		}
	}
	return nil
}

// RemoveAll removes path and everything below it.
func (m *Memory) RemoveAll(path string) error {
	path = filepath.Clean(path)
	prefix := path + string(filepath.Separator)
	m.mu.Lock()
	defer m.mu.Unlock()
	for p := range m.files {
		if p == path || strings.HasPrefix(p, prefix) {
			delete(m.files, p)
		}
	}
	for d := range m.dirs {
		if d == path || strings.HasPrefix(d, prefix) {
			delete(m.dirs, d)
		}
	}
	return nil
}

type memInfo struct {
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
}

func (i memInfo) Name() string       { return i.name }
func (i memInfo) Size() int64        { return i.size }
func (i memInfo) Mode() fs.FileMode  { return i.mode }
func (i memInfo) ModTime() time.Time { return i.modTime }
func (i memInfo) IsDir() bool        { return i.mode.IsDir() }
func (i memInfo) Sys() any           { return nil }
