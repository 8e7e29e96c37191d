package ports

import "io/fs"

// FileSystem is the file access used by the engine and the built-in plugins.
// Paths are absolute.
//
//go:generate mockgen -source=filesystem.go -destination=mocks/mock_filesystem.go -package=mocks
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	Stat(path string) (fs.FileInfo, error)
	// IsFile reports whether path exists and is a regular file.
	IsFile(path string) bool
	// Glob returns the files below root matching the slash-separated pattern, sorted.
	Glob(root, pattern string) ([]string, error)
	WriteFile(path string, data []byte, perm fs.FileMode) error
	MkdirAll(path string, perm fs.FileMode) error
	RemoveAll(path string) error
}
