package domain

import (
	"path/filepath"
	"strings"
)

const (
	// RebundDirName is the name of the internal workspace directory.
	RebundDirName = ".rebund"

	// CacheDirName is the name of the result cache directory.
	CacheDirName = "cache"

	// CacheDBName is the name of the sqlite result cache database.
	CacheDBName = "results.db"

	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "rebund.yaml"

	// DebugLogFile is the name of the debug log file.
	DebugLogFile = "debug.log"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultRebundPath returns the default root directory for rebund metadata.
func DefaultRebundPath() string {
	return RebundDirName
}

// DefaultCachePath returns the default path for the result cache.
// It joins .rebund and cache.
func DefaultCachePath() string {
	return filepath.Join(RebundDirName, CacheDirName)
}

// DefaultDebugLogPath returns the default path for the debug log.
// It joins .rebund and debug.log.
func DefaultDebugLogPath() string {
	return filepath.Join(RebundDirName, DebugLogFile)
}

// IsInternalPath reports whether rel, relative to the project root, lives in a directory
// that never contributes sources.
func IsInternalPath(rel string) bool {
	for _, seg := range strings.Split(filepath.ToSlash(rel), "/") {
		switch seg {
		case RebundDirName, ".git", ".jj", "node_modules":
			return true
		}
	}
	return false
}
