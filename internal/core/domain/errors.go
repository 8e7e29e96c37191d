package domain

import "go.trai.ch/zerr"

var (
	// ErrCycleDetected is returned when a request attempts to depend on itself transitively.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrResolutionFailure is returned when a specifier cannot be resolved to a file.
	ErrResolutionFailure = zerr.New("resolution failed")

	// ErrTransformFailure is returned when a transformer rejects an asset.
	ErrTransformFailure = zerr.New("transform failed")

	// ErrBundlerFailure is returned when the bundler rejects the asset graph.
	ErrBundlerFailure = zerr.New("bundler failed")

	// ErrNamerFailure is returned when no namer produced a name for a bundle.
	ErrNamerFailure = zerr.New("no namer produced a bundle name")

	// ErrRuntimeFailure is returned when a runtime provider fails.
	ErrRuntimeFailure = zerr.New("runtime provider failed")

	// ErrCacheCorruption is returned when a stored result fails its integrity check.
	ErrCacheCorruption = zerr.New("cache entry failed integrity check")

	// ErrDependencyFailed is returned to a request whose dependency is errored.
	ErrDependencyFailed = zerr.New("dependency failed")

	// ErrRequestNotFound is returned when a request id is not present in the graph.
	ErrRequestNotFound = zerr.New("request not found")

	// ErrUnknownRequestKind is returned when no handler is registered for a request kind.
	ErrUnknownRequestKind = zerr.New("unknown request kind")

	// ErrResultTypeMismatch is returned when a request result has an unexpected type.
	ErrResultTypeMismatch = zerr.New("unexpected request result type")

	// ErrBuildFailed is returned when a build finishes with diagnostics.
	ErrBuildFailed = zerr.New("build failed")

	// ErrBuildInProgress is returned when a build is requested while another is executing.
	ErrBuildInProgress = zerr.New("build already in progress")

	// ErrNoEntries is returned when the configuration does not match any entry file.
	ErrNoEntries = zerr.New("no entries found")

	// ErrUnknownPlugin is returned when the configuration references an unregistered plugin.
	ErrUnknownPlugin = zerr.New("unknown plugin")

	// ErrDuplicatePlugin is returned when two plugins are registered under the same name.
	ErrDuplicatePlugin = zerr.New("plugin already registered")

	// ErrNoTransformer is returned when no transformer pipeline matches a file.
	ErrNoTransformer = zerr.New("no transformer matches file")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidConfigVersion is returned when the config file declares an unsupported version.
	ErrInvalidConfigVersion = zerr.New("unsupported config version")

	// ErrMissingEntries is returned when the config file declares no entries.
	ErrMissingEntries = zerr.New("config declares no entries")

	// ErrInvalidPluginRef is returned when a plugin reference has no name.
	ErrInvalidPluginRef = zerr.New("plugin reference requires a name")

	// ErrInvalidTransformerRule is returned when a transformer rule lacks a pattern or pipeline.
	ErrInvalidTransformerRule = zerr.New("transformer rule requires a pattern and a pipeline")

	// ErrInvalidGlobSyntax is returned when the configured glob syntax is unknown.
	ErrInvalidGlobSyntax = zerr.New("invalid glob syntax, expected 'doublestar' or 'gobwas'")

	// ErrInvalidGlobPattern is returned when a glob pattern cannot be compiled.
	ErrInvalidGlobPattern = zerr.New("invalid glob pattern")

	// ErrInvalidCacheBackend is returned when the configured cache backend is unknown.
	ErrInvalidCacheBackend = zerr.New("invalid cache backend, expected 'fs', 'sqlite' or 'memory'")

	// ErrStoreCreateFailed is returned when the result store cannot be created.
	ErrStoreCreateFailed = zerr.New("failed to create result store")

	// ErrStoreReadFailed is returned when a stored result cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read stored result")

	// ErrStoreWriteFailed is returned when a result cannot be written to the store.
	ErrStoreWriteFailed = zerr.New("failed to write stored result")

	// ErrResultEncodeFailed is returned when a request result cannot be encoded for the cache.
	ErrResultEncodeFailed = zerr.New("failed to encode request result")

	// ErrFileReadFailed is returned when a source file cannot be read.
	ErrFileReadFailed = zerr.New("failed to read source file")

	// ErrOutputWriteFailed is returned when a bundle cannot be written to the dist directory.
	ErrOutputWriteFailed = zerr.New("failed to write bundle output")

	// ErrWatcherFailed is returned when the file watcher cannot be started.
	ErrWatcherFailed = zerr.New("failed to start file watcher")

	// ErrWatcherAddFailed is returned when a directory cannot be added to the watcher.
	ErrWatcherAddFailed = zerr.New("failed to watch directory")

	// ErrCleanFailed is returned when clean cannot remove a directory.
	ErrCleanFailed = zerr.New("failed to remove directory")
)
