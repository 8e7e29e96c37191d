package domain

import (
	"maps"
	"slices"
)

// Option slice paths used by OptionChanged subscriptions.
const (
	OptionEntries      = "entries"
	OptionResolver     = "resolver"
	OptionTransformers = "transformers"
	OptionBundler      = "bundler"
	OptionNamers       = "namers"
	OptionRuntimes     = "runtimes"
	OptionTargets      = "targets"
)

// OptionPaths lists every configuration slice that is fingerprinted independently.
var OptionPaths = []string{
	OptionEntries,
	OptionResolver,
	OptionTransformers,
	OptionBundler,
	OptionNamers,
	OptionRuntimes,
	OptionTargets,
}

// Glob syntaxes accepted by the configuration.
const (
	GlobDoublestar = "doublestar"
	GlobGobwas     = "gobwas"
)

// Cache backends accepted by the configuration.
const (
	CacheBackendFS     = "fs"
	CacheBackendSQLite = "sqlite"
	CacheBackendMemory = "memory"
)

// Options is an opaque option block. Recognized keys are read through the typed
// accessors; unknown keys are kept as-is and only ever fingerprinted.
type Options map[string]any

// String returns the string value at key or def.
func (o Options) String(key, def string) string {
	if v, ok := o[key].(string); ok {
		return v
	}
	return def
}

// Bool returns the boolean value at key or def.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key].(bool); ok {
		return v
	}
	return def
}

// Int returns the integer value at key or def.
func (o Options) Int(key string, def int) int {
	switch v := o[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return def
	}
}

// Strings returns the string list at key or def.
func (o Options) Strings(key string, def []string) []string {
	raw, ok := o[key].([]any)
	if !ok {
		if v, ok := o[key].([]string); ok {
			return v
		}
		return def
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Clone returns a shallow copy of the block.
func (o Options) Clone() Options {
	if o == nil {
		return nil
	}
	return maps.Clone(o)
}

// PluginRef selects a registered plugin by name and carries its option block.
type PluginRef struct {
	Name    string
	Options Options
}

// TransformerRule maps files matching Pattern to a transformer pipeline.
type TransformerRule struct {
	Pattern  string
	Pipeline []PluginRef
}

// Target describes one output environment.
type Target struct {
	Name    string
	Format  string
	DistDir string
	Options Options
}

// CacheConfig selects the result cache backend.
type CacheConfig struct {
	Backend       string
	Dir           string
	MemoryEntries int
}

// BuildConfig is the explicit build configuration.
type BuildConfig struct {
	Root         string
	ConfigPath   string
	Entries      []string
	DistDir      string
	GlobSyntax   string
	Resolver     PluginRef
	Transformers []TransformerRule
	Bundler      PluginRef
	Namers       []PluginRef
	Runtimes     []PluginRef
	Targets      []Target
	Cache        CacheConfig
}

// Default plugin names of the built-in plugin set.
const (
	DefaultResolverName  = "default"
	DefaultBundlerName   = "default"
	DefaultNamerName     = "default"
	DefaultRuntimeName   = "default"
	DefaultTargetName    = "default"
	DefaultTargetFormat  = "esm"
	DefaultDistDir       = "dist"
	DefaultMemoryEntries = 1024
)

// DefaultTransformers returns the built-in transformer rules.
func DefaultTransformers() []TransformerRule {
	return []TransformerRule{
		{Pattern: "*.{js,mjs,cjs,jsx,ts,tsx}", Pipeline: []PluginRef{{Name: "js"}}},
		{Pattern: "*.css", Pipeline: []PluginRef{{Name: "css"}}},
		{Pattern: "*.{html,htm}", Pipeline: []PluginRef{{Name: "html"}}},
		{Pattern: "*", Pipeline: []PluginRef{{Name: "raw"}}},
	}
}

// NewDefaultConfig returns the configuration used when root has no config file.
func NewDefaultConfig(root string, entries ...string) *BuildConfig {
	return &BuildConfig{
		Root:         root,
		Entries:      slices.Clone(entries),
		DistDir:      DefaultDistDir,
		GlobSyntax:   GlobDoublestar,
		Resolver:     PluginRef{Name: DefaultResolverName},
		Transformers: DefaultTransformers(),
		Bundler:      PluginRef{Name: DefaultBundlerName},
		Namers:       []PluginRef{{Name: DefaultNamerName}},
		Runtimes:     []PluginRef{{Name: DefaultRuntimeName}},
		Targets:      []Target{{Name: DefaultTargetName, Format: DefaultTargetFormat}},
		Cache: CacheConfig{
			Backend:       CacheBackendFS,
			Dir:           DefaultCachePath(),
			MemoryEntries: DefaultMemoryEntries,
		},
	}
}
