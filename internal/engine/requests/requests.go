// Package requests implements the built-in request kinds of a build: config
// slices, resolution, transformation, the asset graph, the bundle graph,
// naming, runtime injection, packaging and the build root.
package requests

import (
	"context"
	"path/filepath"
	"strings"
	"sync"

	"go.trai.ch/rebund/internal/core/domain"
	"go.trai.ch/rebund/internal/core/ports"
	"go.trai.ch/rebund/internal/engine/bundling"
	"go.trai.ch/rebund/internal/engine/fingerprint"
	"go.trai.ch/rebund/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

// ConfigSource holds the configuration the config requests read.
type ConfigSource struct {
	mu  sync.RWMutex
	cfg *domain.BuildConfig
	fps map[string]domain.Fingerprint
}

// NewConfigSource creates a source serving cfg.
func NewConfigSource(cfg *domain.BuildConfig) *ConfigSource {
	return &ConfigSource{cfg: cfg, fps: fingerprint.ConfigSlices(cfg)}
}

// Current returns the configuration in use.
func (c *ConfigSource) Current() *domain.BuildConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfg
}

// Fingerprint returns the fingerprint of the slice at path.
func (c *ConfigSource) Fingerprint(path string) domain.Fingerprint {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fps[path]
}

// Replace installs cfg and returns the option paths whose slice changed.
func (c *ConfigSource) Replace(cfg *domain.BuildConfig) []string {
	next := fingerprint.ConfigSlices(cfg)

	c.mu.Lock()
	defer c.mu.Unlock()
	changed := fingerprint.ChangedSlices(c.fps, next)
	c.cfg = cfg
	c.fps = next
	return changed
}

// Set creates the requests of one engine. Requests created by the same Set
// share its collaborators.
type Set struct {
	config   *ConfigSource
	fs       ports.FileSystem
	registry ports.PluginRegistry
	matcher  ports.PatternMatcher
	gate     *bundling.Gate
}

// New creates a Set.
func New(
	config *ConfigSource,
	fsys ports.FileSystem,
	registry ports.PluginRegistry,
	matcher ports.PatternMatcher,
	gate *bundling.Gate,
) *Set {
	return &Set{
		config:   config,
		fs:       fsys,
		registry: registry,
		matcher:  matcher,
		gate:     gate,
	}
}

// Config returns the request reading the configuration slice at path.
func (s *Set) Config(path string) scheduler.Request {
	return configRequest{s: s, path: path}
}

// Resolve returns the request resolving specifier from the directory fromDir.
func (s *Set) Resolve(fromDir, specifier string) scheduler.Request {
	return resolveRequest{s: s, fromDir: filepath.Clean(fromDir), specifier: specifier}
}

// Transform returns the request transforming the file at path.
func (s *Set) Transform(path string) scheduler.Request {
	return transformRequest{s: s, path: filepath.Clean(path)}
}

// AssetGraph returns the request walking the asset graph from the entries.
func (s *Set) AssetGraph() scheduler.Request {
	return assetGraphRequest{s: s}
}

// BundleGraph returns the request deciding the bundle assignment.
func (s *Set) BundleGraph() scheduler.Request {
	return bundleGraphRequest{s: s}
}

// Name returns the request naming a bundle.
func (s *Set) Name(id domain.BundleID) scheduler.Request {
	return nameRequest{s: s, bundle: id}
}

// Runtime returns the request applying the runtime providers to a bundle.
func (s *Set) Runtime(id domain.BundleID) scheduler.Request {
	return runtimeRequest{s: s, bundle: id}
}

// Package returns the request producing the contents of a bundle.
func (s *Set) Package(id domain.BundleID) scheduler.Request {
	return packageRequest{s: s, bundle: id}
}

// Build returns the root request of a build.
func (s *Set) Build() scheduler.Request {
	return buildRequest{s: s}
}

// valueOf extracts the typed value of a dependency result.
func valueOf[T any](res scheduler.Result, req scheduler.Request) (T, error) {
	v, ok := res.Value.(T)
	if !ok {
		var zero T
		return zero, zerr.With(zerr.Wrap(domain.ErrResultTypeMismatch, "dependency returned an unexpected value"),
			"request", req.ID().String())
	}
	return v, nil
}

// run computes req as a dependency and returns its typed value.
func run[T any](ctx context.Context, rc *scheduler.Context, req scheduler.Request) (T, scheduler.Result, error) {
	res, err := rc.Run(ctx, req)
	if err != nil {
		var zero T
		return zero, res, err
	}
	v, err := valueOf[T](res, req)
	return v, res, err
}

// configs computes the given config slices as dependencies of rc. The i-th
// configuration is the one read by the i-th slice.
func (s *Set) configs(ctx context.Context, rc *scheduler.Context, paths ...string) ([]*domain.BuildConfig, error) {
	reqs := make([]scheduler.Request, len(paths))
	for i, p := range paths {
		reqs[i] = s.Config(p)
	}
	results, err := rc.RunAll(ctx, reqs)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.BuildConfig, len(results))
	for i, res := range results {
		if out[i], err = valueOf[*domain.BuildConfig](res, reqs[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// match reports whether path matches a configured glob. Patterns without a
// slash are matched against the base name, others against the path relative
// to root.
func (s *Set) match(root, pattern, path string) bool {
	name := filepath.Base(path)
	if strings.Contains(pattern, "/") {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return false
		}
		name = filepath.ToSlash(rel)
	}
	if s.matcher == nil {
		ok, err := filepath.Match(pattern, name)
		return err == nil && ok
	}
	return s.matcher.Match(pattern, name)
}
