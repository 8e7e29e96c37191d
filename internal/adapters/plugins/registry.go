// Package plugins holds the plugin registry and the built-in plugin set.
package plugins

import (
	"sync"

	"go.trai.ch/rebund/internal/core/domain"
	"go.trai.ch/rebund/internal/core/ports"
	"go.trai.ch/zerr"
)

// Registry looks up plugins by the name they were registered under.
type Registry struct {
	mu           sync.RWMutex
	resolvers    map[string]ports.Resolver
	transformers map[string]ports.Transformer
	bundlers     map[string]ports.Bundler
	namers       map[string]ports.Namer
	runtimes     map[string]ports.RuntimeProvider
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		resolvers:    make(map[string]ports.Resolver),
		transformers: make(map[string]ports.Transformer),
		bundlers:     make(map[string]ports.Bundler),
		namers:       make(map[string]ports.Namer),
		runtimes:     make(map[string]ports.RuntimeProvider),
	}
}

// RegisterResolver registers r under name.
func (r *Registry) RegisterResolver(name string, p ports.Resolver) error {
	return register(&r.mu, r.resolvers, "resolver", name, p)
}

// RegisterTransformer registers t under name.
func (r *Registry) RegisterTransformer(name string, p ports.Transformer) error {
	return register(&r.mu, r.transformers, "transformer", name, p)
}

// RegisterBundler registers b under name.
func (r *Registry) RegisterBundler(name string, p ports.Bundler) error {
	return register(&r.mu, r.bundlers, "bundler", name, p)
}

// RegisterNamer registers n under name.
func (r *Registry) RegisterNamer(name string, p ports.Namer) error {
	return register(&r.mu, r.namers, "namer", name, p)
}

// RegisterRuntime registers p under name.
func (r *Registry) RegisterRuntime(name string, p ports.RuntimeProvider) error {
	return register(&r.mu, r.runtimes, "runtime", name, p)
}

// Resolver returns the resolver registered under name.
func (r *Registry) Resolver(name string) (ports.Resolver, error) {
	return lookup(&r.mu, r.resolvers, "resolver", name)
}

// Transformer returns the transformer registered under name.
func (r *Registry) Transformer(name string) (ports.Transformer, error) {
	return lookup(&r.mu, r.transformers, "transformer", name)
}

// Bundler returns the bundler registered under name.
func (r *Registry) Bundler(name string) (ports.Bundler, error) {
	return lookup(&r.mu, r.bundlers, "bundler", name)
}

// Namer returns the namer registered under name.
func (r *Registry) Namer(name string) (ports.Namer, error) {
	return lookup(&r.mu, r.namers, "namer", name)
}

// Runtime returns the runtime provider registered under name.
func (r *Registry) Runtime(name string) (ports.RuntimeProvider, error) {
	return lookup(&r.mu, r.runtimes, "runtime", name)
}

func register[P ports.Plugin](mu *sync.RWMutex, m map[string]P, capability, name string, p P) error {
	mu.Lock()
	defer mu.Unlock()
	if existing, ok := m[name]; ok {
		return zerr.With(zerr.With(zerr.With(zerr.Wrap(domain.ErrDuplicatePlugin, ""),
			"capability", capability), "name", name), "registered", existing.Identity().String())
	}
	m[name] = p
	return nil
}

func lookup[P any](mu *sync.RWMutex, m map[string]P, capability, name string) (P, error) {
	mu.RLock()
	defer mu.RUnlock()
	p, ok := m[name]
	if !ok {
		var zero P
		return zero, zerr.With(zerr.With(zerr.Wrap(domain.ErrUnknownPlugin, ""), "capability", capability), "name", name)
	}
	return p, nil
}
