// Package bundling decides whether the bundler must run for a build.
package bundling

import (
	"context"
	"encoding/json"
	"sync/atomic"

	"go.trai.ch/rebund/internal/core/domain"
	"go.trai.ch/rebund/internal/core/ports"
	"go.trai.ch/rebund/internal/engine/assetgraph"
	"go.trai.ch/rebund/internal/engine/fingerprint"
	"go.trai.ch/zerr"
)

// Source tells where a bundle graph came from.
type Source uint8

const (
	// SourceReused kept the bundle graph of the previous build.
	SourceReused Source = iota + 1
	// SourceCached loaded the bundle graph from the result cache.
	SourceCached
	// SourceInvoked called the bundler.
	SourceInvoked
)

// String returns the lower-case name of the source.
func (s Source) String() string {
	switch s {
	case SourceReused:
		return "reused"
	case SourceCached:
		return "cached"
	case SourceInvoked:
		return "invoked"
	default:
		return "unknown"
	}
}

// Store is the result cache as seen by the gate.
type Store interface {
	CacheGet(ctx context.Context, key domain.Fingerprint) ([]byte, bool, error)
	CachePut(key domain.Fingerprint, data []byte)
}

// Input is everything the bundle assignment depends on.
type Input struct {
	Graph   *assetgraph.Snapshot
	Bundler domain.PluginRef
	Targets []domain.Target
}

// Outcome is the decision of the gate for one build.
type Outcome struct {
	Graph *domain.BundleGraph
	// InputFingerprint keys the decision: shape, bundler identity, bundler and target options.
	InputFingerprint domain.Fingerprint
	Source           Source
}

// Gate owns the call to the bundler.
type Gate struct {
	registry ports.PluginRegistry
	metrics  ports.Metrics
	logger   ports.Logger

	invocations atomic.Int64
}

// NewGate creates a Gate.
func NewGate(registry ports.PluginRegistry, metrics ports.Metrics, logger ports.Logger) *Gate {
	return &Gate{registry: registry, metrics: metrics, logger: logger}
}

// Invocations returns how many times the gate has called a bundler.
func (g *Gate) Invocations() int64 {
	return g.invocations.Load()
}

// Decide returns the bundle graph for in. The previous outcome is reused when
// its input fingerprint matches; otherwise the store is consulted before the
// bundler is called.
func (g *Gate) Decide(ctx context.Context, in Input, prev *Outcome, store Store) (*Outcome, error) {
	bundler, err := g.registry.Bundler(in.Bundler.Name)
	if err != nil {
		return nil, domain.NewFailure(domain.ErrBundlerFailure, "", 0, err)
	}
	identity := bundler.Identity()
	key := InputFingerprint(in, identity)

	if prev != nil && prev.Graph != nil && prev.InputFingerprint == key {
		return &Outcome{Graph: prev.Graph, InputFingerprint: key, Source: SourceReused}, nil
	}

	if graph, ok := g.load(ctx, store, key); ok {
		return &Outcome{Graph: graph, InputFingerprint: key, Source: SourceCached}, nil
	}

	g.invocations.Add(1)
	g.metrics.IncBundlerInvocations(identity.Name)
	graph, err := bundler.Bundle(ctx, ports.BundleInput{
		Graph:   in.Graph,
		Options: in.Bundler.Options,
		Targets: in.Targets,
	})
	if err != nil {
		return nil, domain.NewFailure(domain.ErrBundlerFailure, "", 0,
			zerr.With(zerr.Wrap(err, "bundler rejected the asset graph"), "bundler", identity.String()))
	}
	if err := Validate(graph, in.Graph); err != nil {
		return nil, domain.NewFailure(domain.ErrBundlerFailure, "", 0, err)
	}

	if data, err := json.Marshal(graph); err == nil {
		store.CachePut(key, data)
	}
	return &Outcome{Graph: graph, InputFingerprint: key, Source: SourceInvoked}, nil
}

func (g *Gate) load(ctx context.Context, store Store, key domain.Fingerprint) (*domain.BundleGraph, bool) {
	data, ok, err := store.CacheGet(ctx, key)
	if err != nil {
		g.logger.Warn(zerr.With(zerr.Wrap(err, "bundle graph cache read failed"), "key", key.String()).Error())
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var graph domain.BundleGraph
	if err := json.Unmarshal(data, &graph); err != nil {
		g.logger.Warn(zerr.With(zerr.Wrap(domain.ErrCacheCorruption, err.Error()), "key", key.String()).Error())
		return nil, false
	}
	return &graph, true
}

// InputFingerprint combines the asset graph shape with the bundler identity and
// the bundler and target options. Asset content never enters it.
func InputFingerprint(in Input, identity ports.PluginIdentity) domain.Fingerprint {
	b := fingerprint.New().
		Fingerprint(in.Graph.Shape()).
		String(identity.Name).
		String(identity.Version).
		Value(in.Bundler.Options).
		Int(int64(len(in.Targets)))
	for _, t := range in.Targets {
		b.String(t.Name).String(t.Format).String(t.DistDir).Value(t.Options)
	}
	return b.Sum()
}

// Fingerprint is the structural fingerprint of a bundle graph.
func Fingerprint(g *domain.BundleGraph) domain.Fingerprint {
	b := fingerprint.New()
	if g == nil {
		return b.Sum()
	}
	b.Int(int64(len(g.Bundles)))
	for _, bundle := range g.Bundles {
		b.String(string(bundle.ID)).
			String(bundle.Type).
			String(string(bundle.EntryAsset)).
			Bool(bundle.IsEntry).
			Bool(bundle.Lazy).
			String(bundle.Target).
			Int(int64(len(bundle.Assets)))
		for _, a := range bundle.Assets {
			b.String(string(a))
		}
	}
	b.Int(int64(len(g.References)))
	for _, ref := range g.References {
		b.String(string(ref.From)).String(string(ref.To))
	}
	return b.Sum()
}

// Validate checks that a bundle graph only names assets of view and that
// bundle ids are unique and non-empty.
func Validate(g *domain.BundleGraph, view ports.AssetGraphView) error {
	if g == nil {
		return zerr.New("bundler returned no bundle graph")
	}
	ids := make(map[domain.BundleID]struct{}, len(g.Bundles))
	for _, b := range g.Bundles {
		if b.ID == "" {
			return zerr.New("bundle without id")
		}
		if _, dup := ids[b.ID]; dup {
			return zerr.With(zerr.New("duplicate bundle id"), "bundle", b.ID.String())
		}
		ids[b.ID] = struct{}{}
		for _, a := range b.Assets {
			if _, ok := view.Asset(a); !ok {
				return zerr.With(zerr.With(zerr.New("bundle references unknown asset"), "bundle", b.ID.String()), "asset", a.String())
			}
		}
	}
	for _, ref := range g.References {
		_, from := ids[ref.From]
		_, to := ids[ref.To]
		if !from || !to {
			return zerr.With(zerr.New("reference to unknown bundle"), "reference", ref.From.String()+" -> "+ref.To.String())
		}
	}
	return nil
}
