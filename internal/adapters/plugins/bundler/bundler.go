// Package bundler implements the built-in bundling policy: one bundle per
// entry, one bundle per asset type reached synchronously from a bundle and one
// lazy bundle per dynamic import.
package bundler

import (
	"context"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/rebund/internal/core/domain"
	"go.trai.ch/rebund/internal/core/ports"
)

// Version is bumped whenever the policy changes.
const Version = "1"

// Bundler is the built-in bundler.
type Bundler struct{}

// New creates a Bundler.
func New() *Bundler {
	return &Bundler{}
}

// Identity returns the bundler's identity.
func (b *Bundler) Identity() ports.PluginIdentity {
	return ports.PluginIdentity{Name: "bundler", Version: Version}
}

// Bundle assigns the assets of in.Graph to bundles for every target.
// Options: lazy (bool, default true) splits dynamic imports into their own
// bundles; when false they are bundled like static imports.
func (b *Bundler) Bundle(ctx context.Context, in ports.BundleInput) (*domain.BundleGraph, error) {
	targets := in.Targets
	if len(targets) == 0 {
		targets = []domain.Target{{Name: domain.DefaultTargetName}}
	}

	s := &state{
		graph: in.Graph,
		lazy:  in.Options.Bool("lazy", true),
		index: make(map[domain.BundleID]int),
		refs:  make(map[domain.BundleReference]bool),
	}
	for _, target := range targets {
		for _, entry := range in.Graph.Entries() {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			s.root(entry, target.Name, kindEntry, "")
		}
	}
	return &domain.BundleGraph{Bundles: s.bundles, References: s.references}, nil
}

type kind string

const (
	kindEntry kind = "entry"
	kindLazy  kind = "lazy"
	kindType  kind = "type"
)

type state struct {
	graph ports.AssetGraphView
	lazy  bool

	bundles    []domain.Bundle
	index      map[domain.BundleID]int
	references []domain.BundleReference
	refs       map[domain.BundleReference]bool
}

// child is an edge leaving a bundle: a lazy import or an asset of another type.
type child struct {
	asset domain.AssetID
	lazy  bool
}

// root creates the bundle rooted at asset unless it exists and links it from parent.
func (s *state) root(asset domain.AssetID, target string, k kind, parent domain.BundleID) domain.BundleID {
	a, ok := s.graph.Asset(asset)
	if !ok {
		return ""
	}
	id := bundleID(k, target, string(asset))
	s.link(parent, id)
	if _, exists := s.index[id]; exists {
		return id
	}

	i := s.open(domain.Bundle{
		ID:         id,
		Type:       a.Type,
		EntryAsset: asset,
		IsEntry:    k == kindEntry,
		Lazy:       k == kindLazy,
		Target:     target,
	})
	var children []child
	s.collect(i, asset, make(map[domain.AssetID]bool), &children)
	s.split(i, target, children)
	return id
}

func (s *state) open(b domain.Bundle) int {
	s.index[b.ID] = len(s.bundles)
	s.bundles = append(s.bundles, b)
	return len(s.bundles) - 1
}

// collect adds asset and its same-type synchronous dependencies to bundle i,
// dependencies first. Edges leaving the bundle are appended to children.
func (s *state) collect(i int, asset domain.AssetID, seen map[domain.AssetID]bool, children *[]child) {
	seen[asset] = true
	typ := s.bundles[i].Type
	for _, e := range s.graph.Dependencies(asset) {
		to, ok := s.graph.Asset(e.To)
		if !ok {
			continue
		}
		switch {
		case e.Priority == domain.PriorityLazy && s.lazy:
			*children = append(*children, child{asset: e.To, lazy: true})
		case to.Type != typ:
			*children = append(*children, child{asset: e.To})
		case !seen[e.To]:
			s.collect(i, e.To, seen, children)
		}
	}
	s.bundles[i].Assets = append(s.bundles[i].Assets, asset)
}

// split creates the bundles for the children of bundle i: one lazy bundle per
// dynamic import and one bundle per other asset type.
func (s *state) split(i int, target string, children []child) {
	parent := s.bundles[i].ID

	var order []string
	byType := make(map[string][]domain.AssetID)
	for _, c := range children {
		if c.lazy {
			s.root(c.asset, target, kindLazy, parent)
			continue
		}
		a, _ := s.graph.Asset(c.asset)
		if _, ok := byType[a.Type]; !ok {
			order = append(order, a.Type)
		}
		byType[a.Type] = append(byType[a.Type], c.asset)
	}

	for _, typ := range order {
		assets := byType[typ]
		id := bundleID(kindType, target, string(parent), typ)
		s.link(parent, id)
		if _, exists := s.index[id]; exists {
			continue
		}
		j := s.open(domain.Bundle{ID: id, Type: typ, EntryAsset: assets[0], Target: target})
		seen := make(map[domain.AssetID]bool)
		var nested []child
		for _, a := range assets {
			if !seen[a] {
				s.collect(j, a, seen, &nested)
			}
		}
		s.split(j, target, nested)
	}
}

func (s *state) link(from, to domain.BundleID) {
	if from == "" || from == to {
		return
	}
	ref := domain.BundleReference{From: from, To: to}
	if s.refs[ref] {
		return
	}
	s.refs[ref] = true
	s.references = append(s.references, ref)
}

// bundleID derives a stable id from what the bundle is rooted at.
func bundleID(k kind, parts ...string) domain.BundleID {
	h := xxhash.New()
	_, _ = h.WriteString(string(k))
	for _, p := range parts {
		_, _ = h.WriteString("\x00" + p)
	}
	return domain.BundleID(fmt.Sprintf("%s:%016x", k, h.Sum64()))
}
