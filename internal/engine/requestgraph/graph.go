// Package requestgraph holds the memoized request nodes, their dependency
// edges and their invalidation subscriptions.
package requestgraph

import (
	"path/filepath"
	"slices"
	"strings"
	"unique"

	"go.trai.ch/rebund/internal/core/domain"
	"go.trai.ch/rebund/internal/core/ports"
	"go.trai.ch/zerr"
)

type idSet = map[domain.RequestID]struct{}

type pathKey = unique.Handle[string]

// Graph is the request graph. It is not safe for concurrent use: the
// executor serializes every call behind its coordinator lock.
type Graph struct {
	nodes map[domain.RequestID]*Node
	roots idSet

	updates map[pathKey]idSet
	deletes map[pathKey]idSet
	// creates maps a directory to the subscribed nodes and their patterns.
	creates map[pathKey]map[domain.RequestID]map[string]struct{}
	env     map[string]idSet
	options map[string]idSet
	always  idSet

	matcher ports.PatternMatcher
}

// New creates an empty Graph. matcher decides FileCreated pattern matches.
func New(matcher ports.PatternMatcher) *Graph {
	return &Graph{
		nodes:   make(map[domain.RequestID]*Node),
		roots:   make(idSet),
		updates: make(map[pathKey]idSet),
		deletes: make(map[pathKey]idSet),
		creates: make(map[pathKey]map[domain.RequestID]map[string]struct{}),
		env:     make(map[string]idSet),
		options: make(map[string]idSet),
		always:  make(idSet),
		matcher: matcher,
	}
}

// GetOrCreate returns the node for id, creating it in the Invalid state if needed.
// The second return value reports whether the node was created.
func (g *Graph) GetOrCreate(id domain.RequestID) (*Node, bool) {
	if n, ok := g.nodes[id]; ok {
		return n, false
	}
	n := newNode(id)
	g.nodes[id] = n
	return n, true
}

// Node returns the node for id.
func (g *Graph) Node(id domain.RequestID) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// IDs returns every node id, sorted.
func (g *Graph) IDs() []domain.RequestID {
	ids := make([]domain.RequestID, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// MarkRoot protects id from garbage collection.
func (g *Graph) MarkRoot(id domain.RequestID) {
	g.roots[id] = struct{}{}
}

// AddDependency records that from depends on to. Edges keep their first
// insertion position. An edge closing a cycle is rejected.
func (g *Graph) AddDependency(from, to domain.RequestID) error {
	src, ok := g.nodes[from]
	if !ok {
		return zerr.With(zerr.Wrap(domain.ErrRequestNotFound, ""), "request", from.String())
	}
	dst, ok := g.nodes[to]
	if !ok {
		return zerr.With(zerr.Wrap(domain.ErrRequestNotFound, ""), "request", to.String())
	}

	for _, e := range src.deps {
		if e.To == to {
			return nil
		}
	}

	if path := g.pathBetween(to, from); path != nil {
		return g.buildCycleError(append([]domain.RequestID{from}, path...))
	}

	src.deps = append(src.deps, Edge{To: to})
	dst.dependents[from] = struct{}{}
	return nil
}

// SetSeen records the dependency fingerprint consumed by from.
func (g *Graph) SetSeen(from, to domain.RequestID, fp domain.Fingerprint) {
	src, ok := g.nodes[from]
	if !ok {
		return
	}
	for i := range src.deps {
		if src.deps[i].To == to {
			src.deps[i].Seen = fp
			return
		}
	}
}

// Dependents returns the ids depending on id, sorted.
func (g *Graph) Dependents(id domain.RequestID) []domain.RequestID {
	n, ok := g.nodes[id]
	if !ok {
		return nil
	}
	return sortedIDs(n.dependents)
}

// Subscribe adds an invalidation subscription to id.
func (g *Graph) Subscribe(id domain.RequestID, t domain.Trigger) {
	n, ok := g.nodes[id]
	if !ok {
		return
	}
	if _, dup := n.triggers[t]; dup {
		return
	}
	n.triggers[t] = struct{}{}
	g.index(id, t)
}

// ClearEdges drops the dependency edges and subscriptions of id before it re-runs.
// Dependents of id are kept.
func (g *Graph) ClearEdges(id domain.RequestID) {
	n, ok := g.nodes[id]
	if !ok {
		return
	}
	for _, e := range n.deps {
		if dep, ok := g.nodes[e.To]; ok {
			delete(dep.dependents, id)
		}
	}
	n.deps = nil
	for t := range n.triggers {
		g.unindex(id, t)
	}
	n.triggers = make(map[domain.Trigger]struct{})
}

// EnvKeys returns the environment variables some node subscribed to, sorted.
func (g *Graph) EnvKeys() []string {
	keys := make([]string, 0, len(g.env))
	for k := range g.env {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func (g *Graph) index(id domain.RequestID, t domain.Trigger) {
	switch t.Kind {
	case domain.TriggerFileUpdated:
		addTo(g.updates, unique.Make(t.Path), id)
	case domain.TriggerFileDeleted:
		addTo(g.deletes, unique.Make(t.Path), id)
	case domain.TriggerFileCreated:
		dir := unique.Make(t.Path)
		byNode, ok := g.creates[dir]
		if !ok {
			byNode = make(map[domain.RequestID]map[string]struct{})
			g.creates[dir] = byNode
		}
		patterns, ok := byNode[id]
		if !ok {
			patterns = make(map[string]struct{})
			byNode[id] = patterns
		}
		patterns[t.Pattern] = struct{}{}
	case domain.TriggerEnvChanged:
		addTo(g.env, t.Key, id)
	case domain.TriggerOptionChanged:
		addTo(g.options, t.Key, id)
	case domain.TriggerAlways:
		g.always[id] = struct{}{}
	}
}

func (g *Graph) unindex(id domain.RequestID, t domain.Trigger) {
	switch t.Kind {
	case domain.TriggerFileUpdated:
		removeFrom(g.updates, unique.Make(t.Path), id)
	case domain.TriggerFileDeleted:
		removeFrom(g.deletes, unique.Make(t.Path), id)
	case domain.TriggerFileCreated:
		dir := unique.Make(t.Path)
		if byNode, ok := g.creates[dir]; ok {
			delete(byNode, id)
			if len(byNode) == 0 {
				delete(g.creates, dir)
			}
		}
	case domain.TriggerEnvChanged:
		removeFrom(g.env, t.Key, id)
	case domain.TriggerOptionChanged:
		removeFrom(g.options, t.Key, id)
	case domain.TriggerAlways:
		delete(g.always, id)
	}
}

// pathBetween returns the dependency path from -> ... -> to, or nil.
func (g *Graph) pathBetween(from, to domain.RequestID) []domain.RequestID {
	visited := make(idSet)
	var path []domain.RequestID

	var visit func(id domain.RequestID) bool
	visit = func(id domain.RequestID) bool {
		path = append(path, id)
		if id == to {
			return true
		}
		visited[id] = struct{}{}
		if n, ok := g.nodes[id]; ok {
			for _, e := range n.deps {
				if _, seen := visited[e.To]; seen {
					continue
				}
				if visit(e.To) {
					return true
				}
			}
		}
		path = path[:len(path)-1]
		return false
	}

	if visit(from) {
		return path
	}
	return nil
}

// buildCycleError constructs an error with cycle path metadata.
func (g *Graph) buildCycleError(path []domain.RequestID) error {
	parts := make([]string, len(path))
	for i, id := range path {
		parts[i] = id.String()
	}
	return zerr.With(zerr.Wrap(domain.ErrCycleDetected, "dependency rejected"), "cycle", strings.Join(parts, " -> "))
}

func addTo[K comparable](m map[K]idSet, key K, id domain.RequestID) {
	set, ok := m[key]
	if !ok {
		set = make(idSet)
		m[key] = set
	}
	set[id] = struct{}{}
}

func removeFrom[K comparable](m map[K]idSet, key K, id domain.RequestID) {
	set, ok := m[key]
	if !ok {
		return
	}
	delete(set, id)
	if len(set) == 0 {
		delete(m, key)
	}
}

func sortedIDs(set idSet) []domain.RequestID {
	ids := make([]domain.RequestID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func cleanDir(path string) pathKey {
	return unique.Make(filepath.Dir(filepath.Clean(path)))
}
