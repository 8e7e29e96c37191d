package assetgraph

import (
	"context"
	"errors"

	"go.trai.ch/rebund/internal/core/domain"
)

// Loaded is the outcome of transforming one file.
type Loaded struct {
	Asset       *domain.Asset
	Fingerprint domain.Fingerprint
	Err         error
}

// Query asks for the file a dependency of From points to.
type Query struct {
	From       *domain.Asset
	Dependency domain.Dependency
}

// Resolved is the outcome of one Query.
type Resolved struct {
	Path string
	Err  error
}

// Loader performs the transform and resolve steps of a walk. Both calls are
// batched per level and return one outcome per input, in input order. A
// returned error aborts the walk.
type Loader interface {
	Transform(ctx context.Context, paths []string) ([]Loaded, error)
	Resolve(ctx context.Context, queries []Query) ([]Resolved, error)
}

type pendingEdge struct {
	from   domain.AssetID
	dep    domain.Dependency
	toPath string
}

// Walk builds the graph reachable from the entry files. prev is the snapshot
// of the previous build and may be nil. A failing asset or specifier does not
// stop the walk of the rest of the graph; every failure is returned, joined.
func Walk(ctx context.Context, entries []string, prev *Snapshot, loader Loader) (*Snapshot, error) {
	s := &Snapshot{
		assets:  make(map[domain.AssetID]*domain.Asset),
		results: make(map[domain.AssetID]domain.Fingerprint),
		edges:   make(map[domain.AssetID][]domain.Edge),
		byPath:  make(map[string]domain.AssetID),
	}

	visited := make(map[string]struct{}, len(entries))
	var frontier []string
	for _, e := range entries {
		if _, ok := visited[e]; ok {
			continue
		}
		visited[e] = struct{}{}
		frontier = append(frontier, e)
	}

	var (
		errs    []error
		pending []pendingEdge
	)
	for len(frontier) > 0 {
		loaded, err := loader.Transform(ctx, frontier)
		if err != nil {
			return nil, err
		}

		var queries []Query
		for i, l := range loaded {
			if l.Err != nil {
				errs = append(errs, l.Err)
				continue
			}
			a := l.Asset
			s.assets[a.ID] = a
			s.results[a.ID] = l.Fingerprint
			s.byPath[frontier[i]] = a.ID
			s.ids = append(s.ids, a.ID)

			seen := make(map[domain.Dependency]struct{}, len(a.Dependencies))
			for _, dep := range a.Dependencies {
				key := domain.Dependency{Specifier: dep.Specifier, Priority: dep.Priority}
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
				queries = append(queries, Query{From: a, Dependency: dep})
			}
		}

		var next []string
		if len(queries) > 0 {
			resolved, err := loader.Resolve(ctx, queries)
			if err != nil {
				return nil, err
			}
			for i, r := range resolved {
				q := queries[i]
				if r.Err != nil {
					errs = append(errs, locate(r.Err, q.From.FilePath, q.Dependency.Line))
					continue
				}
				pending = append(pending, pendingEdge{from: q.From.ID, dep: q.Dependency, toPath: r.Path})
				if _, ok := visited[r.Path]; !ok {
					visited[r.Path] = struct{}{}
					next = append(next, r.Path)
				}
			}
		}
		frontier = next
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	for _, e := range entries {
		if id, ok := s.byPath[e]; ok && !containsID(s.entries, id) {
			s.entries = append(s.entries, id)
		}
	}
	for _, p := range pending {
		to, ok := s.byPath[p.toPath]
		if !ok {
			continue
		}
		s.edges[p.from] = append(s.edges[p.from], domain.Edge{
			From:      p.from,
			Specifier: p.dep.Specifier,
			Priority:  p.dep.Priority,
			To:        to,
		})
	}

	s.EdgesAdded, s.EdgesRemoved = specifierDelta(prev, s)
	s.seal()
	return s, nil
}

// locate attaches the importing file and line to a failure that has no location.
func locate(err error, file string, line int) error {
	failures := domain.CollectFailures(err)
	if len(failures) == 1 && failures[0].File == "" {
		f := failures[0]
		return domain.NewFailure(f.Kind, file, line, f.Err)
	}
	return err
}

func specifierDelta(prev, next *Snapshot) (added, removed int) {
	type key struct {
		from domain.AssetID
		spec string
	}
	collect := func(s *Snapshot) map[key]struct{} {
		out := make(map[key]struct{})
		if s == nil {
			return out
		}
		for from, edges := range s.edges {
			for _, e := range edges {
				out[key{from, e.Specifier}] = struct{}{}
			}
		}
		return out
	}
	before, after := collect(prev), collect(next)
	for k := range after {
		if _, ok := before[k]; !ok {
			added++
		}
	}
	for k := range before {
		if _, ok := after[k]; !ok {
			removed++
		}
	}
	return added, removed
}

func containsID(ids []domain.AssetID, id domain.AssetID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
