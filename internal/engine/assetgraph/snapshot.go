// Package assetgraph builds the asset dependency graph from transform and
// resolve results and compares successive graphs.
package assetgraph

import (
	"slices"

	"go.trai.ch/rebund/internal/core/domain"
	"go.trai.ch/rebund/internal/engine/fingerprint"
)

// Snapshot is the immutable asset graph of one build.
// It implements ports.AssetGraphView.
type Snapshot struct {
	entries []domain.AssetID
	ids     []domain.AssetID
	assets  map[domain.AssetID]*domain.Asset
	results map[domain.AssetID]domain.Fingerprint
	edges   map[domain.AssetID][]domain.Edge
	byPath  map[string]domain.AssetID

	shape   domain.Fingerprint
	content domain.Fingerprint

	// EdgesAdded and EdgesRemoved count the specifiers that appeared or
	// disappeared relative to the previous snapshot.
	EdgesAdded   int
	EdgesRemoved int
}

// Entries returns the entry assets in configuration order.
func (s *Snapshot) Entries() []domain.AssetID {
	return slices.Clone(s.entries)
}

// Assets returns every asset id, sorted.
func (s *Snapshot) Assets() []domain.AssetID {
	return slices.Clone(s.ids)
}

// Asset returns the asset with the given id.
func (s *Snapshot) Asset(id domain.AssetID) (*domain.Asset, bool) {
	a, ok := s.assets[id]
	return a, ok
}

// Dependencies returns the resolved edges of id in declaration order.
func (s *Snapshot) Dependencies(id domain.AssetID) []domain.Edge {
	return slices.Clone(s.edges[id])
}

// AssetByPath returns the id of the asset produced from path.
func (s *Snapshot) AssetByPath(path string) (domain.AssetID, bool) {
	id, ok := s.byPath[path]
	return id, ok
}

// ResultFingerprint returns the transform result fingerprint recorded for id.
func (s *Snapshot) ResultFingerprint(id domain.AssetID) domain.Fingerprint {
	return s.results[id]
}

// Len returns the number of assets.
func (s *Snapshot) Len() int {
	return len(s.ids)
}

// Shape fingerprints ids, types and resolved edges. Content is excluded.
func (s *Snapshot) Shape() domain.Fingerprint {
	return s.shape
}

// Fingerprint covers the shape plus every transform result.
func (s *Snapshot) Fingerprint() domain.Fingerprint {
	return s.content
}

func (s *Snapshot) seal() {
	slices.Sort(s.ids)

	shape := fingerprint.New()
	shape.Int(int64(len(s.entries)))
	for _, e := range s.entries {
		shape.String(string(e))
	}
	shape.Int(int64(len(s.ids)))
	for _, id := range s.ids {
		shape.String(string(id))
		shape.String(s.assets[id].Type)
		edges := s.edges[id]
		shape.Int(int64(len(edges)))
		for _, e := range edges {
			shape.String(e.Specifier)
			shape.Int(int64(e.Priority))
			shape.String(string(e.To))
		}
	}
	s.shape = shape.Sum()

	content := fingerprint.New()
	content.Fingerprint(s.shape)
	for _, id := range s.ids {
		content.Fingerprint(s.results[id])
	}
	s.content = content.Sum()
}

// Changed returns the assets of next whose transform result differs from
// prev, plus the assets added or removed between the two, sorted.
// A nil prev reports every asset of next.
func Changed(prev, next *Snapshot) []domain.AssetID {
	var out []domain.AssetID
	if next != nil {
		for _, id := range next.ids {
			if prev == nil {
				out = append(out, id)
				continue
			}
			fp, ok := prev.results[id]
			if !ok || fp != next.results[id] {
				out = append(out, id)
			}
		}
	}
	if prev != nil {
		for _, id := range prev.ids {
			if next == nil {
				out = append(out, id)
				continue
			}
			if _, ok := next.assets[id]; !ok {
				out = append(out, id)
			}
		}
	}
	slices.Sort(out)
	return out
}
