package domain

// BundleID identifies a bundle within a bundle graph.
type BundleID string

// String returns the id as a string.
func (id BundleID) String() string {
	return string(id)
}

// Bundle is an output grouping of assets assigned by the bundler.
type Bundle struct {
	ID         BundleID  `json:"id"`
	Type       string    `json:"type"`
	EntryAsset AssetID   `json:"entryAsset"`
	Assets     []AssetID `json:"assets"`
	IsEntry    bool      `json:"isEntry"`
	// Lazy bundles are loaded by a parent bundle on demand.
	Lazy   bool   `json:"lazy,omitempty"`
	Target string `json:"target,omitempty"`
}

// Contains reports whether the bundle holds the asset.
func (b Bundle) Contains(id AssetID) bool {
	for _, a := range b.Assets {
		if a == id {
			return true
		}
	}
	return false
}

// BundleReference links a bundle to a bundle it loads.
type BundleReference struct {
	From BundleID `json:"from"`
	To   BundleID `json:"to"`
}

// BundleGraph is the bundler's assignment of assets to bundles.
type BundleGraph struct {
	Bundles    []Bundle          `json:"bundles"`
	References []BundleReference `json:"references,omitempty"`
}

// Bundle returns the bundle with the given id.
func (g *BundleGraph) Bundle(id BundleID) (Bundle, bool) {
	if g == nil {
		return Bundle{}, false
	}
	for _, b := range g.Bundles {
		if b.ID == id {
			return b, true
		}
	}
	return Bundle{}, false
}

// Children returns the bundles referenced by id, in declaration order.
func (g *BundleGraph) Children(id BundleID) []Bundle {
	if g == nil {
		return nil
	}
	var out []Bundle
	for _, ref := range g.References {
		if ref.From != id {
			continue
		}
		if b, ok := g.Bundle(ref.To); ok {
			out = append(out, b)
		}
	}
	return out
}

// RuntimeAsset is code injected into a bundle by a runtime provider.
type RuntimeAsset struct {
	Provider string `json:"provider"`
	Type     string `json:"type"`
	Content  []byte `json:"content"`
}

// PackagedBundle is the final text of a bundle.
type PackagedBundle struct {
	BundleID BundleID    `json:"bundleId"`
	Name     string      `json:"name"`
	Type     string      `json:"type"`
	Contents []byte      `json:"contents"`
	Hash     Fingerprint `json:"hash"`
}
