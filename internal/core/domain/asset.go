package domain

import "strings"

// Fingerprint is a content-derived hash rendered as 16 lower-case hex digits.
type Fingerprint string

// String returns the fingerprint as a string.
func (f Fingerprint) String() string {
	return string(f)
}

// Short returns the first eight hex digits, used in bundle names.
func (f Fingerprint) Short() string {
	if len(f) <= 8 {
		return string(f)
	}
	return string(f[:8])
}

// AssetID identifies an asset: its file path plus the identity of the pipeline that produced it.
type AssetID string

// NewAssetID builds the id of the asset produced from path by pipeline.
func NewAssetID(path, pipeline string) AssetID {
	if pipeline == "" {
		return AssetID(path)
	}
	return AssetID(path + "|" + pipeline)
}

// String returns the id as a string.
func (id AssetID) String() string {
	return string(id)
}

// Path returns the file path encoded in the id.
func (id AssetID) Path() string {
	s := string(id)
	if i := strings.LastIndexByte(s, '|'); i >= 0 {
		return s[:i]
	}
	return s
}

// Priority is how a dependency is loaded at runtime.
type Priority uint8

const (
	// PrioritySync dependencies are loaded with their parent.
	PrioritySync Priority = iota
	// PriorityLazy dependencies are loaded on demand and get their own bundle.
	PriorityLazy
)

// String returns the lower-case name of the priority.
func (p Priority) String() string {
	if p == PriorityLazy {
		return "lazy"
	}
	return "sync"
}

// Dependency is a specifier declared by an asset.
type Dependency struct {
	Specifier string   `json:"specifier"`
	Priority  Priority `json:"priority"`
	// Line is the 1-based line of the declaration, zero when unknown.
	Line int `json:"line,omitempty"`
}

// Asset is one compiled source unit.
type Asset struct {
	ID           AssetID      `json:"id"`
	FilePath     string       `json:"filePath"`
	Type         string       `json:"type"`
	Pipeline     string       `json:"pipeline"`
	ContentHash  Fingerprint  `json:"contentHash"`
	Content      []byte       `json:"content"`
	Dependencies []Dependency `json:"dependencies"`
}

// Edge is a resolved dependency between two assets in the asset graph.
type Edge struct {
	From      AssetID
	Specifier string
	Priority  Priority
	To        AssetID
}
