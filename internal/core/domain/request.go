package domain

import "strings"

// RequestKind names a family of memoized computations.
// The set is open: plugins and tests may introduce their own kinds.
type RequestKind string

const (
	// KindConfig loads the build configuration.
	KindConfig RequestKind = "config"
	// KindResolve resolves a specifier relative to an importing directory.
	KindResolve RequestKind = "resolve"
	// KindTransform runs the transformer pipeline for one file.
	KindTransform RequestKind = "transform"
	// KindAssetGraph walks resolve/transform results from the entries.
	KindAssetGraph RequestKind = "asset_graph"
	// KindBundleGraph decides and, if needed, invokes the bundler.
	KindBundleGraph RequestKind = "bundle_graph"
	// KindName names one bundle.
	KindName RequestKind = "name"
	// KindRuntime applies runtime providers to one bundle.
	KindRuntime RequestKind = "runtime"
	// KindPackage produces the textual contents of one bundle.
	KindPackage RequestKind = "package"
	// KindBuild is the root of every build.
	KindBuild RequestKind = "build"
)

// requestIDSeparator separates the kind from the canonical input in a RequestID.
const requestIDSeparator = ":"

// RequestID is the stable identity of a request: its kind plus its canonicalized input.
type RequestID string

// NewRequestID builds the identity for a request of the given kind and canonical input.
func NewRequestID(kind RequestKind, input string) RequestID {
	if input == "" {
		return RequestID(kind)
	}
	return RequestID(string(kind) + requestIDSeparator + input)
}

// Kind returns the request kind encoded in the id.
func (id RequestID) Kind() RequestKind {
	kind, _, _ := strings.Cut(string(id), requestIDSeparator)
	return RequestKind(kind)
}

// Input returns the canonical input encoded in the id.
func (id RequestID) Input() string {
	_, input, _ := strings.Cut(string(id), requestIDSeparator)
	return input
}

// String returns the id as a string.
func (id RequestID) String() string {
	return string(id)
}

// NodeState is the lifecycle state of a request node.
type NodeState uint8

const (
	// StateInvalid means the node must be verified or recomputed before its result is read.
	StateInvalid NodeState = iota
	// StateRunning means the node body is executing.
	StateRunning
	// StateValid means the node result can be trusted.
	StateValid
	// StateErrored means the last execution failed.
	StateErrored
)

// String returns the lower-case name of the state.
func (s NodeState) String() string {
	switch s {
	case StateInvalid:
		return "invalid"
	case StateRunning:
		return "running"
	case StateValid:
		return "valid"
	case StateErrored:
		return "errored"
	default:
		return "unknown"
	}
}
