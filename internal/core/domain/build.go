package domain

import (
	"slices"
	"time"
)

// BuildPhase is a state of the build cycle.
type BuildPhase uint8

const (
	// PhaseIdle waits for changes.
	PhaseIdle BuildPhase = iota
	// PhaseEventsCoalescing collects change events into one batch.
	PhaseEventsCoalescing
	// PhaseInvalidating marks subscribed nodes and their dependents invalid.
	PhaseInvalidating
	// PhaseExecuting re-runs invalid requests.
	PhaseExecuting
	// PhaseBundleGraphReused kept the previous bundle assignment.
	PhaseBundleGraphReused
	// PhaseBundleGraphRecomputed invoked the bundler.
	PhaseBundleGraphRecomputed
	// PhasePackaging regenerates the contents of changed bundles.
	PhasePackaging
	// PhaseErrored means the build failed; the last good result is retained.
	PhaseErrored
)

// String returns the name of the phase.
func (p BuildPhase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseEventsCoalescing:
		return "events_coalescing"
	case PhaseInvalidating:
		return "invalidating"
	case PhaseExecuting:
		return "executing"
	case PhaseBundleGraphReused:
		return "bundle_graph_reused"
	case PhaseBundleGraphRecomputed:
		return "bundle_graph_recomputed"
	case PhasePackaging:
		return "packaging"
	case PhaseErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// phaseTransitions lists the legal successors of each phase.
var phaseTransitions = map[BuildPhase][]BuildPhase{
	PhaseIdle:                  {PhaseEventsCoalescing},
	PhaseEventsCoalescing:      {PhaseInvalidating, PhaseErrored},
	PhaseInvalidating:          {PhaseExecuting},
	PhaseExecuting:             {PhaseBundleGraphReused, PhaseBundleGraphRecomputed, PhaseErrored},
	PhaseBundleGraphReused:     {PhasePackaging},
	PhaseBundleGraphRecomputed: {PhasePackaging},
	PhasePackaging:             {PhaseIdle, PhaseErrored},
	PhaseErrored:               {PhaseIdle},
}

// CanTransition reports whether the cycle may move from p to next.
func (p BuildPhase) CanTransition(next BuildPhase) bool {
	return slices.Contains(phaseTransitions[p], next)
}

// Diagnostic describes one failure reported to the user.
type Diagnostic struct {
	// Kind is the error class: resolution, transform, bundler, cycle, ...
	Kind    string `json:"kind"`
	Message string `json:"message"`
	File    string `json:"file,omitempty"`
	// Line is 1-based, zero when unknown.
	Line    int       `json:"line,omitempty"`
	Request RequestID `json:"request,omitempty"`
}

// BuildStats counts the work done by one build.
type BuildStats struct {
	Invalidated       int           `json:"invalidated"`
	Executed          int           `json:"executed"`
	Reused            int           `json:"reused"`
	BundlerInvoked    bool          `json:"bundlerInvoked"`
	BundleGraphReused bool          `json:"bundleGraphReused"`
	Duration          time.Duration `json:"duration"`
}

// BuildResult is the outcome of a successful build.
type BuildResult struct {
	// Sequence numbers the builds of one engine, starting at 1.
	Sequence      int
	ChangedAssets []AssetID
	Assets        []AssetID
	BundleGraph   *BundleGraph
	Bundles       []PackagedBundle
	Stats         BuildStats
}

// BuildEventType is the type of a build event.
type BuildEventType uint8

const (
	// EventBuildStart is emitted when a build begins.
	EventBuildStart BuildEventType = iota + 1
	// EventBuildSuccess is emitted when a build completes.
	EventBuildSuccess
	// EventBuildFailure is emitted when a build fails.
	EventBuildFailure
	// EventWatchStart is emitted when watch mode begins.
	EventWatchStart
	// EventWatchEnd is emitted when watch mode stops.
	EventWatchEnd
)

// String returns the event name.
func (t BuildEventType) String() string {
	switch t {
	case EventBuildStart:
		return "buildStart"
	case EventBuildSuccess:
		return "buildSuccess"
	case EventBuildFailure:
		return "buildFailure"
	case EventWatchStart:
		return "watchStart"
	case EventWatchEnd:
		return "watchEnd"
	default:
		return "unknown"
	}
}

// BuildEvent is one element of the build event stream.
type BuildEvent struct {
	Type        BuildEventType
	Sequence    int
	Result      *BuildResult
	Diagnostics []Diagnostic
}
