// Package engine drives the build cycle: it turns change batches into
// invalidations, runs the build root through the scheduler and reports the
// outcome on the build event stream.
package engine

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"strconv"
	"sync"
	"time"

	"go.trai.ch/rebund/internal/core/domain"
	"go.trai.ch/rebund/internal/core/ports"
	"go.trai.ch/rebund/internal/engine/assetgraph"
	"go.trai.ch/rebund/internal/engine/bundling"
	"go.trai.ch/rebund/internal/engine/requestgraph"
	"go.trai.ch/rebund/internal/engine/requests"
	"go.trai.ch/rebund/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

// EventSink receives the build event stream.
type EventSink interface {
	OnBuildEvent(ev domain.BuildEvent)
}

// Params are the collaborators of an Engine. Loader, Cache, Sink and Matcher
// are optional.
type Params struct {
	Config   *domain.BuildConfig
	Loader   ports.ConfigLoader
	FS       ports.FileSystem
	Registry ports.PluginRegistry
	Matcher  ports.PatternMatcher
	Cache    ports.CacheStore
	Tracer   ports.Tracer
	Metrics  ports.Metrics
	Logger   ports.Logger
	Sink     EventSink

	// Parallelism bounds the request bodies running at once. Zero means NumCPU.
	Parallelism int
	// EnvLookup replaces os.Getenv.
	EnvLookup func(string) string
	// WriteDist writes changed bundles below the dist directory.
	WriteDist bool
}

// layoutSlices are the option paths whose change alters every bundle.
var layoutSlices = []string{
	domain.OptionBundler,
	domain.OptionNamers,
	domain.OptionRuntimes,
	domain.OptionTargets,
}

// Engine owns the request graph of a project across builds.
type Engine struct {
	config  *requests.ConfigSource
	loader  ports.ConfigLoader
	fs      ports.FileSystem
	sched   *scheduler.Scheduler
	set     *requests.Set
	gate    *bundling.Gate
	tracer  ports.Tracer
	metrics ports.Metrics
	logger  ports.Logger
	sink    EventSink
	write   bool

	// buildMu keeps builds from overlapping.
	buildMu sync.Mutex

	mu      sync.Mutex
	phase   domain.BuildPhase
	pending domain.ChangeBatch
	// next is the configuration installed by Reconfigure, applied when the
	// next build starts.
	next *domain.BuildConfig
	started bool
	seq     int
	// layoutDirty is set when a layout slice changed and no build has succeeded since.
	layoutDirty bool
	lastGood    *domain.BuildResult
	lastGraph   *assetgraph.Snapshot
}

// New creates an Engine for p.Config.
func New(p Params) *Engine {
	opts := []scheduler.Option{scheduler.WithParallelism(p.Parallelism)}
	if p.Cache != nil {
		opts = append(opts, scheduler.WithCache(p.Cache))
	}
	if p.EnvLookup != nil {
		opts = append(opts, scheduler.WithEnvLookup(p.EnvLookup))
	}

	config := requests.NewConfigSource(p.Config)
	gate := bundling.NewGate(p.Registry, p.Metrics, p.Logger)
	return &Engine{
		config:  config,
		loader:  p.Loader,
		fs:      p.FS,
		sched:   scheduler.NewScheduler(requestgraph.New(p.Matcher), p.Tracer, p.Metrics, p.Logger, opts...),
		set:     requests.New(config, p.FS, p.Registry, p.Matcher, gate),
		gate:    gate,
		tracer:  p.Tracer,
		metrics: p.Metrics,
		logger:  p.Logger,
		sink:    p.Sink,
		write:   p.WriteDist,
		phase:   domain.PhaseIdle,
	}
}

// Phase returns the current phase of the build cycle.
func (e *Engine) Phase() domain.BuildPhase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

// LastResult returns the result of the last successful build.
func (e *Engine) LastResult() (*domain.BuildResult, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastGood, e.lastGood != nil
}

// Scheduler exposes the scheduler for inspection.
func (e *Engine) Scheduler() *scheduler.Scheduler {
	return e.sched
}

// Notify queues change events for the next build. A running build is left
// alone: its results describe the files as they were when it started, and
// the queued events invalidate what they touched once the next build begins.
func (e *Engine) Notify(events ...domain.ChangeEvent) {
	if len(events) == 0 {
		return
	}
	batch := domain.ChangeBatch{Events: domain.CoalesceEvents(events)}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.pending = e.pending.Merge(batch)
}

// Reconfigure installs cfg for the next build. Only the requests reading a
// changed configuration slice are invalidated.
func (e *Engine) Reconfigure(cfg *domain.BuildConfig) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.next = cfg
}

// Build runs one build over the pending changes.
//
//nolint:cyclop // build cycle orchestration
func (e *Engine) Build(ctx context.Context) (*domain.BuildResult, error) {
	e.buildMu.Lock()
	defer e.buildMu.Unlock()

	start := time.Now()
	e.mu.Lock()
	batch := e.pending
	e.pending = domain.ChangeBatch{}
	next := e.next
	e.next = nil
	first := !e.started
	e.started = true
	e.seq++
	seq := e.seq
	e.mu.Unlock()

	ctx, span := e.tracer.Start(ctx, "build", ports.WithAttribute(domain.AttrBuildSequence, strconv.Itoa(seq)))
	defer span.End()

	e.transition(domain.PhaseEventsCoalescing)
	if next != nil {
		batch.OptionPaths = append(batch.OptionPaths, e.config.Replace(next)...)
	}
	if err := e.reloadConfig(&batch); err != nil {
		// Nothing was invalidated yet, so the batch waits for a config that loads.
		e.mu.Lock()
		e.pending = batch.Merge(e.pending)
		if first {
			e.started = false
		}
		e.mu.Unlock()
		span.RecordError(err)
		return nil, e.fail(seq, start, err)
	}
	batch.EnvKeys = e.sched.DiffEnv()
	batch.Startup = first
	batch = domain.ChangeBatch{}.Merge(batch)
	if layoutChanged(batch.OptionPaths) {
		e.mu.Lock()
		e.layoutDirty = true
		e.mu.Unlock()
	}

	e.transition(domain.PhaseInvalidating)
	inv := e.sched.Invalidate(batch)
	e.logger.Debug("invalidated " + strconv.Itoa(inv.Len()) + " requests")

	e.transition(domain.PhaseExecuting)
	e.emit(domain.BuildEvent{Type: domain.EventBuildStart, Sequence: seq})
	e.sched.BeginBuild()
	before := e.gate.Invocations()

	res, err := e.sched.Run(ctx, e.set.Build())
	if err != nil {
		span.RecordError(err)
		return nil, e.fail(seq, start, err)
	}
	out, ok := res.Value.(*requests.Output)
	if !ok {
		return nil, e.fail(seq, start, zerr.Wrap(domain.ErrResultTypeMismatch, "build produced no output"))
	}

	invoked := e.gate.Invocations() > before
	if invoked {
		e.transition(domain.PhaseBundleGraphRecomputed)
	} else {
		e.transition(domain.PhaseBundleGraphReused)
	}

	e.transition(domain.PhasePackaging)
	e.mu.Lock()
	prevGraph, prevResult, allChanged := e.lastGraph, e.lastGood, e.layoutDirty
	e.mu.Unlock()

	changed := assetgraph.Changed(prevGraph, out.Graph)
	if allChanged {
		changed = out.Graph.Assets()
	}
	if e.write {
		if err := e.writeDist(out.Packages, prevResult); err != nil {
			span.RecordError(err)
			return nil, e.fail(seq, start, err)
		}
	}

	stats := e.sched.Stats()
	result := &domain.BuildResult{
		Sequence:      seq,
		ChangedAssets: changed,
		Assets:        out.Graph.Assets(),
		BundleGraph:   out.Bundles.Graph,
		Bundles:       out.Packages,
		Stats: domain.BuildStats{
			Invalidated:       inv.Len(),
			Executed:          stats.Executed,
			Reused:            stats.Reused,
			BundlerInvoked:    invoked,
			BundleGraphReused: !invoked,
			Duration:          time.Since(start),
		},
	}

	e.mu.Lock()
	e.lastGood = result
	e.lastGraph = out.Graph
	e.layoutDirty = false
	e.mu.Unlock()

	removed := e.sched.CollectGarbage()
	if len(removed) > 0 {
		e.logger.Debug("collected " + strconv.Itoa(len(removed)) + " orphaned requests")
	}

	e.metrics.ObserveBuild(true, result.Stats.Duration)
	e.emit(domain.BuildEvent{Type: domain.EventBuildSuccess, Sequence: seq, Result: result})
	e.transition(domain.PhaseIdle)
	return result, nil
}

// fail reports a failed build. The last good result is kept, and so are the
// requests it was built from: garbage is only collected after a success.
func (e *Engine) fail(seq int, start time.Time, err error) error {
	e.transition(domain.PhaseErrored)
	diags := Diagnostics(err)
	e.metrics.ObserveBuild(false, time.Since(start))
	e.emit(domain.BuildEvent{Type: domain.EventBuildFailure, Sequence: seq, Diagnostics: diags})
	e.transition(domain.PhaseIdle)
	return errors.Join(domain.ErrBuildFailed, err)
}

// reloadConfig reloads the configuration when the config file changed and
// records the option paths that differ.
func (e *Engine) reloadConfig(batch *domain.ChangeBatch) error {
	if e.loader == nil {
		return nil
	}
	cfg := e.config.Current()
	path := cfg.ConfigPath
	if path == "" {
		path = filepath.Join(cfg.Root, domain.ConfigFileName)
	}
	touched := slices.ContainsFunc(batch.Events, func(ev domain.ChangeEvent) bool {
		return ev.Path == filepath.Clean(path)
	})
	if !touched {
		return nil
	}

	next, err := e.loader.Load(cfg.Root)
	if err != nil {
		return err
	}
	batch.OptionPaths = append(batch.OptionPaths, e.config.Replace(next)...)
	return nil
}

func (e *Engine) writeDist(packages []domain.PackagedBundle, prev *domain.BuildResult) error {
	cfg := e.config.Current()
	dist := cfg.DistDir
	if dist == "" {
		dist = domain.DefaultDistDir
	}
	if !filepath.IsAbs(dist) {
		dist = filepath.Join(cfg.Root, dist)
	}

	written := make(map[string]domain.Fingerprint)
	if prev != nil {
		for _, p := range prev.Bundles {
			written[p.Name] = p.Hash
		}
	}

	if err := e.fs.MkdirAll(dist, domain.DirPerm); err != nil {
		return zerr.With(errors.Join(domain.ErrOutputWriteFailed, err), "dir", dist)
	}
	for _, p := range packages {
		if hash, ok := written[p.Name]; ok && hash == p.Hash {
			continue
		}
		path := filepath.Join(dist, filepath.FromSlash(p.Name))
		if err := e.fs.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
			return zerr.With(errors.Join(domain.ErrOutputWriteFailed, err), "file", path)
		}
		if err := e.fs.WriteFile(path, p.Contents, domain.FilePerm); err != nil {
			return zerr.With(errors.Join(domain.ErrOutputWriteFailed, err), "file", path)
		}
	}
	return nil
}

func (e *Engine) transition(next domain.BuildPhase) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != next && !e.phase.CanTransition(next) {
		e.logger.Warn("unexpected build phase transition: " + e.phase.String() + " -> " + next.String())
	}
	e.phase = next
}

func (e *Engine) emit(ev domain.BuildEvent) {
	if e.sink != nil {
		e.sink.OnBuildEvent(ev)
	}
}

func layoutChanged(paths []string) bool {
	for _, p := range paths {
		if slices.Contains(layoutSlices, p) {
			return true
		}
	}
	return false
}
