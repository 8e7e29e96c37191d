// Package scheduler executes requests against the request graph. Nodes are
// computed on demand from a root, memoized, verified against their previous
// dependencies when possible and re-run otherwise.
package scheduler

import (
	"context"
	"os"
	"runtime"
	"slices"
	"sync"

	"go.trai.ch/rebund/internal/core/domain"
	"go.trai.ch/rebund/internal/core/ports"
	"go.trai.ch/rebund/internal/engine/requestgraph"
	"golang.org/x/sync/semaphore"
)

// Stats counts the work done since the last BeginBuild.
type Stats struct {
	Executed int
	Reused   int
	Cached   int
	Errored  int
}

// Scheduler owns the request graph and runs request bodies on two lanes: a
// pool bounded by the parallelism and a serial lane for the kinds that must
// not run concurrently with each other.
type Scheduler struct {
	tracer  ports.Tracer
	metrics ports.Metrics
	logger  ports.Logger
	cache   ports.CacheStore

	pool        *semaphore.Weighted
	serial      *semaphore.Weighted
	serialKinds map[domain.RequestKind]struct{}
	lookupEnv   func(string) string

	mu      sync.Mutex
	graph   *requestgraph.Graph
	flights map[domain.RequestID]*flight
	env     map[string]string
	stats   Stats
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithParallelism bounds the number of request bodies running on the pool lane.
func WithParallelism(n int) Option {
	return func(s *Scheduler) {
		if n > 0 {
			s.pool = semaphore.NewWeighted(int64(n))
		}
	}
}

// WithSerialKinds routes the given kinds to the serial lane.
func WithSerialKinds(kinds ...domain.RequestKind) Option {
	return func(s *Scheduler) {
		s.serialKinds = make(map[domain.RequestKind]struct{}, len(kinds))
		for _, k := range kinds {
			s.serialKinds[k] = struct{}{}
		}
	}
}

// WithEnvLookup replaces os.Getenv as the source of environment variables.
func WithEnvLookup(lookup func(string) string) Option {
	return func(s *Scheduler) {
		s.lookupEnv = lookup
	}
}

// WithCache sets the result cache used by Context.CacheGet and Context.CachePut.
func WithCache(store ports.CacheStore) Option {
	return func(s *Scheduler) {
		s.cache = store
	}
}

// NewScheduler creates a Scheduler over graph.
func NewScheduler(
	graph *requestgraph.Graph,
	tracer ports.Tracer,
	metrics ports.Metrics,
	logger ports.Logger,
	opts ...Option,
) *Scheduler {
	s := &Scheduler{
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
		pool:    semaphore.NewWeighted(int64(runtime.NumCPU())),
		serial:  semaphore.NewWeighted(1),
		serialKinds: map[domain.RequestKind]struct{}{
			domain.KindResolve:     {},
			domain.KindBundleGraph: {},
		},
		lookupEnv: os.Getenv,
		graph:     graph,
		flights:   make(map[domain.RequestID]*flight),
		env:       make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run computes root and every request it needs. root is protected from
// garbage collection.
func (s *Scheduler) Run(ctx context.Context, root Request) (Result, error) {
	s.mu.Lock()
	s.graph.GetOrCreate(root.ID())
	s.graph.MarkRoot(root.ID())
	s.mu.Unlock()

	return s.ensure(ctx, root)
}

// Invalidate applies a change batch to the graph.
func (s *Scheduler) Invalidate(batch domain.ChangeBatch) requestgraph.Invalidation {
	s.mu.Lock()
	inv := s.graph.Invalidate(batch)
	s.mu.Unlock()

	for kind, n := range inv.ByTrigger {
		s.metrics.AddInvalidations(kind, n)
	}
	return inv
}

// CollectGarbage removes the nodes no root reaches any longer.
func (s *Scheduler) CollectGarbage() []domain.RequestID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.graph.CollectGarbage()
}

// BeginBuild resets the per-build counters.
func (s *Scheduler) BeginBuild() {
	s.mu.Lock()
	s.stats = Stats{}
	s.mu.Unlock()
}

// Stats returns the counters since the last BeginBuild.
func (s *Scheduler) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// State returns the state of the node id.
func (s *Scheduler) State(id domain.RequestID) (domain.NodeState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.graph.Node(id)
	if !ok {
		return domain.StateInvalid, false
	}
	return n.State, true
}

// Dependencies returns the dependency ids recorded for id, in recording order.
func (s *Scheduler) Dependencies(id domain.RequestID) []domain.RequestID {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.graph.Node(id)
	if !ok {
		return nil
	}
	edges := n.Dependencies()
	out := make([]domain.RequestID, len(edges))
	for i, e := range edges {
		out[i] = e.To
	}
	return out
}

// Len returns the number of nodes in the graph.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.graph.Len()
}

// DiffEnv returns the subscribed environment variables whose value changed
// since a request last read them, sorted. The recorded values are updated.
func (s *Scheduler) DiffEnv() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var changed []string
	for _, key := range s.graph.EnvKeys() {
		current := s.lookupEnv(key)
		if prev, ok := s.env[key]; ok && prev == current {
			continue
		}
		s.env[key] = current
		changed = append(changed, key)
	}
	slices.Sort(changed)
	return changed
}

func (s *Scheduler) readEnv(key string) string {
	value := s.lookupEnv(key)
	s.mu.Lock()
	s.env[key] = value
	s.mu.Unlock()
	return value
}

func (s *Scheduler) lane(kind domain.RequestKind) *semaphore.Weighted {
	if _, ok := s.serialKinds[kind]; ok {
		return s.serial
	}
	return s.pool
}
