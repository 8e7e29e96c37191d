package scheduler

import (
	"context"
	"errors"
	"sync"

	"go.trai.ch/rebund/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Context is handed to a running request body. It records the dependencies
// and subscriptions of the body and gives access to the previous result and
// to the result cache.
type Context struct {
	s    *Scheduler
	id   domain.RequestID
	lane *semaphore.Weighted

	mu      sync.Mutex
	held    bool
	prev    Result
	hasPrev bool
	cached  bool
	pending []cacheWrite
}

type cacheWrite struct {
	key  domain.Fingerprint
	data []byte
}

// ID returns the id of the running request.
func (rc *Context) ID() domain.RequestID {
	return rc.id
}

// Previous returns the last successful result of the running request.
func (rc *Context) Previous() (Result, bool) {
	return rc.prev, rc.hasPrev
}

// Subscribe adds an invalidation subscription to the running request.
func (rc *Context) Subscribe(triggers ...domain.Trigger) {
	rc.s.mu.Lock()
	defer rc.s.mu.Unlock()
	for _, t := range triggers {
		rc.s.graph.Subscribe(rc.id, t)
	}
}

// Env returns a reader that subscribes the running request to every key it reads.
func (rc *Context) Env() EnvReader {
	return EnvReader{rc: rc}
}

// Run computes req as a dependency of the running request. The body's lane is
// released while it waits. Run must not be called concurrently from one body;
// use RunAll to fan out.
func (rc *Context) Run(ctx context.Context, req Request) (Result, error) {
	if err := rc.link(req); err != nil {
		return Result{}, err
	}

	rc.release()
	res, err := rc.s.ensure(ctx, req)
	if acqErr := rc.acquire(ctx); acqErr != nil {
		return Result{}, acqErr
	}

	if err != nil {
		return Result{}, &domain.DependencyError{Dependency: req.ID(), Err: err}
	}
	rc.seen(req.ID(), res.Fingerprint)
	return res, nil
}

// RunAll computes reqs concurrently as dependencies of the running request.
// Edges are recorded in the order of reqs. Every failure is reported, joined.
func (rc *Context) RunAll(ctx context.Context, reqs []Request) ([]Result, error) {
	results, errs, err := rc.RunEach(ctx, reqs)
	if err != nil {
		return nil, err
	}
	return results, errors.Join(errs...)
}

// RunEach is RunAll with one error slot per request. The returned error is
// set only when no request could be started.
func (rc *Context) RunEach(ctx context.Context, reqs []Request) ([]Result, []error, error) {
	for _, req := range reqs {
		if err := rc.link(req); err != nil {
			return nil, nil, err
		}
	}

	rc.release()
	results := make([]Result, len(reqs))
	errs := make([]error, len(reqs))
	var g errgroup.Group
	for i, req := range reqs {
		g.Go(func() error {
			results[i], errs[i] = rc.s.ensure(ctx, req)
			return nil
		})
	}
	_ = g.Wait()
	if err := rc.acquire(ctx); err != nil {
		return nil, nil, err
	}

	for i, req := range reqs {
		if errs[i] != nil {
			errs[i] = &domain.DependencyError{Dependency: req.ID(), Err: errs[i]}
			continue
		}
		rc.seen(req.ID(), results[i].Fingerprint)
	}
	return results, errs, nil
}

// CacheGet reads the result cache. Without a cache every lookup misses.
func (rc *Context) CacheGet(ctx context.Context, key domain.Fingerprint) ([]byte, bool, error) {
	if rc.s.cache == nil {
		return nil, false, nil
	}
	return rc.s.cache.Get(ctx, key)
}

// CachePut stages a cache write. It is committed only if the request
// completes successfully and no change arrived while it ran.
func (rc *Context) CachePut(key domain.Fingerprint, data []byte) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.pending = append(rc.pending, cacheWrite{key: key, data: data})
}

// MarkCached records that the result was served from the cache.
func (rc *Context) MarkCached() {
	rc.mu.Lock()
	rc.cached = true
	rc.mu.Unlock()
}

func (rc *Context) link(req Request) error {
	rc.s.mu.Lock()
	defer rc.s.mu.Unlock()
	n, _ := rc.s.graph.GetOrCreate(req.ID())
	if n.Request == nil {
		n.Request = req
	}
	return rc.s.graph.AddDependency(rc.id, req.ID())
}

func (rc *Context) seen(dep domain.RequestID, fp domain.Fingerprint) {
	rc.s.mu.Lock()
	rc.s.graph.SetSeen(rc.id, dep, fp)
	rc.s.mu.Unlock()
}

func (rc *Context) release() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if rc.held {
		rc.lane.Release(1)
		rc.held = false
	}
}

func (rc *Context) acquire(ctx context.Context) error {
	if err := rc.lane.Acquire(ctx, 1); err != nil {
		return err
	}
	rc.mu.Lock()
	rc.held = true
	rc.mu.Unlock()
	return nil
}

func (rc *Context) flushCache(ctx context.Context) {
	rc.mu.Lock()
	pending := rc.pending
	rc.pending = nil
	rc.mu.Unlock()

	if rc.s.cache == nil {
		return
	}
	for _, w := range pending {
		if err := rc.s.cache.Put(ctx, w.key, w.data); err != nil {
			rc.s.logger.Warn(zerr.With(zerr.Wrap(err, "cache write failed"), "request", rc.id.String()).Error())
		}
	}
}

// EnvReader reads environment variables on behalf of a running request.
type EnvReader struct {
	rc *Context
}

// Get returns the value of key and subscribes the request to its changes.
func (e EnvReader) Get(key string) string {
	e.rc.Subscribe(domain.OnEnvChange(key))
	return e.rc.s.readEnv(key)
}
