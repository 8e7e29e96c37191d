package scheduler

import (
	"context"
	"errors"
	"time"

	"go.trai.ch/rebund/internal/core/domain"
	"go.trai.ch/rebund/internal/core/ports"
	"go.trai.ch/rebund/internal/engine/fingerprint"
	"go.trai.ch/rebund/internal/engine/requestgraph"
	"go.trai.ch/zerr"
)

// flight delivers the outcome of a running node to every waiter.
type flight struct {
	done   chan struct{}
	result Result
	err    error
}

// ensure returns the current result of req, computing it if needed.
func (s *Scheduler) ensure(ctx context.Context, req Request) (Result, error) {
	id := req.ID()

	s.mu.Lock()
	n, _ := s.graph.GetOrCreate(id)
	n.Request = req

	switch n.State {
	case domain.StateValid:
		res := Result{Value: n.Result, Fingerprint: n.ResultFingerprint}
		s.mu.Unlock()
		return res, nil

	case domain.StateErrored:
		err := n.Err
		s.mu.Unlock()
		return Result{}, err

	case domain.StateRunning:
		f := s.flights[id]
		s.mu.Unlock()
		return await(ctx, f)
	}

	f := &flight{done: make(chan struct{})}
	s.flights[id] = f
	reusable := n.Reusable()
	n.State = domain.StateRunning
	n.Stale = false
	s.mu.Unlock()

	if reusable && s.verify(ctx, n) {
		if ctx.Err() == nil {
			s.settleVerified(n, f)
			return f.result, f.err
		}
	}
	if err := ctx.Err(); err != nil {
		s.settleCanceled(n, f, err, false)
		return Result{}, err
	}

	s.execute(ctx, n, f)
	return f.result, f.err
}

func await(ctx context.Context, f *flight) (Result, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// verify ensures the previous dependencies of n in their recorded order and
// reports whether each one still has the fingerprint n consumed.
func (s *Scheduler) verify(ctx context.Context, n *requestgraph.Node) bool {
	s.mu.Lock()
	edges := n.Dependencies()
	s.mu.Unlock()

	for _, e := range edges {
		s.mu.Lock()
		dep, ok := s.graph.Node(e.To)
		var req Request
		if ok {
			req, _ = dep.Request.(Request)
		}
		s.mu.Unlock()
		if req == nil || e.Seen == "" {
			return false
		}

		res, err := s.ensure(ctx, req)
		if err != nil || res.Fingerprint != e.Seen {
			return false
		}
	}
	return true
}

func (s *Scheduler) settleVerified(n *requestgraph.Node, f *flight) {
	s.mu.Lock()
	f.result = Result{Value: n.Result, Fingerprint: n.ResultFingerprint}
	if n.Stale {
		n.State = domain.StateInvalid
		n.Direct = true
		n.Stale = false
	} else {
		n.State = domain.StateValid
	}
	s.stats.Reused++
	delete(s.flights, n.ID)
	close(f.done)
	s.mu.Unlock()

	s.metrics.ObserveRequest(n.Kind, ports.OutcomeReused, 0)
}

// settleCanceled returns n to Invalid. cleared reports whether its edges were
// already dropped for a re-run, which rules out a later verification.
func (s *Scheduler) settleCanceled(n *requestgraph.Node, f *flight, err error, cleared bool) {
	s.mu.Lock()
	n.State = domain.StateInvalid
	if cleared {
		n.Direct = true
	}
	n.Stale = false
	f.err = err
	delete(s.flights, n.ID)
	close(f.done)
	s.mu.Unlock()
}

// execute runs the body of n on its lane and settles the outcome.
func (s *Scheduler) execute(ctx context.Context, n *requestgraph.Node, f *flight) {
	s.mu.Lock()
	req, _ := n.Request.(Request)
	s.graph.ClearEdges(n.ID)
	prev := Result{Value: n.Result, Fingerprint: n.ResultFingerprint}
	hasPrev := n.Succeeded || n.Result != nil
	s.mu.Unlock()

	if req == nil {
		s.settleFailed(n, f, zerr.With(zerr.Wrap(domain.ErrRequestNotFound, ""), "request", n.ID.String()), time.Time{})
		return
	}

	lane := s.lane(n.Kind)
	if err := lane.Acquire(ctx, 1); err != nil {
		s.settleCanceled(n, f, err, true)
		return
	}

	start := time.Now()
	spanCtx, span := s.tracer.Start(ctx, n.ID.String(),
		ports.WithAttribute(domain.AttrRequestKind, string(n.Kind)),
		ports.WithAttribute(domain.AttrRequestID, n.ID.String()))
	rc := &Context{
		s:       s,
		id:      n.ID,
		lane:    lane,
		held:    true,
		prev:    prev,
		hasPrev: hasPrev,
	}

	res, err := req.Run(spanCtx, rc)
	rc.release()

	if err != nil {
		span.RecordError(err)
	}
	if rc.cached {
		span.SetAttribute(domain.AttrRequestCached, true)
	}
	span.End()

	if err == nil && res.Fingerprint == "" {
		res.Fingerprint = fingerprint.Value(res.Value)
	}

	switch {
	case err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()):
		s.settleCanceled(n, f, err, true)
	case err != nil:
		s.settleFailed(n, f, err, start)
	default:
		s.settleSucceeded(ctx, n, f, rc, res, start)
	}
}

func (s *Scheduler) settleFailed(n *requestgraph.Node, f *flight, err error, start time.Time) {
	s.mu.Lock()
	f.err = err
	if n.Stale {
		n.State = domain.StateInvalid
		n.Stale = false
	} else {
		n.State = domain.StateErrored
		n.Err = err
	}
	n.Direct = true
	n.Succeeded = false
	s.stats.Errored++
	delete(s.flights, n.ID)
	close(f.done)
	s.mu.Unlock()

	s.logger.Debug("request failed: " + n.ID.String())
	s.metrics.ObserveRequest(n.Kind, ports.OutcomeErrored, since(start))
}

func (s *Scheduler) settleSucceeded(
	ctx context.Context,
	n *requestgraph.Node,
	f *flight,
	rc *Context,
	res Result,
	start time.Time,
) {
	s.mu.Lock()
	stale := n.Stale
	f.result = res
	n.Result = res.Value
	n.ResultFingerprint = res.Fingerprint
	n.Err = nil
	n.Succeeded = true
	n.Stale = false
	if stale {
		n.State = domain.StateInvalid
		n.Direct = true
	} else {
		n.State = domain.StateValid
		n.Direct = false
	}
	s.stats.Executed++
	if rc.cached {
		s.stats.Cached++
	}
	delete(s.flights, n.ID)
	close(f.done)
	s.mu.Unlock()

	if !stale {
		rc.flushCache(ctx)
	}

	outcome := ports.OutcomeExecuted
	if rc.cached {
		outcome = ports.OutcomeCached
	}
	s.logger.Debug("request done: " + n.ID.String())
	s.metrics.ObserveRequest(n.Kind, outcome, since(start))
}

func since(start time.Time) time.Duration {
	if start.IsZero() {
		return 0
	}
	return time.Since(start)
}
