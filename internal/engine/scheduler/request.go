package scheduler

import (
	"context"

	"go.trai.ch/rebund/internal/core/domain"
)

// Result is the memoized output of a request.
type Result struct {
	Value any
	// Fingerprint identifies Value. Dependents compare it to decide whether
	// they can be reused without re-running.
	Fingerprint domain.Fingerprint
}

// Request is a memoized computation identified by its RequestID.
// Two requests with the same ID must compute the same thing.
type Request interface {
	ID() domain.RequestID
	Run(ctx context.Context, rc *Context) (Result, error)
}

// Func adapts a function to the Request interface.
type Func struct {
	Key  domain.RequestID
	Body func(ctx context.Context, rc *Context) (Result, error)
}

// ID returns the request key.
func (f Func) ID() domain.RequestID { return f.Key }

// Run calls the body.
func (f Func) Run(ctx context.Context, rc *Context) (Result, error) {
	return f.Body(ctx, rc)
}
