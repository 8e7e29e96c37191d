package requests

import (
	"context"

	"go.trai.ch/rebund/internal/core/domain"
	"go.trai.ch/rebund/internal/engine/scheduler"
)

// configRequest serves one configuration slice. Its fingerprint covers only
// that slice, so dependents of other slices are not disturbed by an edit.
type configRequest struct {
	s    *Set
	path string
}

func (r configRequest) ID() domain.RequestID {
	return domain.NewRequestID(domain.KindConfig, r.path)
}

func (r configRequest) Run(_ context.Context, rc *scheduler.Context) (scheduler.Result, error) {
	rc.Subscribe(domain.OnOptionChange(r.path), domain.OnStartup())
	return scheduler.Result{
		Value:       r.s.config.Current(),
		Fingerprint: r.s.config.Fingerprint(r.path),
	}, nil
}
