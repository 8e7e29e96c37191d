package requests

import (
	"context"
	"strconv"

	"go.trai.ch/rebund/internal/core/domain"
	"go.trai.ch/rebund/internal/core/ports"
	"go.trai.ch/rebund/internal/engine/fingerprint"
	"go.trai.ch/rebund/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

type resolveRequest struct {
	s         *Set
	fromDir   string
	specifier string
}

func (r resolveRequest) ID() domain.RequestID {
	return domain.NewRequestID(domain.KindResolve, r.fromDir+"\x00"+r.specifier)
}

func (r resolveRequest) Run(ctx context.Context, rc *scheduler.Context) (scheduler.Result, error) {
	cfgs, err := r.s.configs(ctx, rc, domain.OptionResolver)
	if err != nil {
		return scheduler.Result{}, err
	}
	ref := cfgs[0].Resolver

	resolver, err := r.s.registry.Resolver(ref.Name)
	if err != nil {
		return scheduler.Result{}, domain.NewFailure(domain.ErrResolutionFailure, "", 0, err)
	}

	out, err := resolver.Resolve(ctx, ports.ResolveRequest{
		Specifier: r.specifier,
		FromDir:   r.fromDir,
		Options:   ref.Options,
		FS:        r.s.fs,
	})
	rc.Subscribe(out.Invalidations...)
	if err != nil {
		return scheduler.Result{}, domain.NewFailure(domain.ErrResolutionFailure, "", 0, err)
	}
	if out.NotFound || out.Path == "" {
		return scheduler.Result{}, domain.NewFailure(domain.ErrResolutionFailure, "", 0,
			zerr.With(zerr.New("cannot resolve "+strconv.Quote(r.specifier)), "from", r.fromDir))
	}

	return scheduler.Result{Value: out.Path, Fingerprint: fingerprint.Strings(out.Path)}, nil
}
