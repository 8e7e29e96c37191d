package requests

import (
	"context"

	"go.trai.ch/rebund/internal/core/domain"
	"go.trai.ch/rebund/internal/engine/assetgraph"
	"go.trai.ch/rebund/internal/engine/bundling"
	"go.trai.ch/rebund/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

type bundleGraphRequest struct {
	s *Set
}

func (r bundleGraphRequest) ID() domain.RequestID {
	return domain.NewRequestID(domain.KindBundleGraph, "")
}

func (r bundleGraphRequest) Run(ctx context.Context, rc *scheduler.Context) (scheduler.Result, error) {
	snap, _, err := run[*assetgraph.Snapshot](ctx, rc, r.s.AssetGraph())
	if err != nil {
		return scheduler.Result{}, err
	}
	cfgs, err := r.s.configs(ctx, rc, domain.OptionBundler, domain.OptionTargets)
	if err != nil {
		return scheduler.Result{}, err
	}

	var prev *bundling.Outcome
	if res, ok := rc.Previous(); ok {
		prev, _ = res.Value.(*bundling.Outcome)
	}

	out, err := r.s.gate.Decide(ctx, bundling.Input{
		Graph:   snap,
		Bundler: cfgs[0].Bundler,
		Targets: cfgs[1].Targets,
	}, prev, rc)
	if err != nil {
		return scheduler.Result{}, err
	}
	if out.Source == bundling.SourceCached {
		rc.MarkCached()
	}
	return scheduler.Result{Value: out, Fingerprint: bundling.Fingerprint(out.Graph)}, nil
}

// bundleOf computes the bundle graph and returns the bundle named by id.
func (s *Set) bundleOf(ctx context.Context, rc *scheduler.Context, id domain.BundleID) (*bundling.Outcome, domain.Bundle, error) {
	out, _, err := run[*bundling.Outcome](ctx, rc, s.BundleGraph())
	if err != nil {
		return nil, domain.Bundle{}, err
	}
	bundle, ok := out.Graph.Bundle(id)
	if !ok {
		return nil, domain.Bundle{}, domain.NewFailure(domain.ErrBundlerFailure, "", 0,
			zerr.With(zerr.New("bundle no longer exists"), "bundle", id.String()))
	}
	return out, bundle, nil
}
