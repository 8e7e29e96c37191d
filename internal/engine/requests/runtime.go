package requests

import (
	"context"

	"go.trai.ch/rebund/internal/core/domain"
	"go.trai.ch/rebund/internal/core/ports"
	"go.trai.ch/rebund/internal/engine/fingerprint"
	"go.trai.ch/rebund/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

type runtimeRequest struct {
	s      *Set
	bundle domain.BundleID
}

func (r runtimeRequest) ID() domain.RequestID {
	return domain.NewRequestID(domain.KindRuntime, string(r.bundle))
}

func (r runtimeRequest) Run(ctx context.Context, rc *scheduler.Context) (scheduler.Result, error) {
	out, bundle, err := r.s.bundleOf(ctx, rc, r.bundle)
	if err != nil {
		return scheduler.Result{}, err
	}
	cfgs, err := r.s.configs(ctx, rc, domain.OptionRuntimes)
	if err != nil {
		return scheduler.Result{}, err
	}

	children := out.Graph.Children(r.bundle)
	reqs := make([]scheduler.Request, len(children))
	for i, child := range children {
		reqs[i] = r.s.Name(child.ID)
	}
	results, err := rc.RunAll(ctx, reqs)
	if err != nil {
		return scheduler.Result{}, err
	}
	names := make(map[domain.BundleID]string, len(children))
	for i, res := range results {
		name, err := valueOf[string](res, reqs[i])
		if err != nil {
			return scheduler.Result{}, err
		}
		names[children[i].ID] = name
	}

	var assets []domain.RuntimeAsset
	for _, ref := range cfgs[0].Runtimes {
		provider, err := r.s.registry.Runtime(ref.Name)
		if err != nil {
			return scheduler.Result{}, domain.NewFailure(domain.ErrRuntimeFailure, "", 0, err)
		}
		injected, err := provider.Apply(ctx, ports.RuntimeInput{
			Bundle:     bundle,
			Graph:      out.Graph,
			ChildNames: names,
			Options:    ref.Options,
		})
		if err != nil {
			return scheduler.Result{}, domain.NewFailure(domain.ErrRuntimeFailure, "", 0,
				zerr.With(zerr.Wrap(err, "runtime provider failed"), "provider", provider.Identity().String()))
		}
		assets = append(assets, injected...)
	}

	fp := fingerprint.New().Int(int64(len(assets)))
	for _, a := range assets {
		fp.String(a.Provider).String(a.Type).Bytes(a.Content)
	}
	return scheduler.Result{Value: assets, Fingerprint: fp.Sum()}, nil
}
