package requests

import (
	"context"

	"go.trai.ch/rebund/internal/core/domain"
	"go.trai.ch/rebund/internal/core/ports"
	"go.trai.ch/rebund/internal/engine/fingerprint"
	"go.trai.ch/rebund/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

type nameRequest struct {
	s      *Set
	bundle domain.BundleID
}

func (r nameRequest) ID() domain.RequestID {
	return domain.NewRequestID(domain.KindName, string(r.bundle))
}

// Run asks the configured namers in order; the first non-empty name wins.
func (r nameRequest) Run(ctx context.Context, rc *scheduler.Context) (scheduler.Result, error) {
	out, bundle, err := r.s.bundleOf(ctx, rc, r.bundle)
	if err != nil {
		return scheduler.Result{}, err
	}
	cfgs, err := r.s.configs(ctx, rc, domain.OptionNamers)
	if err != nil {
		return scheduler.Result{}, err
	}

	for _, ref := range cfgs[0].Namers {
		namer, err := r.s.registry.Namer(ref.Name)
		if err != nil {
			return scheduler.Result{}, domain.NewFailure(domain.ErrNamerFailure, "", 0, err)
		}
		name, err := namer.Name(ctx, ports.NameInput{Bundle: bundle, Graph: out.Graph, Options: ref.Options})
		if err != nil {
			return scheduler.Result{}, domain.NewFailure(domain.ErrNamerFailure, "", 0,
				zerr.With(zerr.Wrap(err, "namer failed"), "namer", namer.Identity().String()))
		}
		if name != "" {
			return scheduler.Result{Value: name, Fingerprint: fingerprint.Strings(name)}, nil
		}
	}
	return scheduler.Result{}, domain.NewFailure(domain.ErrNamerFailure, "", 0,
		zerr.With(zerr.New("every namer passed"), "bundle", r.bundle.String()))
}
