package requests

import (
	"context"

	"go.trai.ch/rebund/internal/core/domain"
	"go.trai.ch/rebund/internal/engine/assetgraph"
	"go.trai.ch/rebund/internal/engine/bundling"
	"go.trai.ch/rebund/internal/engine/fingerprint"
	"go.trai.ch/rebund/internal/engine/scheduler"
)

// Output is the value of the build request.
type Output struct {
	Graph    *assetgraph.Snapshot
	Bundles  *bundling.Outcome
	Packages []domain.PackagedBundle
}

type buildRequest struct {
	s *Set
}

func (r buildRequest) ID() domain.RequestID {
	return domain.NewRequestID(domain.KindBuild, "")
}

func (r buildRequest) Run(ctx context.Context, rc *scheduler.Context) (scheduler.Result, error) {
	snap, snapRes, err := run[*assetgraph.Snapshot](ctx, rc, r.s.AssetGraph())
	if err != nil {
		return scheduler.Result{}, err
	}
	out, outRes, err := run[*bundling.Outcome](ctx, rc, r.s.BundleGraph())
	if err != nil {
		return scheduler.Result{}, err
	}

	reqs := make([]scheduler.Request, len(out.Graph.Bundles))
	for i, b := range out.Graph.Bundles {
		reqs[i] = r.s.Package(b.ID)
	}
	results, err := rc.RunAll(ctx, reqs)
	if err != nil {
		return scheduler.Result{}, err
	}

	fp := fingerprint.New().Fingerprint(snapRes.Fingerprint).Fingerprint(outRes.Fingerprint)
	packages := make([]domain.PackagedBundle, len(results))
	for i, res := range results {
		if packages[i], err = valueOf[domain.PackagedBundle](res, reqs[i]); err != nil {
			return scheduler.Result{}, err
		}
		fp.Fingerprint(res.Fingerprint)
	}

	return scheduler.Result{
		Value:       &Output{Graph: snap, Bundles: out, Packages: packages},
		Fingerprint: fp.Sum(),
	}, nil
}
