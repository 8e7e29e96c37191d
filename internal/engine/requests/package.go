package requests

import (
	"bytes"
	"context"
	"path/filepath"

	"go.trai.ch/rebund/internal/core/domain"
	"go.trai.ch/rebund/internal/engine/fingerprint"
	"go.trai.ch/rebund/internal/engine/scheduler"
)

type packageRequest struct {
	s      *Set
	bundle domain.BundleID
}

func (r packageRequest) ID() domain.RequestID {
	return domain.NewRequestID(domain.KindPackage, string(r.bundle))
}

// Run concatenates the runtime code and the member assets of the bundle. Each
// member is preceded by a banner naming its file relative to the root.
func (r packageRequest) Run(ctx context.Context, rc *scheduler.Context) (scheduler.Result, error) {
	_, bundle, err := r.s.bundleOf(ctx, rc, r.bundle)
	if err != nil {
		return scheduler.Result{}, err
	}

	nameReq, runtimeReq := r.s.Name(r.bundle), r.s.Runtime(r.bundle)
	reqs := []scheduler.Request{nameReq, runtimeReq}
	for _, id := range bundle.Assets {
		reqs = append(reqs, r.s.Transform(id.Path()))
	}
	results, err := rc.RunAll(ctx, reqs)
	if err != nil {
		return scheduler.Result{}, err
	}

	name, err := valueOf[string](results[0], nameReq)
	if err != nil {
		return scheduler.Result{}, err
	}
	injected, err := valueOf[[]domain.RuntimeAsset](results[1], runtimeReq)
	if err != nil {
		return scheduler.Result{}, err
	}

	root := r.s.config.Current().Root
	parts := make([][]byte, 0, len(injected)+len(bundle.Assets))
	for _, a := range injected {
		parts = append(parts, a.Content)
	}
	for i := range bundle.Assets {
		asset, err := valueOf[*domain.Asset](results[2+i], reqs[2+i])
		if err != nil {
			return scheduler.Result{}, err
		}
		parts = append(parts, member(root, asset))
	}

	contents := bytes.Join(parts, []byte("\n"))
	pkg := domain.PackagedBundle{
		BundleID: r.bundle,
		Name:     name,
		Type:     bundle.Type,
		Contents: contents,
		Hash:     fingerprint.Bytes(contents),
	}
	return scheduler.Result{
		Value:       pkg,
		Fingerprint: fingerprint.New().String(name).String(bundle.Type).Fingerprint(pkg.Hash).Sum(),
	}, nil
}

func member(root string, a *domain.Asset) []byte {
	rel, err := filepath.Rel(root, a.FilePath)
	if err != nil {
		rel = a.FilePath
	}
	var buf bytes.Buffer
	buf.WriteString("/* ")
	buf.WriteString(filepath.ToSlash(rel))
	buf.WriteString(" */\n")
	buf.Write(a.Content)
	return buf.Bytes()
}
