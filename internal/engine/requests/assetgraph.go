package requests

import (
	"context"
	"path/filepath"
	"strings"

	"go.trai.ch/rebund/internal/core/domain"
	"go.trai.ch/rebund/internal/engine/assetgraph"
	"go.trai.ch/rebund/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

type assetGraphRequest struct {
	s *Set
}

func (r assetGraphRequest) ID() domain.RequestID {
	return domain.NewRequestID(domain.KindAssetGraph, "")
}

func (r assetGraphRequest) Run(ctx context.Context, rc *scheduler.Context) (scheduler.Result, error) {
	cfgs, err := r.s.configs(ctx, rc, domain.OptionEntries)
	if err != nil {
		return scheduler.Result{}, err
	}

	entries, err := r.s.expandEntries(rc, cfgs[0])
	if err != nil {
		return scheduler.Result{}, err
	}

	var prev *assetgraph.Snapshot
	if res, ok := rc.Previous(); ok {
		prev, _ = res.Value.(*assetgraph.Snapshot)
	}

	// The walk always starts over from the entries. Assets and specifiers
	// that did not change are valid transform and resolve requests, so each
	// costs a lookup; only the changed ones run their plugins again.
	snap, err := assetgraph.Walk(ctx, entries, prev, walkLoader{s: r.s, rc: rc})
	if err != nil {
		return scheduler.Result{}, err
	}
	return scheduler.Result{Value: snap, Fingerprint: snap.Fingerprint()}, nil
}

// expandEntries turns the configured entries into absolute file paths. Glob
// entries subscribe to file creation in every directory they cover, plain
// entries that do not exist yet subscribe to their own creation.
func (s *Set) expandEntries(rc *scheduler.Context, cfg *domain.BuildConfig) ([]string, error) {
	var out []string
	for _, entry := range cfg.Entries {
		if !hasMeta(entry) {
			path := entry
			if !filepath.IsAbs(path) {
				path = filepath.Join(cfg.Root, path)
			}
			if !s.fs.IsFile(path) {
				rc.Subscribe(domain.OnFileCreate(filepath.Dir(path), filepath.Base(path)))
				continue
			}
			rc.Subscribe(domain.OnFileDelete(path))
			out = append(out, path)
			continue
		}

		pattern := filepath.ToSlash(entry)
		matches, err := s.fs.Glob(cfg.Root, pattern)
		if err != nil {
			return nil, domain.NewFailure(domain.ErrNoEntries, "", 0,
				zerr.With(zerr.Wrap(err, "entry glob failed"), "pattern", entry))
		}

		base := pattern[strings.LastIndex(pattern, "/")+1:]
		dirs := map[string]struct{}{filepath.Join(cfg.Root, staticPrefix(pattern)): {}}
		for _, m := range matches {
			dirs[filepath.Dir(m)] = struct{}{}
			rc.Subscribe(domain.OnFileDelete(m))
		}
		for dir := range dirs {
			rc.Subscribe(domain.OnFileCreate(dir, base))
		}
		out = append(out, matches...)
	}

	if len(out) == 0 {
		return nil, domain.NewFailure(domain.ErrNoEntries, "", 0,
			zerr.With(zerr.New("no file matches the configured entries"), "entries", strings.Join(cfg.Entries, ", ")))
	}
	return out, nil
}

func hasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// staticPrefix returns the leading directories of pattern that hold no glob syntax.
func staticPrefix(pattern string) string {
	segments := strings.Split(pattern, "/")
	var static []string
	for _, seg := range segments[:len(segments)-1] {
		if hasMeta(seg) {
			break
		}
		static = append(static, seg)
	}
	return filepath.FromSlash(strings.Join(static, "/"))
}

// walkLoader runs the transform and resolve requests of a walk as
// dependencies of the asset graph request.
type walkLoader struct {
	s  *Set
	rc *scheduler.Context
}

func (l walkLoader) Transform(ctx context.Context, paths []string) ([]assetgraph.Loaded, error) {
	reqs := make([]scheduler.Request, len(paths))
	for i, p := range paths {
		reqs[i] = l.s.Transform(p)
	}
	results, errs, err := l.rc.RunEach(ctx, reqs)
	if err != nil {
		return nil, err
	}

	out := make([]assetgraph.Loaded, len(paths))
	for i, res := range results {
		if errs[i] != nil {
			out[i].Err = errs[i]
			continue
		}
		asset, err := valueOf[*domain.Asset](res, reqs[i])
		if err != nil {
			return nil, err
		}
		out[i] = assetgraph.Loaded{Asset: asset, Fingerprint: res.Fingerprint}
	}
	return out, nil
}

func (l walkLoader) Resolve(ctx context.Context, queries []assetgraph.Query) ([]assetgraph.Resolved, error) {
	reqs := make([]scheduler.Request, len(queries))
	for i, q := range queries {
		reqs[i] = l.s.Resolve(filepath.Dir(q.From.FilePath), q.Dependency.Specifier)
	}
	results, errs, err := l.rc.RunEach(ctx, reqs)
	if err != nil {
		return nil, err
	}

	out := make([]assetgraph.Resolved, len(queries))
	for i, res := range results {
		if errs[i] != nil {
			out[i].Err = errs[i]
			continue
		}
		path, err := valueOf[string](res, reqs[i])
		if err != nil {
			return nil, err
		}
		out[i].Path = path
	}
	return out, nil
}
