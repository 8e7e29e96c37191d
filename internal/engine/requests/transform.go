package requests

import (
	"context"
	"encoding/json"
	"errors"
	"maps"
	"path/filepath"
	"strings"
	"sync"

	"go.trai.ch/rebund/internal/core/domain"
	"go.trai.ch/rebund/internal/core/ports"
	"go.trai.ch/rebund/internal/engine/fingerprint"
	"go.trai.ch/rebund/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

type transformRequest struct {
	s    *Set
	path string
}

// transformEntry is the cached outcome of a transform. Env holds the
// variables the pipeline read; a hit is only served while they still match.
type transformEntry struct {
	Asset         domain.Asset      `json:"asset"`
	Invalidations []domain.Trigger  `json:"invalidations,omitempty"`
	Env           map[string]string `json:"env,omitempty"`
}

type stage struct {
	transformer ports.Transformer
	options     domain.Options
}

func (r transformRequest) ID() domain.RequestID {
	return domain.NewRequestID(domain.KindTransform, r.path)
}

func (r transformRequest) Run(ctx context.Context, rc *scheduler.Context) (scheduler.Result, error) {
	cfgs, err := r.s.configs(ctx, rc, domain.OptionTransformers)
	if err != nil {
		return scheduler.Result{}, err
	}
	cfg := cfgs[0]

	rc.Subscribe(domain.OnFileUpdate(r.path))

	stages, names, err := r.pipeline(cfg)
	if err != nil {
		return scheduler.Result{}, domain.NewFailure(domain.ErrTransformFailure, r.path, 0, err)
	}

	content, err := r.s.fs.ReadFile(r.path)
	if err != nil {
		return scheduler.Result{}, domain.NewFailure(domain.ErrTransformFailure, r.path, 0,
			errors.Join(domain.ErrFileReadFailed, err))
	}

	key := fingerprint.New().String(string(domain.KindTransform)).String(r.path)
	for _, st := range stages {
		key.String(st.transformer.Identity().String()).Value(st.options)
	}
	key.Bytes(content)
	cacheKey := key.Sum()

	if entry, ok := r.cached(ctx, rc, cacheKey); ok {
		rc.Subscribe(entry.Invalidations...)
		rc.MarkCached()
		asset := entry.Asset
		return scheduler.Result{Value: &asset, Fingerprint: assetFingerprint(&asset)}, nil
	}

	env := &recordingEnv{env: rc.Env(), seen: make(map[string]string)}
	in := ports.TransformInput{
		FilePath: r.path,
		Type:     strings.TrimPrefix(filepath.Ext(r.path), "."),
		Content:  content,
		Env:      env,
	}
	var (
		deps          []domain.Dependency
		invalidations []domain.Trigger
	)
	for _, st := range stages {
		in.Options = st.options
		out, err := st.transformer.Transform(ctx, in)
		rc.Subscribe(out.Invalidations...)
		invalidations = append(invalidations, out.Invalidations...)
		if err != nil {
			return scheduler.Result{}, r.failure(err)
		}
		in.Content = out.Content
		if out.Type != "" {
			in.Type = out.Type
		}
		deps = append(deps, out.Dependencies...)
	}

	pipeline := strings.Join(names, "+")
	asset := &domain.Asset{
		ID:           domain.NewAssetID(r.path, pipeline),
		FilePath:     r.path,
		Type:         in.Type,
		Pipeline:     pipeline,
		ContentHash:  fingerprint.Bytes(in.Content),
		Content:      in.Content,
		Dependencies: deps,
	}

	if data, err := json.Marshal(transformEntry{Asset: *asset, Invalidations: invalidations, Env: env.values()}); err == nil {
		rc.CachePut(cacheKey, data)
	}
	return scheduler.Result{Value: asset, Fingerprint: assetFingerprint(asset)}, nil
}

// pipeline returns the stages of the first transformer rule matching the file.
func (r transformRequest) pipeline(cfg *domain.BuildConfig) ([]stage, []string, error) {
	for _, rule := range cfg.Transformers {
		if !r.s.match(cfg.Root, rule.Pattern, r.path) {
			continue
		}
		stages := make([]stage, 0, len(rule.Pipeline))
		names := make([]string, 0, len(rule.Pipeline))
		for _, ref := range rule.Pipeline {
			t, err := r.s.registry.Transformer(ref.Name)
			if err != nil {
				return nil, nil, err
			}
			stages = append(stages, stage{transformer: t, options: ref.Options})
			names = append(names, ref.Name)
		}
		return stages, names, nil
	}
	return nil, nil, domain.ErrNoTransformer
}

func (r transformRequest) cached(ctx context.Context, rc *scheduler.Context, key domain.Fingerprint) (transformEntry, bool) {
	data, ok, err := rc.CacheGet(ctx, key)
	if err != nil || !ok {
		return transformEntry{}, false
	}
	var entry transformEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return transformEntry{}, false
	}
	env := rc.Env()
	for k, v := range entry.Env {
		if env.Get(k) != v {
			return transformEntry{}, false
		}
	}
	return entry, true
}

// failure locates a transformer error in the transformed file.
func (r transformRequest) failure(err error) error {
	var rf *domain.RequestFailure
	if errors.As(err, &rf) {
		if rf.File == "" {
			return domain.NewFailure(rf.Kind, r.path, rf.Line, rf.Err)
		}
		return rf
	}
	return domain.NewFailure(domain.ErrTransformFailure, r.path, 0,
		zerr.With(zerr.Wrap(err, "transformer rejected the file"), "file", r.path))
}

// assetFingerprint covers what dependents of a transform consume: the output
// type, content and declared dependencies.
func assetFingerprint(a *domain.Asset) domain.Fingerprint {
	b := fingerprint.New().
		String(string(a.ID)).
		String(a.Type).
		Fingerprint(a.ContentHash).
		Int(int64(len(a.Dependencies)))
	for _, d := range a.Dependencies {
		b.String(d.Specifier).Int(int64(d.Priority))
	}
	return b.Sum()
}

// recordingEnv remembers every variable read by a pipeline.
type recordingEnv struct {
	env scheduler.EnvReader

	mu   sync.Mutex
	seen map[string]string
}

func (e *recordingEnv) Get(key string) string {
	v := e.env.Get(key)
	e.mu.Lock()
	e.seen[key] = v
	e.mu.Unlock()
	return v
}

func (e *recordingEnv) values() map[string]string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.seen) == 0 {
		return nil
	}
	return maps.Clone(e.seen)
}
