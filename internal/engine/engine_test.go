package engine_test

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	fsadapter "go.trai.ch/rebund/internal/adapters/fs"
	"go.trai.ch/rebund/internal/adapters/glob"
	"go.trai.ch/rebund/internal/adapters/plugins"
	"go.trai.ch/rebund/internal/adapters/plugins/bundler"
	"go.trai.ch/rebund/internal/core/domain"
	"go.trai.ch/rebund/internal/core/ports"
	"go.trai.ch/rebund/internal/core/ports/mocks"
	"go.trai.ch/rebund/internal/engine"
	"go.uber.org/mock/gomock"
)

const root = "/p"

// countingBundler counts the calls reaching the built-in bundler.
type countingBundler struct {
	ports.Bundler
	name  string
	calls atomic.Int32
}

func (c *countingBundler) Identity() ports.PluginIdentity {
	return ports.PluginIdentity{Name: c.name, Version: "1"}
}

func (c *countingBundler) Bundle(ctx context.Context, in ports.BundleInput) (*domain.BundleGraph, error) {
	c.calls.Add(1)
	return c.Bundler.Bundle(ctx, in)
}

type recorder struct {
	mu     sync.Mutex
	events []domain.BuildEvent
}

func (r *recorder) OnBuildEvent(ev domain.BuildEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) types() []domain.BuildEventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.BuildEventType, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Type
	}
	return out
}

func (r *recorder) last() domain.BuildEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[len(r.events)-1]
}

type environ struct {
	mu   sync.Mutex
	vars map[string]string
}

func (e *environ) lookup(key string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.vars[key]
}

func (e *environ) set(key, value string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.vars[key] = value
}

type harness struct {
	t        *testing.T
	fs       *fsadapter.Memory
	cfg      *domain.BuildConfig
	registry *plugins.Builtins
	engine   *engine.Engine
	events   *recorder
	env      *environ
	primary  *countingBundler
	alt      *countingBundler
}

type option func(*harness, *engine.Params)

func withConfig(fn func(*domain.BuildConfig)) option {
	return func(h *harness, _ *engine.Params) { fn(h.cfg) }
}

func withParams(fn func(*engine.Params)) option {
	return func(_ *harness, p *engine.Params) { fn(p) }
}

// newHarness creates an engine over an in-memory project rooted at /p with
// the built-in plugins and a counting bundler named "primary".
func newHarness(t *testing.T, files map[string]string, entries []string, opts ...option) *harness {
	t.Helper()

	abs := make(map[string]string, len(files))
	for rel, content := range files {
		abs[filepath.Join(root, rel)] = content
	}

	registry, err := plugins.NewBuiltins()
	require.NoError(t, err)
	t.Cleanup(registry.Close)

	h := &harness{
		t:        t,
		fs:       fsadapter.NewMemory(abs),
		cfg:      domain.NewDefaultConfig(root, entries...),
		registry: registry,
		events:   &recorder{},
		env:      &environ{vars: map[string]string{}},
		primary:  &countingBundler{Bundler: bundler.New(), name: "primary"},
		alt:      &countingBundler{Bundler: bundler.New(), name: "alternate"},
	}
	h.cfg.Bundler = domain.PluginRef{Name: "primary"}
	require.NoError(t, registry.RegisterBundler("primary", h.primary))
	require.NoError(t, registry.RegisterBundler("alternate", h.alt))

	matcher, err := glob.New(domain.GlobDoublestar)
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	span := mocks.NewMockSpan(ctrl)
	span.EXPECT().End().AnyTimes()
	span.EXPECT().RecordError(gomock.Any()).AnyTimes()
	span.EXPECT().SetAttribute(gomock.Any(), gomock.Any()).AnyTimes()
	tracer := mocks.NewMockTracer(ctrl)
	tracer.EXPECT().Start(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ string, _ ...ports.SpanOption) (context.Context, ports.Span) {
			return ctx, span
		},
	).AnyTimes()
	metrics := mocks.NewMockMetrics(ctrl)
	metrics.EXPECT().ObserveRequest(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	metrics.EXPECT().AddInvalidations(gomock.Any(), gomock.Any()).AnyTimes()
	metrics.EXPECT().IncBundlerInvocations(gomock.Any()).AnyTimes()
	metrics.EXPECT().ObserveBuild(gomock.Any(), gomock.Any()).AnyTimes()
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Debug(gomock.Any()).AnyTimes()
	logger.EXPECT().Info(gomock.Any()).AnyTimes()
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	logger.EXPECT().Error(gomock.Any()).AnyTimes()

	params := engine.Params{
		FS:          h.fs,
		Registry:    registry,
		Matcher:     matcher,
		Tracer:      tracer,
		Metrics:     metrics,
		Logger:      logger,
		Sink:        h.events,
		Parallelism: 4,
		EnvLookup:   h.env.lookup,
	}
	for _, opt := range opts {
		opt(h, &params)
	}
	params.Config = h.cfg
	h.engine = engine.New(params)
	return h
}

func (h *harness) build() *domain.BuildResult {
	h.t.Helper()
	res, err := h.engine.Build(h.t.Context())
	require.NoError(h.t, err)
	return res
}

func (h *harness) buildErr() error {
	h.t.Helper()
	_, err := h.engine.Build(h.t.Context())
	require.Error(h.t, err)
	return err
}

func (h *harness) edit(rel, content string) {
	h.fs.Set(filepath.Join(root, rel), content)
	h.engine.Notify(domain.Updated(filepath.Join(root, rel)))
}

func (h *harness) create(rel, content string) {
	h.fs.Set(filepath.Join(root, rel), content)
	h.engine.Notify(domain.Created(filepath.Join(root, rel)))
}

// reconfigure installs a copy of the configuration changed by fn.
func (h *harness) reconfigure(fn func(*domain.BuildConfig)) {
	next := *h.cfg
	fn(&next)
	h.cfg = &next
	h.engine.Reconfigure(&next)
}

func jsID(rel string) domain.AssetID {
	return domain.NewAssetID(filepath.Join(root, rel), "js")
}

func assetID(rel, pipeline string) domain.AssetID {
	return domain.NewAssetID(filepath.Join(root, rel), pipeline)
}

func bundleNamed(t *testing.T, res *domain.BuildResult, name string) domain.PackagedBundle {
	t.Helper()
	for _, b := range res.Bundles {
		if b.Name == name {
			return b
		}
	}
	t.Fatalf("no bundle named %q", name)
	return domain.PackagedBundle{}
}

func project() map[string]string {
	return map[string]string{
		"index.js": "import { a } from \"./a.js\";\nimport { b } from \"./b.js\";\nconsole.log(a, b);\n",
		"a.js":     "export const a = 1;\n",
		"b.js":     "export const b = 2;\n",
	}
}

func TestEngine_InitialBuild(t *testing.T) {
	h := newHarness(t, project(), []string{"index.js"})

	res := h.build()

	assert.Equal(t, 1, res.Sequence)
	assert.Equal(t, []domain.AssetID{jsID("a.js"), jsID("b.js"), jsID("index.js")}, res.ChangedAssets)
	assert.True(t, res.Stats.BundlerInvoked)
	assert.Equal(t, int32(1), h.primary.calls.Load())

	require.Len(t, res.Bundles, 1)
	index := bundleNamed(t, res, "index.js")
	contents := string(index.Contents)
	assert.Contains(t, contents, "export const a = 1;")
	assert.Contains(t, contents, "export const b = 2;")
	assert.Less(t, strings.Index(contents, "export const a"), strings.Index(contents, "console.log"))

	assert.Equal(t, domain.PhaseIdle, h.engine.Phase())
	assert.Equal(t, []domain.BuildEventType{domain.EventBuildStart, domain.EventBuildSuccess}, h.events.types())
}

func TestEngine_ContentEditsDoNotRebundle(t *testing.T) {
	edits := map[string]string{
		"add a console statement": "export const a = 1;\nconsole.log(\"loaded\");\n",
		"update a string":         "export const a = \"one\";\n",
		"add a comment":           "// the first letter\nexport const a = 1;\n",
	}
	for name, content := range edits {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t, project(), []string{"index.js"})
			first := h.build()

			h.edit("a.js", content)
			res := h.build()

			assert.Equal(t, []domain.AssetID{jsID("a.js")}, res.ChangedAssets)
			assert.False(t, res.Stats.BundlerInvoked)
			assert.True(t, res.Stats.BundleGraphReused)
			assert.Equal(t, int32(1), h.primary.calls.Load())
			assert.Equal(t, first.BundleGraph, res.BundleGraph)

			index := bundleNamed(t, res, "index.js")
			assert.Contains(t, string(index.Contents), content)
			assert.NotEqual(t, bundleNamed(t, first, "index.js").Hash, index.Hash)
		})
	}
}

func TestEngine_TwoEditsInOneBatch(t *testing.T) {
	h := newHarness(t, project(), []string{"index.js"})
	first := h.build()

	h.edit("a.js", "export const a = 10;\n")
	h.edit("b.js", "export const b = 20;\n")
	res := h.build()

	assert.Equal(t, []domain.AssetID{jsID("a.js"), jsID("b.js")}, res.ChangedAssets)
	assert.False(t, res.Stats.BundlerInvoked)
	assert.Equal(t, int32(1), h.primary.calls.Load())
	// The untouched entry is revisited by the walk but not transformed again.
	assert.Positive(t, res.Stats.Reused)
	assert.Less(t, res.Stats.Executed, first.Stats.Executed)
}

func TestEngine_CSSEdit(t *testing.T) {
	files := project()
	files["index.js"] = "import \"./style.css\";\n" + files["index.js"]
	files["style.css"] = "body { color: red; }\n"
	h := newHarness(t, files, []string{"index.js"})
	first := h.build()
	require.Len(t, first.Bundles, 2)

	h.edit("style.css", "body { color: blue; }\n")
	res := h.build()

	assert.Equal(t, []domain.AssetID{assetID("style.css", "css")}, res.ChangedAssets)
	assert.False(t, res.Stats.BundlerInvoked)
	assert.Equal(t, bundleNamed(t, first, "index.js").Hash, bundleNamed(t, res, "index.js").Hash)
}

func TestEngine_HTMLEntryWithScriptChild(t *testing.T) {
	files := map[string]string{
		"index.html": "<!doctype html>\n<script type=\"module\" src=\"./app.js\"></script>\n",
		"app.js":     "console.log(\"app\");\n",
	}
	h := newHarness(t, files, []string{"index.html"})
	first := h.build()
	require.Len(t, first.Bundles, 2)
	bundleNamed(t, first, "index.html")

	h.edit("app.js", "console.log(\"app v2\");\n")
	res := h.build()

	assert.Equal(t, []domain.AssetID{jsID("app.js")}, res.ChangedAssets)
	assert.False(t, res.Stats.BundlerInvoked)
	assert.Equal(t, int32(1), h.primary.calls.Load())
}

func TestEngine_AddDependency(t *testing.T) {
	h := newHarness(t, project(), []string{"index.js"})
	h.build()

	h.create("c.js", "export const c = 3;\n")
	h.edit("a.js", "import { c } from \"./c.js\";\nexport const a = c;\n")
	res := h.build()

	assert.Equal(t, []domain.AssetID{jsID("a.js"), jsID("c.js")}, res.ChangedAssets)
	assert.True(t, res.Stats.BundlerInvoked)
	assert.Equal(t, int32(2), h.primary.calls.Load())
	require.Len(t, res.Bundles, 1)
	assert.Contains(t, string(res.Bundles[0].Contents), "export const c = 3;")
}

func TestEngine_AddSplitDependency(t *testing.T) {
	tests := map[string]struct {
		file    string
		content string
		importA string
		id      domain.AssetID
	}{
		"css dependency": {
			file:    "a.css",
			content: ".a { margin: 0; }\n",
			importA: "import \"./a.css\";\nexport const a = 1;\n",
			id:      assetID("a.css", "css"),
		},
		"dynamic import": {
			file:    "page.js",
			content: "export const page = true;\n",
			importA: "export const a = () => import(\"./page.js\");\n",
			id:      jsID("page.js"),
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t, project(), []string{"index.js"})
			h.build()

			h.create(tt.file, tt.content)
			h.edit("a.js", tt.importA)
			res := h.build()

			assert.ElementsMatch(t, []domain.AssetID{jsID("a.js"), tt.id}, res.ChangedAssets)
			assert.True(t, res.Stats.BundlerInvoked)
			assert.Equal(t, int32(2), h.primary.calls.Load())
			assert.Len(t, res.Bundles, 2)
		})
	}
}

func TestEngine_RemoveDependency(t *testing.T) {
	h := newHarness(t, project(), []string{"index.js"})
	h.build()

	h.edit("index.js", "import { a } from \"./a.js\";\nconsole.log(a);\n")
	res := h.build()

	assert.Equal(t, []domain.AssetID{jsID("b.js"), jsID("index.js")}, res.ChangedAssets)
	assert.True(t, res.Stats.BundlerInvoked)
	assert.Equal(t, int32(2), h.primary.calls.Load())
	assert.NotContains(t, res.Assets, jsID("b.js"))
	assert.NotContains(t, string(res.Bundles[0].Contents), "export const b")
}

func TestEngine_SwitchBundler(t *testing.T) {
	h := newHarness(t, project(), []string{"index.js"})
	h.build()

	h.reconfigure(func(c *domain.BuildConfig) { c.Bundler = domain.PluginRef{Name: "alternate"} })
	res := h.build()

	assert.Len(t, res.ChangedAssets, 3)
	assert.True(t, res.Stats.BundlerInvoked)
	assert.Equal(t, int32(1), h.primary.calls.Load())
	assert.Equal(t, int32(1), h.alt.calls.Load())

	h.edit("a.js", "export const a = 100;\n")
	res = h.build()

	assert.Len(t, res.ChangedAssets, 1)
	assert.Equal(t, int32(1), h.primary.calls.Load())
	assert.Equal(t, int32(1), h.alt.calls.Load())
}

func TestEngine_BundlerAffectingOptions(t *testing.T) {
	tests := map[string]func(*domain.BuildConfig){
		"bundler options": func(c *domain.BuildConfig) {
			c.Bundler = domain.PluginRef{Name: "primary", Options: domain.Options{"lazy": false}}
		},
		"target options": func(c *domain.BuildConfig) {
			c.Targets = []domain.Target{{
				Name:    domain.DefaultTargetName,
				Format:  domain.DefaultTargetFormat,
				Options: domain.Options{"minify": true},
			}}
		},
	}
	for name, change := range tests {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t, project(), []string{"index.js"})
			h.build()

			h.reconfigure(change)
			res := h.build()

			assert.Len(t, res.ChangedAssets, 3)
			assert.True(t, res.Stats.BundlerInvoked)
			assert.Equal(t, int32(2), h.primary.calls.Load())
		})
	}
}

func TestEngine_NamerOrRuntimeChange(t *testing.T) {
	tests := map[string]func(*domain.BuildConfig){
		"namer": func(c *domain.BuildConfig) {
			c.Namers = []domain.PluginRef{{Name: domain.DefaultNamerName, Options: domain.Options{"hashEntries": true}}}
		},
		"runtime": func(c *domain.BuildConfig) {
			c.Runtimes = nil
		},
	}
	for name, change := range tests {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t, project(), []string{"index.js"})
			h.build()

			h.reconfigure(change)
			res := h.build()

			assert.Len(t, res.ChangedAssets, 3)
			assert.False(t, res.Stats.BundlerInvoked)
			assert.Equal(t, int32(1), h.primary.calls.Load())
		})
	}
}

func TestEngine_NamerChangeRenamesBundles(t *testing.T) {
	h := newHarness(t, project(), []string{"index.js"})
	h.build()

	h.reconfigure(func(c *domain.BuildConfig) {
		c.Namers = []domain.PluginRef{{Name: domain.DefaultNamerName, Options: domain.Options{"hashEntries": true}}}
	})
	res := h.build()

	require.Len(t, res.Bundles, 1)
	assert.Regexp(t, `^index\.[0-9a-f]{8}\.js$`, res.Bundles[0].Name)
}

func TestEngine_NewFileMatchingEntryGlob(t *testing.T) {
	files := map[string]string{
		"src/a.js": "export const a = 1;\n",
		"src/b.js": "export const b = 2;\n",
	}
	h := newHarness(t, files, []string{"src/*.js"})
	first := h.build()
	require.Len(t, first.Bundles, 2)

	h.create("src/c.js", "export const c = 3;\n")
	res := h.build()

	assert.Equal(t, []domain.AssetID{jsID("src/c.js")}, res.ChangedAssets)
	assert.True(t, res.Stats.BundlerInvoked)
	assert.Equal(t, int32(2), h.primary.calls.Load())
	assert.Len(t, res.Bundles, 3)
}

func TestEngine_FailedResolutionRecovers(t *testing.T) {
	files := map[string]string{"index.js": "import { m } from \"./missing\";\nconsole.log(m);\n"}
	h := newHarness(t, files, []string{"index.js"})

	err := h.buildErr()
	require.ErrorIs(t, err, domain.ErrBuildFailed)

	failure := h.events.last()
	require.Equal(t, domain.EventBuildFailure, failure.Type)
	require.Len(t, failure.Diagnostics, 1)
	diag := failure.Diagnostics[0]
	assert.Equal(t, domain.ErrResolutionFailure.Error(), diag.Kind)
	assert.Equal(t, filepath.Join(root, "index.js"), diag.File)
	assert.Equal(t, 1, diag.Line)
	_, ok := h.engine.LastResult()
	assert.False(t, ok)

	h.create("missing.js", "export const m = 1;\n")
	res := h.build()

	assert.Contains(t, res.ChangedAssets, jsID("missing.js"))
	assert.Len(t, res.Assets, 2)
}

func TestEngine_MissingEntryRecovers(t *testing.T) {
	h := newHarness(t, map[string]string{}, []string{"index.js"})

	err := h.buildErr()
	require.ErrorIs(t, err, domain.ErrNoEntries)

	h.create("index.js", "console.log(1);\n")
	res := h.build()
	assert.Equal(t, []domain.AssetID{jsID("index.js")}, res.ChangedAssets)
}

func TestEngine_FailureKeepsLastGoodResult(t *testing.T) {
	h := newHarness(t, project(), []string{"index.js"})
	good := h.build()

	h.edit("a.js", "export const = ;\n")
	h.edit("b.js", "import \"./gone.js\";\nexport const b = 2;\n")
	err := h.buildErr()
	require.ErrorIs(t, err, domain.ErrTransformFailure)

	diags := h.events.last().Diagnostics
	require.Len(t, diags, 2)
	files := []string{diags[0].File, diags[1].File}
	assert.ElementsMatch(t, []string{filepath.Join(root, "a.js"), filepath.Join(root, "b.js")}, files)

	last, ok := h.engine.LastResult()
	require.True(t, ok)
	assert.Same(t, good, last)
	assert.Equal(t, domain.PhaseIdle, h.engine.Phase())

	h.edit("a.js", "export const a = 3;\n")
	h.edit("b.js", "export const b = 3;\n")
	res := h.build()
	assert.Equal(t, []domain.AssetID{jsID("a.js"), jsID("b.js")}, res.ChangedAssets)
	assert.Equal(t, 3, res.Sequence)
	assert.False(t, res.Stats.BundlerInvoked, "the failed build must not drop the bundle graph")
	assert.Equal(t, int32(1), h.primary.calls.Load())
}

func TestEngine_EnvChange(t *testing.T) {
	files := project()
	files["a.js"] = "export const a = process.env.API_URL;\n"
	h := newHarness(t, files, []string{"index.js"})
	h.env.set("API_URL", "https://one.example.com")
	first := h.build()
	assert.Contains(t, string(first.Bundles[0].Contents), `"https://one.example.com"`)

	h.env.set("API_URL", "https://two.example.com")
	res := h.build()

	assert.Equal(t, []domain.AssetID{jsID("a.js")}, res.ChangedAssets)
	assert.False(t, res.Stats.BundlerInvoked)
	assert.Contains(t, string(res.Bundles[0].Contents), `"https://two.example.com"`)
}

func TestEngine_Idempotent(t *testing.T) {
	h := newHarness(t, project(), []string{"index.js"})
	first := h.build()
	second := h.build()

	assert.Empty(t, second.ChangedAssets)
	assert.False(t, second.Stats.BundlerInvoked)
	assert.Equal(t, first.Bundles, second.Bundles)
	assert.Equal(t, first.BundleGraph, second.BundleGraph)
}

func TestEngine_Deterministic(t *testing.T) {
	files := project()
	files["index.js"] += "import(\"./page.js\");\nimport \"./style.css\";\n"
	files["page.js"] = "export default 1;\n"
	files["style.css"] = "body { margin: 0; }\n"

	one := newHarness(t, files, []string{"index.js"}).build()
	two := newHarness(t, files, []string{"index.js"}).build()

	assert.Equal(t, one.Bundles, two.Bundles)
	assert.Equal(t, one.BundleGraph, two.BundleGraph)
	assert.Len(t, one.Bundles, 3)
}

func TestEngine_CoalescesBatches(t *testing.T) {
	h := newHarness(t, project(), []string{"index.js"})
	h.build()

	h.edit("a.js", "export const a = 5;\n")
	h.edit("a.js", "export const a = 6;\n")
	h.create("c.js", "export const c = 1;\n")
	h.edit("c.js", "export const c = 2;\n")
	res := h.build()

	// c.js is not imported by anything.
	assert.Equal(t, []domain.AssetID{jsID("a.js")}, res.ChangedAssets)
	assert.Contains(t, string(res.Bundles[0].Contents), "export const a = 6;")
	assert.Equal(t, 2, res.Sequence)
}

func TestEngine_ConfigFileReload(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)

	h := newHarness(t, project(), []string{"index.js"}, withParams(func(p *engine.Params) { p.Loader = loader }))
	h.build()

	next := *h.cfg
	next.Bundler = domain.PluginRef{Name: "alternate"}
	loader.EXPECT().Load(root).Return(&next, nil)

	h.edit(domain.ConfigFileName, "bundler: alternate\n")
	res := h.build()

	assert.True(t, res.Stats.BundlerInvoked)
	assert.Equal(t, int32(1), h.alt.calls.Load())
	assert.Len(t, res.ChangedAssets, 3)
}

func TestEngine_BrokenConfigKeepsPendingEdits(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)

	h := newHarness(t, project(), []string{"index.js"}, withParams(func(p *engine.Params) { p.Loader = loader }))
	h.build()

	fixed := *h.cfg
	gomock.InOrder(
		loader.EXPECT().Load(root).Return(nil, domain.ErrConfigParseFailed),
		loader.EXPECT().Load(root).Return(&fixed, nil),
	)

	h.edit("a.js", "export const a = \"EDITED\";\n")
	h.edit(domain.ConfigFileName, "bundler: [\n")
	err := h.buildErr()
	require.ErrorIs(t, err, domain.ErrConfigParseFailed)
	assert.Equal(t, domain.EventBuildFailure, h.events.last().Type)

	h.edit(domain.ConfigFileName, "bundler: primary\n")
	res := h.build()

	assert.Contains(t, string(bundleNamed(t, res, "index.js").Contents), "EDITED")
	assert.Equal(t, []domain.AssetID{jsID("a.js")}, res.ChangedAssets)
	assert.Equal(t, int32(1), h.primary.calls.Load())
}

func TestEngine_BrokenConfigOnFirstBuildKeepsStartup(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)

	h := newHarness(t, project(), []string{"index.js"}, withParams(func(p *engine.Params) { p.Loader = loader }))
	fixed := *h.cfg
	gomock.InOrder(
		loader.EXPECT().Load(root).Return(nil, domain.ErrConfigParseFailed),
		loader.EXPECT().Load(root).Return(&fixed, nil),
	)

	h.edit(domain.ConfigFileName, "bundler: [\n")
	require.ErrorIs(t, h.buildErr(), domain.ErrConfigParseFailed)

	h.edit(domain.ConfigFileName, "bundler: primary\n")
	res := h.build()
	assert.Len(t, res.ChangedAssets, 3)
	assert.True(t, res.Stats.BundlerInvoked)
}

func TestEngine_ReconfigureDuringBuildWaitsForNextBuild(t *testing.T) {
	var gate *gatedTransformer
	h := newHarness(t, project(), []string{"index.js"}, withConfig(func(c *domain.BuildConfig) {
		c.Transformers = append([]domain.TransformerRule{
			{Pattern: "a.js", Pipeline: []domain.PluginRef{{Name: "gated"}}},
		}, c.Transformers...)
	}))
	js, err := h.registry.Transformer(plugins.TransformerJS)
	require.NoError(t, err)
	gate = &gatedTransformer{
		Transformer: js,
		path:        filepath.Join(root, "a.js"),
		started:     make(chan struct{}),
		released:    make(chan struct{}),
	}
	require.NoError(t, h.registry.RegisterTransformer("gated", gate))

	done := make(chan *domain.BuildResult)
	go func() {
		res, _ := h.engine.Build(context.Background())
		done <- res
	}()

	<-gate.started
	h.reconfigure(func(c *domain.BuildConfig) { c.Bundler = domain.PluginRef{Name: "alternate"} })
	close(gate.released)
	first := <-done
	require.NotNil(t, first)
	assert.Equal(t, int32(1), h.primary.calls.Load())
	assert.Equal(t, int32(0), h.alt.calls.Load())

	res := h.build()
	assert.True(t, res.Stats.BundlerInvoked)
	assert.Equal(t, int32(1), h.alt.calls.Load())
}

func TestEngine_WritesChangedBundles(t *testing.T) {
	files := project()
	files["index.js"] += "import \"./style.css\";\n"
	files["style.css"] = "body { margin: 0; }\n"
	h := newHarness(t, files, []string{"index.js"}, withParams(func(p *engine.Params) { p.WriteDist = true }))
	first := h.build()

	dist := filepath.Join(root, domain.DefaultDistDir)
	for _, b := range first.Bundles {
		data, err := h.fs.ReadFile(filepath.Join(dist, b.Name))
		require.NoError(t, err, b.Name)
		assert.Equal(t, b.Contents, data)
	}

	h.edit("a.js", "export const a = \"written\";\n")
	h.build()

	data, err := h.fs.ReadFile(filepath.Join(dist, "index.js"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "written")
}

// gatedTransformer blocks the first transform of path until released.
type gatedTransformer struct {
	ports.Transformer
	path     string
	once     sync.Once
	started  chan struct{}
	released chan struct{}
}

func (g *gatedTransformer) Transform(ctx context.Context, in ports.TransformInput) (ports.TransformOutput, error) {
	if in.FilePath == g.path {
		g.once.Do(func() {
			close(g.started)
			<-g.released
		})
	}
	return g.Transformer.Transform(ctx, in)
}

func TestEngine_EditDuringBuildIsNotLost(t *testing.T) {
	var gate *gatedTransformer
	h := newHarness(t, project(), []string{"index.js"}, withConfig(func(c *domain.BuildConfig) {
		c.Transformers = append([]domain.TransformerRule{
			{Pattern: "a.js", Pipeline: []domain.PluginRef{{Name: "gated"}}},
		}, c.Transformers...)
	}))
	js, err := h.registry.Transformer(plugins.TransformerJS)
	require.NoError(t, err)
	gate = &gatedTransformer{
		Transformer: js,
		path:        filepath.Join(root, "a.js"),
		started:     make(chan struct{}),
		released:    make(chan struct{}),
	}
	require.NoError(t, h.registry.RegisterTransformer("gated", gate))

	done := make(chan *domain.BuildResult)
	go func() {
		res, _ := h.engine.Build(context.Background())
		done <- res
	}()

	<-gate.started
	h.edit("a.js", "export const a = \"late\";\n")
	close(gate.released)
	first := <-done
	require.NotNil(t, first)
	assert.NotContains(t, string(first.Bundles[0].Contents), "late")

	res := h.build()
	assert.Contains(t, string(res.Bundles[0].Contents), "late")
	assert.Equal(t, []domain.AssetID{domain.NewAssetID(filepath.Join(root, "a.js"), "gated")}, res.ChangedAssets)
}
