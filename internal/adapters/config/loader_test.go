package config_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rebund/internal/adapters/config"
	"go.trai.ch/rebund/internal/adapters/fs"
	"go.trai.ch/rebund/internal/core/domain"
	"go.trai.ch/rebund/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newLoader(t *testing.T, files map[string]string) (*config.Loader, *mocks.MockLogger) {
	t.Helper()
	logger := mocks.NewMockLogger(gomock.NewController(t))
	return config.NewLoader(logger, fs.NewMemory(files)), logger
}

func TestLoader_Load(t *testing.T) {
	loader, _ := newLoader(t, map[string]string{
		"/p/rebund.yaml": `version: "1"
entries:
  - src/index.html
  - src/worker.ts
dist: public
globSyntax: gobwas
resolver:
  name: default
  options:
    extensions: [".ts", ".js"]
transformers:
  - pattern: "*.svg"
    pipeline: [raw]
bundler:
  name: default
  options:
    lazy: false
namers: [default]
runtimes: []
targets:
  - name: modern
    options:
      minify: true
  - name: legacy
    format: iife
    dist: public/legacy
cache:
  backend: sqlite
  memoryEntries: 64
`,
	})

	cfg, err := loader.Load("/p")
	require.NoError(t, err)

	want := domain.NewDefaultConfig("/p", "src/index.html", "src/worker.ts")
	want.ConfigPath = "/p/rebund.yaml"
	want.DistDir = "public"
	want.GlobSyntax = domain.GlobGobwas
	want.Resolver = domain.PluginRef{Name: "default", Options: domain.Options{"extensions": []any{".ts", ".js"}}}
	want.Transformers = append([]domain.TransformerRule{
		{Pattern: "*.svg", Pipeline: []domain.PluginRef{{Name: "raw"}}},
	}, want.Transformers...)
	want.Bundler = domain.PluginRef{Name: "default", Options: domain.Options{"lazy": false}}
	want.Runtimes = []domain.PluginRef{}
	want.Targets = []domain.Target{
		{Name: "modern", Format: domain.DefaultTargetFormat, Options: domain.Options{"minify": true}},
		{Name: "legacy", Format: "iife", DistDir: "public/legacy"},
	}
	want.Cache.Backend = domain.CacheBackendSQLite
	want.Cache.MemoryEntries = 64

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoader_Load_Minimal(t *testing.T) {
	loader, _ := newLoader(t, map[string]string{"/p/rebund.yaml": "entries: [index.js]\n"})

	cfg, err := loader.Load("/p")
	require.NoError(t, err)

	want := domain.NewDefaultConfig("/p", "index.js")
	want.ConfigPath = "/p/rebund.yaml"
	assert.Equal(t, want, cfg)
}

func TestLoader_Load_MissingFile(t *testing.T) {
	loader, _ := newLoader(t, map[string]string{})

	cfg, err := loader.Load("/p")
	require.NoError(t, err)

	assert.Equal(t, []string{config.DefaultEntry}, cfg.Entries)
	assert.Equal(t, "/p/rebund.yaml", cfg.ConfigPath)
}

func TestLoader_Load_UnknownKeysWarn(t *testing.T) {
	loader, logger := newLoader(t, map[string]string{
		"/p/rebund.yaml": "entries: [index.js]\nminify: true\nserve: {port: 1234}\n",
	})
	gomock.InOrder(
		logger.EXPECT().Warn(`unknown key "minify" in rebund.yaml is ignored`),
		logger.EXPECT().Warn(`unknown key "serve" in rebund.yaml is ignored`),
	)

	_, err := loader.Load("/p")
	require.NoError(t, err)
}

func TestLoader_Load_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    error
	}{
		{name: "malformed yaml", content: "entries: [", want: domain.ErrConfigParseFailed},
		{name: "unsupported version", content: "version: \"2\"\nentries: [a.js]\n", want: domain.ErrInvalidConfigVersion},
		{name: "no entries", content: "dist: out\n", want: domain.ErrMissingEntries},
		{name: "glob syntax", content: "entries: [a.js]\nglobSyntax: regex\n", want: domain.ErrInvalidGlobSyntax},
		{name: "cache backend", content: "entries: [a.js]\ncache: {backend: redis}\n", want: domain.ErrInvalidCacheBackend},
		{name: "unnamed bundler", content: "entries: [a.js]\nbundler: {options: {lazy: true}}\n", want: domain.ErrInvalidPluginRef},
		{name: "unnamed namer", content: "entries: [a.js]\nnamers: [{options: {}}]\n", want: domain.ErrInvalidPluginRef},
		{name: "rule without pipeline", content: "entries: [a.js]\ntransformers: [{pattern: '*.svg'}]\n", want: domain.ErrInvalidTransformerRule},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader, _ := newLoader(t, map[string]string{"/p/rebund.yaml": tt.content})

			_, err := loader.Load("/p")
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoader_DiscoverRoot(t *testing.T) {
	loader, _ := newLoader(t, map[string]string{
		"/work/app/rebund.yaml":    "entries: [index.js]\n",
		"/work/app/src/pages/a.js": "",
		"/work/other/src/index.js": "",
	})

	tests := []struct {
		cwd  string
		want string
	}{
		{cwd: "/work/app", want: "/work/app"},
		{cwd: "/work/app/src/pages", want: "/work/app"},
		{cwd: "/work/other/src", want: "/work/other/src"},
	}
	for _, tt := range tests {
		got, err := loader.DiscoverRoot(tt.cwd)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.cwd)
	}
}
