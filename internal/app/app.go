// Package app implements the application layer for rebund.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/rebund/internal/adapters/fs"
	"go.trai.ch/rebund/internal/adapters/linear"
	"go.trai.ch/rebund/internal/adapters/telemetry"
	"go.trai.ch/rebund/internal/adapters/watcher"
	"go.trai.ch/rebund/internal/core/domain"
	"go.trai.ch/rebund/internal/core/ports"
	"go.trai.ch/rebund/internal/engine"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Metrics is the metrics sink of the engine that can also dump its state.
type Metrics interface {
	ports.Metrics
	Dump(w io.Writer) error
}

// Deps are the collaborators of an App.
type Deps struct {
	Loader   ports.ConfigLoader
	FS       ports.FileSystem
	Walker   *fs.Walker
	Registry ports.PluginRegistry
	Matchers ports.MatcherFactory
	Caches   ports.CacheFactory
	Metrics  Metrics
	Logger   ports.Logger
	Watcher  ports.Watcher
	Filter   *watcher.ContentFilter
}

// App represents the main application logic.
type App struct {
	Deps

	stdout io.Writer
	stderr io.Writer
	getenv func(string) string
	window time.Duration
}

// New creates a new App instance.
func New(d Deps) *App {
	return &App{
		Deps:   d,
		stdout: os.Stdout,
		stderr: os.Stderr,
		getenv: os.Getenv,
		window: watcher.DefaultDebounceWindow,
	}
}

// WithOutput replaces the streams the reporter writes to.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout, a.stderr = stdout, stderr
	return a
}

// WithEnv replaces os.Getenv for the environment seen by plugins.
func (a *App) WithEnv(getenv func(string) string) *App {
	a.getenv = getenv
	return a
}

// WithDebounce sets the watch mode debounce window.
func (a *App) WithDebounce(window time.Duration) *App {
	a.window = window
	return a
}

// BuildOptions configuration for the Build and Watch methods.
type BuildOptions struct {
	// Dir is where the project root is searched from. Empty means the working directory.
	Dir string
	// DistDir overrides the configured output directory.
	DistDir string
	// Concurrency bounds the request bodies running at once. Zero means NumCPU.
	Concurrency int
	// Cache overrides the configured cache backend.
	Cache string
	// JSON writes logs and build events as JSON.
	JSON bool
	// Verbose prints debug logs and every executed request.
	Verbose bool
	// Metrics dumps the collected metrics after the run.
	Metrics bool
}

// session is everything one command needs around an engine.
type session struct {
	root     string
	cfg      *domain.BuildConfig
	engine   *engine.Engine
	reporter ports.Reporter
	close    func()
}

// Build runs one build and writes the changed bundles.
func (a *App) Build(ctx context.Context, opts BuildOptions) error {
	s, err := a.open(ctx, opts)
	if err != nil {
		return err
	}
	defer s.close()

	err = a.run(ctx, s.reporter, func(ctx context.Context) error {
		_, err := s.engine.Build(ctx)
		return err
	})
	return errors.Join(err, a.dumpMetrics(opts))
}

// Watch builds, then rebuilds after every change below the project root
// until ctx is done.
func (a *App) Watch(ctx context.Context, opts BuildOptions) error {
	s, err := a.open(ctx, opts)
	if err != nil {
		return err
	}
	defer s.close()

	a.Watcher.Ignore(distDir(s.cfg), cacheDir(s.cfg))
	if a.Filter != nil && a.Walker != nil {
		a.Filter.Prime(a.Walker.WalkFiles(s.root, s.root, nil))
	}

	batches, err := watcher.NewFeed(a.Watcher, a.Filter, a.window).Run(ctx, s.root)
	if err != nil {
		return err
	}
	a.Logger.Debug("watching " + s.root)

	err = a.run(ctx, s.reporter, func(ctx context.Context) error {
		return s.engine.Watch(ctx, batches)
	})
	return errors.Join(err, a.dumpMetrics(opts))
}

// run drives the reporter and fn concurrently. The reporter stops when fn returns.
func (a *App) run(ctx context.Context, reporter ports.Reporter, fn func(context.Context) error) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := reporter.Start(ctx); err != nil {
			return err
		}
		return reporter.Wait()
	})

	g.Go(func() error {
		defer func() { _ = reporter.Stop() }()
		return fn(ctx)
	})

	return g.Wait()
}

// open loads the configuration and assembles an engine reporting to a fresh reporter.
func (a *App) open(ctx context.Context, opts BuildOptions) (*session, error) {
	a.configureLogger(opts)

	dir := opts.Dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, zerr.Wrap(err, "failed to get working directory")
		}
		dir = wd
	}
	root, err := a.Loader.DiscoverRoot(dir)
	if err != nil {
		return nil, err
	}
	cfg, err := a.Loader.Load(root)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	if opts.DistDir != "" {
		cfg.DistDir = opts.DistDir
	}
	if opts.Cache != "" {
		cfg.Cache.Backend = opts.Cache
	}

	matcher, err := a.Matchers.New(cfg.GlobSyntax)
	if err != nil {
		return nil, err
	}
	cache, err := a.Caches.Open(ctx, root, cfg.Cache)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to open result cache")
	}

	reporter := linear.NewRenderer(a.stdout, a.stderr)
	reporter.SetJSON(opts.JSON)
	reporter.SetVerbose(opts.Verbose)

	provider := telemetry.NewProvider(reporter)
	eng := engine.New(engine.Params{
		Config:      cfg,
		Loader:      a.Loader,
		FS:          a.FS,
		Registry:    a.Registry,
		Matcher:     matcher,
		Cache:       cache,
		Tracer:      telemetry.NewOTelTracer(provider),
		Metrics:     a.Metrics,
		Logger:      a.Logger,
		Sink:        reporter,
		Parallelism: opts.Concurrency,
		EnvLookup:   a.getenv,
		WriteDist:   true,
	})

	return &session{
		root:     root,
		cfg:      cfg,
		engine:   eng,
		reporter: reporter,
		close:    func() { a.shutdown(provider, cache) },
	}, nil
}

func (a *App) shutdown(provider *trace.TracerProvider, cache ports.CacheStore) {
	if err := provider.Shutdown(context.Background()); err != nil {
		a.Logger.Warn(zerr.Wrap(err, "failed to shut down tracer").Error())
	}
	if err := cache.Close(); err != nil {
		a.Logger.Warn(zerr.Wrap(err, "failed to close result cache").Error())
	}
}

func (a *App) configureLogger(opts BuildOptions) {
	l, ok := a.Logger.(interface {
		SetJSON(bool)
		SetVerbose(bool)
	})
	if !ok {
		return
	}
	l.SetJSON(opts.JSON)
	l.SetVerbose(opts.Verbose)
}

func (a *App) dumpMetrics(opts BuildOptions) error {
	if !opts.Metrics || a.Metrics == nil {
		return nil
	}
	return a.Metrics.Dump(a.stderr)
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	// Dir is where the project root is searched from. Empty means the working directory.
	Dir string
	// Dist also removes the output directory.
	Dist bool
}

// Clean removes the result cache and, optionally, the output directory.
func (a *App) Clean(_ context.Context, opts CleanOptions) error {
	dir := opts.Dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return zerr.Wrap(err, "failed to get working directory")
		}
		dir = wd
	}
	root, err := a.Loader.DiscoverRoot(dir)
	if err != nil {
		return err
	}
	cfg, err := a.Loader.Load(root)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	var errs error

	// Helper to remove a directory and log the action
	remove := func(path string, name string) {
		a.Logger.Info(fmt.Sprintf("removing %s...", name))
		if err := a.FS.RemoveAll(path); err != nil {
			errs = errors.Join(errs, zerr.With(errors.Join(domain.ErrCleanFailed, err), "dir", path))
			return
		}
		a.Logger.Info(fmt.Sprintf("removed %s", name))
	}

	remove(cacheDir(cfg), "result cache")
	if opts.Dist {
		remove(distDir(cfg), "output directory")
	}
	return errs
}

func distDir(cfg *domain.BuildConfig) string {
	return abs(cfg.Root, cfg.DistDir, domain.DefaultDistDir)
}

func cacheDir(cfg *domain.BuildConfig) string {
	return abs(cfg.Root, cfg.Cache.Dir, domain.DefaultCachePath())
}

func abs(root, dir, fallback string) string {
	if dir == "" {
		dir = fallback
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(root, dir)
}
