package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/rebund/internal/adapters/cas"     //nolint:depguard // Wired in app layer
	"go.trai.ch/rebund/internal/adapters/config"  //nolint:depguard // Wired in app layer
	"go.trai.ch/rebund/internal/adapters/fs"      //nolint:depguard // Wired in app layer
	"go.trai.ch/rebund/internal/adapters/glob"    //nolint:depguard // Wired in app layer
	"go.trai.ch/rebund/internal/adapters/logger"  //nolint:depguard // Wired in app layer
	"go.trai.ch/rebund/internal/adapters/metrics" //nolint:depguard // Wired in app layer
	"go.trai.ch/rebund/internal/adapters/plugins" //nolint:depguard // Wired in app layer
	"go.trai.ch/rebund/internal/adapters/watcher" //nolint:depguard // Wired in app layer
	"go.trai.ch/rebund/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			fs.NodeID,
			fs.WalkerNodeID,
			plugins.NodeID,
			glob.NodeID,
			cas.NodeID,
			metrics.NodeID,
			logger.NodeID,
			watcher.WatcherNodeID,
			watcher.FilterNodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{App: app, Logger: log}, nil
		},
	})
}

//nolint:cyclop // one lookup per dependency
func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}
	fsys, err := graft.Dep[ports.FileSystem](ctx)
	if err != nil {
		return nil, err
	}
	walker, err := graft.Dep[*fs.Walker](ctx)
	if err != nil {
		return nil, err
	}
	registry, err := graft.Dep[ports.PluginRegistry](ctx)
	if err != nil {
		return nil, err
	}
	matchers, err := graft.Dep[ports.MatcherFactory](ctx)
	if err != nil {
		return nil, err
	}
	caches, err := graft.Dep[ports.CacheFactory](ctx)
	if err != nil {
		return nil, err
	}
	m, err := graft.Dep[*metrics.Metrics](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	w, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}
	filter, err := graft.Dep[*watcher.ContentFilter](ctx)
	if err != nil {
		return nil, err
	}

	return New(Deps{
		Loader:   loader,
		FS:       fsys,
		Walker:   walker,
		Registry: registry,
		Matchers: matchers,
		Caches:   caches,
		Metrics:  m,
		Logger:   log,
		Watcher:  w,
		Filter:   filter,
	}), nil
}
