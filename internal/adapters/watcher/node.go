package watcher

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/rebund/internal/adapters/fs"
	"go.trai.ch/rebund/internal/adapters/logger"
	"go.trai.ch/rebund/internal/core/ports"
)

const (
	// WatcherNodeID is the unique identifier for the file watcher Graft node.
	WatcherNodeID graft.ID = "adapter.watcher"
	// FilterNodeID is the unique identifier for the content filter Graft node.
	FilterNodeID graft.ID = "adapter.watcher.filter"
)

func init() {
	graft.Register(graft.Node[ports.Watcher]{
		ID:        WatcherNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.Watcher, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewWatcher(log)
		},
	})

	graft.Register(graft.Node[*ContentFilter]{
		ID:        FilterNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.NodeID},
		Run: func(ctx context.Context) (*ContentFilter, error) {
			fsys, err := graft.Dep[ports.FileSystem](ctx)
			if err != nil {
				return nil, err
			}
			return NewContentFilter(fsys), nil
		},
	})
}
