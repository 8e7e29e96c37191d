package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/rebund/internal/core/ports"
)

const (
	// WalkerNodeID is the graft node of the directory walker.
	WalkerNodeID graft.ID = "adapter.fs.walker"
	// NodeID is the graft node of the local file system.
	NodeID graft.ID = "adapter.fs"
)

func init() {
	graft.Register(graft.Node[*Walker]{
		ID:        WalkerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Walker, error) {
			return NewWalker(), nil
		},
	})

	graft.Register(graft.Node[ports.FileSystem]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{WalkerNodeID},
		Run: func(ctx context.Context) (ports.FileSystem, error) {
			walker, err := graft.Dep[*Walker](ctx)
			if err != nil {
				return nil, err
			}
			return NewOS(walker), nil
		},
	})
}
