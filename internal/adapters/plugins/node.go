package plugins

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/rebund/internal/core/ports"
)

// NodeID is the graft node of the plugin registry.
const NodeID graft.ID = "adapter.plugins"

func init() {
	graft.Register(graft.Node[ports.PluginRegistry]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.PluginRegistry, error) {
			builtins, err := NewBuiltins()
			if err != nil {
				return nil, err
			}
			return builtins, nil
		},
	})
}
