package metrics

import (
	"context"

	"github.com/grindlemire/graft"
)

// NodeID is the graft node of the metrics registry.
const NodeID graft.ID = "adapter.metrics"

func init() {
	graft.Register(graft.Node[*Metrics]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Metrics, error) {
			return New(), nil
		},
	})
}
