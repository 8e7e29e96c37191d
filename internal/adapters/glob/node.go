package glob

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/rebund/internal/core/ports"
)

// NodeID is the graft node of the matcher factory.
const NodeID graft.ID = "adapter.glob"

// Factory creates matchers by syntax name.
type Factory struct{}

// New creates the matcher for syntax.
func (Factory) New(syntax string) (ports.PatternMatcher, error) {
	return New(syntax)
}

func init() {
	graft.Register(graft.Node[ports.MatcherFactory]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.MatcherFactory, error) {
			return Factory{}, nil
		},
	})
}
