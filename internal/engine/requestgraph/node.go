package requestgraph

import (
	"go.trai.ch/rebund/internal/core/domain"
)

// Edge is a dependsOn relation. Seen is the dependency's result fingerprint
// at the time the dependent consumed it; it is empty until then.
type Edge struct {
	To   domain.RequestID
	Seen domain.Fingerprint
}

// Node is one memoized request.
// Nodes are owned by the Graph; callers must hold the graph's owner lock.
type Node struct {
	ID    domain.RequestID
	Kind  domain.RequestKind
	State domain.NodeState

	// Request is the opaque body the executor runs for this node.
	Request any

	Result            any
	ResultFingerprint domain.Fingerprint
	InputFingerprint  domain.Fingerprint
	Err               error

	// Direct is set when the node's own subscriptions fired, as opposed to
	// being invalidated through a dependency.
	Direct bool
	// Succeeded reports whether the last execution returned a result.
	Succeeded bool
	// Stale is set when a subscription fired while the node was running.
	Stale bool

	deps       []Edge
	dependents map[domain.RequestID]struct{}
	triggers   map[domain.Trigger]struct{}
}

func newNode(id domain.RequestID) *Node {
	return &Node{
		ID:         id,
		Kind:       id.Kind(),
		State:      domain.StateInvalid,
		Direct:     true,
		dependents: make(map[domain.RequestID]struct{}),
		triggers:   make(map[domain.Trigger]struct{}),
	}
}

// Dependencies returns a copy of the node's ordered dependency edges.
func (n *Node) Dependencies() []Edge {
	out := make([]Edge, len(n.deps))
	copy(out, n.deps)
	return out
}

// Triggers returns the node's invalidation subscriptions.
func (n *Node) Triggers() []domain.Trigger {
	out := make([]domain.Trigger, 0, len(n.triggers))
	for t := range n.triggers {
		out = append(out, t)
	}
	return out
}

// HasDependents reports whether any node depends on n.
func (n *Node) HasDependents() bool {
	return len(n.dependents) > 0
}

// Reusable reports whether an invalid node may return to Valid by verifying
// its previous dependencies instead of re-running.
func (n *Node) Reusable() bool {
	return n.State == domain.StateInvalid && !n.Direct && n.Succeeded && len(n.deps) > 0
}
