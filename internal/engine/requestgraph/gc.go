package requestgraph

import "go.trai.ch/rebund/internal/core/domain"

// CollectGarbage removes every node that is not reachable from a root.
// Running nodes and their dependencies are kept. It returns the removed ids, sorted.
func (g *Graph) CollectGarbage() []domain.RequestID {
	live := make(idSet, len(g.nodes))
	var stack []domain.RequestID
	for id := range g.roots {
		stack = append(stack, id)
	}
	for id, n := range g.nodes {
		if n.State == domain.StateRunning {
			stack = append(stack, id)
		}
	}

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := live[id]; ok {
			continue
		}
		n, ok := g.nodes[id]
		if !ok {
			continue
		}
		live[id] = struct{}{}
		for _, e := range n.deps {
			stack = append(stack, e.To)
		}
	}

	dead := make(idSet)
	for id := range g.nodes {
		if _, ok := live[id]; !ok {
			dead[id] = struct{}{}
		}
	}
	for id := range dead {
		g.remove(id)
	}
	return sortedIDs(dead)
}

func (g *Graph) remove(id domain.RequestID) {
	n, ok := g.nodes[id]
	if !ok {
		return
	}
	g.ClearEdges(id)
	for dep := range n.dependents {
		if d, ok := g.nodes[dep]; ok {
			d.deps = removeEdge(d.deps, id)
		}
	}
	delete(g.nodes, id)
	delete(g.roots, id)
}

func removeEdge(edges []Edge, to domain.RequestID) []Edge {
	out := edges[:0]
	for _, e := range edges {
		if e.To != to {
			out = append(out, e)
		}
	}
	return out
}
