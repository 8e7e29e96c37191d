package requestgraph

import (
	"path/filepath"
	"slices"
	"strings"
	"unique"

	"go.trai.ch/rebund/internal/core/domain"
)

// Invalidation is the outcome of applying a change batch to the graph.
type Invalidation struct {
	// Direct lists the nodes whose own subscriptions fired, sorted.
	Direct []domain.RequestID
	// Propagated lists the nodes invalidated through a dependency, sorted.
	Propagated []domain.RequestID
	// Order lists every affected node, dependencies before dependents.
	Order []domain.RequestID
	// ByTrigger counts direct matches per trigger kind.
	ByTrigger map[domain.TriggerKind]int
}

// Len returns the number of affected nodes.
func (inv Invalidation) Len() int {
	return len(inv.Order)
}

// Invalidate marks every node subscribed to a change in batch Invalid, then
// every transitive dependent. Running nodes are flagged stale instead and
// settle as Invalid once their body returns.
func (g *Graph) Invalidate(batch domain.ChangeBatch) Invalidation {
	inv := Invalidation{ByTrigger: make(map[domain.TriggerKind]int)}
	if batch.IsEmpty() {
		return inv
	}

	direct := g.match(batch, inv.ByTrigger)
	for id := range direct {
		g.markDirect(g.nodes[id])
	}

	affected := make(idSet, len(direct))
	queue := make([]domain.RequestID, 0, len(direct))
	for _, id := range sortedIDs(direct) {
		affected[id] = struct{}{}
		queue = append(queue, id)
	}

	var propagated []domain.RequestID
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, dep := range sortedIDs(g.nodes[id].dependents) {
			if _, seen := affected[dep]; seen {
				continue
			}
			affected[dep] = struct{}{}
			propagated = append(propagated, dep)
			g.markPropagated(g.nodes[dep])
			queue = append(queue, dep)
		}
	}

	inv.Direct = sortedIDs(direct)
	slices.Sort(propagated)
	inv.Propagated = propagated
	inv.Order = g.topoOrder(affected)
	return inv
}

func (g *Graph) markDirect(n *Node) {
	if n.State == domain.StateRunning {
		n.Stale = true
		return
	}
	n.State = domain.StateInvalid
	n.Direct = true
}

func (g *Graph) markPropagated(n *Node) {
	switch n.State {
	case domain.StateRunning:
		n.Stale = true
	case domain.StateValid:
		n.State = domain.StateInvalid
	case domain.StateErrored:
		// An errored node has nothing to verify against.
		n.State = domain.StateInvalid
		n.Direct = true
	}
}

// match returns the nodes whose subscriptions fire for batch.
func (g *Graph) match(batch domain.ChangeBatch, counts map[domain.TriggerKind]int) idSet {
	out := make(idSet)
	add := func(kind domain.TriggerKind, set idSet) {
		for id := range set {
			out[id] = struct{}{}
			counts[kind]++
		}
	}

	for _, ev := range batch.Events {
		path := filepath.Clean(ev.Path)
		key := unique.Make(path)
		add(domain.TriggerFileUpdated, g.updates[key])

		switch ev.Kind {
		case domain.ChangeDeleted:
			add(domain.TriggerFileDeleted, g.deletes[key])
		case domain.ChangeCreated:
			base := filepath.Base(path)
			for id, patterns := range g.creates[cleanDir(path)] {
				for pattern := range patterns {
					if g.matches(pattern, base) {
						out[id] = struct{}{}
						counts[domain.TriggerFileCreated]++
						break
					}
				}
			}
		}
	}

	for _, key := range batch.EnvKeys {
		add(domain.TriggerEnvChanged, g.env[key])
	}

	for _, changed := range batch.OptionPaths {
		for key, set := range g.options {
			if optionPathsOverlap(key, changed) {
				add(domain.TriggerOptionChanged, set)
			}
		}
	}

	if batch.Startup || len(batch.EnvKeys) > 0 || len(batch.OptionPaths) > 0 {
		add(domain.TriggerAlways, g.always)
	}
	return out
}

func (g *Graph) matches(pattern, name string) bool {
	if g.matcher != nil {
		return g.matcher.Match(pattern, name)
	}
	ok, err := filepath.Match(pattern, name)
	return err == nil && ok
}

// optionPathsOverlap reports whether a subscription to sub fires for a change at changed.
// A change to a parent slice fires its children and a change to a child fires the parent.
func optionPathsOverlap(sub, changed string) bool {
	if sub == changed {
		return true
	}
	return strings.HasPrefix(sub, changed+".") || strings.HasPrefix(changed, sub+".")
}

// topoOrder sorts the affected nodes so that every dependency precedes its dependents.
func (g *Graph) topoOrder(affected idSet) []domain.RequestID {
	indegree := make(map[domain.RequestID]int, len(affected))
	for id := range affected {
		count := 0
		for _, e := range g.nodes[id].deps {
			if _, ok := affected[e.To]; ok {
				count++
			}
		}
		indegree[id] = count
	}

	var ready []domain.RequestID
	for id, d := range indegree {
		if d == 0 {
			ready = append(ready, id)
		}
	}
	slices.Sort(ready)

	order := make([]domain.RequestID, 0, len(affected))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)

		var next []domain.RequestID
		for dep := range g.nodes[id].dependents {
			if _, ok := affected[dep]; !ok {
				continue
			}
			indegree[dep]--
			if indegree[dep] == 0 {
				next = append(next, dep)
			}
		}
		slices.Sort(next)
		ready = append(ready, next...)
	}
	return order
}
