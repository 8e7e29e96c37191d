package requestgraph_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rebund/internal/core/domain"
	"go.trai.ch/rebund/internal/engine/requestgraph"
	"go.trai.ch/zerr"
)

func id(s string) domain.RequestID { return domain.RequestID(s) }

// chain builds nodes and edges: each pair is from -> to.
func chain(t *testing.T, g *requestgraph.Graph, pairs ...[2]string) {
	t.Helper()
	for _, p := range pairs {
		g.GetOrCreate(id(p[0]))
		g.GetOrCreate(id(p[1]))
		require.NoError(t, g.AddDependency(id(p[0]), id(p[1])))
	}
}

func setValid(g *requestgraph.Graph, ids ...string) {
	for _, s := range ids {
		n, _ := g.Node(id(s))
		n.State = domain.StateValid
		n.Direct = false
		n.Succeeded = true
	}
}

func TestGraph_GetOrCreate(t *testing.T) {
	g := requestgraph.New(nil)

	n, created := g.GetOrCreate(domain.NewRequestID(domain.KindTransform, "/p/a.js"))
	require.True(t, created)
	assert.Equal(t, domain.KindTransform, n.Kind)
	assert.Equal(t, domain.StateInvalid, n.State)
	assert.True(t, n.Direct)

	again, created := g.GetOrCreate(domain.NewRequestID(domain.KindTransform, "/p/a.js"))
	assert.False(t, created)
	assert.Same(t, n, again)
	assert.Equal(t, 1, g.Len())
}

func TestGraph_AddDependency(t *testing.T) {
	t.Run("keeps insertion order and ignores duplicates", func(t *testing.T) {
		g := requestgraph.New(nil)
		chain(t, g, [2]string{"a", "c"}, [2]string{"a", "b"}, [2]string{"a", "c"})

		n, _ := g.Node(id("a"))
		deps := n.Dependencies()
		require.Len(t, deps, 2)
		assert.Equal(t, id("c"), deps[0].To)
		assert.Equal(t, id("b"), deps[1].To)
		assert.Equal(t, []domain.RequestID{"a"}, g.Dependents(id("b")))
	})

	t.Run("unknown node", func(t *testing.T) {
		g := requestgraph.New(nil)
		g.GetOrCreate(id("a"))
		err := g.AddDependency(id("a"), id("missing"))
		require.ErrorIs(t, err, domain.ErrRequestNotFound)

		zErr, ok := err.(*zerr.Error)
		require.True(t, ok, "expected *zerr.Error, got %T", err)
		assert.Equal(t, "missing", zErr.Metadata()["request"])
	})

	t.Run("rejects cycle", func(t *testing.T) {
		g := requestgraph.New(nil)
		chain(t, g, [2]string{"a", "b"}, [2]string{"b", "c"})

		err := g.AddDependency(id("c"), id("a"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrCycleDetected))

		zErr, ok := err.(*zerr.Error)
		require.True(t, ok, "expected *zerr.Error, got %T", err)
		assert.Equal(t, "c -> a -> b -> c", zErr.Metadata()["cycle"])

		n, _ := g.Node(id("c"))
		assert.Empty(t, n.Dependencies())
	})

	t.Run("rejects self edge", func(t *testing.T) {
		g := requestgraph.New(nil)
		g.GetOrCreate(id("a"))
		err := g.AddDependency(id("a"), id("a"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrCycleDetected))
	})
}

func TestGraph_SetSeen(t *testing.T) {
	g := requestgraph.New(nil)
	chain(t, g, [2]string{"a", "b"})

	g.SetSeen(id("a"), id("b"), "fp1")
	n, _ := g.Node(id("a"))
	assert.Equal(t, domain.Fingerprint("fp1"), n.Dependencies()[0].Seen)
}

func TestGraph_ClearEdges(t *testing.T) {
	g := requestgraph.New(nil)
	chain(t, g, [2]string{"a", "b"}, [2]string{"root", "a"})
	g.Subscribe(id("a"), domain.OnFileUpdate("/p/a.js"))

	g.ClearEdges(id("a"))

	n, _ := g.Node(id("a"))
	assert.Empty(t, n.Dependencies())
	assert.Empty(t, n.Triggers())
	assert.Empty(t, g.Dependents(id("b")))
	assert.Equal(t, []domain.RequestID{"root"}, g.Dependents(id("a")))

	inv := g.Invalidate(domain.ChangeBatch{Events: []domain.ChangeEvent{domain.Updated("/p/a.js")}})
	assert.Zero(t, inv.Len())
}

func TestGraph_Invalidate(t *testing.T) {
	t.Run("empty batch changes nothing", func(t *testing.T) {
		g := requestgraph.New(nil)
		chain(t, g, [2]string{"root", "a"})
		g.Subscribe(id("a"), domain.OnStartup())
		setValid(g, "root", "a")

		inv := g.Invalidate(domain.ChangeBatch{})
		assert.Zero(t, inv.Len())
		n, _ := g.Node(id("a"))
		assert.Equal(t, domain.StateValid, n.State)
	})

	t.Run("update propagates to dependents in order", func(t *testing.T) {
		g := requestgraph.New(nil)
		chain(t, g,
			[2]string{"build", "graph"},
			[2]string{"graph", "transform:a"},
			[2]string{"graph", "transform:b"},
		)
		g.Subscribe(id("transform:a"), domain.OnFileUpdate("/p/a.js"))
		setValid(g, "build", "graph", "transform:a", "transform:b")

		inv := g.Invalidate(domain.ChangeBatch{Events: []domain.ChangeEvent{domain.Updated("/p/a.js")}})

		assert.Equal(t, []domain.RequestID{"transform:a"}, inv.Direct)
		assert.Equal(t, []domain.RequestID{"build", "graph"}, inv.Propagated)
		assert.Equal(t, []domain.RequestID{"transform:a", "graph", "build"}, inv.Order)
		assert.Equal(t, 1, inv.ByTrigger[domain.TriggerFileUpdated])

		a, _ := g.Node(id("transform:a"))
		assert.Equal(t, domain.StateInvalid, a.State)
		assert.True(t, a.Direct)
		assert.False(t, a.Reusable())

		graph, _ := g.Node(id("graph"))
		assert.Equal(t, domain.StateInvalid, graph.State)
		assert.False(t, graph.Direct)
		assert.True(t, graph.Reusable())

		b, _ := g.Node(id("transform:b"))
		assert.Equal(t, domain.StateValid, b.State)
	})

	t.Run("deletion fires update and delete subscriptions", func(t *testing.T) {
		g := requestgraph.New(nil)
		g.GetOrCreate(id("u"))
		g.GetOrCreate(id("d"))
		g.Subscribe(id("u"), domain.OnFileUpdate("/p/a.js"))
		g.Subscribe(id("d"), domain.OnFileDelete("/p/a.js"))
		setValid(g, "u", "d")

		inv := g.Invalidate(domain.ChangeBatch{Events: []domain.ChangeEvent{domain.Deleted("/p/a.js")}})
		assert.Equal(t, []domain.RequestID{"d", "u"}, inv.Direct)

		g2 := requestgraph.New(nil)
		g2.GetOrCreate(id("d"))
		g2.Subscribe(id("d"), domain.OnFileDelete("/p/a.js"))
		setValid(g2, "d")
		inv = g2.Invalidate(domain.ChangeBatch{Events: []domain.ChangeEvent{domain.Updated("/p/a.js")}})
		assert.Zero(t, inv.Len())
	})

	t.Run("creation matches directory and pattern", func(t *testing.T) {
		g := requestgraph.New(nil)
		g.GetOrCreate(id("resolve:./b"))
		g.Subscribe(id("resolve:./b"), domain.OnFileCreate("/p/src", "b.*"))
		setValid(g, "resolve:./b")

		inv := g.Invalidate(domain.ChangeBatch{Events: []domain.ChangeEvent{domain.Created("/p/lib/b.js")}})
		assert.Zero(t, inv.Len())

		inv = g.Invalidate(domain.ChangeBatch{Events: []domain.ChangeEvent{domain.Created("/p/src/c.js")}})
		assert.Zero(t, inv.Len())

		inv = g.Invalidate(domain.ChangeBatch{Events: []domain.ChangeEvent{domain.Created("/p/src/b.ts")}})
		assert.Equal(t, []domain.RequestID{"resolve:./b"}, inv.Direct)
		assert.Equal(t, 1, inv.ByTrigger[domain.TriggerFileCreated])
	})

	t.Run("env and option changes fire always subscriptions", func(t *testing.T) {
		g := requestgraph.New(nil)
		for _, s := range []string{"env", "opt", "always", "other"} {
			g.GetOrCreate(id(s))
		}
		g.Subscribe(id("env"), domain.OnEnvChange("NODE_ENV"))
		g.Subscribe(id("opt"), domain.OnOptionChange(domain.OptionBundler))
		g.Subscribe(id("always"), domain.OnStartup())
		g.Subscribe(id("other"), domain.OnOptionChange(domain.OptionNamers))
		setValid(g, "env", "opt", "always", "other")

		inv := g.Invalidate(domain.ChangeBatch{EnvKeys: []string{"NODE_ENV"}})
		assert.Equal(t, []domain.RequestID{"always", "env"}, inv.Direct)

		setValid(g, "env", "always")
		inv = g.Invalidate(domain.ChangeBatch{OptionPaths: []string{domain.OptionBundler}})
		assert.Equal(t, []domain.RequestID{"always", "opt"}, inv.Direct)

		assert.Equal(t, []string{"NODE_ENV"}, g.EnvKeys())
	})

	t.Run("option paths match parents and children", func(t *testing.T) {
		g := requestgraph.New(nil)
		g.GetOrCreate(id("child"))
		g.GetOrCreate(id("sibling"))
		g.Subscribe(id("child"), domain.OnOptionChange("bundler.options"))
		g.Subscribe(id("sibling"), domain.OnOptionChange("bundlerx"))
		setValid(g, "child", "sibling")

		inv := g.Invalidate(domain.ChangeBatch{OptionPaths: []string{"bundler"}})
		assert.Equal(t, []domain.RequestID{"child"}, inv.Direct)
	})

	t.Run("startup fires always subscriptions", func(t *testing.T) {
		g := requestgraph.New(nil)
		g.GetOrCreate(id("always"))
		g.Subscribe(id("always"), domain.OnStartup())
		setValid(g, "always")

		inv := g.Invalidate(domain.ChangeBatch{Startup: true})
		assert.Equal(t, []domain.RequestID{"always"}, inv.Direct)
		assert.Equal(t, 1, inv.ByTrigger[domain.TriggerAlways])
	})

	t.Run("running nodes are flagged stale", func(t *testing.T) {
		g := requestgraph.New(nil)
		chain(t, g, [2]string{"parent", "leaf"})
		g.Subscribe(id("leaf"), domain.OnFileUpdate("/p/a.js"))
		leaf, _ := g.Node(id("leaf"))
		leaf.State = domain.StateRunning
		parent, _ := g.Node(id("parent"))
		parent.State = domain.StateRunning

		g.Invalidate(domain.ChangeBatch{Events: []domain.ChangeEvent{domain.Updated("/p/a.js")}})

		assert.Equal(t, domain.StateRunning, leaf.State)
		assert.True(t, leaf.Stale)
		assert.True(t, parent.Stale)
	})

	t.Run("errored dependents must re-run", func(t *testing.T) {
		g := requestgraph.New(nil)
		chain(t, g, [2]string{"parent", "leaf"})
		g.Subscribe(id("leaf"), domain.OnFileCreate("/p", "*.js"))
		setValid(g, "leaf")
		parent, _ := g.Node(id("parent"))
		parent.State = domain.StateErrored
		parent.Direct = false

		g.Invalidate(domain.ChangeBatch{Events: []domain.ChangeEvent{domain.Created("/p/x.js")}})

		assert.Equal(t, domain.StateInvalid, parent.State)
		assert.True(t, parent.Direct)
	})
}

func TestGraph_CollectGarbage(t *testing.T) {
	g := requestgraph.New(nil)
	chain(t, g,
		[2]string{"build", "graph"},
		[2]string{"graph", "transform:a"},
		[2]string{"orphan", "transform:b"},
	)
	g.MarkRoot(id("build"))
	g.Subscribe(id("transform:b"), domain.OnFileUpdate("/p/b.js"))

	removed := g.CollectGarbage()

	assert.Equal(t, []domain.RequestID{"orphan", "transform:b"}, removed)
	assert.Equal(t, []domain.RequestID{"build", "graph", "transform:a"}, g.IDs())

	inv := g.Invalidate(domain.ChangeBatch{Events: []domain.ChangeEvent{domain.Updated("/p/b.js")}})
	assert.Zero(t, inv.Len())
}

func TestGraph_CollectGarbage_KeepsRunning(t *testing.T) {
	g := requestgraph.New(nil)
	chain(t, g, [2]string{"detached", "dep"})
	n, _ := g.Node(id("detached"))
	n.State = domain.StateRunning

	assert.Empty(t, g.CollectGarbage())
	assert.Equal(t, 2, g.Len())
}
