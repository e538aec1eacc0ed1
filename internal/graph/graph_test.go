package graph

import (
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddNode_AllocatesMonotonically(t *testing.T) {
	g := New()

	a := g.AddNode()
	b := g.AddNode()
	c := g.AddNode(WithLabel("c"), WithColor(Blue))

	assert.Equal(t, []NodeID{1, 2, 3}, []NodeID{a, b, c})
	n, ok := g.Node(c)
	require.True(t, ok)
	assert.Equal(t, "c", n.Label)
	assert.Equal(t, Blue, n.Color)
}

func TestRemoveNode_DoesNotRecycleIdentity(t *testing.T) {
	g := New()
	g.AddNode()
	second := g.AddNode()

	require.True(t, g.RemoveNode(second))
	next := g.AddNode()

	assert.Equal(t, NodeID(3), next)
	assert.Equal(t, []NodeID{1, 3}, g.NodeIDs())
	assert.False(t, g.RemoveNode(second), "removing twice is a no-op")
}

func TestClear_ResetsAllocator(t *testing.T) {
	g := New()
	a, b := g.AddNode(), g.AddNode()
	g.AddEdge(a, b)

	g.Clear()

	assert.Zero(t, g.NodeCount())
	assert.Zero(t, g.EdgeCount())
	assert.Equal(t, NodeID(1), g.AddNode())
}

func TestAddEdge(t *testing.T) {
	g := New()
	a, b, c := g.AddNode(), g.AddNode(), g.AddNode()

	testCases := []struct {
		name string
		u, v NodeID
		want bool
	}{
		{name: "new edge", u: a, v: b, want: true},
		{name: "duplicate same order", u: a, v: b, want: false},
		{name: "duplicate reversed", u: b, v: a, want: false},
		{name: "self loop", u: c, v: c, want: false},
		{name: "missing endpoint", u: c, v: 99, want: false},
		{name: "second edge", u: c, v: a, want: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, g.AddEdge(tc.u, tc.v))
		})
	}

	assert.Equal(t, []Edge{{U: a, V: b}, {U: a, V: c}}, g.Edges())
}

func TestRemoveNode_CascadesEdges(t *testing.T) {
	g := New()
	a, b, c := g.AddNode(), g.AddNode(), g.AddNode()
	g.AddEdge(a, b)
	g.AddEdge(b, c)
	g.AddEdge(a, c)

	require.True(t, g.RemoveNode(b))

	assert.Equal(t, []Edge{{U: a, V: c}}, g.Edges())
	nbs, err := g.Neighbors(a)
	require.NoError(t, err)
	assert.Equal(t, []NodeID{c}, nbs)

	_, err = g.Neighbors(b)
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestRemoveEdge(t *testing.T) {
	g := New()
	a, b := g.AddNode(), g.AddNode()
	g.AddEdge(a, b)

	assert.True(t, g.RemoveEdge(b, a))
	assert.False(t, g.RemoveEdge(a, b))
	assert.True(t, g.AddEdge(a, b), "edge can be re-added after removal")
}

func TestMaxID_TracksGreatestPresentIdentity(t *testing.T) {
	g := New()
	assert.Equal(t, NodeID(0), g.MaxID())

	g.AddNode()
	g.AddNode()
	third := g.AddNode()
	assert.Equal(t, NodeID(3), g.MaxID())

	g.RemoveNode(third)
	assert.Equal(t, NodeID(2), g.MaxID())
}

func TestColors(t *testing.T) {
	g := New()
	a := g.AddNode(WithColor(Red))
	b := g.AddNode()

	assert.Equal(t, map[NodeID]Color{a: Red}, g.Colors())

	require.NoError(t, g.SetColor(b, Green))
	assert.ErrorIs(t, g.SetColor(42, Green), ErrNodeNotFound)

	applied := g.ApplyColors(map[NodeID]Color{a: Blue, b: Yellow, 42: Red})
	assert.Equal(t, 2, applied)
	assert.Equal(t, map[NodeID]Color{a: Blue, b: Yellow}, g.Colors())

	g.ClearColors()
	assert.Empty(t, g.Colors())
}

func TestReconcilePalette(t *testing.T) {
	g := New()
	a := g.AddNode(WithColor(Red))
	b := g.AddNode(WithColor(Yellow))
	c := g.AddNode(WithColor(Magenta))
	g.AddNode()

	cleared := g.ReconcilePalette(3)

	assert.Equal(t, []NodeID{b, c}, cleared)
	assert.Equal(t, map[NodeID]Color{a: Red}, g.Colors())
}

func TestSnapshot_IsIsolatedFromLaterMutation(t *testing.T) {
	g := New()
	a := g.AddNode(WithMeta(map[string]string{"shape": "circle"}))
	b := g.AddNode()
	g.AddEdge(a, b)

	snap := g.Snapshot()
	g.RemoveNode(b)
	g.AddNode()
	require.NoError(t, g.SetColor(a, Red))

	assert.Equal(t, []NodeID{a, b}, snap.NodeIDs())
	assert.Equal(t, []Edge{{U: a, V: b}}, snap.Edges())
	assert.Equal(t, NodeID(2), snap.MaxID())
	assert.True(t, snap.HasNode(b))

	n, ok := snap.Node(a)
	require.True(t, ok)
	assert.Equal(t, None, n.Color)
	n.Meta["shape"] = "square"
	again, _ := snap.Node(a)
	assert.Equal(t, "circle", again.Meta["shape"])
}

func TestRandom(t *testing.T) {
	g := New()
	existing := g.AddNode()
	rng := rand.New(rand.NewPCG(7, 11))

	ids := Random(rng, g, 8)

	require.Len(t, ids, 8)
	assert.Equal(t, 9, g.NodeCount())
	assert.GreaterOrEqual(t, g.EdgeCount(), 1)
	assert.LessOrEqual(t, g.EdgeCount(), 28)
	for _, e := range g.Edges() {
		assert.NotEqual(t, existing, e.U)
		assert.NotEqual(t, existing, e.V)
		assert.Less(t, e.U, e.V)
	}
}

func TestGraph_ConcurrentAccess(t *testing.T) {
	g := New()
	numGoroutines := 50
	var wg sync.WaitGroup

	wg.Add(numGoroutines)
	for range numGoroutines {
		go func() {
			defer wg.Done()
			id := g.AddNode()
			_ = g.SetColor(id, Red)
			_ = g.Nodes()
		}()
	}
	wg.Wait()

	ids := g.NodeIDs()
	require.Len(t, ids, numGoroutines)
	for i, id := range ids {
		assert.Equal(t, NodeID(i+1), id)
	}
}
