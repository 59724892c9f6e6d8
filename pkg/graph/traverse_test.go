package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// diamond builds 1->2, 1->3, 2->4, 3->4 with rels "l" and "r".
func diamond(t *testing.T) *Graph {
	t.Helper()
	g := newTestGraph()
	g, _, err := g.AddNodes(NodeSpec{}, NodeSpec{}, NodeSpec{}, NodeSpec{})
	require.NoError(t, err)
	for _, e := range []EdgeSpec{
		{From: 1, To: 2, Rel: String("l")},
		{From: 1, To: 3, Rel: String("r")},
		{From: 2, To: 4, Rel: String("l")},
		{From: 3, To: 4, Rel: String("r")},
	} {
		g, _, err = g.AddEdge(e)
		require.NoError(t, err)
	}
	return g
}

func TestTraverseOutEdges(t *testing.T) {
	g := diamond(t)
	g, err := g.SelectNodesByID([]NodeID{1, 2})
	require.NoError(t, err)

	g, err = g.TraverseOutEdges()
	require.NoError(t, err)
	assert.Equal(t, []EdgeID{1, 2, 3}, g.SelectedEdges())
	assert.Equal(t, []NodeID{1, 2}, g.SelectedNodes(), "node selection is retained")

	again, err := g.TraverseOutEdges()
	require.NoError(t, err)
	assert.Equal(t, g.SelectedEdges(), again.SelectedEdges())
}

func TestTraverseInAndBothEdges(t *testing.T) {
	g := diamond(t)
	g, err := g.SelectNodesByID([]NodeID{4})
	require.NoError(t, err)

	in, err := g.TraverseInEdges()
	require.NoError(t, err)
	assert.Equal(t, []EdgeID{3, 4}, in.SelectedEdges())

	g, err = g.SelectNodesByID([]NodeID{2})
	require.NoError(t, err)
	both, err := g.TraverseBothEdges()
	require.NoError(t, err)
	assert.Equal(t, []EdgeID{1, 3}, both.SelectedEdges())

	filtered, err := g.TraverseBothEdges(func(e Edge) bool { return e.To == 4 })
	require.NoError(t, err)
	assert.Equal(t, []EdgeID{3}, filtered.SelectedEdges())
}

func TestTraverseEdgesToNodes(t *testing.T) {
	g := diamond(t)
	g, err := g.SelectEdges(func(e Edge) bool { return e.Rel.Equal(String("r")) })
	require.NoError(t, err)
	require.Equal(t, []EdgeID{2, 4}, g.SelectedEdges())

	out, err := g.TraverseOutNodes()
	require.NoError(t, err)
	assert.Equal(t, []NodeID{3, 4}, out.SelectedNodes())
	assert.Equal(t, []EdgeID{2, 4}, out.SelectedEdges(), "edge selection is retained")

	in, err := g.TraverseInNodes()
	require.NoError(t, err)
	assert.Equal(t, []NodeID{1, 3}, in.SelectedNodes())
}

func TestTraverseNodeHops(t *testing.T) {
	g := diamond(t)
	g, err := g.SelectNodesByID([]NodeID{1})
	require.NoError(t, err)

	g, err = g.TraverseOut()
	require.NoError(t, err)
	assert.Equal(t, []NodeID{2, 3}, g.SelectedNodes())

	g, err = g.TraverseOut()
	require.NoError(t, err)
	assert.Equal(t, []NodeID{4}, g.SelectedNodes(), "duplicates are removed")

	g, err = g.TraverseIn(func(n Node) bool { return n.ID != 3 })
	require.NoError(t, err)
	assert.Equal(t, []NodeID{2}, g.SelectedNodes())

	g, err = g.TraverseBoth()
	require.NoError(t, err)
	assert.Equal(t, []NodeID{1, 4}, g.SelectedNodes())
	assert.Nil(t, g.SelectedEdges())
}

func TestTraverseFailures(t *testing.T) {
	g := diamond(t)

	_, err := g.TraverseOutEdges()
	assert.ErrorIs(t, err, ErrNoActiveSelection)
	_, err = g.TraverseOutNodes()
	assert.ErrorIs(t, err, ErrNoActiveSelection)

	sink, err := g.SelectNodesByID([]NodeID{4})
	require.NoError(t, err)
	out, err := sink.TraverseOut()
	assert.ErrorIs(t, err, ErrEmptySelection)
	assert.Same(t, sink, out)
	assert.Equal(t, []NodeID{4}, out.SelectedNodes())
}

func TestTraversalDoesNotLog(t *testing.T) {
	g := diamond(t)
	n := len(g.Log())
	g, _ = g.SelectNodes(nil)
	g, _ = g.TraverseOutEdges()
	g, _ = g.TraverseOutNodes()
	assert.Len(t, g.Log(), n)
}
