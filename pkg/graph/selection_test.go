package graph

import (
	"testing"

	"github.com/DrSkyle/graphkit/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func byType(typ string) NodePredicate {
	return func(n Node) bool { return n.Type.Equal(String(typ)) }
}

func TestSelectReplacesByDefault(t *testing.T) {
	g := positioned(t)
	g, err := g.SelectNodes(byType("a"))
	require.NoError(t, err)
	assert.Equal(t, []NodeID{1, 3}, g.SelectedNodes())

	g, err = g.SelectNodes(byType("b"))
	require.NoError(t, err)
	assert.Equal(t, []NodeID{2, 4}, g.SelectedNodes())
}

func TestSelectSetOps(t *testing.T) {
	g := positioned(t)
	g, err := g.SelectNodesByID([]NodeID{1, 2})
	require.NoError(t, err)

	union, err := g.SelectNodes(byType("b"), WithSetOp(SetUnion))
	require.NoError(t, err)
	assert.Equal(t, []NodeID{1, 2, 4}, union.SelectedNodes())

	inter, err := g.SelectNodes(byType("b"), WithSetOp(SetIntersect))
	require.NoError(t, err)
	assert.Equal(t, []NodeID{2}, inter.SelectedNodes())

	diff, err := g.SelectNodes(byType("b"), WithSetOp(SetDifference))
	require.NoError(t, err)
	assert.Equal(t, []NodeID{1}, diff.SelectedNodes())

	_, err = g.SelectNodes(byType("a"), WithSetOp(SetDifference))
	require.NoError(t, err)
	_, err = g.SelectNodesByID([]NodeID{1, 2}, WithSetOp(SetDifference))
	assert.ErrorIs(t, err, ErrEmptySelection)
}

func TestParseSetOp(t *testing.T) {
	for in, want := range map[string]SetOp{"": SetReplace, "union": SetUnion, "intersect": SetIntersect, "difference": SetDifference} {
		got, err := ParseSetOp(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseSetOp("xor")
	assert.Error(t, err)
}

func TestSelectEmptyMatch(t *testing.T) {
	g := positioned(t)
	out, err := g.SelectNodes(byType("missing"))
	assert.ErrorIs(t, err, ErrEmptySelection)
	assert.Same(t, g, out)

	_, err = New().SelectEdges(nil)
	assert.ErrorIs(t, err, ErrEmptySelection)
}

func TestSelectByUnknownID(t *testing.T) {
	g := positioned(t)
	_, err := g.SelectNodesByID([]NodeID{1, 99})
	assert.ErrorIs(t, err, ErrInvalidReference)
	_, err = g.SelectEdgesByID([]EdgeID{1})
	assert.ErrorIs(t, err, ErrInvalidReference)

	var oe *OpError
	require.ErrorAs(t, err, &oe)
	assert.Equal(t, "select_edges_by_id", oe.Op)
}

func TestSelectingOneKindClearsTheOther(t *testing.T) {
	g := diamond(t)
	g, err := g.SelectNodesByID([]NodeID{1})
	require.NoError(t, err)
	g, err = g.TraverseOutEdges()
	require.NoError(t, err)
	require.NotNil(t, g.SelectedNodes())
	require.NotNil(t, g.SelectedEdges())

	edges, err := g.SelectEdgesByID([]EdgeID{4})
	require.NoError(t, err)
	assert.Nil(t, edges.SelectedNodes())

	nodes, err := g.SelectNodesByID([]NodeID{2})
	require.NoError(t, err)
	assert.Nil(t, nodes.SelectedEdges())
}

func TestClearSelection(t *testing.T) {
	g := diamond(t)
	g, _ = g.SelectNodes(nil)
	g, _ = g.TraverseOutEdges()
	g = g.ClearSelection()
	assert.Equal(t, Selection{}, g.Selection())
}

func TestInvertSelection(t *testing.T) {
	g := diamond(t)
	_, err := g.InvertNodeSelection()
	assert.ErrorIs(t, err, ErrNoActiveSelection)

	g, _ = g.SelectNodesByID([]NodeID{2, 3})
	inv, err := g.InvertNodeSelection()
	require.NoError(t, err)
	assert.Equal(t, []NodeID{1, 4}, inv.SelectedNodes())

	g, _ = g.SelectEdges(nil)
	_, err = g.InvertEdgeSelection()
	assert.ErrorIs(t, err, ErrEmptySelection)
}

func TestSelectLastNodesCreated(t *testing.T) {
	g := positioned(t)
	g, _, _ = g.AddNodes(NodeSpec{}, NodeSpec{})
	g, err := g.SelectLastNodesCreated()
	require.NoError(t, err)
	assert.Equal(t, []NodeID{5, 6}, g.SelectedNodes())

	g, err = g.RemoveNode(5)
	require.NoError(t, err)
	g, err = g.SelectLastNodesCreated()
	require.NoError(t, err)
	assert.Equal(t, []NodeID{6}, g.SelectedNodes())

	_, err = New().SelectLastEdgesCreated()
	assert.ErrorIs(t, err, ErrEmptySelection)
}

func TestDeletionPrunesSelection(t *testing.T) {
	g := diamond(t)
	g, err := g.SelectNodesByID([]NodeID{1, 2})
	require.NoError(t, err)
	g, err = g.TraverseOutEdges()
	require.NoError(t, err)

	g, err = g.RemoveNode(2)
	require.NoError(t, err)
	assert.Equal(t, []NodeID{1}, g.SelectedNodes())
	assert.Equal(t, []EdgeID{2}, g.SelectedEdges())

	g, err = g.DeleteSelectedEdges()
	require.NoError(t, err)
	assert.Nil(t, g.SelectedEdges(), "a selection pruned to nothing is absent")

	g, err = g.DeleteSelectedNodes()
	require.NoError(t, err)
	assert.Nil(t, g.SelectedNodes())
	assertSelectionResolves(t, g)
}

func TestForbidDeletePolicy(t *testing.T) {
	cfg := config.DefaultGraphConfig()
	cfg.DeletePolicy = config.DeleteForbid
	g := newTestGraph(WithConfig(cfg))
	g, _, _ = g.AddNodes(NodeSpec{}, NodeSpec{}, NodeSpec{})
	g, _, _ = g.AddEdge(EdgeSpec{From: 1, To: 2})

	out, err := g.RemoveNode(2)
	assert.ErrorIs(t, err, ErrNodeReferenced)
	assert.Same(t, g, out)

	g, err = g.RemoveNode(3)
	require.NoError(t, err)
	assert.Equal(t, 2, g.CountNodes())

	g, _ = g.SelectNodes(nil)
	_, err = g.DeleteSelectedNodes()
	assert.ErrorIs(t, err, ErrNodeReferenced)
}

func assertSelectionResolves(t *testing.T, g *Graph) {
	t.Helper()
	for _, id := range g.SelectedNodes() {
		_, ok := g.Node(id)
		assert.True(t, ok, "selected node %d must exist", id)
	}
	for _, id := range g.SelectedEdges() {
		_, ok := g.Edge(id)
		assert.True(t, ok, "selected edge %d must exist", id)
	}
}
