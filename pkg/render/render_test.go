package render

import (
	"strings"
	"testing"
	"time"

	"github.com/DrSkyle/graphkit/pkg/graph"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(t *testing.T) *graph.Graph {
	t.Helper()
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	g := graph.New(graph.WithID("golden"), graph.WithClock(func() time.Time { return t0 }))

	g, _, err := g.AddNodes(
		graph.NodeSpec{Type: graph.String("a"), Attrs: graph.Attrs{"x": graph.Number(1), "y": graph.Number(1)}},
		graph.NodeSpec{Type: graph.String("b"), Attrs: graph.Attrs{"x": graph.Number(2.5), "y": graph.Number(1), "label": graph.String("hub")}},
		graph.NodeSpec{},
	)
	require.NoError(t, err)
	g, _, err = g.AddEdge(graph.EdgeSpec{From: 1, To: 2, Rel: graph.String("r")})
	require.NoError(t, err)
	g, _, err = g.AddEdge(graph.EdgeSpec{From: 2, To: 3, Attrs: graph.Attrs{"weight": graph.Number(0.5)}})
	require.NoError(t, err)
	g, err = g.SelectNodesByID([]graph.NodeID{1, 3})
	require.NoError(t, err)
	return g
}

func TestGoldenTables(t *testing.T) {
	g := sample(t)
	r := New(false)
	gold := goldie.New(t)

	gold.Assert(t, "nodes", []byte(r.Nodes(g)))
	gold.Assert(t, "edges", []byte(r.Edges(g)))
	gold.Assert(t, "log", []byte(r.Log(g.Log())))
}

func TestSummary(t *testing.T) {
	g := sample(t)
	assert.Equal(t, "graph golden directed, 3 nodes, 2 edges, 3 log entries", New(false).Summary(g))
}

func TestEmptyTablesHaveHeaders(t *testing.T) {
	g := graph.New()
	r := New(false)
	assert.Equal(t, "  id  type\n", r.Nodes(g))
	assert.Equal(t, "  id  from  to  rel\n", r.Edges(g))
	assert.True(t, strings.HasPrefix(r.Log(nil), "version_id  function_used"))
}
