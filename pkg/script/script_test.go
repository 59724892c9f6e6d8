package script

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/DrSkyle/graphkit/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRunner(t *testing.T, opts ...RunnerOption) *Runner {
	t.Helper()
	opts = append([]RunnerOption{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	r, err := NewRunner(opts...)
	require.NoError(t, err)
	return r
}

func run(t *testing.T, src string) (*graph.Graph, error) {
	t.Helper()
	s, err := Parse([]byte(src))
	require.NoError(t, err)
	return newRunner(t).Run(context.Background(), graph.New(graph.WithID("script")), s)
}

func TestRunBuildsAndShifts(t *testing.T) {
	g, err := run(t, `
steps:
  - op: add_n_nodes
    nodes:
      - {type: a, attrs: {x: 1, y: 1}}
      - {type: b, attrs: {x: 2, y: 2}}
      - {type: a, attrs: {x: 3, y: 3}}
  - op: add_edge
    from: 1
    to: 2
    rel: link
  - op: select_nodes
    where: "kind == 'a'"
  - op: nudge_node_positions_ws
    dx: 10
    dy: -1
`)
	require.NoError(t, err)
	assert.Equal(t, 3, g.CountNodes())
	assert.Equal(t, 1, g.CountEdges())

	n1, _ := g.Node(1)
	x, _ := n1.Attrs.Get("x").Float()
	y, _ := n1.Attrs.Get("y").Float()
	assert.Equal(t, 11.0, x)
	assert.Equal(t, 0.0, y)

	n2, _ := g.Node(2)
	x, _ = n2.Attrs.Get("x").Float()
	assert.Equal(t, 2.0, x)

	var ops []string
	for _, e := range g.Log() {
		ops = append(ops, e.Op)
	}
	assert.Equal(t, []string{"add_n_nodes", "add_edge", "nudge_node_positions_ws"}, ops)
}

func TestRunDuplicatesSelectedEdges(t *testing.T) {
	g, err := run(t, `
steps:
  - op: add_n_nodes
    nodes: [{}, {}]
  - op: add_edge
    from: 1
    to: 2
    rel: a
  - op: select_edges_by_id
    ids: [1]
  - op: add_forward_edges_ws
    rel: b
  - op: add_reverse_edges_ws
    rel: c
`)
	require.NoError(t, err)
	var got [][3]any
	for _, e := range g.Edges() {
		rel, _ := e.Rel.Str()
		got = append(got, [3]any{e.From, e.To, rel})
	}
	assert.Equal(t, [][3]any{
		{graph.NodeID(1), graph.NodeID(2), "a"},
		{graph.NodeID(1), graph.NodeID(2), "b"},
		{graph.NodeID(2), graph.NodeID(1), "c"},
	}, got)
	assert.Equal(t, []graph.EdgeID{1}, g.SelectedEdges())
}

func TestRunTraversalWithFilter(t *testing.T) {
	g, err := run(t, `
steps:
  - op: add_n_nodes
    nodes: [{type: hub}, {type: leaf}, {type: leaf}, {type: other}]
  - {op: add_edge, from: 1, to: 2}
  - {op: add_edge, from: 1, to: 3, rel: weak}
  - {op: add_edge, from: 1, to: 4}
  - {op: select_nodes_by_id, ids: [1]}
  - {op: trav_out_edge, where: "rel != 'weak'"}
  - {op: trav_out_node, where: "kind == 'leaf'"}
  - {op: set_node_attrs_ws, attr: reached, value: true}
`)
	require.NoError(t, err)
	assert.Equal(t, []graph.NodeID{2}, g.SelectedNodes())
	assert.Equal(t, []graph.EdgeID{1, 3}, g.SelectedEdges())
	n, _ := g.Node(2)
	assert.Equal(t, graph.Bool(true), n.Attrs.Get("reached"))
}

func TestRunTriggers(t *testing.T) {
	g, err := run(t, `
triggers:
  - name: degree
    when: "d_e != 0"
    do:
      - {op: apply_metric, metric: degree, attr: deg, params: {mode: out}}
steps:
  - op: add_n_nodes
    nodes: [{}, {}, {}]
  - {op: add_edge, from: 1, to: 2}
  - {op: add_edge, from: 1, to: 3}
`)
	require.NoError(t, err)
	assert.Equal(t, []string{"degree"}, g.Triggers())

	n1, _ := g.Node(1)
	assert.Equal(t, graph.Number(2), n1.Attrs.Get("deg"))
	var ops []string
	for _, e := range g.Log() {
		ops = append(ops, e.Op)
	}
	assert.Equal(t, []string{"add_n_nodes", "add_edge", "join_node_attrs", "add_edge", "join_node_attrs"}, ops)
}

func TestRunStopsAtFailingStep(t *testing.T) {
	g, err := run(t, `
steps:
  - op: add_node
  - {op: add_edge, from: 1, to: 9}
  - op: add_node
`)
	require.ErrorIs(t, err, graph.ErrInvalidReference)
	assert.Contains(t, err.Error(), "step 2 (add_edge)")
	assert.Equal(t, 1, g.CountNodes(), "graph as of the last good step")
}

func TestOptionalStepsTolerateEmptySelections(t *testing.T) {
	g, err := run(t, `
steps:
  - {op: add_node, type: a}
  - {op: select_nodes, where: "kind == 'z'", optional: true}
  - {op: nudge_node_positions_ws, dx: 1, optional: true}
  - {op: add_node, type: b}
`)
	require.NoError(t, err)
	assert.Equal(t, 2, g.CountNodes())

	_, err = run(t, `
steps:
  - {op: add_node, type: a}
  - {op: select_nodes, where: "kind == 'z'"}
`)
	assert.ErrorIs(t, err, graph.ErrEmptySelection)
}

func TestTriggerFailureKeepsCommittedStep(t *testing.T) {
	failing := func(string) (graph.Metric, error) {
		return graph.MetricFunc(func(context.Context, []graph.Node, []graph.Edge, bool, graph.Params) ([]graph.NodeValue, error) {
			return nil, errors.New("solver diverged")
		}), nil
	}
	s, err := Parse([]byte(`
triggers:
  - name: rank
    do: [{op: apply_metric, metric: rank}]
steps:
  - op: add_node
`))
	require.NoError(t, err)

	g, err := newRunner(t, WithMetrics(failing)).Run(context.Background(), graph.New(), s)
	var te *graph.TriggerError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "rank", te.Trigger)
	assert.Equal(t, 1, g.CountNodes())
}

func TestDecodeRejectsBadScripts(t *testing.T) {
	for name, src := range map[string]string{
		"unknown op":        "steps: [{op: teleport}]",
		"unknown field":     "steps: [{op: add_node, colour: red}]",
		"unnamed trigger":   "triggers: [{do: [{op: add_node}]}]",
		"duplicate trigger": "triggers: [{name: a, do: [{op: add_node}]}, {name: a, do: [{op: add_node}]}]",
		"empty trigger":     "triggers: [{name: a}]",
		"bad trigger op":    "triggers: [{name: a, do: [{op: nope}]}]",
		"not yaml":          "steps: [",
	} {
		_, err := Parse([]byte(src))
		assert.Error(t, err, name)
	}

	s, err := Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, s.Steps)
}

func TestRunRejectsBadValues(t *testing.T) {
	_, err := run(t, `steps: [{op: add_node, type: 5}]`)
	assert.Error(t, err)

	_, err = run(t, `steps: [{op: add_node}, {op: select_nodes, set_op: xor}]`)
	assert.Error(t, err)

	_, err = run(t, `steps: [{op: add_node}, {op: select_nodes, where: "kind =="}]`)
	assert.Error(t, err)

	_, err = run(t, `
triggers: [{name: t, when: "nodes +", do: [{op: add_node}]}]
steps: [{op: add_node}]`)
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "build.yaml")
	require.NoError(t, os.WriteFile(path, []byte("steps:\n  - op: add_node\n"), 0644))
	s, err := Load(path)
	require.NoError(t, err)
	require.Len(t, s.Steps, 1)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
