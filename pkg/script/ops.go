package script

import (
	"context"
	"fmt"

	"github.com/DrSkyle/graphkit/pkg/graph"
)

type handler func(ctx context.Context, r *Runner, g *graph.Graph, st Step) (*graph.Graph, error)

var handlers = map[string]handler{
	// Record tables.
	"add_node":    addNode,
	"add_n_nodes": addNodes,
	"add_edge":    addEdge,
	"delete_node": func(_ context.Context, _ *Runner, g *graph.Graph, st Step) (*graph.Graph, error) {
		return g.RemoveNode(graph.NodeID(st.ID))
	},
	"delete_edge": func(_ context.Context, _ *Runner, g *graph.Graph, st Step) (*graph.Graph, error) {
		return g.RemoveEdge(graph.EdgeID(st.ID))
	},

	// Selection.
	"select_nodes":       selectNodes,
	"select_nodes_by_id": selectNodesByID,
	"select_edges":       selectEdges,
	"select_edges_by_id": selectEdgesByID,
	"select_last_nodes_created": func(_ context.Context, _ *Runner, g *graph.Graph, _ Step) (*graph.Graph, error) {
		return g.SelectLastNodesCreated()
	},
	"select_last_edges_created": func(_ context.Context, _ *Runner, g *graph.Graph, _ Step) (*graph.Graph, error) {
		return g.SelectLastEdgesCreated()
	},
	"invert_node_selection": func(_ context.Context, _ *Runner, g *graph.Graph, _ Step) (*graph.Graph, error) {
		return g.InvertNodeSelection()
	},
	"invert_edge_selection": func(_ context.Context, _ *Runner, g *graph.Graph, _ Step) (*graph.Graph, error) {
		return g.InvertEdgeSelection()
	},
	"clear_selection": func(_ context.Context, _ *Runner, g *graph.Graph, _ Step) (*graph.Graph, error) {
		return g.ClearSelection(), nil
	},

	// Traversal.
	"trav_out_edge":  edgeTraversal((*graph.Graph).TraverseOutEdges),
	"trav_in_edge":   edgeTraversal((*graph.Graph).TraverseInEdges),
	"trav_both_edge": edgeTraversal((*graph.Graph).TraverseBothEdges),
	"trav_out_node":  nodeTraversal((*graph.Graph).TraverseOutNodes),
	"trav_in_node":   nodeTraversal((*graph.Graph).TraverseInNodes),
	"trav_out":       nodeTraversal((*graph.Graph).TraverseOut),
	"trav_in":        nodeTraversal((*graph.Graph).TraverseIn),
	"trav_both":      nodeTraversal((*graph.Graph).TraverseBoth),

	// Bulk mutations on the selection.
	"add_forward_edges_ws": func(_ context.Context, _ *Runner, g *graph.Graph, st Step) (*graph.Graph, error) {
		rel, err := typeValue(st.Rel, "rel")
		if err != nil {
			return g, err
		}
		return g.DuplicateSelectedEdges(rel)
	},
	"add_reverse_edges_ws": func(_ context.Context, _ *Runner, g *graph.Graph, st Step) (*graph.Graph, error) {
		rel, err := typeValue(st.Rel, "rel")
		if err != nil {
			return g, err
		}
		return g.ReverseSelectedEdges(rel)
	},
	"nudge_node_positions_ws": func(_ context.Context, _ *Runner, g *graph.Graph, st Step) (*graph.Graph, error) {
		return g.ShiftSelectedNodes(st.DX, st.DY)
	},
	"delete_nodes_ws": func(_ context.Context, _ *Runner, g *graph.Graph, _ Step) (*graph.Graph, error) {
		return g.DeleteSelectedNodes()
	},
	"delete_edges_ws": func(_ context.Context, _ *Runner, g *graph.Graph, _ Step) (*graph.Graph, error) {
		return g.DeleteSelectedEdges()
	},
	"set_node_attrs_ws": func(_ context.Context, _ *Runner, g *graph.Graph, st Step) (*graph.Graph, error) {
		v, err := graph.FromAny(st.Value)
		if err != nil {
			return g, err
		}
		return g.SetSelectedNodeAttr(st.Attr, v)
	},
	"set_edge_attrs_ws": func(_ context.Context, _ *Runner, g *graph.Graph, st Step) (*graph.Graph, error) {
		v, err := graph.FromAny(st.Value)
		if err != nil {
			return g, err
		}
		return g.SetSelectedEdgeAttr(st.Attr, v)
	},

	// Collaborators.
	"apply_metric": applyMetric,
}

func addNode(_ context.Context, _ *Runner, g *graph.Graph, st Step) (*graph.Graph, error) {
	spec, err := nodeSpec(NodeDecl{Type: st.Type, Attrs: st.Attrs})
	if err != nil {
		return g, err
	}
	g, _, err = g.AddNode(spec)
	return g, err
}

func addNodes(_ context.Context, _ *Runner, g *graph.Graph, st Step) (*graph.Graph, error) {
	specs := make([]graph.NodeSpec, 0, len(st.Nodes))
	for i, d := range st.Nodes {
		spec, err := nodeSpec(d)
		if err != nil {
			return g, fmt.Errorf("node %d: %w", i+1, err)
		}
		specs = append(specs, spec)
	}
	g, _, err := g.AddNodes(specs...)
	return g, err
}

func addEdge(_ context.Context, _ *Runner, g *graph.Graph, st Step) (*graph.Graph, error) {
	rel, err := typeValue(st.Rel, "rel")
	if err != nil {
		return g, err
	}
	attrs, err := attrs(st.Attrs)
	if err != nil {
		return g, err
	}
	g, _, err = g.AddEdge(graph.EdgeSpec{From: graph.NodeID(st.From), To: graph.NodeID(st.To), Rel: rel, Attrs: attrs})
	return g, err
}

func selectNodes(_ context.Context, r *Runner, g *graph.Graph, st Step) (*graph.Graph, error) {
	opt, err := setOp(st)
	if err != nil {
		return g, err
	}
	pred, err := r.nodeFilter(st.Where)
	if err != nil {
		return g, err
	}
	return g.SelectNodes(pred, opt)
}

func selectNodesByID(_ context.Context, _ *Runner, g *graph.Graph, st Step) (*graph.Graph, error) {
	opt, err := setOp(st)
	if err != nil {
		return g, err
	}
	ids := make([]graph.NodeID, len(st.IDs))
	for i, id := range st.IDs {
		ids[i] = graph.NodeID(id)
	}
	return g.SelectNodesByID(ids, opt)
}

func selectEdges(_ context.Context, r *Runner, g *graph.Graph, st Step) (*graph.Graph, error) {
	opt, err := setOp(st)
	if err != nil {
		return g, err
	}
	pred, err := r.edgeFilter(st.Where)
	if err != nil {
		return g, err
	}
	return g.SelectEdges(pred, opt)
}

func selectEdgesByID(_ context.Context, _ *Runner, g *graph.Graph, st Step) (*graph.Graph, error) {
	opt, err := setOp(st)
	if err != nil {
		return g, err
	}
	ids := make([]graph.EdgeID, len(st.IDs))
	for i, id := range st.IDs {
		ids[i] = graph.EdgeID(id)
	}
	return g.SelectEdgesByID(ids, opt)
}

func edgeTraversal(fn func(*graph.Graph, ...graph.EdgePredicate) (*graph.Graph, error)) handler {
	return func(_ context.Context, r *Runner, g *graph.Graph, st Step) (*graph.Graph, error) {
		var filters []graph.EdgePredicate
		if st.Where != "" {
			pred, err := r.edgeFilter(st.Where)
			if err != nil {
				return g, err
			}
			filters = append(filters, pred)
		}
		return fn(g, filters...)
	}
}

func nodeTraversal(fn func(*graph.Graph, ...graph.NodePredicate) (*graph.Graph, error)) handler {
	return func(_ context.Context, r *Runner, g *graph.Graph, st Step) (*graph.Graph, error) {
		var filters []graph.NodePredicate
		if st.Where != "" {
			pred, err := r.nodeFilter(st.Where)
			if err != nil {
				return g, err
			}
			filters = append(filters, pred)
		}
		return fn(g, filters...)
	}
}

func applyMetric(ctx context.Context, r *Runner, g *graph.Graph, st Step) (*graph.Graph, error) {
	m, err := r.metrics(st.Metric)
	if err != nil {
		return g, err
	}
	attr := st.Attr
	if attr == "" {
		attr = st.Metric
	}
	params, err := attrs(st.Params)
	if err != nil {
		return g, fmt.Errorf("params: %w", err)
	}
	return g.ApplyMetric(ctx, m, attr, graph.Params(params))
}

// nodeFilter compiles a where clause; empty selects everything.
func (r *Runner) nodeFilter(where string) (graph.NodePredicate, error) {
	if where == "" {
		return nil, nil
	}
	return r.cel.NodeFilter(where)
}

func (r *Runner) edgeFilter(where string) (graph.EdgePredicate, error) {
	if where == "" {
		return nil, nil
	}
	return r.cel.EdgeFilter(where)
}

func setOp(st Step) (graph.SelectOption, error) {
	op, err := graph.ParseSetOp(st.SetOp)
	if err != nil {
		return nil, err
	}
	return graph.WithSetOp(op), nil
}

func nodeSpec(d NodeDecl) (graph.NodeSpec, error) {
	typ, err := typeValue(d.Type, "type")
	if err != nil {
		return graph.NodeSpec{}, err
	}
	a, err := attrs(d.Attrs)
	if err != nil {
		return graph.NodeSpec{}, err
	}
	return graph.NodeSpec{Type: typ, Attrs: a}, nil
}

// typeValue accepts a string or nothing.
func typeValue(x any, field string) (graph.Value, error) {
	switch t := x.(type) {
	case nil:
		return graph.Missing(), nil
	case string:
		return graph.String(t), nil
	}
	return graph.Missing(), fmt.Errorf("%s must be a string, got %T", field, x)
}

func attrs(in map[string]any) (graph.Attrs, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make(graph.Attrs, len(in))
	for k, v := range in {
		val, err := graph.FromAny(v)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", k, err)
		}
		out[k] = val
	}
	return out, nil
}
