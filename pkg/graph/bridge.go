package graph

import (
	"context"
	"fmt"
)

// Params carries algorithm parameters across the metric bridge.
type Params map[string]Value

// NodeValue is one row of a metric result table.
type NodeValue struct {
	ID    NodeID
	Value Value
}

// EdgeValue is one row of an edge-keyed table.
type EdgeValue struct {
	ID    EdgeID
	Value Value
}

// Metric is an algorithm owned outside the graph core. It reads copies of
// the node and edge tables and returns one value per node it scores.
type Metric interface {
	Compute(ctx context.Context, nodes []Node, edges []Edge, directed bool, params Params) ([]NodeValue, error)
}

// MetricFunc adapts a function to Metric.
type MetricFunc func(ctx context.Context, nodes []Node, edges []Edge, directed bool, params Params) ([]NodeValue, error)

func (f MetricFunc) Compute(ctx context.Context, nodes []Node, edges []Edge, directed bool, params Params) ([]NodeValue, error) {
	return f(ctx, nodes, edges, directed, params)
}

// ApplyMetric runs m over the current tables and joins its result onto the
// nodes as attribute attr.
func (g *Graph) ApplyMetric(ctx context.Context, m Metric, attr string, params Params) (*Graph, error) {
	if err := g.check(); err != nil {
		return g, opErr("join_node_attrs", err)
	}
	rows, err := m.Compute(ctx, g.Nodes(), g.Edges(), g.directed, params)
	if err != nil {
		return g, opErr("join_node_attrs", fmt.Errorf("metric failed: %w", err))
	}
	return g.JoinNodeAttr(attr, rows)
}

// JoinNodeAttr merges a (node id, value) table into attribute name. Nodes
// without a row keep their previous value; rows for unknown nodes are
// ignored; later rows win over earlier ones.
func (g *Graph) JoinNodeAttr(name string, rows []NodeValue) (*Graph, error) {
	return g.apply("join_node_attrs", func(next *Graph) error {
		if name == "type" {
			for _, r := range rows {
				if err := checkType(r.Value, "node type"); err != nil {
					return err
				}
			}
		} else if err := checkAttrs(Attrs{name: {}}, reservedNodeAttrs); err != nil {
			return err
		}
		for _, r := range rows {
			if i, ok := next.nodes.index(r.ID); ok {
				next.nodes.set(i, setNodeAttr(next.nodes.rows[i], name, r.Value))
			}
		}
		if name != "type" {
			next.nodes.addColumn(name)
		}
		return nil
	})
}

// JoinEdgeAttr merges an (edge id, value) table into attribute name.
func (g *Graph) JoinEdgeAttr(name string, rows []EdgeValue) (*Graph, error) {
	return g.apply("join_edge_attrs", func(next *Graph) error {
		if name == "rel" {
			for _, r := range rows {
				if err := checkType(r.Value, "edge rel"); err != nil {
					return err
				}
			}
		} else if err := checkAttrs(Attrs{name: {}}, reservedEdgeAttrs); err != nil {
			return err
		}
		for _, r := range rows {
			if i, ok := next.edges.index(r.ID); ok {
				next.edges.set(i, setEdgeAttr(next.edges.rows[i], name, r.Value))
			}
		}
		if name != "rel" {
			next.edges.addColumn(name)
		}
		return nil
	})
}
