package graph

import (
	"fmt"
	"maps"
)

// Bulk operations read the selection and rewrite the tables in one batch so
// each call produces exactly one log entry however many rows it touches.

// DuplicateSelectedEdges adds, for every selected edge, a new edge with the
// same endpoints and the given rel. The edge selection is kept and the new
// edges are not selected.
func (g *Graph) DuplicateSelectedEdges(rel Value) (*Graph, error) {
	return g.copySelectedEdges("add_forward_edges_ws", rel, false)
}

// ReverseSelectedEdges adds, for every selected edge, a new edge running the
// opposite way with the given rel.
func (g *Graph) ReverseSelectedEdges(rel Value) (*Graph, error) {
	return g.copySelectedEdges("add_reverse_edges_ws", rel, true)
}

func (g *Graph) copySelectedEdges(op string, rel Value, reverse bool) (*Graph, error) {
	return g.apply(op, func(next *Graph) error {
		if next.edges.len() == 0 {
			return ErrNoEdges
		}
		if next.sel.Edges == nil {
			return ErrNoActiveSelection
		}
		if err := checkType(rel, "edge rel"); err != nil {
			return err
		}
		var ids []EdgeID
		for _, id := range next.sel.Edges {
			e, ok := next.edges.get(id)
			if !ok {
				continue
			}
			from, to := e.From, e.To
			if reverse {
				from, to = to, from
			}
			ids = append(ids, next.insertEdge(EdgeSpec{From: from, To: to, Rel: rel}))
		}
		next.created.edges = ids
		return nil
	})
}

// ShiftSelectedNodes moves every selected node that has numeric x and y by
// (dx, dy). Selected nodes without a position are skipped.
func (g *Graph) ShiftSelectedNodes(dx, dy float64) (*Graph, error) {
	return g.apply("nudge_node_positions_ws", func(next *Graph) error {
		if next.sel.Nodes == nil {
			return ErrNoActiveSelection
		}
		if !next.nodes.hasColumn(attrX) || !next.nodes.hasColumn(attrY) {
			return fmt.Errorf("%w: node table has no %q/%q columns", ErrMissingAttribute, attrX, attrY)
		}
		type move struct {
			idx  int
			x, y float64
		}
		var moves []move
		for _, id := range next.sel.Nodes {
			i, ok := next.nodes.index(id)
			if !ok {
				continue
			}
			n := next.nodes.rows[i]
			x, okX := n.Attrs.Get(attrX).Float()
			y, okY := n.Attrs.Get(attrY).Float()
			if okX && okY {
				moves = append(moves, move{idx: i, x: x, y: y})
			}
		}
		if len(moves) == 0 {
			return ErrNoMovableElements
		}
		for _, m := range moves {
			n := next.nodes.rows[m.idx]
			attrs := maps.Clone(n.Attrs)
			attrs[attrX] = Number(m.x + dx)
			attrs[attrY] = Number(m.y + dy)
			n.Attrs = attrs
			next.nodes.rows[m.idx] = n
		}
		return nil
	})
}

// DeleteSelectedNodes removes the selected nodes, applying the delete policy
// to their edges.
func (g *Graph) DeleteSelectedNodes() (*Graph, error) {
	return g.apply("delete_nodes_ws", func(next *Graph) error {
		if next.sel.Nodes == nil {
			return ErrNoActiveSelection
		}
		ids := make(map[NodeID]bool, len(next.sel.Nodes))
		for _, id := range next.sel.Nodes {
			ids[id] = true
		}
		return next.removeNodes(ids)
	})
}

// DeleteSelectedEdges removes the selected edges.
func (g *Graph) DeleteSelectedEdges() (*Graph, error) {
	return g.apply("delete_edges_ws", func(next *Graph) error {
		if next.sel.Edges == nil {
			return ErrNoActiveSelection
		}
		ids := make(map[EdgeID]bool, len(next.sel.Edges))
		for _, id := range next.sel.Edges {
			ids[id] = true
		}
		next.edges.remove(ids)
		next.pruneSelection()
		return nil
	})
}

// SetSelectedNodeAttr sets one attribute on every selected node. The name
// "type" sets the node type.
func (g *Graph) SetSelectedNodeAttr(name string, v Value) (*Graph, error) {
	return g.apply("set_node_attrs_ws", func(next *Graph) error {
		if next.sel.Nodes == nil {
			return ErrNoActiveSelection
		}
		if name == "type" {
			if err := checkType(v, "node type"); err != nil {
				return err
			}
		} else if err := checkAttrs(Attrs{name: v}, reservedNodeAttrs); err != nil {
			return err
		}
		for _, id := range next.sel.Nodes {
			if i, ok := next.nodes.index(id); ok {
				next.nodes.set(i, setNodeAttr(next.nodes.rows[i], name, v))
			}
		}
		return nil
	})
}

// SetSelectedEdgeAttr sets one attribute on every selected edge. The name
// "rel" sets the edge rel.
func (g *Graph) SetSelectedEdgeAttr(name string, v Value) (*Graph, error) {
	return g.apply("set_edge_attrs_ws", func(next *Graph) error {
		if next.sel.Edges == nil {
			return ErrNoActiveSelection
		}
		if name == "rel" {
			if err := checkType(v, "edge rel"); err != nil {
				return err
			}
		} else if err := checkAttrs(Attrs{name: v}, reservedEdgeAttrs); err != nil {
			return err
		}
		for _, id := range next.sel.Edges {
			if i, ok := next.edges.index(id); ok {
				next.edges.set(i, setEdgeAttr(next.edges.rows[i], name, v))
			}
		}
		return nil
	})
}

func setNodeAttr(n Node, name string, v Value) Node {
	if name == "type" {
		n.Type = v
		return n
	}
	n.Attrs = withAttr(n.Attrs, name, v)
	return n
}

func setEdgeAttr(e Edge, name string, v Value) Edge {
	if name == "rel" {
		e.Rel = v
		return e
	}
	e.Attrs = withAttr(e.Attrs, name, v)
	return e
}
