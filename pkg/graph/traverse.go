package graph

import (
	"slices"
)

type direction int

const (
	dirOut direction = iota
	dirIn
	dirBoth
)

// TraverseOutEdges selects the edges leaving the selected nodes. The node
// selection is kept.
func (g *Graph) TraverseOutEdges(filters ...EdgePredicate) (*Graph, error) {
	return g.nodesToEdges("trav_out_edge", dirOut, filters)
}

// TraverseInEdges selects the edges entering the selected nodes. The node
// selection is kept.
func (g *Graph) TraverseInEdges(filters ...EdgePredicate) (*Graph, error) {
	return g.nodesToEdges("trav_in_edge", dirIn, filters)
}

// TraverseBothEdges selects the edges incident to the selected nodes.
func (g *Graph) TraverseBothEdges(filters ...EdgePredicate) (*Graph, error) {
	return g.nodesToEdges("trav_both_edge", dirBoth, filters)
}

// TraverseOutNodes selects the target nodes of the selected edges. The edge
// selection is kept.
func (g *Graph) TraverseOutNodes(filters ...NodePredicate) (*Graph, error) {
	return g.edgesToNodes("trav_out_node", dirOut, filters)
}

// TraverseInNodes selects the source nodes of the selected edges. The edge
// selection is kept.
func (g *Graph) TraverseInNodes(filters ...NodePredicate) (*Graph, error) {
	return g.edgesToNodes("trav_in_node", dirIn, filters)
}

// TraverseOut moves the node selection one hop along outbound edges.
func (g *Graph) TraverseOut(filters ...NodePredicate) (*Graph, error) {
	return g.nodesToNodes("trav_out", dirOut, filters)
}

// TraverseIn moves the node selection one hop along inbound edges.
func (g *Graph) TraverseIn(filters ...NodePredicate) (*Graph, error) {
	return g.nodesToNodes("trav_in", dirIn, filters)
}

// TraverseBoth moves the node selection one hop in either direction.
func (g *Graph) TraverseBoth(filters ...NodePredicate) (*Graph, error) {
	return g.nodesToNodes("trav_both", dirBoth, filters)
}

func (g *Graph) nodesToEdges(op string, dir direction, filters []EdgePredicate) (*Graph, error) {
	if err := g.check(); err != nil {
		return g, opErr(op, err)
	}
	if g.sel.Nodes == nil {
		return g, opErr(op, ErrNoActiveSelection)
	}
	var ids []EdgeID
	for _, e := range g.edges.rows {
		if !touches(e, g.sel.Nodes, dir) || !matchEdge(e, filters) {
			continue
		}
		ids = append(ids, e.ID)
	}
	if len(ids) == 0 {
		return g, opErr(op, ErrEmptySelection)
	}
	next := g.shallow()
	next.sel = Selection{Nodes: g.sel.Nodes, Edges: ids}
	return next, nil
}

func (g *Graph) edgesToNodes(op string, dir direction, filters []NodePredicate) (*Graph, error) {
	if err := g.check(); err != nil {
		return g, opErr(op, err)
	}
	if g.sel.Edges == nil {
		return g, opErr(op, ErrNoActiveSelection)
	}
	var ends []NodeID
	for _, id := range g.sel.Edges {
		e, ok := g.edges.get(id)
		if !ok {
			continue
		}
		if dir == dirOut {
			ends = append(ends, e.To)
		} else {
			ends = append(ends, e.From)
		}
	}
	ids := g.filterNodes(sortedSet(ends), filters)
	if len(ids) == 0 {
		return g, opErr(op, ErrEmptySelection)
	}
	next := g.shallow()
	next.sel = Selection{Nodes: ids, Edges: g.sel.Edges}
	return next, nil
}

func (g *Graph) nodesToNodes(op string, dir direction, filters []NodePredicate) (*Graph, error) {
	if err := g.check(); err != nil {
		return g, opErr(op, err)
	}
	if g.sel.Nodes == nil {
		return g, opErr(op, ErrNoActiveSelection)
	}
	var hop []NodeID
	for _, e := range g.edges.rows {
		if (dir == dirOut || dir == dirBoth) && contains(g.sel.Nodes, e.From) {
			hop = append(hop, e.To)
		}
		if (dir == dirIn || dir == dirBoth) && contains(g.sel.Nodes, e.To) {
			hop = append(hop, e.From)
		}
	}
	ids := g.filterNodes(sortedSet(hop), filters)
	if len(ids) == 0 {
		return g, opErr(op, ErrEmptySelection)
	}
	next := g.shallow()
	next.sel = Selection{Nodes: ids}
	return next, nil
}

func (g *Graph) filterNodes(ids []NodeID, filters []NodePredicate) []NodeID {
	if len(filters) == 0 {
		return ids
	}
	return slices.DeleteFunc(ids, func(id NodeID) bool {
		n, ok := g.nodes.get(id)
		return !ok || !matchNode(n, filters)
	})
}

func touches(e Edge, nodes []NodeID, dir direction) bool {
	switch dir {
	case dirOut:
		return contains(nodes, e.From)
	case dirIn:
		return contains(nodes, e.To)
	}
	return contains(nodes, e.From) || contains(nodes, e.To)
}

func contains[ID ~int64](sorted []ID, id ID) bool {
	_, ok := slices.BinarySearch(sorted, id)
	return ok
}

func matchNode(n Node, filters []NodePredicate) bool {
	for _, f := range filters {
		if f != nil && !f(n) {
			return false
		}
	}
	return true
}

func matchEdge(e Edge, filters []EdgePredicate) bool {
	for _, f := range filters {
		if f != nil && !f(e) {
			return false
		}
	}
	return true
}
