package graph

import (
	"fmt"
	"slices"
)

// Selection is the set of node and edge IDs currently in scope. A nil slice
// means no selection of that kind; an empty selection is never stored.
type Selection struct {
	Nodes []NodeID `json:"nodes,omitempty"`
	Edges []EdgeID `json:"edges,omitempty"`
}

// NodePredicate reports whether a node matches. Predicates must not modify
// the node they are given.
type NodePredicate func(Node) bool

// EdgePredicate reports whether an edge matches.
type EdgePredicate func(Edge) bool

// SetOp combines a fresh selection with the existing one of the same kind.
type SetOp int

const (
	SetReplace SetOp = iota
	SetUnion
	SetIntersect
	SetDifference
)

func (s SetOp) String() string {
	switch s {
	case SetUnion:
		return "union"
	case SetIntersect:
		return "intersect"
	case SetDifference:
		return "difference"
	default:
		return "replace"
	}
}

// ParseSetOp maps "replace", "union", "intersect" and "difference" to a SetOp.
func ParseSetOp(s string) (SetOp, error) {
	switch s {
	case "", "replace":
		return SetReplace, nil
	case "union":
		return SetUnion, nil
	case "intersect":
		return SetIntersect, nil
	case "difference":
		return SetDifference, nil
	}
	return SetReplace, fmt.Errorf("unknown set operation %q", s)
}

type selectConfig struct {
	op SetOp
}

// SelectOption tunes a select call.
type SelectOption func(*selectConfig)

// WithSetOp combines the new matches with the current selection instead of
// replacing it.
func WithSetOp(op SetOp) SelectOption {
	return func(c *selectConfig) { c.op = op }
}

func selectOpts(opts []SelectOption) selectConfig {
	var c selectConfig
	for _, o := range opts {
		o(&c)
	}
	return c
}

// SelectNodes selects the nodes matching pred. A nil pred matches every node.
// The edge selection is cleared.
func (g *Graph) SelectNodes(pred NodePredicate, opts ...SelectOption) (*Graph, error) {
	const op = "select_nodes"
	if err := g.check(); err != nil {
		return g, opErr(op, err)
	}
	var ids []NodeID
	for _, n := range g.nodes.rows {
		if pred == nil || pred(n) {
			ids = append(ids, n.ID)
		}
	}
	return g.replaceNodeSelection(op, ids, selectOpts(opts).op)
}

// SelectNodesByID selects the given nodes, which must all exist.
func (g *Graph) SelectNodesByID(ids []NodeID, opts ...SelectOption) (*Graph, error) {
	const op = "select_nodes_by_id"
	if err := g.check(); err != nil {
		return g, opErr(op, err)
	}
	for _, id := range ids {
		if !g.nodes.has(id) {
			return g, opErr(op, fmt.Errorf("%w: node %d", ErrInvalidReference, id))
		}
	}
	return g.replaceNodeSelection(op, sortedSet(ids), selectOpts(opts).op)
}

// SelectEdges selects the edges matching pred. A nil pred matches every edge.
// The node selection is cleared.
func (g *Graph) SelectEdges(pred EdgePredicate, opts ...SelectOption) (*Graph, error) {
	const op = "select_edges"
	if err := g.check(); err != nil {
		return g, opErr(op, err)
	}
	var ids []EdgeID
	for _, e := range g.edges.rows {
		if pred == nil || pred(e) {
			ids = append(ids, e.ID)
		}
	}
	return g.replaceEdgeSelection(op, ids, selectOpts(opts).op)
}

// SelectEdgesByID selects the given edges, which must all exist.
func (g *Graph) SelectEdgesByID(ids []EdgeID, opts ...SelectOption) (*Graph, error) {
	const op = "select_edges_by_id"
	if err := g.check(); err != nil {
		return g, opErr(op, err)
	}
	for _, id := range ids {
		if !g.edges.has(id) {
			return g, opErr(op, fmt.Errorf("%w: edge %d", ErrInvalidReference, id))
		}
	}
	return g.replaceEdgeSelection(op, sortedSet(ids), selectOpts(opts).op)
}

// SelectLastNodesCreated selects the surviving nodes added by the most recent
// operation that created nodes.
func (g *Graph) SelectLastNodesCreated() (*Graph, error) {
	const op = "select_last_nodes_created"
	if err := g.check(); err != nil {
		return g, opErr(op, err)
	}
	ids := slices.DeleteFunc(slices.Clone(g.created.nodes), func(id NodeID) bool { return !g.nodes.has(id) })
	return g.replaceNodeSelection(op, ids, SetReplace)
}

// SelectLastEdgesCreated selects the surviving edges added by the most recent
// operation that created edges.
func (g *Graph) SelectLastEdgesCreated() (*Graph, error) {
	const op = "select_last_edges_created"
	if err := g.check(); err != nil {
		return g, opErr(op, err)
	}
	ids := slices.DeleteFunc(slices.Clone(g.created.edges), func(id EdgeID) bool { return !g.edges.has(id) })
	return g.replaceEdgeSelection(op, ids, SetReplace)
}

// InvertNodeSelection selects every node not currently selected.
func (g *Graph) InvertNodeSelection() (*Graph, error) {
	const op = "invert_node_selection"
	if err := g.check(); err != nil {
		return g, opErr(op, err)
	}
	if g.sel.Nodes == nil {
		return g, opErr(op, ErrNoActiveSelection)
	}
	return g.replaceNodeSelection(op, difference(g.nodes.ids(), g.sel.Nodes), SetReplace)
}

// InvertEdgeSelection selects every edge not currently selected.
func (g *Graph) InvertEdgeSelection() (*Graph, error) {
	const op = "invert_edge_selection"
	if err := g.check(); err != nil {
		return g, opErr(op, err)
	}
	if g.sel.Edges == nil {
		return g, opErr(op, ErrNoActiveSelection)
	}
	return g.replaceEdgeSelection(op, difference(g.edges.ids(), g.sel.Edges), SetReplace)
}

// ClearSelection drops both the node and the edge selection.
func (g *Graph) ClearSelection() *Graph {
	next := g.shallow()
	next.sel = Selection{}
	return next
}

// SelectedNodes returns the selected node IDs in ascending order, or nil.
func (g *Graph) SelectedNodes() []NodeID { return slices.Clone(g.sel.Nodes) }

// SelectedEdges returns the selected edge IDs in ascending order, or nil.
func (g *Graph) SelectedEdges() []EdgeID { return slices.Clone(g.sel.Edges) }

// Selection returns a copy of the whole selection context.
func (g *Graph) Selection() Selection {
	return Selection{Nodes: g.SelectedNodes(), Edges: g.SelectedEdges()}
}

func (g *Graph) replaceNodeSelection(op string, ids []NodeID, how SetOp) (*Graph, error) {
	ids = combine(g.sel.Nodes, sortedSet(ids), how)
	if len(ids) == 0 {
		return g, opErr(op, ErrEmptySelection)
	}
	next := g.shallow()
	next.sel = Selection{Nodes: ids}
	return next, nil
}

func (g *Graph) replaceEdgeSelection(op string, ids []EdgeID, how SetOp) (*Graph, error) {
	ids = combine(g.sel.Edges, sortedSet(ids), how)
	if len(ids) == 0 {
		return g, opErr(op, ErrEmptySelection)
	}
	next := g.shallow()
	next.sel = Selection{Edges: ids}
	return next, nil
}

// pruneSelection removes IDs that no longer resolve. Sets pruned to nothing
// become absent.
func (g *Graph) pruneSelection() {
	if g.sel.Nodes != nil {
		g.sel.Nodes = nilIfEmpty(slices.DeleteFunc(slices.Clone(g.sel.Nodes), func(id NodeID) bool { return !g.nodes.has(id) }))
	}
	if g.sel.Edges != nil {
		g.sel.Edges = nilIfEmpty(slices.DeleteFunc(slices.Clone(g.sel.Edges), func(id EdgeID) bool { return !g.edges.has(id) }))
	}
}

func combine[ID ~int64](cur, fresh []ID, how SetOp) []ID {
	switch how {
	case SetUnion:
		return sortedSet(append(slices.Clone(cur), fresh...))
	case SetIntersect:
		return intersect(cur, fresh)
	case SetDifference:
		return difference(cur, fresh)
	}
	return fresh
}

// sortedSet returns ids ascending with duplicates removed, as a new slice.
func sortedSet[ID ~int64](ids []ID) []ID {
	out := slices.Clone(ids)
	slices.Sort(out)
	return nilIfEmpty(slices.Compact(out))
}

func intersect[ID ~int64](a, b []ID) []ID {
	var out []ID
	for _, id := range a {
		if _, ok := slices.BinarySearch(b, id); ok {
			out = append(out, id)
		}
	}
	return out
}

func difference[ID ~int64](a, b []ID) []ID {
	var out []ID
	for _, id := range a {
		if _, ok := slices.BinarySearch(b, id); !ok {
			out = append(out, id)
		}
	}
	return out
}

func nilIfEmpty[ID ~int64](ids []ID) []ID {
	if len(ids) == 0 {
		return nil
	}
	return ids
}
