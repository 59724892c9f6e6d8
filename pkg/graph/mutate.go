package graph

import (
	"fmt"

	"github.com/DrSkyle/graphkit/pkg/config"
)

// AddNode appends a node and returns its ID.
func (g *Graph) AddNode(spec NodeSpec) (*Graph, NodeID, error) {
	next, ids, err := g.addNodes("add_node", []NodeSpec{spec})
	if len(ids) == 0 {
		return next, 0, err
	}
	return next, ids[0], err
}

// AddNodes appends several nodes as one logical operation.
func (g *Graph) AddNodes(specs ...NodeSpec) (*Graph, []NodeID, error) {
	return g.addNodes("add_n_nodes", specs)
}

func (g *Graph) addNodes(op string, specs []NodeSpec) (*Graph, []NodeID, error) {
	var ids []NodeID
	next, err := g.apply(op, func(next *Graph) error {
		if len(specs) == 0 {
			return fmt.Errorf("%w: no node specs given", ErrEmptyBatch)
		}
		for _, s := range specs {
			if err := checkType(s.Type, "node type"); err != nil {
				return err
			}
			if err := checkAttrs(s.Attrs, reservedNodeAttrs); err != nil {
				return err
			}
		}
		for _, s := range specs {
			id := next.nodes.nextID()
			next.nodes.append(Node{ID: id, Type: s.Type, Attrs: cloneAttrs(s.Attrs)})
			ids = append(ids, id)
		}
		next.created.nodes = ids
		return nil
	})
	if next == g {
		return g, nil, err
	}
	return next, ids, err
}

// AddEdge appends an edge between two existing nodes and returns its ID.
func (g *Graph) AddEdge(spec EdgeSpec) (*Graph, EdgeID, error) {
	var id EdgeID
	next, err := g.apply("add_edge", func(next *Graph) error {
		if err := next.checkEdgeSpec(spec); err != nil {
			return err
		}
		id = next.insertEdge(spec)
		next.created.edges = []EdgeID{id}
		return nil
	})
	if next == g {
		return g, 0, err
	}
	return next, id, err
}

func (g *Graph) checkEdgeSpec(spec EdgeSpec) error {
	if !g.nodes.has(spec.From) {
		return fmt.Errorf("%w: from node %d does not exist", ErrInvalidReference, spec.From)
	}
	if !g.nodes.has(spec.To) {
		return fmt.Errorf("%w: to node %d does not exist", ErrInvalidReference, spec.To)
	}
	if err := checkType(spec.Rel, "edge rel"); err != nil {
		return err
	}
	return checkAttrs(spec.Attrs, reservedEdgeAttrs)
}

func (g *Graph) insertEdge(spec EdgeSpec) EdgeID {
	id := g.edges.nextID()
	g.edges.append(Edge{ID: id, From: spec.From, To: spec.To, Rel: spec.Rel, Attrs: cloneAttrs(spec.Attrs)})
	return id
}

// RemoveNode deletes a node. Incident edges are removed or block the
// deletion according to the configured delete policy.
func (g *Graph) RemoveNode(id NodeID) (*Graph, error) {
	return g.apply("delete_node", func(next *Graph) error {
		if !next.nodes.has(id) {
			return fmt.Errorf("%w: node %d does not exist", ErrInvalidReference, id)
		}
		return next.removeNodes(map[NodeID]bool{id: true})
	})
}

// RemoveEdge deletes an edge.
func (g *Graph) RemoveEdge(id EdgeID) (*Graph, error) {
	return g.apply("delete_edge", func(next *Graph) error {
		if !next.edges.has(id) {
			return fmt.Errorf("%w: edge %d does not exist", ErrInvalidReference, id)
		}
		next.edges.remove(map[EdgeID]bool{id: true})
		next.pruneSelection()
		return nil
	})
}

// removeNodes deletes the nodes in ids, honouring the delete policy, and
// prunes the selection.
func (g *Graph) removeNodes(ids map[NodeID]bool) error {
	incident := make(map[EdgeID]bool)
	for _, e := range g.edges.rows {
		if ids[e.From] || ids[e.To] {
			incident[e.ID] = true
		}
	}
	if len(incident) > 0 && g.cfg.DeletePolicy == config.DeleteForbid {
		return fmt.Errorf("%w: %d edges", ErrNodeReferenced, len(incident))
	}
	g.edges.remove(incident)
	g.nodes.remove(ids)
	g.pruneSelection()
	return nil
}
