package graph

import (
	"fmt"
	"slices"

	"github.com/DrSkyle/graphkit/pkg/config"
)

// Snapshot is the serialisable form of a graph state. Trigger actions are
// functions and cannot be saved; only their names are recorded.
type Snapshot struct {
	ID          string             `json:"graph_id"`
	Directed    bool               `json:"directed"`
	Config      config.GraphConfig `json:"config"`
	Nodes       []Node             `json:"nodes"`
	Edges       []Edge             `json:"edges"`
	NodeColumns []string           `json:"node_columns,omitempty"`
	EdgeColumns []string           `json:"edge_columns,omitempty"`
	LastNodeID  NodeID             `json:"last_node"`
	LastEdgeID  EdgeID             `json:"last_edge"`
	Selection   Selection          `json:"selection"`
	Log         []LogEntry         `json:"graph_log"`
	Triggers    []string           `json:"graph_actions,omitempty"`
}

// Snapshot captures the current state.
func (g *Graph) Snapshot() Snapshot {
	return Snapshot{
		ID:          g.id,
		Directed:    g.directed,
		Config:      g.cfg,
		Nodes:       g.Nodes(),
		Edges:       g.Edges(),
		NodeColumns: g.NodeColumns(),
		EdgeColumns: g.EdgeColumns(),
		LastNodeID:  g.nodes.last,
		LastEdgeID:  g.edges.last,
		Selection:   g.Selection(),
		Log:         g.Log(),
		Triggers:    g.Triggers(),
	}
}

// Restore rebuilds a graph from a snapshot after checking its structural
// invariants. Options are applied after the snapshot's own settings, so
// loggers, clocks and observers can be attached. Triggers are not restored.
func Restore(s Snapshot, opts ...Option) (*Graph, error) {
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("restore graph %s: %w", s.ID, err)
	}
	base := []Option{WithConfig(s.Config), WithDirected(s.Directed), WithID(s.ID)}
	g := New(append(base, opts...)...)

	g.nodes.last = s.LastNodeID
	g.edges.last = s.LastEdgeID
	g.nodes.cols = slices.Clone(s.NodeColumns)
	g.edges.cols = slices.Clone(s.EdgeColumns)
	for _, n := range s.Nodes {
		g.nodes.append(n.clone())
	}
	for _, e := range s.Edges {
		g.edges.append(e.clone())
	}
	g.sel = Selection{Nodes: sortedSet(s.Selection.Nodes), Edges: sortedSet(s.Selection.Edges)}
	g.log = slices.Clone(s.Log)
	return g, nil
}

func (s Snapshot) validate() error {
	var prevN NodeID
	for _, n := range s.Nodes {
		if n.ID <= prevN || n.ID > s.LastNodeID {
			return fmt.Errorf("%w: node id %d out of order or above watermark %d", ErrInvalidGraphState, n.ID, s.LastNodeID)
		}
		if err := checkAttrs(n.Attrs, reservedNodeAttrs); err != nil {
			return fmt.Errorf("%w: node %d: %v", ErrInvalidGraphState, n.ID, err)
		}
		prevN = n.ID
	}
	nodes := table[NodeID, Node]{rows: s.Nodes}
	var prevE EdgeID
	for _, e := range s.Edges {
		if e.ID <= prevE || e.ID > s.LastEdgeID {
			return fmt.Errorf("%w: edge id %d out of order or above watermark %d", ErrInvalidGraphState, e.ID, s.LastEdgeID)
		}
		if !nodes.has(e.From) || !nodes.has(e.To) {
			return fmt.Errorf("%w: edge %d references missing node", ErrInvalidGraphState, e.ID)
		}
		if err := checkAttrs(e.Attrs, reservedEdgeAttrs); err != nil {
			return fmt.Errorf("%w: edge %d: %v", ErrInvalidGraphState, e.ID, err)
		}
		prevE = e.ID
	}
	edges := table[EdgeID, Edge]{rows: s.Edges}
	for _, id := range s.Selection.Nodes {
		if !nodes.has(id) {
			return fmt.Errorf("%w: selected node %d does not exist", ErrInvalidGraphState, id)
		}
	}
	for _, id := range s.Selection.Edges {
		if !edges.has(id) {
			return fmt.Errorf("%w: selected edge %d does not exist", ErrInvalidGraphState, id)
		}
	}
	for i, entry := range s.Log {
		if entry.Seq != i+1 {
			return fmt.Errorf("%w: log entry %d has sequence %d", ErrInvalidGraphState, i+1, entry.Seq)
		}
	}
	return nil
}
