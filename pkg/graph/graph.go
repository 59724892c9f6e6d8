// Package graph implements an immutable, table-backed graph object model with
// a selection context, traversal, a mutation log and deferred triggers.
//
// Every operation returns a new *Graph and leaves its receiver untouched, so
// graph values can be chained, shared between readers and kept as history.
package graph

import (
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/DrSkyle/graphkit/pkg/config"
	"github.com/google/uuid"
)

// Graph is one immutable state of the graph.
type Graph struct {
	id       string
	directed bool
	cfg      config.GraphConfig

	nodes nodeTable
	edges edgeTable
	sel   Selection

	log      []LogEntry
	triggers []Trigger
	created  created

	// inTrigger is set while deferred actions run so that operations they
	// perform do not start another trigger cycle.
	inTrigger bool

	rt *runtime
}

// created remembers the elements added by the last creating operation.
type created struct {
	nodes []NodeID
	edges []EdgeID
}

// runtime is shared by every Graph derived from the same New call.
type runtime struct {
	logger    *slog.Logger
	now       func() time.Time
	observers []Observer
}

// Option defines a functional configuration override.
type Option func(*Graph)

// New returns an empty graph.
func New(opts ...Option) *Graph {
	cfg := config.DefaultGraphConfig()
	g := &Graph{
		id:       uuid.NewString(),
		directed: cfg.Directed,
		cfg:      cfg,
		rt: &runtime{
			logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
			now:    time.Now,
		},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(g *Graph) {
		if l != nil {
			g.rt.logger = l
		}
	}
}

// WithClock overrides the time source used for log entries.
func WithClock(now func() time.Time) Option {
	return func(g *Graph) {
		if now != nil {
			g.rt.now = now
		}
	}
}

// WithConfig sets the graph configuration, including the directed flag.
func WithConfig(cfg config.GraphConfig) Option {
	return func(g *Graph) {
		g.cfg = cfg
		g.directed = cfg.Directed
	}
}

// WithDirected marks the graph as directed or undirected.
func WithDirected(directed bool) Option {
	return func(g *Graph) {
		g.directed = directed
		g.cfg.Directed = directed
	}
}

// WithID fixes the graph ID instead of generating one.
func WithID(id string) Option {
	return func(g *Graph) {
		if id != "" {
			g.id = id
		}
	}
}

// WithObserver registers an observer. Observers are called in registration
// order after each committed mutation cycle.
func WithObserver(o Observer) Option {
	return func(g *Graph) {
		if o != nil {
			g.rt.observers = append(g.rt.observers, o)
		}
	}
}

func (g *Graph) ID() string                 { return g.id }
func (g *Graph) Directed() bool             { return g.directed }
func (g *Graph) Config() config.GraphConfig { return g.cfg }
func (g *Graph) Logger() *slog.Logger       { return g.rt.logger }

func (g *Graph) CountNodes() int { return g.nodes.len() }
func (g *Graph) CountEdges() int { return g.edges.len() }

// Nodes returns a copy of the node table in ascending ID order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, len(g.nodes.rows))
	for i, n := range g.nodes.rows {
		out[i] = n.clone()
	}
	return out
}

// Edges returns a copy of the edge table in ascending ID order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges.rows))
	for i, e := range g.edges.rows {
		out[i] = e.clone()
	}
	return out
}

func (g *Graph) Node(id NodeID) (Node, bool) {
	n, ok := g.nodes.get(id)
	return n.clone(), ok
}

func (g *Graph) Edge(id EdgeID) (Edge, bool) {
	e, ok := g.edges.get(id)
	return e.clone(), ok
}

// NodeColumns lists the node attribute columns in creation order.
func (g *Graph) NodeColumns() []string { return slices.Clone(g.nodes.cols) }

// EdgeColumns lists the edge attribute columns in creation order.
func (g *Graph) EdgeColumns() []string { return slices.Clone(g.edges.cols) }

// LastNodeID is the highest node ID ever allocated.
func (g *Graph) LastNodeID() NodeID { return g.nodes.last }

// LastEdgeID is the highest edge ID ever allocated.
func (g *Graph) LastEdgeID() EdgeID { return g.edges.last }

// check rejects graphs not built by New or Restore.
func (g *Graph) check() error {
	if g == nil || g.rt == nil {
		return ErrInvalidGraphState
	}
	return nil
}

// shallow copies the Graph header. Tables and slices stay shared, which is
// safe because committed graphs are never written.
func (g *Graph) shallow() *Graph {
	c := *g
	return &c
}

// clone copies the tables so the copy can be edited.
func (g *Graph) clone() *Graph {
	c := *g
	c.nodes = g.nodes.clone()
	c.edges = g.edges.clone()
	return &c
}
