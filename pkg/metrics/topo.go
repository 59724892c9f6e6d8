package metrics

import (
	"context"
	"errors"
	"fmt"

	"github.com/DrSkyle/graphkit/pkg/graph"
)

// ErrCycle is returned by TopoOrder when the graph is not acyclic.
var ErrCycle = errors.New("graph contains a cycle")

// TopoOrder assigns each node its 1-based position in a topological order
// where every edge runs from an earlier to a later node. The order is
// deterministic for a given graph. Undirected graphs are rejected.
type TopoOrder struct{}

func (TopoOrder) Compute(ctx context.Context, nodes []graph.Node, edges []graph.Edge, directed bool, _ graph.Params) ([]graph.NodeValue, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	if !directed {
		return nil, errors.New("topo_order: graph is undirected")
	}
	adj := adjacency(nodes, edges, true)

	const (
		unvisited = iota
		inProgress
		done
	)
	state := make([]int, len(nodes))
	order := make([]int, 0, len(nodes))
	cycleAt := -1

	var visit func(i int)
	visit = func(i int) {
		state[i] = inProgress
		for _, j := range adj[i] {
			switch state[j] {
			case inProgress:
				cycleAt = j
				return
			case unvisited:
				visit(j)
			}
			if cycleAt >= 0 {
				return
			}
		}
		state[i] = done
		order = append(order, i)
	}

	// Roots in descending ID order, so the reversed post-order keeps
	// unrelated nodes ascending.
	for i := len(nodes) - 1; i >= 0; i-- {
		if state[i] == unvisited {
			visit(i)
			if cycleAt >= 0 {
				return nil, fmt.Errorf("topo_order: %w involving node %d", ErrCycle, nodes[cycleAt].ID)
			}
		}
	}

	values := make([]graph.NodeValue, len(nodes))
	for pos := range order {
		i := order[len(order)-1-pos]
		values[pos] = graph.NodeValue{ID: nodes[i].ID, Value: graph.Number(float64(pos + 1))}
	}
	return values, nil
}
