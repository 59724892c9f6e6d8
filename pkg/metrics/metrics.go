// Package metrics provides graph algorithms that plug into graph.ApplyMetric.
// Each one reads copies of the node and edge tables and returns one value per
// node; the graph joins the values back by node ID.
package metrics

import (
	"context"
	"fmt"

	"github.com/DrSkyle/graphkit/pkg/graph"
)

// ByName returns the built-in metric registered under name.
func ByName(name string) (graph.Metric, error) {
	switch name {
	case "degree":
		return Degree{}, nil
	case "component":
		return Components{}, nil
	case "topo_order":
		return TopoOrder{}, nil
	case "reach":
		return Reach{}, nil
	}
	return nil, fmt.Errorf("unknown metric %q", name)
}

// index maps node IDs to dense positions in nodes.
func index(nodes []graph.Node) map[graph.NodeID]int {
	idx := make(map[graph.NodeID]int, len(nodes))
	for i, n := range nodes {
		idx[n.ID] = i
	}
	return idx
}

// adjacency lists successors by dense position. Undirected graphs get both
// directions.
func adjacency(nodes []graph.Node, edges []graph.Edge, directed bool) [][]int {
	idx := index(nodes)
	adj := make([][]int, len(nodes))
	for _, e := range edges {
		from, okFrom := idx[e.From]
		to, okTo := idx[e.To]
		if !okFrom || !okTo {
			continue
		}
		adj[from] = append(adj[from], to)
		if !directed && from != to {
			adj[to] = append(adj[to], from)
		}
	}
	return adj
}

func checkCtx(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("metric cancelled: %w", err)
	}
	return nil
}
