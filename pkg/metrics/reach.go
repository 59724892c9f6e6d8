package metrics

import (
	"context"

	"github.com/DrSkyle/graphkit/pkg/graph"
)

// Reach counts the nodes reachable from each node by following edges
// forward, not counting the node itself.
type Reach struct{}

func (Reach) Compute(ctx context.Context, nodes []graph.Node, edges []graph.Edge, directed bool, _ graph.Params) ([]graph.NodeValue, error) {
	adj := adjacency(nodes, edges, directed)
	values := make([]graph.NodeValue, 0, len(nodes))
	visited := make([]int, len(nodes))
	for i := range visited {
		visited[i] = -1
	}

	for start, n := range nodes {
		if err := checkCtx(ctx); err != nil {
			return nil, err
		}
		// visited holds the start position of the BFS that last saw a node,
		// so the slice is reused across searches without clearing.
		visited[start] = start
		queue := []int{start}
		count := 0
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, next := range adj[cur] {
				if visited[next] == start {
					continue
				}
				visited[next] = start
				count++
				queue = append(queue, next)
			}
		}
		values = append(values, graph.NodeValue{ID: n.ID, Value: graph.Number(float64(count))})
	}
	return values, nil
}
