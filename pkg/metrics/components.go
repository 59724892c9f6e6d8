package metrics

import (
	"context"

	"github.com/DrSkyle/graphkit/pkg/graph"
)

// Components labels each node with its weakly connected component. Labels
// start at 1 and follow the smallest node ID in each component, so they are
// stable for a given graph.
type Components struct{}

func (Components) Compute(ctx context.Context, nodes []graph.Node, edges []graph.Edge, _ bool, _ graph.Params) ([]graph.NodeValue, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	idx := index(nodes)
	uf := newUnionFind(len(nodes))
	for _, e := range edges {
		from, okFrom := idx[e.From]
		to, okTo := idx[e.To]
		if okFrom && okTo {
			uf.union(from, to)
		}
	}

	// nodes arrive in ascending ID order, so the first member seen names
	// the component.
	label := make(map[int]int)
	values := make([]graph.NodeValue, 0, len(nodes))
	for i, n := range nodes {
		root := uf.find(i)
		l, ok := label[root]
		if !ok {
			l = len(label) + 1
			label[root] = l
		}
		values = append(values, graph.NodeValue{ID: n.ID, Value: graph.Number(float64(l))})
	}
	return values, nil
}

// unionFind is a disjoint set over dense positions with path compression and
// union by rank.
type unionFind struct {
	parent []int
	rank   []int
}

func newUnionFind(n int) *unionFind {
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	return &unionFind{parent: parent, rank: make([]int, n)}
}

func (uf *unionFind) find(i int) int {
	if uf.parent[i] != i {
		uf.parent[i] = uf.find(uf.parent[i])
	}
	return uf.parent[i]
}

func (uf *unionFind) union(i, j int) {
	ri, rj := uf.find(i), uf.find(j)
	if ri == rj {
		return
	}
	switch {
	case uf.rank[ri] < uf.rank[rj]:
		uf.parent[ri] = rj
	case uf.rank[ri] > uf.rank[rj]:
		uf.parent[rj] = ri
	default:
		uf.parent[rj] = ri
		uf.rank[ri]++
	}
}
