package metrics

import (
	"context"
	"fmt"

	"github.com/DrSkyle/graphkit/pkg/graph"
)

// Degree counts incident edges per node. The "mode" param selects "in",
// "out" or "total" (default). Self loops count once in each direction.
// Undirected graphs always report total degree.
type Degree struct{}

func (Degree) Compute(ctx context.Context, nodes []graph.Node, edges []graph.Edge, directed bool, params graph.Params) ([]graph.NodeValue, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	mode := "total"
	if v := params["mode"]; !v.IsMissing() {
		s, ok := v.Str()
		if !ok {
			return nil, fmt.Errorf("degree: mode must be a string, got %s", v)
		}
		mode = s
	}
	if mode != "in" && mode != "out" && mode != "total" {
		return nil, fmt.Errorf("degree: unknown mode %q", mode)
	}
	if !directed {
		mode = "total"
	}

	in := make(map[graph.NodeID]int)
	out := make(map[graph.NodeID]int)
	for _, e := range edges {
		out[e.From]++
		in[e.To]++
	}

	values := make([]graph.NodeValue, 0, len(nodes))
	for _, n := range nodes {
		var d int
		switch mode {
		case "in":
			d = in[n.ID]
		case "out":
			d = out[n.ID]
		default:
			d = in[n.ID] + out[n.ID]
		}
		values = append(values, graph.NodeValue{ID: n.ID, Value: graph.Number(float64(d))})
	}
	return values, nil
}
