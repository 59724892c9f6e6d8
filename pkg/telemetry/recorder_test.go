package telemetry

import (
	"context"
	"testing"

	"github.com/DrSkyle/graphkit/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestRecorderSpansPerCycle(t *testing.T) {
	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	rec, err := NewRecorder(WithTracerProvider(tp), WithMeterProvider(noop.NewMeterProvider()))
	require.NoError(t, err)

	g := graph.New(graph.WithID("g1"), graph.WithObserver(rec))
	g, _ = g.AddTrigger(graph.Trigger{Name: "tag", Action: func(g *graph.Graph) (*graph.Graph, error) {
		g, err := g.SelectNodes(nil)
		if err != nil {
			return g, err
		}
		return g.SetSelectedNodeAttr("seen", graph.Bool(true))
	}})
	g, _, err = g.AddNodes(graph.NodeSpec{}, graph.NodeSpec{})
	require.NoError(t, err)
	_, err = g.SelectNodes(nil)
	require.NoError(t, err)

	ended := spans.Ended()
	require.Len(t, ended, 1)
	span := ended[0]
	assert.Equal(t, "add_n_nodes", span.Name())
	assert.Contains(t, span.Attributes(), attribute.String("graph.id", "g1"))
	assert.Contains(t, span.Attributes(), attribute.Int("graph.entries", 2))

	var events []string
	for _, e := range span.Events() {
		events = append(events, e.Name)
	}
	assert.Equal(t, []string{"add_n_nodes", "set_node_attrs_ws"}, events)
}

func TestRecorderIgnoresEmptyEvents(t *testing.T) {
	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	rec, err := NewRecorder(WithTracerProvider(tp))
	require.NoError(t, err)

	require.NoError(t, rec.OnChange(context.Background(), graph.Event{Graph: graph.New()}))
	assert.Empty(t, spans.Ended())
}
