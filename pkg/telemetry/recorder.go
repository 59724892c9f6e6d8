package telemetry

import (
	"context"
	"fmt"

	"github.com/DrSkyle/graphkit/pkg/graph"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/DrSkyle/graphkit/pkg/telemetry"

// Recorder is a graph.Observer that turns committed mutation cycles into
// spans and counters.
type Recorder struct {
	tracer     trace.Tracer
	operations metric.Int64Counter
	nodeDelta  metric.Int64UpDownCounter
	edgeDelta  metric.Int64UpDownCounter
}

// RecorderOption overrides the providers a Recorder uses.
type RecorderOption func(*recorderConfig)

type recorderConfig struct {
	tp trace.TracerProvider
	mp metric.MeterProvider
}

// WithTracerProvider sets the tracer provider. Defaults to the global one.
func WithTracerProvider(tp trace.TracerProvider) RecorderOption {
	return func(c *recorderConfig) { c.tp = tp }
}

// WithMeterProvider sets the meter provider. Defaults to the global one.
func WithMeterProvider(mp metric.MeterProvider) RecorderOption {
	return func(c *recorderConfig) { c.mp = mp }
}

// NewRecorder creates the instruments.
func NewRecorder(opts ...RecorderOption) (*Recorder, error) {
	cfg := recorderConfig{tp: otel.GetTracerProvider(), mp: otel.GetMeterProvider()}
	for _, opt := range opts {
		opt(&cfg)
	}
	meter := cfg.mp.Meter(instrumentationName)

	ops, err := meter.Int64Counter("graphkit.operations",
		metric.WithDescription("Logged graph mutations"),
		metric.WithUnit("{operation}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create operations counter: %w", err)
	}
	dn, err := meter.Int64UpDownCounter("graphkit.nodes.delta",
		metric.WithDescription("Net change in node count"),
		metric.WithUnit("{node}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create node counter: %w", err)
	}
	de, err := meter.Int64UpDownCounter("graphkit.edges.delta",
		metric.WithDescription("Net change in edge count"),
		metric.WithUnit("{edge}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create edge counter: %w", err)
	}

	return &Recorder{
		tracer:     cfg.tp.Tracer(instrumentationName),
		operations: ops,
		nodeDelta:  dn,
		edgeDelta:  de,
	}, nil
}

// OnChange implements graph.Observer. One span covers the cycle; each log
// entry becomes a span event.
func (r *Recorder) OnChange(ctx context.Context, ev graph.Event) error {
	if len(ev.Entries) == 0 {
		return nil
	}
	first := ev.Entries[0]
	ctx, span := r.tracer.Start(ctx, first.Op,
		trace.WithTimestamp(first.Time),
		trace.WithAttributes(
			attribute.String("graph.id", ev.Graph.ID()),
			attribute.Int("graph.nodes", ev.Graph.CountNodes()),
			attribute.Int("graph.edges", ev.Graph.CountEdges()),
			attribute.Int("graph.entries", len(ev.Entries)),
		))
	defer span.End()

	for _, e := range ev.Entries {
		attrs := metric.WithAttributes(attribute.String("op", e.Op))
		r.operations.Add(ctx, 1, attrs)
		r.nodeDelta.Add(ctx, int64(e.DN), attrs)
		r.edgeDelta.Add(ctx, int64(e.DE), attrs)
		span.AddEvent(e.Op, trace.WithAttributes(
			attribute.Int("version_id", e.Seq),
			attribute.Int("d_n", e.DN),
			attribute.Int("d_e", e.DE),
			attribute.Int64("duration_ns", e.Duration.Nanoseconds()),
		))
	}
	return nil
}
