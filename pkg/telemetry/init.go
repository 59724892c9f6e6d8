// Package telemetry wires OpenTelemetry tracing and mutation metrics.
package telemetry

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/DrSkyle/graphkit/pkg/config"
	"github.com/DrSkyle/graphkit/pkg/version"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

// Resource attribute keys describing the graph settings a process runs with.
const (
	attrDirected     = attribute.Key("graphkit.directed")
	attrDeletePolicy = attribute.Key("graphkit.delete_policy")
	attrBackups      = attribute.Key("graphkit.backups")
	attrLedger       = attribute.Key("graphkit.ledger")
)

// Init installs the global tracer provider for a CLI session. Spans go to
// endpoint, or OTEL_EXPORTER_OTLP_ENDPOINT when endpoint is empty, and are
// discarded when neither is set. The returned function flushes and shuts the
// provider down.
func Init(ctx context.Context, cfg config.GraphConfig, endpoint string) (func(context.Context) error, error) {
	res, err := newResource(cfg)
	if err != nil {
		return nil, err
	}
	exporter, err := newExporter(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
	return tp.Shutdown, nil
}

func newResource(cfg config.GraphConfig) (*resource.Resource, error) {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(version.AppName),
			semconv.ServiceVersion(version.Current),
			attrDirected.Bool(cfg.Directed),
			attrDeletePolicy.String(string(cfg.DeletePolicy)),
			attrBackups.Bool(cfg.WriteBackups),
			attrLedger.Bool(cfg.LedgerPath != ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	return res, nil
}

func newExporter(ctx context.Context, endpoint string) (sdktrace.SpanExporter, error) {
	if endpoint == "" {
		endpoint = os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	}
	if endpoint == "" {
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(io.Discard))
		if err != nil {
			return nil, fmt.Errorf("failed to create stdout exporter: %w", err)
		}
		return exporter, nil
	}
	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(endpoint))
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter for %s: %w", endpoint, err)
	}
	return exporter, nil
}

// Tracer returns a named tracer from the global provider.
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}
