// Package telemetry wires OpenTelemetry tracing into the call pipeline.
package telemetry

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

// TracerOption configures InitTracer.
type TracerOption func(*tracerOptions)

type tracerOptions struct {
	exporter sdktrace.SpanExporter
}

// WithExporter replaces the default stdout exporter, e.g. with an OTLP
// sink or an in-memory exporter in tests.
func WithExporter(exp sdktrace.SpanExporter) TracerOption {
	return func(o *tracerOptions) {
		o.exporter = exp
	}
}

// InitTracer installs the global tracer provider for call spans and
// returns its shutdown function. Without options, spans are
// pretty-printed to stdout.
func InitTracer(serviceName string, logger *slog.Logger, opts ...TracerOption) (func(context.Context) error, error) {
	var o tracerOptions
	for _, opt := range opts {
		opt(&o)
	}

	if o.exporter == nil {
		exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, err
		}
		o.exporter = exp
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			"",
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(o.exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)

	logger.Info("tracing initialized", slog.String("service", serviceName))

	return tp.Shutdown, nil
}
