package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/callwatch/callwatch/internal/core/domain"
	"github.com/callwatch/callwatch/internal/core/ports"
)

// spanValueKey is where the open span lives in CallContext.Values between
// the PRE and FINALLY phases.
const spanValueKey = "telemetry.span"

// SpanStart opens a client span for the call in the PRE phase.
type SpanStart struct {
	tracer trace.Tracer
}

// SpanEnd closes the call span in the FINALLY phase, recording the
// outcome.
type SpanEnd struct{}

// SpanPlugins returns the start/end plugin pair. Register both, or
// neither.
func SpanPlugins() (*SpanStart, *SpanEnd) {
	return &SpanStart{tracer: otel.Tracer("callwatch")}, &SpanEnd{}
}

func (*SpanStart) Name() string       { return "otel-span-start" }
func (*SpanStart) Phase() ports.Phase { return ports.PhasePre }

func (p *SpanStart) Run(ctx context.Context, call *domain.CallContext) error {
	_, span := p.tracer.Start(ctx, "callwatch.outbound",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", call.Request.Method),
			attribute.String("url.full", call.Request.URL.String()),
			attribute.String("callwatch.call_id", call.ID),
		),
	)
	call.Values[spanValueKey] = span
	return nil
}

func (*SpanEnd) Name() string       { return "otel-span-end" }
func (*SpanEnd) Phase() ports.Phase { return ports.PhaseFinally }

func (*SpanEnd) Run(ctx context.Context, call *domain.CallContext) error {
	span, ok := call.Values[spanValueKey].(trace.Span)
	if !ok {
		return nil
	}
	if call.Response != nil {
		span.SetAttributes(attribute.Int("http.status_code", call.Response.StatusCode))
	}
	if call.Err != nil {
		span.RecordError(call.Err)
		span.SetStatus(codes.Error, call.Err.Error())
	}
	span.End()
	return nil
}

var (
	_ ports.Plugin = (*SpanStart)(nil)
	_ ports.Plugin = (*SpanEnd)(nil)
)
