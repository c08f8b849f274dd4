package telemetry

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"testing"

	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/callwatch/callwatch/internal/core/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestInitTracer_WithExporter(t *testing.T) {
	exp := tracetest.NewInMemoryExporter()
	shutdown, err := InitTracer("callwatch-test", discardLogger(), WithExporter(exp))
	if err != nil {
		t.Fatalf("InitTracer() error = %v", err)
	}

	start, end := SpanPlugins()

	u, err := url.Parse("http://orders.callee.internal/v1/orders")
	if err != nil {
		t.Fatal(err)
	}
	call := domain.NewCallContext(&domain.RequestContext{
		URL:    u,
		Method: http.MethodGet,
		Header: make(http.Header),
	})

	ctx := context.Background()
	if err := start.Run(ctx, call); err != nil {
		t.Fatalf("span start error = %v", err)
	}
	call.Response = &domain.ResponseContext{StatusCode: http.StatusOK, Header: make(http.Header)}
	if err := end.Run(ctx, call); err != nil {
		t.Fatalf("span end error = %v", err)
	}

	// Shutdown flushes the batcher into the exporter.
	if err := shutdown(ctx); err != nil {
		t.Fatalf("shutdown error = %v", err)
	}

	spans := exp.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("exported spans = %d, want 1", len(spans))
	}
	span := spans[0]
	if span.Name != "callwatch.outbound" {
		t.Errorf("span name = %q", span.Name)
	}
	if span.SpanKind != trace.SpanKindClient {
		t.Errorf("span kind = %v, want client", span.SpanKind)
	}

	attrs := make(map[string]string)
	status := -1
	for _, kv := range span.Attributes {
		switch string(kv.Key) {
		case "url.full":
			attrs["url.full"] = kv.Value.AsString()
		case "callwatch.call_id":
			attrs["callwatch.call_id"] = kv.Value.AsString()
		case "http.status_code":
			status = int(kv.Value.AsInt64())
		}
	}
	if attrs["url.full"] != u.String() {
		t.Errorf("url attribute = %q", attrs["url.full"])
	}
	if attrs["callwatch.call_id"] != call.ID {
		t.Errorf("call_id attribute = %q, want %q", attrs["callwatch.call_id"], call.ID)
	}
	if status != http.StatusOK {
		t.Errorf("status attribute = %d, want 200", status)
	}
}
