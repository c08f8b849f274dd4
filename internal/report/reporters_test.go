package report

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/callwatch/callwatch/internal/classify"
	"github.com/callwatch/callwatch/internal/core/domain"
)

// mockReporter captures pushed records and optionally fails.
type mockReporter struct {
	calls  []*domain.CallResult
	usages []*domain.ResourceUsage
	err    error
}

func (m *mockReporter) ReportCall(ctx context.Context, r *domain.CallResult) error {
	m.calls = append(m.calls, r)
	return m.err
}

func (m *mockReporter) ReportResourceUsage(ctx context.Context, u *domain.ResourceUsage) error {
	m.usages = append(m.usages, u)
	return m.err
}

func TestSuccessReporter_PushesBothRecords(t *testing.T) {
	sink := &mockReporter{}
	b := NewBuilder(testIdentity, classify.Config{}, nil)
	p := NewSuccessReporter(b, sink, nil)

	call := callFor(t, "http://orders.callee.internal/v1/orders")
	call.Response = &domain.ResponseContext{StatusCode: http.StatusOK, Header: make(http.Header)}

	if err := p.Run(context.Background(), call); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sink.calls) != 1 || len(sink.usages) != 1 {
		t.Fatalf("pushed %d call results and %d usages, want 1 each", len(sink.calls), len(sink.usages))
	}
	if sink.calls[0].RetStatus != domain.RetSuccess {
		t.Errorf("retStatus = %v", sink.calls[0].RetStatus)
	}
}

func TestErrorReporter_PushesFailureRecords(t *testing.T) {
	sink := &mockReporter{}
	b := NewBuilder(testIdentity, classify.Config{}, nil)
	p := NewErrorReporter(b, sink, nil)

	call := callFor(t, "http://orders.callee.internal/v1/orders")
	call.Err = errors.New("broken pipe")

	if err := p.Run(context.Background(), call); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sink.calls) != 1 {
		t.Fatalf("pushed %d call results, want 1", len(sink.calls))
	}
	if sink.calls[0].RetCode != -1 || sink.calls[0].RetStatus != domain.RetFail {
		t.Errorf("record = %+v", sink.calls[0])
	}
}

func TestReporters_PushFailureDoesNotFailTheCall(t *testing.T) {
	sink := &mockReporter{err: errors.New("reporting backend down")}
	b := NewBuilder(testIdentity, classify.Config{}, nil)
	p := NewSuccessReporter(b, sink, nil)

	call := callFor(t, "http://orders.callee.internal/v1/orders")
	call.Response = &domain.ResponseContext{StatusCode: http.StatusOK, Header: make(http.Header)}

	if err := p.Run(context.Background(), call); err != nil {
		t.Fatalf("reporter outage must not propagate, got %v", err)
	}
}
