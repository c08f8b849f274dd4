package pipeline

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/callwatch/callwatch/internal/core/domain"
	"github.com/callwatch/callwatch/internal/core/ports"
)

// mockPlugin records invocations into a shared trace and returns a
// configured error.
type mockPlugin struct {
	name  string
	phase ports.Phase
	err   error
	trace *[]string
}

func (p *mockPlugin) Name() string       { return p.name }
func (p *mockPlugin) Phase() ports.Phase { return p.phase }

func (p *mockPlugin) Run(ctx context.Context, call *domain.CallContext) error {
	*p.trace = append(*p.trace, p.name)
	return p.err
}

func newCall(t *testing.T) *domain.CallContext {
	t.Helper()
	u, err := url.Parse("http://callee-svc/echo")
	if err != nil {
		t.Fatal(err)
	}
	return domain.NewCallContext(&domain.RequestContext{URL: u, Method: "GET"})
}

func TestRunner_RegistrationOrder(t *testing.T) {
	var trace []string
	r := NewRunner(nil,
		&mockPlugin{name: "first", phase: ports.PhasePre, trace: &trace},
		&mockPlugin{name: "post-only", phase: ports.PhasePost, trace: &trace},
		&mockPlugin{name: "second", phase: ports.PhasePre, trace: &trace},
	)

	if err := r.Run(context.Background(), ports.PhasePre, newCall(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.Join(trace, ","); got != "first,second" {
		t.Errorf("pre phase trace = %q, want %q", got, "first,second")
	}
}

func TestRunner_SharedContext(t *testing.T) {
	var trace []string
	writer := &mockPlugin{name: "writer", phase: ports.PhasePre, trace: &trace}
	r := NewRunner(nil, writer)

	call := newCall(t)
	call.Values["k"] = "v"
	if err := r.Run(context.Background(), ports.PhasePre, call); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if call.Values["k"] != "v" {
		t.Error("call context values must survive a phase run")
	}
	if call.ID == "" {
		t.Error("call context must carry an ID")
	}
}

func TestRunner_PreErrorAbortsPhase(t *testing.T) {
	var trace []string
	boom := errors.New("boom")
	r := NewRunner(nil,
		&mockPlugin{name: "ok", phase: ports.PhasePre, trace: &trace},
		&mockPlugin{name: "bad", phase: ports.PhasePre, err: boom, trace: &trace},
		&mockPlugin{name: "skipped", phase: ports.PhasePre, trace: &trace},
	)

	err := r.Run(context.Background(), ports.PhasePre, newCall(t))
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped plugin error, got %v", err)
	}
	if got := strings.Join(trace, ","); got != "ok,bad" {
		t.Errorf("trace = %q, want %q (remaining plugins aborted)", got, "ok,bad")
	}
}

func TestRunner_FinallyErrorsAreSwallowed(t *testing.T) {
	var trace []string
	r := NewRunner(nil,
		&mockPlugin{name: "bad-cleanup", phase: ports.PhaseFinally, err: errors.New("boom"), trace: &trace},
		&mockPlugin{name: "good-cleanup", phase: ports.PhaseFinally, trace: &trace},
	)

	if err := r.Run(context.Background(), ports.PhaseFinally, newCall(t)); err != nil {
		t.Fatalf("finally phase must not propagate plugin errors, got %v", err)
	}
	if got := strings.Join(trace, ","); got != "bad-cleanup,good-cleanup" {
		t.Errorf("trace = %q, want both cleanup plugins to run", got)
	}
}

func TestRunner_EmptyPhase(t *testing.T) {
	r := NewRunner(nil)
	if err := r.Run(context.Background(), ports.PhasePost, newCall(t)); err != nil {
		t.Fatalf("empty phase should be a no-op, got %v", err)
	}
}
