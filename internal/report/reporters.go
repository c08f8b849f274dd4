package report

import (
	"context"
	"log/slog"

	"github.com/callwatch/callwatch/internal/core/domain"
	"github.com/callwatch/callwatch/internal/core/ports"
)

// SuccessReporter is the POST-phase plugin that builds and pushes records
// for calls that returned a response.
type SuccessReporter struct {
	base
}

// ErrorReporter is the EXCEPTION-phase plugin that builds and pushes
// records for calls that failed at the transport level.
type ErrorReporter struct {
	base
}

// base holds the shared build-and-push behavior of the two reporter
// plugins. A push failure is logged, never returned: reporting outages
// must not affect the instrumented call.
type base struct {
	builder  *Builder
	reporter ports.Reporter
	logger   *slog.Logger
}

// NewSuccessReporter creates the POST-phase reporter plugin.
func NewSuccessReporter(builder *Builder, reporter ports.Reporter, logger *slog.Logger) *SuccessReporter {
	return &SuccessReporter{base: newBase(builder, reporter, logger)}
}

// NewErrorReporter creates the EXCEPTION-phase reporter plugin.
func NewErrorReporter(builder *Builder, reporter ports.Reporter, logger *slog.Logger) *ErrorReporter {
	return &ErrorReporter{base: newBase(builder, reporter, logger)}
}

func newBase(builder *Builder, reporter ports.Reporter, logger *slog.Logger) base {
	if logger == nil {
		logger = slog.Default()
	}
	return base{builder: builder, reporter: reporter, logger: logger}
}

func (*SuccessReporter) Name() string       { return "success-call-reporter" }
func (*SuccessReporter) Phase() ports.Phase { return ports.PhasePost }

func (*ErrorReporter) Name() string       { return "error-call-reporter" }
func (*ErrorReporter) Phase() ports.Phase { return ports.PhaseException }

func (r *SuccessReporter) Run(ctx context.Context, call *domain.CallContext) error {
	r.push(ctx, call)
	return nil
}

func (r *ErrorReporter) Run(ctx context.Context, call *domain.CallContext) error {
	r.push(ctx, call)
	return nil
}

func (b *base) push(ctx context.Context, call *domain.CallContext) {
	result := b.builder.CallResult(call)
	if err := b.reporter.ReportCall(ctx, result); err != nil {
		b.logger.Error("report call result failed",
			slog.String("call_id", call.ID),
			slog.String("service", result.Service),
			slog.String("error", err.Error()),
		)
	}
	usage := b.builder.ResourceUsage(call)
	if err := b.reporter.ReportResourceUsage(ctx, usage); err != nil {
		b.logger.Error("report resource usage failed",
			slog.String("call_id", call.ID),
			slog.String("service", usage.Resource.Callee.Service),
			slog.String("error", err.Error()),
		)
	}
}

var (
	_ ports.Plugin = (*SuccessReporter)(nil)
	_ ports.Plugin = (*ErrorReporter)(nil)
)
