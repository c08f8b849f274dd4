// Package logging provides a Reporter that only logs the produced
// records. Useful when no store is configured and for local debugging.
package logging

import (
	"context"
	"log/slog"

	"github.com/callwatch/callwatch/internal/core/domain"
	"github.com/callwatch/callwatch/internal/core/ports"
)

// Reporter logs every record at info level.
type Reporter struct {
	logger *slog.Logger
}

// New creates a log-only reporter.
func New(logger *slog.Logger) *Reporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reporter{logger: logger}
}

func (r *Reporter) ReportCall(ctx context.Context, result *domain.CallResult) error {
	r.logger.Info("call result",
		slog.String("service", result.Service),
		slog.String("method", result.Method),
		slog.Int("ret_code", result.RetCode),
		slog.String("ret_status", result.RetStatus.String()),
		slog.Duration("delay", result.Delay),
		slog.String("rule", result.RuleName),
	)
	return nil
}

func (r *Reporter) ReportResourceUsage(ctx context.Context, usage *domain.ResourceUsage) error {
	r.logger.Info("resource usage",
		slog.String("callee", usage.Resource.Callee.Service),
		slog.String("host", usage.Resource.Callee.Host),
		slog.Int("port", usage.Resource.Callee.Port),
		slog.String("ret_status", usage.RetStatus.String()),
	)
	return nil
}

var _ ports.Reporter = (*Reporter)(nil)
