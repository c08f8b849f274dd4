// Package direct provides a Reporter that writes call results straight to
// a ResultStore. This is the default sink for single-instance
// deployments without an external mesh SDK attached.
package direct

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/callwatch/callwatch/internal/core/domain"
	"github.com/callwatch/callwatch/internal/core/ports"
)

// Reporter implements ports.Reporter by persisting call results.
// Resource usage records have no instance-level consumer here; they are
// logged at debug level and dropped.
type Reporter struct {
	store  ports.ResultStore
	logger *slog.Logger
}

// New creates a store-backed reporter.
func New(store ports.ResultStore, logger *slog.Logger) (*Reporter, error) {
	if store == nil {
		return nil, fmt.Errorf("result store required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Reporter{store: store, logger: logger}, nil
}

// ReportCall persists one call result.
func (r *Reporter) ReportCall(ctx context.Context, result *domain.CallResult) error {
	return r.store.SaveCallResult(ctx, result)
}

// ReportResourceUsage logs the usage record.
func (r *Reporter) ReportResourceUsage(ctx context.Context, usage *domain.ResourceUsage) error {
	r.logger.Debug("resource usage",
		slog.String("callee", usage.Resource.Callee.Service),
		slog.String("host", usage.Resource.Callee.Host),
		slog.Int("port", usage.Resource.Callee.Port),
		slog.Int("ret_code", usage.RetCode),
		slog.String("ret_status", usage.RetStatus.String()),
		slog.Duration("delay", usage.Delay),
	)
	return nil
}

var _ ports.Reporter = (*Reporter)(nil)
