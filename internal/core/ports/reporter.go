package ports

import (
	"context"

	"github.com/callwatch/callwatch/internal/core/domain"
)

// Reporter is the push surface consumed by the downstream circuit-breaker
// or service-mesh subsystem. callwatch builds the records; the reporter
// owns what happens to them.
type Reporter interface {
	// ReportCall pushes one canonical call result.
	ReportCall(ctx context.Context, result *domain.CallResult) error
	// ReportResourceUsage pushes the resource-level companion record.
	ReportResourceUsage(ctx context.Context, usage *domain.ResourceUsage) error
}
