package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/callwatch/callwatch/internal/core/domain"
	"github.com/callwatch/callwatch/internal/core/ports"
)

// Runner dispatches plugins by phase. It maintains one ordered list per
// phase, built once at construction; Run is safe for concurrent use
// across calls.
type Runner struct {
	plugins map[ports.Phase][]ports.Plugin
	logger  *slog.Logger
}

// NewRunner groups plugins by their phase, preserving registration order
// within each phase.
func NewRunner(logger *slog.Logger, plugins ...ports.Plugin) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Runner{
		plugins: make(map[ports.Phase][]ports.Plugin),
		logger:  logger,
	}
	for _, p := range plugins {
		r.plugins[p.Phase()] = append(r.plugins[p.Phase()], p)
	}
	return r
}

// Run invokes every plugin registered for phase, in order, passing the
// same call context to each. See the package documentation for the
// failure policy.
func (r *Runner) Run(ctx context.Context, phase ports.Phase, call *domain.CallContext) error {
	for _, p := range r.plugins[phase] {
		if err := p.Run(ctx, call); err != nil {
			if phase == ports.PhaseFinally {
				// Cleanup must complete even when one plugin misbehaves.
				r.logger.Error("finally plugin failed",
					slog.String("plugin", p.Name()),
					slog.String("call_id", call.ID),
					slog.String("error", err.Error()),
				)
				continue
			}
			return fmt.Errorf("plugin %s (%s phase): %w", p.Name(), phase, err)
		}
	}
	return nil
}

var _ ports.PluginRunner = (*Runner)(nil)
