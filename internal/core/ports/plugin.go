// Package ports defines the core interfaces of callwatch.
// This file contains the pipeline plugin interfaces that run around each
// instrumented call.
package ports

import (
	"context"

	"github.com/callwatch/callwatch/internal/core/domain"
)

// Phase determines when a plugin runs relative to the transport call.
type Phase string

const (
	// PhasePre runs before the transport call begins.
	PhasePre Phase = "pre"
	// PhasePost runs after a non-exceptional return.
	PhasePost Phase = "post"
	// PhaseException runs after a transport-level failure.
	PhaseException Phase = "exception"
	// PhaseFinally runs unconditionally once per call, after whichever of
	// the post or exception phases applied.
	PhaseFinally Phase = "finally"
)

// Plugin observes one phase of an instrumented call. All plugins of a
// phase receive the same *domain.CallContext and may read or mutate it,
// but must not retain it past the call.
type Plugin interface {
	// Name returns the unique identifier for this plugin.
	Name() string
	// Phase returns when this plugin runs.
	Phase() Phase
	// Run executes the plugin against the shared call context.
	Run(ctx context.Context, call *domain.CallContext) error
}

// PluginRunner executes every plugin registered for a phase, in
// registration order.
type PluginRunner interface {
	Run(ctx context.Context, phase Phase, call *domain.CallContext) error
}
