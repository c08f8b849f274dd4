// Package pipeline executes instrumentation plugins around one outbound
// call.
//
// A call passes through up to four phases in a fixed total order:
//
//	PRE -> (POST | EXCEPTION) -> FINALLY
//
// POST runs only when the transport call returned without error,
// EXCEPTION only when it failed, and FINALLY runs unconditionally exactly
// once per call. Within a phase, plugins run in registration order and
// share the same *domain.CallContext.
//
// # Failure policy
//
// A plugin error in the PRE, POST, or EXCEPTION phase aborts the
// remaining plugins of that phase and propagates out of Run. FINALLY
// plugin errors are logged and swallowed so cleanup always completes.
package pipeline
