package domain

// Response and request headers that make up the governance contract between
// caller and callee. callwatch consumes these headers; it never sets them.
const (
	// HeaderCalleeRetStatus carries a RetStatus marker set by the callee to
	// override the caller's computed classification. Only the flow_control
	// and reject markers are recognized.
	HeaderCalleeRetStatus = "internal-callee-ret-status"

	// HeaderActiveRuleName carries the name of the governance rule that
	// produced the response. Propagated verbatim into call results.
	HeaderActiveRuleName = "internal-callee-active-rule"

	// HeaderRouterLabel carries the URL-encoded label string used for
	// label-based routing telemetry on the request.
	HeaderRouterLabel = "internal-router-label"
)
