package domain

// RetStatus is the outcome tag of one completed outbound call. Exactly one
// value is assigned per call.
type RetStatus string

const (
	// RetSuccess marks a call that completed with a non-failure status.
	RetSuccess RetStatus = "success"
	// RetFail marks a generic caller-observed failure.
	RetFail RetStatus = "fail"
	// RetTimeout marks a network-level timeout.
	RetTimeout RetStatus = "timeout"
	// RetFlowControl marks a failure the callee attributed to its own
	// flow control, signaled via the ret-status response header.
	RetFlowControl RetStatus = "flow_control"
	// RetReject marks an explicit rejection declared by the callee.
	RetReject RetStatus = "reject"
)

// String returns the wire marker for the status.
func (s RetStatus) String() string { return string(s) }
