package domain

import (
	"net/url"
	"strconv"
	"time"
)

// ServiceKey identifies a service within a namespace.
type ServiceKey struct {
	Namespace string `json:"namespace"`
	Service   string `json:"service"`
}

// CallEndpoint is an addressable callee instance. Host and port default
// from the request URL authority when the caller does not supply them.
type CallEndpoint struct {
	Service string `json:"service"`
	Host    string `json:"host"`
	Port    int    `json:"port"`
}

// LocalIdentity is the process-wide identity of the running caller.
// It is constructed once at startup and injected; it is read-only for the
// lifetime of the process and safe for concurrent use.
type LocalIdentity struct {
	Namespace string
	Service   string
	BindIP    string
}

// ResolvePort returns the port of u, defaulting to 80 when the URL
// carries none (direct-by-URL access uses the plain HTTP port).
func ResolvePort(u *url.URL) int {
	p := u.Port()
	if p == "" {
		return 80
	}
	n, err := strconv.Atoi(p)
	if err != nil {
		return 80
	}
	return n
}

// CallResult is the canonical record of one completed outbound call,
// handed to the reporting subsystem. It is never mutated after being built.
type CallResult struct {
	ID            string        `json:"id,omitempty"`
	Namespace     string        `json:"namespace"`
	Service       string        `json:"service"`
	Method        string        `json:"method"`
	RetCode       int           `json:"ret_code"`
	Delay         time.Duration `json:"delay"`
	CallerService ServiceKey    `json:"caller_service"`
	CallerIP      string        `json:"caller_ip"`
	Host          string        `json:"host"`
	Port          int           `json:"port"`
	Labels        string        `json:"labels,omitempty"`
	RetStatus     RetStatus     `json:"ret_status"`
	RuleName      string        `json:"rule_name,omitempty"`
	CreatedAt     time.Time     `json:"created_at,omitempty"`
}

// Resource names the subject of a usage record: the callee instance plus
// the caller observing it.
type Resource struct {
	Callee CallEndpoint `json:"callee"`
	Caller ServiceKey   `json:"caller"`

	// Namespace is the namespace the callee is addressed in.
	Namespace string `json:"namespace"`
}

// ResourceUsage is the coarser, resource-level record produced alongside
// each CallResult for instance-level circuit breaking.
type ResourceUsage struct {
	Resource  Resource      `json:"resource"`
	RetCode   int           `json:"ret_code"`
	Delay     time.Duration `json:"delay"`
	RetStatus RetStatus     `json:"ret_status"`
}
