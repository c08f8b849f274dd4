// Package classify decides the RetStatus of a completed outbound call from
// its HTTP status code, transport error, and response headers.
package classify

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/callwatch/callwatch/internal/core/domain"
)

// Config is the externally supplied classification policy. It is a value
// type, read-only after construction, and safe to share across calls.
type Config struct {
	// Statuses is the explicit list of status codes that count as
	// reportable failures. When non-empty it overrides all other policy.
	Statuses []int
	// Series lists coarse status classes ("1xx".."5xx") that count as
	// failures when Statuses is empty.
	Series []string
	// IgnoreInternalServerError exempts plain 500 from the default policy.
	IgnoreInternalServerError bool
}

// Classifier applies a Config to call outcomes.
type Classifier struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a classifier for the given policy.
func New(cfg Config, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{cfg: cfg, logger: logger}
}

// Classify returns the outcome of one completed call. resp is nil when the
// transport call failed or returned no status; callErr is the transport
// error, nil on a non-exceptional return.
//
// A callee-supplied ret-status header carrying a flow_control or reject
// marker wins over the computed default: the callee can declare a failure
// as its own flow control, which the caller cannot infer from the status
// code alone.
func (c *Classifier) Classify(resp *domain.ResponseContext, callErr error) domain.RetStatus {
	def := c.DefaultRetStatus(resp, callErr)
	if resp == nil {
		return def
	}
	return RetStatusFromHeader(resp.Header, def)
}

// DefaultRetStatus computes the outcome from status and error alone,
// without the callee header override. Resource-level records use this
// directly.
func (c *Classifier) DefaultRetStatus(resp *domain.ResponseContext, callErr error) domain.RetStatus {
	if callErr != nil {
		if isTimeout(callErr) {
			return domain.RetTimeout
		}
		return domain.RetFail
	}
	// No status at all is a failure, never ambiguous.
	if resp == nil {
		return domain.RetFail
	}
	if c.ReportableFailure(resp.StatusCode) {
		return domain.RetFail
	}
	return domain.RetSuccess
}

// ReportableFailure reports whether status counts as a failure under the
// configured policy. Precedence: explicit Statuses, then the 500 escape
// hatch, then the default 501-511 set, then Series membership.
func (c *Classifier) ReportableFailure(status int) bool {
	if len(c.cfg.Statuses) > 0 {
		// Explicit user configuration overrides default policy entirely.
		for _, s := range c.cfg.Statuses {
			if s == status {
				return true
			}
		}
		return false
	}

	if c.cfg.IgnoreInternalServerError && status == http.StatusInternalServerError {
		return false
	}

	if len(c.cfg.Series) == 0 {
		return inDefaultFailureSet(status)
	}

	series, ok := seriesOf(status)
	if !ok {
		// Fail open: an unclassifiable status is not a reportable failure.
		c.logger.Warn("decode http status series failed", slog.Int("status", status))
		return false
	}
	for _, s := range c.cfg.Series {
		n, ok := parseSeries(s)
		if !ok {
			c.logger.Warn("malformed status series in config", slog.String("series", s))
			continue
		}
		if n == series {
			return true
		}
	}
	return false
}

// RetStatusFromHeader returns the callee-declared status when h carries a
// recognized flow_control or reject marker, otherwise def.
func RetStatusFromHeader(h http.Header, def domain.RetStatus) domain.RetStatus {
	switch h.Get(domain.HeaderCalleeRetStatus) {
	case domain.RetFlowControl.String():
		return domain.RetFlowControl
	case domain.RetReject.String():
		return domain.RetReject
	}
	return def
}

// ActiveRuleName returns the first value of the active-rule header
// verbatim, or "" when absent.
func ActiveRuleName(h http.Header) string {
	if h == nil {
		return ""
	}
	return h.Get(domain.HeaderActiveRuleName)
}

// inDefaultFailureSet covers 501 Not Implemented through 511 Network
// Authentication Required. Plain 500 is handled by the escape hatch above.
func inDefaultFailureSet(status int) bool {
	return status >= http.StatusNotImplemented && status <= http.StatusNetworkAuthenticationRequired
}

func seriesOf(status int) (int, bool) {
	n := status / 100
	if n < 1 || n > 5 {
		return 0, false
	}
	return n, true
}

// parseSeries accepts the "5xx" shorthand (or a bare digit) for a status
// class.
func parseSeries(s string) (int, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) == 0 {
		return 0, false
	}
	if len(s) > 1 && s[1:] != "xx" {
		return 0, false
	}
	n := int(s[0] - '0')
	if n < 1 || n > 5 {
		return 0, false
	}
	return n, true
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
