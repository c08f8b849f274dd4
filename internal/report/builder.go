// Package report assembles canonical call-result and resource-usage
// records and ships them to the reporting subsystem from pipeline
// plugins.
package report

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/callwatch/callwatch/internal/classify"
	"github.com/callwatch/callwatch/internal/core/domain"
)

// Builder normalizes caller/callee identity, endpoint, and labels into
// records. It is stateless given its inputs plus the injected identity
// and classification config; building the same call twice yields
// identical records.
type Builder struct {
	identity   domain.LocalIdentity
	classifier *classify.Classifier
	logger     *slog.Logger
}

// NewBuilder creates a builder bound to the local caller identity and
// classification policy.
func NewBuilder(identity domain.LocalIdentity, cfg classify.Config, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		identity:   identity,
		classifier: classify.New(cfg, logger),
		logger:     logger,
	}
}

// CallResult builds the canonical record for one completed call. Callee
// service and host fall back to the request URL host when the resolved
// endpoint does not name them; a missing port resolves from the URL.
func (b *Builder) CallResult(call *domain.CallContext) *domain.CallResult {
	u := call.Request.URL
	service, host, port := b.callee(call.Target, u)

	retCode := -1
	var respHeader http.Header
	if call.Response != nil {
		retCode = call.Response.StatusCode
		respHeader = call.Response.Header
	}

	return &domain.CallResult{
		ID:        call.ID,
		Namespace: b.identity.Namespace,
		Service:   service,
		Method:    u.Path,
		RetCode:   retCode,
		Delay:     call.Delay,
		CallerService: domain.ServiceKey{
			Namespace: b.identity.Namespace,
			Service:   b.identity.Service,
		},
		CallerIP:  b.identity.BindIP,
		Host:      host,
		Port:      port,
		Labels:    b.labels(call.Request.Header),
		RetStatus: b.classifier.Classify(call.Response, call.Err),
		RuleName:  classify.ActiveRuleName(respHeader),
	}
}

// ResourceUsage builds the resource-level companion record. It carries
// the default classification only; the callee header override applies to
// the call result, not to instance usage.
func (b *Builder) ResourceUsage(call *domain.CallContext) *domain.ResourceUsage {
	u := call.Request.URL
	service, host, port := b.callee(call.Target, u)

	retCode := -1
	if call.Response != nil {
		retCode = call.Response.StatusCode
	}

	return &domain.ResourceUsage{
		Resource: domain.Resource{
			Callee: domain.CallEndpoint{Service: service, Host: host, Port: port},
			Caller: domain.ServiceKey{
				Namespace: b.identity.Namespace,
				Service:   b.identity.Service,
			},
			Namespace: b.identity.Namespace,
		},
		RetCode:   retCode,
		Delay:     call.Delay,
		RetStatus: b.classifier.DefaultRetStatus(call.Response, call.Err),
	}
}

func (b *Builder) callee(endpoint *domain.CallEndpoint, u *url.URL) (service, host string, port int) {
	port = domain.ResolvePort(u)
	if endpoint != nil {
		service = endpoint.Service
		host = endpoint.Host
		if endpoint.Port > 0 {
			port = endpoint.Port
		}
	}
	if service == "" {
		service = u.Hostname()
	}
	if host == "" {
		host = u.Hostname()
	}
	return service, host, port
}

// labels extracts the router-label request header, URL-decoded. A decode
// failure is logged and the raw value is kept so no telemetry is dropped.
func (b *Builder) labels(reqHeader http.Header) string {
	if reqHeader == nil {
		return ""
	}
	raw := reqHeader.Get(domain.HeaderRouterLabel)
	if raw == "" {
		return ""
	}
	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		b.logger.Error("decode router label failed",
			slog.String("label", raw),
			slog.String("error", err.Error()),
		)
		return raw
	}
	return decoded
}
