// Package metrics exposes Prometheus counters for completed calls via a
// FINALLY-phase plugin.
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/callwatch/callwatch/internal/classify"
	"github.com/callwatch/callwatch/internal/core/domain"
	"github.com/callwatch/callwatch/internal/core/ports"
)

// Plugin counts completed calls by callee service and outcome and tracks
// call delay. It runs in the FINALLY phase so every call is counted
// exactly once, whichever path it took.
type Plugin struct {
	classifier *classify.Classifier
	calls      *prometheus.CounterVec
	delay      *prometheus.HistogramVec
}

// New creates the metrics plugin and registers its collectors on reg.
func New(reg prometheus.Registerer, cfg classify.Config) *Plugin {
	p := &Plugin{
		classifier: classify.New(cfg, nil),
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "callwatch_calls_total",
			Help: "Completed outbound calls by callee service and ret status",
		}, []string{"service", "ret_status"}),
		delay: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "callwatch_call_delay_seconds",
			Help:    "Wall-clock delay of outbound calls",
			Buckets: prometheus.DefBuckets,
		}, []string{"service"}),
	}
	reg.MustRegister(p.calls, p.delay)
	return p
}

func (*Plugin) Name() string       { return "prometheus-metrics" }
func (*Plugin) Phase() ports.Phase { return ports.PhaseFinally }

func (p *Plugin) Run(ctx context.Context, call *domain.CallContext) error {
	// A call aborted before the transport ran has no outcome to count.
	if call.Response == nil && call.Err == nil {
		return nil
	}
	service := call.Request.URL.Hostname()
	if call.Target != nil && call.Target.Service != "" {
		service = call.Target.Service
	}
	status := p.classifier.Classify(call.Response, call.Err)
	p.calls.WithLabelValues(service, status.String()).Inc()
	p.delay.WithLabelValues(service).Observe(call.Delay.Seconds())
	return nil
}

var _ ports.Plugin = (*Plugin)(nil)
