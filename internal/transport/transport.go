// Package transport wraps an http.RoundTripper so the instrumentation
// pipeline runs transparently around every outbound call.
package transport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/callwatch/callwatch/internal/core/domain"
	"github.com/callwatch/callwatch/internal/core/ports"
)

// Transport is an http.RoundTripper that orchestrates the PRE, POST,
// EXCEPTION, and FINALLY phases around a delegate transport. It is
// transparent to its caller: the delegate's response and error are
// returned unchanged, save for the pipeline's timing and side effects.
type Transport struct {
	delegate http.RoundTripper
	runner   ports.PluginRunner
	logger   *slog.Logger
}

// Option configures the transport.
type Option func(*Transport)

// WithDelegate sets the underlying transport. Defaults to
// http.DefaultTransport.
func WithDelegate(rt http.RoundTripper) Option {
	return func(t *Transport) {
		t.delegate = rt
	}
}

// WithLogger sets the logger used for plugin failures on the exception
// path.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Transport) {
		t.logger = logger
	}
}

// New creates an instrumented transport running the given pipeline.
func New(runner ports.PluginRunner, opts ...Option) *Transport {
	t := &Transport{
		delegate: http.DefaultTransport,
		runner:   runner,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NewClient returns an *http.Client whose transport is instrumented with
// the given pipeline.
func NewClient(runner ports.PluginRunner, opts ...Option) *http.Client {
	return &http.Client{Transport: New(runner, opts...)}
}

// RoundTrip runs one instrumented call.
//
// FINALLY runs on every exit path, including a PRE abort. A PRE or POST
// plugin error aborts the call and propagates to the caller; an
// EXCEPTION-phase plugin error is only logged, so the original transport
// error always reaches the caller.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	call := domain.NewCallContext(&domain.RequestContext{
		URL:    req.URL,
		Method: req.Method,
		Header: domain.CloneHeader(req.Header),
	})

	// Cleanup plugins must observe every exit path; Runner swallows their
	// errors.
	defer func() {
		_ = t.runner.Run(ctx, ports.PhaseFinally, call)
	}()

	if err := t.runner.Run(ctx, ports.PhasePre, call); err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := t.delegate.RoundTrip(req)
	call.Delay = time.Since(start)

	if err != nil {
		call.Err = err
		if perr := t.runner.Run(ctx, ports.PhaseException, call); perr != nil {
			t.logger.Error("exception plugin failed",
				slog.String("call_id", call.ID),
				slog.String("error", perr.Error()),
			)
		}
		// The transport's own error is never swallowed.
		return nil, err
	}

	call.Response = &domain.ResponseContext{
		StatusCode: resp.StatusCode,
		Header:     domain.CloneHeader(resp.Header),
	}
	call.Target = &domain.CallEndpoint{
		Service: calleeService(ctx, req),
		Host:    req.URL.Hostname(),
		Port:    domain.ResolvePort(req.URL),
	}

	if perr := t.runner.Run(ctx, ports.PhasePost, call); perr != nil {
		resp.Body.Close()
		return nil, perr
	}
	return resp, nil
}

var _ http.RoundTripper = (*Transport)(nil)
