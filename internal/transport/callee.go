package transport

import (
	"context"
	"net/http"
)

type calleeKey struct{}

// WithCallee names the logical callee service for calls issued under ctx.
// Without it, the callee service defaults to the request URL host.
func WithCallee(ctx context.Context, service string) context.Context {
	return context.WithValue(ctx, calleeKey{}, service)
}

// CalleeFromContext returns the callee service set by WithCallee, or "".
func CalleeFromContext(ctx context.Context) string {
	s, _ := ctx.Value(calleeKey{}).(string)
	return s
}

func calleeService(ctx context.Context, req *http.Request) string {
	if s := CalleeFromContext(ctx); s != "" {
		return s
	}
	return req.URL.Hostname()
}
