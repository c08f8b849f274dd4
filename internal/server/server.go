// Package server exposes the callwatch inspection API: recent call
// results, Prometheus metrics, and a probe endpoint that issues an
// instrumented outbound call.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/callwatch/callwatch/internal/core/ports"
	"github.com/callwatch/callwatch/internal/transport"
)

// Server is the admin HTTP server.
type Server struct {
	port   int
	store  ports.ResultStore
	client *http.Client
	logger *slog.Logger
	router *chi.Mux
	srv    *http.Server
}

// New builds the server and its routes. client must be an instrumented
// client so probe calls flow through the pipeline; registry backs the
// /metrics endpoint. store may be nil when callwatch runs store-less,
// in which case the results endpoint reports the store as disabled.
func New(port int, store ports.ResultStore, client *http.Client, registry *prometheus.Registry, logger *slog.Logger) *Server {
	s := &Server{
		port:   port,
		store:  store,
		client: client,
		logger: logger,
	}

	r := chi.NewRouter()
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(next, "callwatch-admin")
	})

	r.Get("/healthz", s.handleHealth)
	r.Get("/v1/results", s.handleListResults)
	r.Post("/v1/probe", s.handleProbe)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	s.router = r
	return s
}

// Handler returns the configured router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Start begins serving and blocks until the listener fails or Shutdown
// is called.
func (s *Server) Start() error {
	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("starting admin server", slog.Int("port", s.port))
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListResults(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "result store disabled")
		return
	}
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	results, err := s.store.ListCallResults(r.Context(), limit)
	if err != nil {
		s.logger.Error("list call results failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to list call results")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

// probeRequest asks callwatch to issue one instrumented outbound GET.
type probeRequest struct {
	URL    string `json:"url"`
	Callee string `json:"callee,omitempty"`
}

type probeResponse struct {
	Status int    `json:"status,omitempty"`
	Error  string `json:"error,omitempty"`
}

func (s *Server) handleProbe(w http.ResponseWriter, r *http.Request) {
	var pr probeRequest
	if err := json.NewDecoder(r.Body).Decode(&pr); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	target, err := url.Parse(pr.URL)
	if err != nil || target.Scheme == "" || target.Host == "" {
		writeError(w, http.StatusBadRequest, "url must be absolute")
		return
	}

	ctx := r.Context()
	if pr.Callee != "" {
		ctx = transport.WithCallee(ctx, pr.Callee)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to build probe request")
		return
	}

	resp, err := s.client.Do(req)
	if err != nil {
		// The call was still classified and reported by the pipeline.
		writeJSON(w, http.StatusBadGateway, probeResponse{Error: err.Error()})
		return
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	writeJSON(w, http.StatusOK, probeResponse{Status: resp.StatusCode})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
