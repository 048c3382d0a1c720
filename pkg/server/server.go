// Package server exposes the simulation engine over HTTP. The transport
// is a thin adapter: every request is serialized into an engine request,
// dispatched, and the structured response written back as JSON.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stubdock/stubdock/pkg/engine"
)

// maxBodyBytes caps request bodies; simulated payloads are small.
const maxBodyBytes = 1 << 20

// Options configures a Server.
type Options struct {
	Addr   string
	Engine *engine.Engine
	Logger *slog.Logger
	// Registry enables /metrics when non-nil.
	Registry *prometheus.Registry
}

// Server wraps an http.Server around the engine bridge.
type Server struct {
	srv *http.Server
	log *slog.Logger
}

// New builds a server listening on opts.Addr.
func New(opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(127)}))
	}
	return &Server{
		srv: &http.Server{
			Addr:              opts.Addr,
			Handler:           NewRouter(opts.Engine, log, opts.Registry),
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: log,
	}
}

// NewRouter assembles the chi router: health and metrics endpoints plus
// the catch-all engine bridge.
func NewRouter(eng *engine.Engine, log *slog.Logger, reg *prometheus.Registry) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(log))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
	})
	if reg != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}
	r.HandleFunc("/*", bridge(eng))

	return r
}

// bridge converts an HTTP request into an engine request and writes the
// dispatch result back. A body that is present but not a JSON object is
// rejected here; the engine itself never sees raw bytes.
func bridge(eng *engine.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error": "Request body unreadable or too large",
				"code":  "VALIDATION_FAILED",
			})
			return
		}

		var body map[string]any
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &body); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]any{
					"error": "Malformed JSON body",
					"code":  "VALIDATION_FAILED",
				})
				return
			}
		}

		headers := make(map[string]string, len(r.Header))
		for name := range r.Header {
			headers[name] = r.Header.Get(name)
		}

		resp := eng.Dispatch(r.Context(), engine.Request{
			Method:  r.Method,
			Path:    r.URL.Path,
			Body:    body,
			Headers: headers,
		})

		for name, value := range resp.Headers {
			w.Header().Set(name, value)
		}
		if resp.Status == http.StatusNoContent || resp.Data == nil {
			w.WriteHeader(resp.Status)
			return
		}
		writeJSON(w, resp.Status, resp.Data)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// requestLogger logs one line per request with method, path, status, and
// elapsed time.
func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"elapsed", time.Since(start),
			)
		})
	}
}

// Start blocks serving requests until Shutdown or a listener error.
func (s *Server) Start() error {
	s.log.Info("http server listening", "addr", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("http server shutting down")
	return s.srv.Shutdown(ctx)
}
