package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/abgdnv/productcatalog/internal/platform/config"
	"github.com/abgdnv/productcatalog/internal/platform/web"
	"github.com/go-chi/chi/v5"
)

const (
	HealthPath  = "/healthz"
	MetricsPath = "/metrics"
)

// RouterOption mounts an operational endpoint on the router built by NewChiRouter.
type RouterOption func(mux *chi.Mux, logger *slog.Logger)

// WithHealthCheck answers GET /healthz with {"status":"ok"} while the process serves requests.
func WithHealthCheck() RouterOption {
	return func(mux *chi.Mux, logger *slog.Logger) {
		mux.Get(HealthPath, func(w http.ResponseWriter, _ *http.Request) {
			web.RespondJSON(w, logger, http.StatusOK, map[string]string{"status": "ok"})
		})
	}
}

// WithMetrics serves the Prometheus exposition on GET /metrics. A nil handler mounts nothing.
func WithMetrics(handler http.Handler) RouterOption {
	return func(mux *chi.Mux, _ *slog.Logger) {
		if handler == nil {
			return
		}
		mux.Method(http.MethodGet, MetricsPath, handler)
	}
}

// NewHTTPServer creates the API server from the server section of the configuration.
func NewHTTPServer(cfg config.HTTPConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.Timeout.Read,
		WriteTimeout:      cfg.Timeout.Write,
		IdleTimeout:       cfg.Timeout.Idle,
		ReadHeaderTimeout: cfg.Timeout.ReadHeader,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}
}

// NewPprofServer serves the runtime profiles under /debug/pprof/ on its own listener,
// so they never share a port with the public API.
func NewPprofServer(cfg config.PProfConfig, readHeaderTimeout time.Duration) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

// NewChiRouter creates a new Chi router with a set of
// middleware for request ID injection, structured logging, and recovery,
// then mounts the given operational endpoints.
func NewChiRouter(logger *slog.Logger, opts ...RouterOption) *chi.Mux {
	mux := chi.NewRouter()
	mux.Use(web.RequestIDInjector)
	mux.Use(web.StructuredLogger(logger))
	mux.Use(web.Recoverer(logger))
	for _, opt := range opts {
		opt(mux, logger)
	}
	return mux
}
