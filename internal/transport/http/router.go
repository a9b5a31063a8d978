// Package httptransport assembles the HTTP surface: middleware chain, feature
// handlers, and operational endpoints.
package httptransport

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"clubsphere/internal/platform/metrics"
	"clubsphere/internal/platform/middleware"

	"log/slog"
)

// Registrar is implemented by each feature handler.
type Registrar interface {
	Register(r chi.Router)
}

// NewRouter wires the middleware chain and mounts every feature handler.
// Order matters: recovery wraps everything, request IDs are assigned before
// logging so log lines can carry them.
func NewRouter(logger *slog.Logger, m *metrics.Metrics, handlers ...Registrar) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.LatencyMiddleware(m))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		for _, h := range handlers {
			h.Register(r)
		}
	})

	return r
}
