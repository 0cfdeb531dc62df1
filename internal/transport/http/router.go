// Package httptransport assembles the full HTTP surface: public consent
// endpoints, the admin API, health probes, and metrics.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cookiegate/internal/admin"
	consenthandler "cookiegate/internal/consent/handler"
	"cookiegate/internal/platform/health"
	"cookiegate/internal/platform/middleware"
)

// NewRouter wires all endpoints with the shared middleware stack.
func NewRouter(
	consent *consenthandler.Handler,
	adminAPI *admin.Handler,
	healthAPI *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Timeout(30 * time.Second))

	consent.Register(r)
	adminAPI.Register(r)
	healthAPI.Register(r)

	r.Handle("/metrics", promhttp.Handler())

	return r
}
