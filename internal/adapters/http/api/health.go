package api

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	service "github.com/okian/resumerank/internal/app"
	"github.com/okian/resumerank/pkg/metrics"
)

// HealthDependencies reports the state of the backing services.
type HealthDependencies interface {
	Health(ctx context.Context) service.Health
}

// HealthHandler handles health check and metrics requests.
type HealthHandler struct {
	deps HealthDependencies
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(deps HealthDependencies) *HealthHandler {
	return &HealthHandler{deps: deps}
}

type healthResponse struct {
	Status string `json:"status"`
	service.Health
}

// HandleHealth handles GET /healthz requests. It answers 503 when the
// store or the session backend is down.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	hs := h.deps.Health(r.Context())
	if !hs.Healthy() {
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "degraded", Health: hs})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Health: hs})
}

// MetricsHandler serves the private Prometheus registry.
func (h *HealthHandler) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})
}
