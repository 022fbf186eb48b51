package api

import (
	"net/http"

	"github.com/okian/resumerank/internal/adapters/live"
	"github.com/okian/resumerank/pkg/logger"
)

// LiveHandler upgrades authenticated requests to the analytics websocket.
type LiveHandler struct {
	registry *live.Registry
	logger   logger.Logger
}

// NewLiveHandler creates a new live-update handler.
func NewLiveHandler(reg *live.Registry, l logger.Logger) *LiveHandler {
	return &LiveHandler{registry: reg, logger: l}
}

// HandleAnalyticsSocket handles GET /api/ws/analytics. It blocks until the
// client disconnects.
func (h *LiveHandler) HandleAnalyticsSocket(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	if err := live.Serve(h.registry, w, r); err != nil {
		h.logger.Debug(r.Context(), "websocket closed", logger.String("user", userFrom(r.Context())), logger.Error(err))
	}
}
