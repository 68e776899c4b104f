package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	store Pinger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(store Pinger) *HealthHandler {
	return &HealthHandler{store: store}
}

// Live reports that the process is serving requests.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	WriteOK(w, http.StatusOK, map[string]string{"state": "alive"})
}

// Ready reports whether the store answers within a short deadline.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.PingContext(ctx); err != nil {
		log.Warn().Err(err).Msg("Readiness check failed")
		writeKind(w, errorKind{http.StatusServiceUnavailable, "Unavailable", "Store is not reachable"}, nil)
		return
	}
	WriteOK(w, http.StatusOK, map[string]string{"state": "ready"})
}
