package api

import (
	"context"
	"net/http"
	"time"
)

const readinessTimeout = 2 * time.Second

// Healthz reports liveness. It never touches the store.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthDTO{Status: "ok"})
}

// Readyz reports whether the store is reachable, when the repository
// supports pinging. Repositories without Ping are always ready.
func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Meals.(Pinger)
	if !ok {
		writeJSON(w, http.StatusOK, HealthDTO{Status: "ok"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	if err := p.Ping(ctx); err != nil {
		h.Logger.Warn("readiness check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, HealthDTO{Status: "unavailable", Reason: "store unreachable"})
		return
	}
	writeJSON(w, http.StatusOK, HealthDTO{Status: "ok"})
}
