package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/barreyo/ysc-redesign-ex-sub001/pkg/config"
	httpx "github.com/barreyo/ysc-redesign-ex-sub001/pkg/http"

	"github.com/julienschmidt/httprouter"
)

type HealthHandler struct {
	cfg *config.Config
}

func NewHealthHandler(cfg *config.Config) *HealthHandler {
	return &HealthHandler{cfg: cfg}
}

func (h *HealthHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
}

// Health reports process liveness only.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": h.cfg.ServiceName,
	})
}

// Ready additionally pings the database; a service that cannot reach Mongo
// should be pulled from rotation, not restarted.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.cfg.Client.Mongo.Ping(ctx, nil); err != nil {
		h.cfg.Log.Error("Readiness check failed", "error", err)
		_ = httpx.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unavailable",
			"reason": "database unreachable",
		})
		return
	}

	_ = httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "ready",
		"service": h.cfg.ServiceName,
	})
}
