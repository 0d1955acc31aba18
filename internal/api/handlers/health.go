package handlers

import (
	"net/http"

	"github.com/ToprakKamburoglu/madlen-chat-app/internal/config"
)

// RootHandler is the basic liveness endpoint
func (h *Handlers) RootHandler(w http.ResponseWriter, r *http.Request) {
	h.sendJSON(w, http.StatusOK, map[string]string{
		"message": config.AppName,
		"version": config.AppVersion,
		"status":  "running",
	})
}

// HealthHandler reports service health and whether tracing is active
func (h *Handlers) HealthHandler(w http.ResponseWriter, r *http.Request) {
	h.sendJSON(w, http.StatusOK, map[string]interface{}{
		"status":          "healthy",
		"service":         config.AppName,
		"version":         config.AppVersion,
		"tracing_enabled": h.tracingEnabled,
	})
}
