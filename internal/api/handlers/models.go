package handlers

import (
	"net/http"

	"github.com/ToprakKamburoglu/madlen-chat-app/internal/service/openrouter"
)

// GetModelsHandler returns the free model catalog. The provider call never
// fails; at worst the fallback catalog is served.
func (h *Handlers) GetModelsHandler(w http.ResponseWriter, r *http.Request) {
	models := h.provider.ListModels(r.Context())
	if models == nil {
		models = []openrouter.ModelInfo{}
	}

	h.sendJSON(w, http.StatusOK, models)
}
