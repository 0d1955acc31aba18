package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ToprakKamburoglu/madlen-chat-app/internal/logger"
	"github.com/ToprakKamburoglu/madlen-chat-app/internal/repository/db"
)

// CreateSessionRequest is the body of POST /sessions/
type CreateSessionRequest struct {
	ModelID string `json:"model_id"`
	Title   string `json:"title,omitempty"`
}

// UpdateSessionRequest is the body of PATCH /sessions/{id}
type UpdateSessionRequest struct {
	Title string `json:"title"`
}

// DeleteSessionResponse is the body returned after a successful delete
type DeleteSessionResponse struct {
	Message string `json:"message"`
}

// GetSessionsHandler returns all sessions, most recently active first
func (h *Handlers) GetSessionsHandler(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.sessionService.ListSessions(r.Context(), 0)
	if err != nil {
		logger.Log.WithError(err).Error("Error retrieving sessions")
		h.sendError(w, http.StatusInternalServerError, "Failed to retrieve sessions")
		return
	}

	responses := make([]SessionResponse, 0, len(sessions))
	for i := range sessions {
		responses = append(responses, toSessionResponse(&sessions[i]))
	}

	h.sendJSON(w, http.StatusOK, responses)
}

// GetSessionHandler returns a specific session with its messages
func (h *Handlers) GetSessionHandler(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessionService.GetSession(r.Context(), r.PathValue("id"))
	if errors.Is(err, db.ErrSessionNotFound) {
		h.sendError(w, http.StatusNotFound, "Session not found")
		return
	}
	if err != nil {
		logger.Log.WithError(err).Error("Error retrieving session")
		h.sendError(w, http.StatusInternalServerError, "Failed to retrieve session")
		return
	}

	h.sendJSON(w, http.StatusOK, toSessionResponse(session))
}

// CreateSessionHandler creates a new chat session
func (h *Handlers) CreateSessionHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.ValidateCreateSession(req.ModelID); err != nil {
		h.sendError(w, http.StatusBadRequest, err.Error())
		return
	}

	session, err := h.sessionService.CreateSession(r.Context(), req.ModelID, req.Title)
	if err != nil {
		logger.Log.WithError(err).Error("Error creating session")
		h.sendError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	h.sendJSON(w, http.StatusOK, toSessionResponse(session))
}

// UpdateSessionHandler updates a session title
func (h *Handlers) UpdateSessionHandler(w http.ResponseWriter, r *http.Request) {
	var req UpdateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.ValidateUpdateSession(req.Title); err != nil {
		h.sendError(w, http.StatusBadRequest, err.Error())
		return
	}

	session, err := h.sessionService.UpdateTitle(r.Context(), r.PathValue("id"), req.Title)
	if errors.Is(err, db.ErrSessionNotFound) {
		h.sendError(w, http.StatusNotFound, "Session not found")
		return
	}
	if err != nil {
		logger.Log.WithError(err).Error("Error updating session")
		h.sendError(w, http.StatusInternalServerError, "Failed to update session")
		return
	}

	h.sendJSON(w, http.StatusOK, toSessionResponse(session))
}

// DeleteSessionHandler deletes a session and all its messages
func (h *Handlers) DeleteSessionHandler(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.sessionService.DeleteSession(r.Context(), r.PathValue("id"))
	if err != nil {
		logger.Log.WithError(err).Error("Error deleting session")
		h.sendError(w, http.StatusInternalServerError, "Failed to delete session")
		return
	}
	if !deleted {
		h.sendError(w, http.StatusNotFound, "Session not found")
		return
	}

	h.sendJSON(w, http.StatusOK, DeleteSessionResponse{Message: "Session deleted successfully"})
}
