package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ToprakKamburoglu/madlen-chat-app/internal/logger"
	chatService "github.com/ToprakKamburoglu/madlen-chat-app/internal/service/chat"
	"github.com/ToprakKamburoglu/madlen-chat-app/internal/service/openrouter"
)

// Generation parameter defaults applied when the request omits them.
const (
	defaultMaxTokens   = 1000
	defaultTemperature = 0.7
)

// ChatRequest is the body of POST /chat/
type ChatRequest struct {
	Model       string                   `json:"model"`
	Messages    []openrouter.ChatMessage `json:"messages"`
	SessionID   string                   `json:"session_id,omitempty"`
	MaxTokens   *int                     `json:"max_tokens,omitempty"`
	Temperature *float64                 `json:"temperature,omitempty"`
}

// ChatHandler forwards one chat turn to the provider and returns the raw
// provider response
func (h *Handlers) ChatHandler(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	maxTokens := defaultMaxTokens
	if req.MaxTokens != nil {
		maxTokens = *req.MaxTokens
	}
	temperature := defaultTemperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}

	if err := h.validator.ValidateChatRequest(req.Model, len(req.Messages), maxTokens, temperature); err != nil {
		h.sendError(w, http.StatusBadRequest, err.Error())
		return
	}

	response, err := h.chatService.SendChat(r.Context(), chatService.Request{
		Model:       req.Model,
		Messages:    req.Messages,
		SessionID:   req.SessionID,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		logger.Log.WithError(err).Error("Error from chat service")
		h.sendError(w, http.StatusInternalServerError, fmt.Sprintf("Chat completion failed: %v", err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(response)
}
