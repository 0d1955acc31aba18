package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ToprakKamburoglu/madlen-chat-app/internal/repository/db"
	chatService "github.com/ToprakKamburoglu/madlen-chat-app/internal/service/chat"
	"github.com/ToprakKamburoglu/madlen-chat-app/internal/service/openrouter"
	sessionService "github.com/ToprakKamburoglu/madlen-chat-app/internal/service/session"
	"github.com/ToprakKamburoglu/madlen-chat-app/pkg/validation"
)

// ErrorResponse is the standard error body
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// MessageResponse is the wire representation of a stored message
type MessageResponse struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	ImageURL  *string   `json:"image_url"`
	Timestamp time.Time `json:"timestamp"`
}

// SessionResponse is the wire representation of a session with its messages
type SessionResponse struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	ModelID   string            `json:"model_id"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	Messages  []MessageResponse `json:"messages"`
}

// Handlers wires the HTTP surface to the service layer
type Handlers struct {
	validator      *validation.ChatRequestValidator
	provider       openrouter.Provider
	chatService    *chatService.Service
	sessionService *sessionService.Service
	tracingEnabled bool
}

// New creates the HTTP handlers over the given services
func New(provider openrouter.Provider, chat *chatService.Service, sessions *sessionService.Service, tracingEnabled bool) *Handlers {
	return &Handlers{
		validator:      validation.NewChatRequestValidator(),
		provider:       provider,
		chatService:    chat,
		sessionService: sessions,
		tracingEnabled: tracingEnabled,
	}
}

// sendJSON writes a JSON response with the given status
func (h *Handlers) sendJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// sendError sends a standardized JSON error response
func (h *Handlers) sendError(w http.ResponseWriter, status int, detail string) {
	h.sendJSON(w, status, ErrorResponse{Detail: detail})
}

// toSessionResponse converts a stored session to its wire representation
func toSessionResponse(session *db.Session) SessionResponse {
	messages := make([]MessageResponse, 0, len(session.Messages))
	for _, msg := range session.Messages {
		messages = append(messages, MessageResponse{
			ID:        msg.ID,
			Role:      msg.Role,
			Content:   msg.Content,
			ImageURL:  msg.ImageURL,
			Timestamp: msg.CreatedAt,
		})
	}

	return SessionResponse{
		ID:        session.ID,
		Title:     session.Title,
		ModelID:   session.ModelID,
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
		Messages:  messages,
	}
}
