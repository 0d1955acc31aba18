package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ToprakKamburoglu/madlen-chat-app/internal/logger"
	"github.com/ToprakKamburoglu/madlen-chat-app/internal/service/openrouter"
	"github.com/ToprakKamburoglu/madlen-chat-app/internal/service/session"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Request contains all the parameters for one chat turn
type Request struct {
	Model       string
	Messages    []openrouter.ChatMessage
	SessionID   string
	MaxTokens   int
	Temperature float64
}

// Service orchestrates one chat turn: forward to the provider, persist both
// sides of the exchange when a session is given, return the raw response.
type Service struct {
	provider openrouter.Provider
	sessions *session.Service
	tracer   trace.Tracer
}

// NewService creates a new chat Service
func NewService(provider openrouter.Provider, sessions *session.Service, tp trace.TracerProvider) *Service {
	return &Service{
		provider: provider,
		sessions: sessions,
		tracer:   tp.Tracer("chat"),
	}
}

// SendChat forwards the chat turn to the provider and returns the provider's
// response verbatim. A provider failure aborts the turn with nothing
// persisted. A persistence failure after the user turn was saved is not
// rolled back; the exchange is best effort.
func (s *Service) SendChat(ctx context.Context, req Request) (json.RawMessage, error) {
	ctx, span := s.tracer.Start(ctx, "chat.completion", trace.WithAttributes(
		attribute.String("model", req.Model),
		attribute.Int("message_count", len(req.Messages)),
	))
	defer span.End()

	completion, err := s.provider.ChatCompletion(ctx, req.Model, req.Messages, req.MaxTokens, req.Temperature)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if req.SessionID != "" {
		span.SetAttributes(attribute.String("session_id", req.SessionID))
		if err := s.persistExchange(ctx, req, completion); err != nil {
			span.RecordError(err)
			return nil, err
		}
	}

	return completion.Raw, nil
}

// persistExchange saves the user turn and the assistant reply to the session
func (s *Service) persistExchange(ctx context.Context, req Request, completion *openrouter.ChatCompletion) error {
	if len(req.Messages) == 0 {
		return nil
	}

	// The last input turn is the user turn
	userTurn := req.Messages[len(req.Messages)-1]
	content, imageURL := ExtractUserContent(userTurn.Content)

	if _, err := s.sessions.AppendMessage(ctx, req.SessionID, "user", content, imageURL, map[string]interface{}{
		"model": req.Model,
	}); err != nil {
		return fmt.Errorf("failed to save user message: %w", err)
	}

	if len(completion.Choices) == 0 {
		return fmt.Errorf("no choices in provider response")
	}

	metadata := map[string]interface{}{
		"model": req.Model,
	}
	if completion.Usage != nil {
		metadata["usage"] = completion.Usage
	}

	if _, err := s.sessions.AppendMessage(ctx, req.SessionID, "assistant", completion.Choices[0].Message.Content, nil, metadata); err != nil {
		return fmt.Errorf("failed to save assistant message: %w", err)
	}

	logger.Log.WithFields(logrus.Fields{
		"session_id": req.SessionID,
		"model":      req.Model,
	}).Debug("Persisted chat exchange")

	return nil
}

type contentPart struct {
	Type     string `json:"type"`
	Text     string `json:"text"`
	ImageURL struct {
		URL string `json:"url"`
	} `json:"image_url"`
}

// ExtractUserContent flattens a user turn for storage. Plain strings are
// stored as-is; multi-part payloads are reduced to their space-joined text
// parts plus the first image reference found.
func ExtractUserContent(raw json.RawMessage) (string, *string) {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text, nil
	}

	var parts []contentPart
	if err := json.Unmarshal(raw, &parts); err != nil {
		// Neither string nor multi-part; store the raw JSON
		return string(raw), nil
	}

	var textParts []string
	var imageURL *string
	for _, part := range parts {
		switch part.Type {
		case "text":
			textParts = append(textParts, part.Text)
		case "image_url":
			if imageURL == nil && part.ImageURL.URL != "" {
				url := part.ImageURL.URL
				imageURL = &url
			}
		}
	}

	return strings.Join(textParts, " "), imageURL
}
