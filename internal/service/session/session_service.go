package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ToprakKamburoglu/madlen-chat-app/internal/repository/db"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Service handles the business logic for chat session management
type Service struct {
	db     db.Database
	tracer trace.Tracer
}

// NewService creates a new session Service
func NewService(database db.Database, tp trace.TracerProvider) *Service {
	return &Service{
		db:     database,
		tracer: tp.Tracer("session"),
	}
}

// CreateSession creates a new chat session for the given model
func (s *Service) CreateSession(ctx context.Context, modelID, title string) (*db.Session, error) {
	ctx, span := s.tracer.Start(ctx, "session.create")
	defer span.End()

	session, err := s.db.CreateSession(ctx, modelID, title)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

// GetSession retrieves a session with its messages
func (s *Service) GetSession(ctx context.Context, id string) (*db.Session, error) {
	ctx, span := s.tracer.Start(ctx, "session.get")
	defer span.End()

	session, err := s.db.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.loadMessages(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// ListSessions retrieves sessions ordered by most recent activity, with
// their messages embedded
func (s *Service) ListSessions(ctx context.Context, limit int) ([]db.Session, error) {
	ctx, span := s.tracer.Start(ctx, "session.get_all")
	defer span.End()

	sessions, err := s.db.ListSessions(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve sessions: %w", err)
	}

	for i := range sessions {
		if err := s.loadMessages(ctx, &sessions[i]); err != nil {
			return nil, err
		}
	}
	return sessions, nil
}

// UpdateTitle updates the session title and bumps its freshness timestamp
func (s *Service) UpdateTitle(ctx context.Context, id, title string) (*db.Session, error) {
	ctx, span := s.tracer.Start(ctx, "session.update_title")
	defer span.End()

	session, err := s.db.UpdateSessionTitle(ctx, id, title)
	if err != nil {
		return nil, err
	}

	if err := s.loadMessages(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// DeleteSession deletes a session and all its messages. Returns false when
// the session does not exist.
func (s *Service) DeleteSession(ctx context.Context, id string) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "session.delete")
	defer span.End()

	return s.db.DeleteSession(ctx, id)
}

// AppendMessage persists one message and bumps the owning session's
// freshness timestamp. Metadata is stored as-is, without schema enforcement.
func (s *Service) AppendMessage(ctx context.Context, sessionID, role, content string, imageURL *string, metadata map[string]interface{}) (*db.Message, error) {
	ctx, span := s.tracer.Start(ctx, "session.add_message", trace.WithAttributes(
		attribute.String("role", role),
		attribute.Int("content_length", len(content)),
	))
	defer span.End()

	var rawMetadata json.RawMessage
	if metadata != nil {
		data, err := json.Marshal(metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to encode message metadata: %w", err)
		}
		rawMetadata = data
	}

	message, err := s.db.AddMessage(ctx, sessionID, role, content, imageURL, rawMetadata)
	if err != nil {
		return nil, fmt.Errorf("failed to save message: %w", err)
	}
	return message, nil
}

func (s *Service) loadMessages(ctx context.Context, session *db.Session) error {
	messages, err := s.db.GetSessionMessages(ctx, session.ID)
	if err != nil {
		return fmt.Errorf("failed to retrieve session messages: %w", err)
	}
	session.Messages = messages
	return nil
}
