package db

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrSessionNotFound is returned when a session ID does not exist.
var ErrSessionNotFound = errors.New("session not found")

// DefaultSessionListLimit caps ListSessions when the caller passes no limit.
const DefaultSessionListLimit = 50

// Database defines the interface for all database operations
// This allows for easier testing through mocking and decouples the services
// from the specific database implementation
type Database interface {
	// Sessions
	CreateSession(ctx context.Context, modelID, title string) (*Session, error)
	GetSession(ctx context.Context, id string) (*Session, error)
	ListSessions(ctx context.Context, limit int) ([]Session, error)
	UpdateSessionTitle(ctx context.Context, id, title string) (*Session, error)
	DeleteSession(ctx context.Context, id string) (bool, error)

	// Messages
	AddMessage(ctx context.Context, sessionID, role, content string, imageURL *string, metadata json.RawMessage) (*Message, error)
	GetSessionMessages(ctx context.Context, sessionID string) ([]Message, error)

	Close() error
}
