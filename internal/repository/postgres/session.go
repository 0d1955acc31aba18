package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ToprakKamburoglu/madlen-chat-app/internal/logger"
	"github.com/ToprakKamburoglu/madlen-chat-app/internal/repository/db"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// CreateSession creates a new chat session
func (p *PostgresDB) CreateSession(ctx context.Context, modelID, title string) (*db.Session, error) {
	sessionID := uuid.New().String()

	if title == "" {
		title = "New Chat"
	}

	session := db.Session{
		ID:      sessionID,
		Title:   title,
		ModelID: modelID,
	}

	// Both timestamps come from the same now() so created_at == updated_at
	query := `
	INSERT INTO chat_sessions (id, title, model_id)
	VALUES ($1, $2, $3)
	RETURNING created_at, updated_at
	`

	err := p.conn.QueryRowContext(ctx, query, sessionID, title, modelID).Scan(&session.CreatedAt, &session.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("error creating session: %w", err)
	}

	logger.Log.WithFields(logrus.Fields{"session_id": sessionID, "model_id": modelID}).Info("Created new session")

	return &session, nil
}

// GetSession retrieves a specific session by ID
func (p *PostgresDB) GetSession(ctx context.Context, id string) (*db.Session, error) {
	var session db.Session
	query := `
	SELECT id, title, model_id, created_at, updated_at
	FROM chat_sessions
	WHERE id = $1
	`

	err := p.conn.QueryRowContext(ctx, query, id).Scan(&session.ID, &session.Title, &session.ModelID, &session.CreatedAt, &session.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, db.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error retrieving session: %w", err)
	}

	return &session, nil
}

// ListSessions retrieves sessions ordered by most recent activity
func (p *PostgresDB) ListSessions(ctx context.Context, limit int) ([]db.Session, error) {
	if limit <= 0 {
		limit = db.DefaultSessionListLimit
	}

	query := `
	SELECT id, title, model_id, created_at, updated_at
	FROM chat_sessions
	ORDER BY updated_at DESC
	LIMIT $1
	`

	rows, err := p.conn.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying sessions: %w", err)
	}
	defer rows.Close()

	var sessions []db.Session
	for rows.Next() {
		var session db.Session
		if err := rows.Scan(&session.ID, &session.Title, &session.ModelID, &session.CreatedAt, &session.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning session: %w", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sessions: %w", err)
	}

	return sessions, nil
}

// UpdateSessionTitle updates the session title and bumps updated_at
func (p *PostgresDB) UpdateSessionTitle(ctx context.Context, id, title string) (*db.Session, error) {
	var session db.Session
	query := `
	UPDATE chat_sessions
	SET title = $2, updated_at = now()
	WHERE id = $1
	RETURNING id, title, model_id, created_at, updated_at
	`

	err := p.conn.QueryRowContext(ctx, query, id, title).Scan(&session.ID, &session.Title, &session.ModelID, &session.CreatedAt, &session.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, db.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error updating session title: %w", err)
	}

	logger.Log.WithField("session_id", id).Info("Updated session title")

	return &session, nil
}

// DeleteSession deletes a session and all its messages via the FK cascade
func (p *PostgresDB) DeleteSession(ctx context.Context, id string) (bool, error) {
	result, err := p.conn.ExecContext(ctx, `DELETE FROM chat_sessions WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("error deleting session: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error reading delete result: %w", err)
	}
	if affected == 0 {
		return false, nil
	}

	logger.Log.WithField("session_id", id).Info("Deleted session")
	return true, nil
}

// AddMessage adds a message to a session and bumps the session timestamp
func (p *PostgresDB) AddMessage(ctx context.Context, sessionID, role, content string, imageURL *string, metadata json.RawMessage) (*db.Message, error) {
	msgID := uuid.New().String()

	message := db.Message{
		ID:        msgID,
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		ImageURL:  imageURL,
		Metadata:  metadata,
	}

	query := `
	INSERT INTO messages (id, session_id, role, content, image_url, metadata)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING created_at
	`

	err := p.conn.QueryRowContext(ctx, query, msgID, sessionID, role, content, imageURL, nullableJSON(metadata)).Scan(&message.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("error adding message: %w", err)
	}

	// Bump the session freshness timestamp, best effort
	updateQuery := `UPDATE chat_sessions SET updated_at = now() WHERE id = $1`
	if _, err := p.conn.ExecContext(ctx, updateQuery, sessionID); err != nil {
		logger.Log.WithError(err).Warn("Error updating session timestamp")
	}

	logger.Log.WithFields(logrus.Fields{
		"session_id":    sessionID,
		"role":          role,
		"content_chars": len(content),
	}).Debug("Added message to session")

	return &message, nil
}

// GetSessionMessages retrieves all messages of a session in insertion order
func (p *PostgresDB) GetSessionMessages(ctx context.Context, sessionID string) ([]db.Message, error) {
	query := `
	SELECT id, session_id, role, content, image_url, created_at, metadata
	FROM messages
	WHERE session_id = $1
	ORDER BY created_at ASC
	`

	rows, err := p.conn.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("error querying messages: %w", err)
	}
	defer rows.Close()

	var messages []db.Message
	for rows.Next() {
		var msg db.Message
		var imageURL sql.NullString
		var metadata []byte
		if err := rows.Scan(&msg.ID, &msg.SessionID, &msg.Role, &msg.Content, &imageURL, &msg.CreatedAt, &metadata); err != nil {
			return nil, fmt.Errorf("error scanning message: %w", err)
		}
		if imageURL.Valid {
			msg.ImageURL = &imageURL.String
		}
		if len(metadata) > 0 {
			msg.Metadata = json.RawMessage(metadata)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating messages: %w", err)
	}

	return messages, nil
}

// nullableJSON maps an empty metadata payload to SQL NULL.
func nullableJSON(raw json.RawMessage) interface{} {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}
