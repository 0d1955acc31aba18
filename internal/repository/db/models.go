package db

import (
	"encoding/json"
	"time"
)

// Session represents a chat session in the database. Messages is populated
// by the service layer when the session is returned through the API.
type Session struct {
	ID        string
	Title     string
	ModelID   string
	CreatedAt time.Time
	UpdatedAt time.Time
	Messages  []Message
}

// Message represents a message in a chat session. Metadata is an opaque JSON
// payload (by convention {model, usage}) and is never interpreted here.
type Message struct {
	ID        string
	SessionID string
	Role      string
	Content   string
	ImageURL  *string
	CreatedAt time.Time
	Metadata  json.RawMessage
}
