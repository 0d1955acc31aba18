package testutil

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/ToprakKamburoglu/madlen-chat-app/internal/repository/db"
	"github.com/ToprakKamburoglu/madlen-chat-app/internal/service/openrouter"
)

// MockDatabase is a mock implementation of db.Database for testing
type MockDatabase struct {
	// Session mocks
	CreateSessionFunc      func(ctx context.Context, modelID, title string) (*db.Session, error)
	GetSessionFunc         func(ctx context.Context, id string) (*db.Session, error)
	ListSessionsFunc       func(ctx context.Context, limit int) ([]db.Session, error)
	UpdateSessionTitleFunc func(ctx context.Context, id, title string) (*db.Session, error)
	DeleteSessionFunc      func(ctx context.Context, id string) (bool, error)

	// Message mocks
	AddMessageFunc         func(ctx context.Context, sessionID, role, content string, imageURL *string, metadata json.RawMessage) (*db.Message, error)
	GetSessionMessagesFunc func(ctx context.Context, sessionID string) ([]db.Message, error)
}

var _ db.Database = (*MockDatabase)(nil)

func (m *MockDatabase) CreateSession(ctx context.Context, modelID, title string) (*db.Session, error) {
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(ctx, modelID, title)
	}
	return nil, errors.New("not implemented")
}

func (m *MockDatabase) GetSession(ctx context.Context, id string) (*db.Session, error) {
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *MockDatabase) ListSessions(ctx context.Context, limit int) ([]db.Session, error) {
	if m.ListSessionsFunc != nil {
		return m.ListSessionsFunc(ctx, limit)
	}
	return nil, errors.New("not implemented")
}

func (m *MockDatabase) UpdateSessionTitle(ctx context.Context, id, title string) (*db.Session, error) {
	if m.UpdateSessionTitleFunc != nil {
		return m.UpdateSessionTitleFunc(ctx, id, title)
	}
	return nil, errors.New("not implemented")
}

func (m *MockDatabase) DeleteSession(ctx context.Context, id string) (bool, error) {
	if m.DeleteSessionFunc != nil {
		return m.DeleteSessionFunc(ctx, id)
	}
	return false, errors.New("not implemented")
}

func (m *MockDatabase) AddMessage(ctx context.Context, sessionID, role, content string, imageURL *string, metadata json.RawMessage) (*db.Message, error) {
	if m.AddMessageFunc != nil {
		return m.AddMessageFunc(ctx, sessionID, role, content, imageURL, metadata)
	}
	return nil, errors.New("not implemented")
}

func (m *MockDatabase) GetSessionMessages(ctx context.Context, sessionID string) ([]db.Message, error) {
	if m.GetSessionMessagesFunc != nil {
		return m.GetSessionMessagesFunc(ctx, sessionID)
	}
	return nil, errors.New("not implemented")
}

func (m *MockDatabase) Close() error {
	return nil
}

// MockProvider is a mock implementation of openrouter.Provider for testing
type MockProvider struct {
	ListModelsFunc     func(ctx context.Context) []openrouter.ModelInfo
	ChatCompletionFunc func(ctx context.Context, model string, messages []openrouter.ChatMessage, maxTokens int, temperature float64) (*openrouter.ChatCompletion, error)
}

var _ openrouter.Provider = (*MockProvider)(nil)

func (m *MockProvider) ListModels(ctx context.Context) []openrouter.ModelInfo {
	if m.ListModelsFunc != nil {
		return m.ListModelsFunc(ctx)
	}
	return nil
}

func (m *MockProvider) ChatCompletion(ctx context.Context, model string, messages []openrouter.ChatMessage, maxTokens int, temperature float64) (*openrouter.ChatCompletion, error) {
	if m.ChatCompletionFunc != nil {
		return m.ChatCompletionFunc(ctx, model, messages, maxTokens, temperature)
	}
	return nil, errors.New("not implemented")
}
