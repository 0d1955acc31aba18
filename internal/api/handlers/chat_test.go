package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ToprakKamburoglu/madlen-chat-app/internal/service/openrouter"
	"github.com/ToprakKamburoglu/madlen-chat-app/internal/testutil"
)

func TestChatHandler_ReturnsRawProviderBody(t *testing.T) {
	providerBody := `{"id":"gen-1","choices":[{"message":{"content":"hi"}}],"extra_field":"kept"}`

	provider := &testutil.MockProvider{
		ChatCompletionFunc: func(ctx context.Context, model string, messages []openrouter.ChatMessage, maxTokens int, temperature float64) (*openrouter.ChatCompletion, error) {
			if maxTokens != 1000 {
				t.Errorf("default max_tokens = %d, want 1000", maxTokens)
			}
			if temperature != 0.7 {
				t.Errorf("default temperature = %v, want 0.7", temperature)
			}
			return &openrouter.ChatCompletion{
				Raw:     json.RawMessage(providerBody),
				Choices: []openrouter.Choice{{Message: openrouter.AssistantMessage{Content: "hi"}}},
			}, nil
		},
	}
	h := newTestHandlers(provider, nil)

	req := httptest.NewRequest(http.MethodPost, "/chat/", strings.NewReader(
		`{"model":"m1","messages":[{"role":"user","content":"hello"}]}`))
	rec := httptest.NewRecorder()
	h.ChatHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\nbody: %s", rec.Code, rec.Body.String())
	}
	if rec.Body.String() != providerBody {
		t.Errorf("body was reshaped:\ngot  %s\nwant %s", rec.Body.String(), providerBody)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
}

func TestChatHandler_OverridesDefaults(t *testing.T) {
	provider := &testutil.MockProvider{
		ChatCompletionFunc: func(ctx context.Context, model string, messages []openrouter.ChatMessage, maxTokens int, temperature float64) (*openrouter.ChatCompletion, error) {
			if maxTokens != 500 {
				t.Errorf("max_tokens = %d, want 500", maxTokens)
			}
			if temperature != 0.2 {
				t.Errorf("temperature = %v, want 0.2", temperature)
			}
			return &openrouter.ChatCompletion{Raw: json.RawMessage(`{}`)}, nil
		},
	}
	h := newTestHandlers(provider, nil)

	req := httptest.NewRequest(http.MethodPost, "/chat/", strings.NewReader(
		`{"model":"m1","messages":[{"role":"user","content":"hello"}],"max_tokens":500,"temperature":0.2}`))
	rec := httptest.NewRecorder()
	h.ChatHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestChatHandler_ValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing model", `{"messages":[{"role":"user","content":"hi"}]}`},
		{"empty messages", `{"model":"m1","messages":[]}`},
		{"temperature out of range", `{"model":"m1","messages":[{"role":"user","content":"hi"}],"temperature":3.5}`},
		{"max_tokens out of range", `{"model":"m1","messages":[{"role":"user","content":"hi"}],"max_tokens":0}`},
		{"malformed body", `{not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			provider := &testutil.MockProvider{
				ChatCompletionFunc: func(ctx context.Context, model string, messages []openrouter.ChatMessage, maxTokens int, temperature float64) (*openrouter.ChatCompletion, error) {
					called = true
					return nil, errors.New("should not be reached")
				},
			}
			h := newTestHandlers(provider, nil)

			req := httptest.NewRequest(http.MethodPost, "/chat/", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.ChatHandler(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			if called {
				t.Error("provider must not be called for an invalid request")
			}

			var body ErrorResponse
			decodeBody(t, rec, &body)
			if body.Detail == "" {
				t.Error("error response missing detail")
			}
		})
	}
}

func TestChatHandler_ProviderFailure(t *testing.T) {
	provider := &testutil.MockProvider{
		ChatCompletionFunc: func(ctx context.Context, model string, messages []openrouter.ChatMessage, maxTokens int, temperature float64) (*openrouter.ChatCompletion, error) {
			return nil, &openrouter.ProviderError{Err: errors.New("upstream timeout")}
		},
	}
	h := newTestHandlers(provider, nil)

	req := httptest.NewRequest(http.MethodPost, "/chat/", strings.NewReader(
		`{"model":"m1","messages":[{"role":"user","content":"hello"}]}`))
	rec := httptest.NewRecorder()
	h.ChatHandler(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}

	var body ErrorResponse
	decodeBody(t, rec, &body)
	if !strings.HasPrefix(body.Detail, "Chat completion failed:") {
		t.Errorf("detail = %q, want 'Chat completion failed:' prefix", body.Detail)
	}
	if !strings.Contains(body.Detail, "upstream timeout") {
		t.Errorf("detail should carry the cause: %q", body.Detail)
	}
}
