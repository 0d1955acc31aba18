package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ToprakKamburoglu/madlen-chat-app/internal/config"
	"github.com/ToprakKamburoglu/madlen-chat-app/internal/logger"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	listModelsTimeout     = 30 * time.Second
	chatCompletionTimeout = 60 * time.Second
)

// Provider defines the interface for the upstream completion provider.
// This allows for easier testing through mocking.
type Provider interface {
	// ListModels fetches the free-tier model catalog. It never fails: on any
	// error the fixed fallback catalog is returned instead.
	ListModels(ctx context.Context) []ModelInfo

	// ChatCompletion issues a single synchronous completion request. No
	// retries, no fallback; failures surface as *ProviderError.
	ChatCompletion(ctx context.Context, model string, messages []ChatMessage, maxTokens int, temperature float64) (*ChatCompletion, error)
}

// ProviderError wraps a failed provider call with its underlying cause
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("OpenRouter API error: %v", e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// ChatMessage is one turn of the conversation sent to the provider. Content
// is either a JSON string or a multi-part array (text + image parts) and is
// forwarded unmodified either way.
type ChatMessage struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

// ResponseUsage is the token accounting reported by the provider
type ResponseUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// AssistantMessage is the assistant turn inside a completion choice
type AssistantMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Choice is one completion alternative in the provider response
type Choice struct {
	Message AssistantMessage `json:"message"`
}

// ChatCompletion carries the raw provider response body alongside the few
// fields the gateway itself needs (assistant content and usage). Raw is what
// goes back to the caller, byte for byte.
type ChatCompletion struct {
	Raw     json.RawMessage
	Choices []Choice
	Usage   *ResponseUsage
}

type completionEnvelope struct {
	Choices []Choice       `json:"choices"`
	Usage   *ResponseUsage `json:"usage"`
}

// Ensure Client implements the Provider interface
var _ Provider = (*Client)(nil)

// Client calls the OpenRouter HTTP API. It is stateless and safe for
// concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	tracer     trace.Tracer
}

// NewClient creates a new OpenRouter client. Outbound requests are traced
// through the given provider.
func NewClient(cfg config.OpenRouterConfig, tp trace.TracerProvider) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport, otelhttp.WithTracerProvider(tp)),
		},
		tracer: tp.Tracer("openrouter"),
	}
}

// ChatCompletion sends a chat completion request to OpenRouter
func (c *Client) ChatCompletion(ctx context.Context, model string, messages []ChatMessage, maxTokens int, temperature float64) (*ChatCompletion, error) {
	ctx, span := c.tracer.Start(ctx, "openrouter.chat_completion", trace.WithAttributes(
		attribute.String("model", model),
		attribute.Int("message_count", len(messages)),
	))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, chatCompletionTimeout)
	defer cancel()

	logger.Log.WithFields(logrus.Fields{
		"model":         model,
		"message_count": len(messages),
	}).Info("Calling OpenRouter API")

	reqBody := chatRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, &ProviderError{Err: fmt.Errorf("error marshaling request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, &ProviderError{Err: fmt.Errorf("error creating request: %w", err)}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		return nil, &ProviderError{Err: fmt.Errorf("error sending request: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		return nil, &ProviderError{Err: fmt.Errorf("error reading response body: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		span.RecordError(err)
		return nil, &ProviderError{Err: err}
	}

	var envelope completionEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		span.RecordError(err)
		return nil, &ProviderError{Err: fmt.Errorf("error decoding response: %w", err)}
	}

	if envelope.Usage != nil {
		span.SetAttributes(attribute.Int("completion_tokens", envelope.Usage.CompletionTokens))
	}

	logger.Log.WithField("response_length", len(body)).Debug("Received completion response")

	return &ChatCompletion{
		Raw:     json.RawMessage(body),
		Choices: envelope.Choices,
		Usage:   envelope.Usage,
	}, nil
}
