package validation

import (
	"errors"
	"fmt"
)

// ChatRequestValidator validates chat-related requests
type ChatRequestValidator struct{}

// NewChatRequestValidator creates a new ChatRequestValidator
func NewChatRequestValidator() *ChatRequestValidator {
	return &ChatRequestValidator{}
}

// ValidateModel validates the target model identifier
func (v *ChatRequestValidator) ValidateModel(model string) error {
	if model == "" {
		return errors.New("model cannot be empty")
	}
	return nil
}

// ValidateMessages validates the chat turn sequence
func (v *ChatRequestValidator) ValidateMessages(messageCount int) error {
	if messageCount == 0 {
		return errors.New("messages cannot be empty")
	}
	return nil
}

// ValidateTemperature validates the temperature parameter
func (v *ChatRequestValidator) ValidateTemperature(temperature float64) error {
	if temperature < 0 || temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2, got %.2f", temperature)
	}
	return nil
}

// ValidateMaxTokens validates the max_tokens parameter
func (v *ChatRequestValidator) ValidateMaxTokens(maxTokens int) error {
	if maxTokens <= 0 || maxTokens > 100000 {
		return fmt.Errorf("max_tokens must be between 1 and 100000, got %d", maxTokens)
	}
	return nil
}

// ValidateChatRequest validates a complete chat request
func (v *ChatRequestValidator) ValidateChatRequest(model string, messageCount, maxTokens int, temperature float64) error {
	if err := v.ValidateModel(model); err != nil {
		return err
	}
	if err := v.ValidateMessages(messageCount); err != nil {
		return err
	}
	if err := v.ValidateMaxTokens(maxTokens); err != nil {
		return err
	}
	return v.ValidateTemperature(temperature)
}

// ValidateCreateSession validates a session creation request
func (v *ChatRequestValidator) ValidateCreateSession(modelID string) error {
	if modelID == "" {
		return errors.New("model_id cannot be empty")
	}
	return nil
}

// ValidateUpdateSession validates a session title update request
func (v *ChatRequestValidator) ValidateUpdateSession(title string) error {
	if title == "" {
		return errors.New("title cannot be empty")
	}
	return nil
}
