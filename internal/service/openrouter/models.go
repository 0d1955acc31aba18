package openrouter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/ToprakKamburoglu/madlen-chat-app/internal/logger"

	"github.com/sirupsen/logrus"
)

const (
	visionMarker      = "📷"
	descriptionMaxLen = 150
)

var visionKeywords = []string{"vision", "visual", "image", "multimodal", "multi-modal", "vlm"}

// Price is a model price as reported by OpenRouter. The API documents prices
// as decimal strings ("0"), but the type also accepts plain JSON numbers so a
// representation change upstream cannot silently empty the free-model filter.
type Price string

func (p *Price) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*p = Price(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*p = Price(n.String())
		return nil
	}
	return fmt.Errorf("invalid price value: %s", string(data))
}

// IsZero reports whether the price parses to exactly zero. Missing or
// unparsable prices are not zero, so such models never pass the free filter.
func (p Price) IsZero() bool {
	v, err := strconv.ParseFloat(string(p), 64)
	return err == nil && v == 0
}

// ModelPricing holds the per-token costs of a model
type ModelPricing struct {
	Prompt     Price `json:"prompt"`
	Completion Price `json:"completion"`
}

// ModelArchitecture describes the declared input/output modalities
type ModelArchitecture struct {
	InputModalities []string `json:"input_modalities,omitempty"`
}

// ModelInfo is one catalog entry as returned to API clients
type ModelInfo struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Description    string             `json:"description"`
	ContextLength  int                `json:"context_length"`
	Architecture   *ModelArchitecture `json:"architecture,omitempty"`
	Pricing        ModelPricing       `json:"pricing"`
	SupportsVision bool               `json:"supports_vision"`
}

type modelsEnvelope struct {
	Data []ModelInfo `json:"data"`
}

// ListModels fetches the FREE model catalog from OpenRouter with vision
// support detection. Any failure yields the default catalog, never an error.
func (c *Client) ListModels(ctx context.Context) []ModelInfo {
	ctx, span := c.tracer.Start(ctx, "openrouter.get_models")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, listModelsTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/models", nil)
	if err != nil {
		logger.Log.WithError(err).Warn("Error creating models request, using defaults")
		return defaultModels()
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		logger.Log.WithError(err).Warn("Error fetching models, using defaults")
		return defaultModels()
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Log.WithField("status_code", resp.StatusCode).Warn("Models request failed, using defaults")
		return defaultModels()
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		logger.Log.WithError(err).Warn("Error reading models response, using defaults")
		return defaultModels()
	}

	var envelope modelsEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		span.RecordError(err)
		logger.Log.WithError(err).Warn("Error decoding models response, using defaults")
		return defaultModels()
	}

	free := filterFreeModels(envelope.Data)

	visionCount := 0
	for i := range free {
		annotateModel(&free[i])
		if free[i].SupportsVision {
			visionCount++
		}
	}

	// Vision models first, then alphabetical by name
	sort.SliceStable(free, func(i, j int) bool {
		if free[i].SupportsVision != free[j].SupportsVision {
			return free[i].SupportsVision
		}
		return free[i].Name < free[j].Name
	})

	logger.Log.WithFields(logrus.Fields{
		"model_count":  len(free),
		"vision_count": visionCount,
	}).Info("Loaded free models from OpenRouter")

	return free
}

func filterFreeModels(models []ModelInfo) []ModelInfo {
	free := make([]ModelInfo, 0, len(models))
	for _, m := range models {
		if m.Pricing.Prompt.IsZero() && m.Pricing.Completion.IsZero() {
			free = append(free, m)
		}
	}
	return free
}

// annotateModel derives the vision flag, marks the display name, and trims
// long descriptions.
func annotateModel(m *ModelInfo) {
	m.SupportsVision = supportsVision(m)

	if m.SupportsVision && !strings.Contains(m.Name, visionMarker) {
		m.Name = visionMarker + " " + m.Name
	}

	if desc := []rune(m.Description); len(desc) > descriptionMaxLen {
		m.Description = string(desc[:descriptionMaxLen]) + "..."
	}
}

// supportsVision checks the declared input modalities first, then falls back
// to keyword matching on the model ID and display name.
func supportsVision(m *ModelInfo) bool {
	if m.Architecture != nil {
		for _, modality := range m.Architecture.InputModalities {
			if modality == "image" {
				return true
			}
		}
	}

	id := strings.ToLower(m.ID)
	name := strings.ToLower(m.Name)
	for _, keyword := range visionKeywords {
		if strings.Contains(id, keyword) || strings.Contains(name, keyword) {
			return true
		}
	}

	return false
}

// defaultModels is the fixed fallback catalog served when OpenRouter is
// unreachable or returns garbage.
func defaultModels() []ModelInfo {
	return []ModelInfo{
		{
			ID:            "meta-llama/llama-3.2-3b-instruct:free",
			Name:          "Llama 3.2 3B Instruct (Free)",
			Description:   "Fast and efficient small model",
			ContextLength: 131072,
			Pricing:       ModelPricing{Prompt: "0", Completion: "0"},
		},
		{
			ID:            "google/gemma-2-9b-it:free",
			Name:          "Gemma 2 9B (Free)",
			Description:   "Google's efficient model",
			ContextLength: 8192,
			Pricing:       ModelPricing{Prompt: "0", Completion: "0"},
		},
		{
			ID:            "microsoft/phi-3-mini-128k-instruct:free",
			Name:          "Phi-3 Mini 128K (Free)",
			Description:   "Microsoft's compact model",
			ContextLength: 128000,
			Pricing:       ModelPricing{Prompt: "0", Completion: "0"},
		},
	}
}
