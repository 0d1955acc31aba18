package openrouter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ToprakKamburoglu/madlen-chat-app/internal/config"

	"go.opentelemetry.io/otel/trace/noop"
)

func newTestClient(baseURL string) *Client {
	return NewClient(config.OpenRouterConfig{
		APIKey:  "test-api-key",
		BaseURL: baseURL,
	}, noop.NewTracerProvider())
}

func modelsServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-api-key" {
			t.Errorf("unexpected Authorization header: %s", auth)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
}

func TestListModels_FiltersFreeModels(t *testing.T) {
	srv := modelsServer(t, `{"data":[
		{"id":"a/free","name":"Free Model","pricing":{"prompt":"0","completion":"0"}},
		{"id":"b/paid","name":"Paid Model","pricing":{"prompt":"0.000002","completion":"0.000004"}},
		{"id":"c/half-free","name":"Half Free","pricing":{"prompt":"0","completion":"0.000001"}},
		{"id":"d/no-pricing","name":"No Pricing"}
	]}`)
	defer srv.Close()

	models := newTestClient(srv.URL).ListModels(context.Background())

	if len(models) != 1 {
		t.Fatalf("expected 1 free model, got %d", len(models))
	}
	if models[0].ID != "a/free" {
		t.Errorf("unexpected model survived the filter: %s", models[0].ID)
	}
}

func TestListModels_NumericZeroPricing(t *testing.T) {
	// A provider-side representation change from "0" to 0 must not empty
	// the catalog
	srv := modelsServer(t, `{"data":[
		{"id":"a/free","name":"Free Model","pricing":{"prompt":0,"completion":0.0}}
	]}`)
	defer srv.Close()

	models := newTestClient(srv.URL).ListModels(context.Background())

	if len(models) != 1 {
		t.Fatalf("expected numeric-zero pricing to count as free, got %d models", len(models))
	}
}

func TestListModels_VisionDetection(t *testing.T) {
	srv := modelsServer(t, `{"data":[
		{"id":"a/with-modality","name":"Plain Name","architecture":{"input_modalities":["text","image"]},"pricing":{"prompt":"0","completion":"0"}},
		{"id":"b/some-vlm-model","name":"Keyword Model","pricing":{"prompt":"0","completion":"0"}},
		{"id":"c/text-only","name":"Text Model","pricing":{"prompt":"0","completion":"0"}}
	]}`)
	defer srv.Close()

	models := newTestClient(srv.URL).ListModels(context.Background())

	if len(models) != 3 {
		t.Fatalf("expected 3 models, got %d", len(models))
	}

	byID := make(map[string]ModelInfo)
	for _, m := range models {
		byID[m.ID] = m
	}

	if !byID["a/with-modality"].SupportsVision {
		t.Error("input modality 'image' should mark the model vision-capable")
	}
	if !byID["b/some-vlm-model"].SupportsVision {
		t.Error("'vlm' keyword in the ID should mark the model vision-capable")
	}
	if byID["c/text-only"].SupportsVision {
		t.Error("text-only model should not be vision-capable")
	}

	if name := byID["a/with-modality"].Name; !strings.HasPrefix(name, "📷 ") {
		t.Errorf("vision model name missing marker: %q", name)
	}
	if name := byID["c/text-only"].Name; strings.Contains(name, "📷") {
		t.Errorf("non-vision model name should not carry marker: %q", name)
	}
}

func TestListModels_MarkerNotDuplicated(t *testing.T) {
	srv := modelsServer(t, `{"data":[
		{"id":"a/vision","name":"📷 Already Marked Vision","pricing":{"prompt":"0","completion":"0"}}
	]}`)
	defer srv.Close()

	models := newTestClient(srv.URL).ListModels(context.Background())

	if len(models) != 1 {
		t.Fatalf("expected 1 model, got %d", len(models))
	}
	if count := strings.Count(models[0].Name, "📷"); count != 1 {
		t.Errorf("marker should appear exactly once, found %d in %q", count, models[0].Name)
	}
}

func TestListModels_SortsVisionFirstThenName(t *testing.T) {
	srv := modelsServer(t, `{"data":[
		{"id":"a","name":"Zeta","architecture":{"input_modalities":["image"]},"pricing":{"prompt":"0","completion":"0"}},
		{"id":"b","name":"Alpha","pricing":{"prompt":"0","completion":"0"}},
		{"id":"c","name":"Beta","architecture":{"input_modalities":["image"]},"pricing":{"prompt":"0","completion":"0"}}
	]}`)
	defer srv.Close()

	models := newTestClient(srv.URL).ListModels(context.Background())

	if len(models) != 3 {
		t.Fatalf("expected 3 models, got %d", len(models))
	}

	expected := []string{"c", "a", "b"}
	for i, id := range expected {
		if models[i].ID != id {
			t.Errorf("position %d: got %s, want %s", i, models[i].ID, id)
		}
	}
}

func TestListModels_TruncatesLongDescriptions(t *testing.T) {
	long := strings.Repeat("x", 200)
	srv := modelsServer(t, `{"data":[
		{"id":"a","name":"Model","description":"`+long+`","pricing":{"prompt":"0","completion":"0"}}
	]}`)
	defer srv.Close()

	models := newTestClient(srv.URL).ListModels(context.Background())

	if len(models) != 1 {
		t.Fatalf("expected 1 model, got %d", len(models))
	}
	desc := models[0].Description
	if !strings.HasSuffix(desc, "...") {
		t.Errorf("truncated description should end with ellipsis: %q", desc)
	}
	if got := len([]rune(desc)); got != descriptionMaxLen+3 {
		t.Errorf("truncated description length = %d, want %d", got, descriptionMaxLen+3)
	}
}

func TestListModels_FallbackOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	models := newTestClient(srv.URL).ListModels(context.Background())

	if len(models) != 3 {
		t.Fatalf("expected the 3-entry fallback catalog, got %d models", len(models))
	}
	if models[0].ID != "meta-llama/llama-3.2-3b-instruct:free" {
		t.Errorf("unexpected first fallback model: %s", models[0].ID)
	}
}

func TestListModels_FallbackOnUnreachableHost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	models := newTestClient(srv.URL).ListModels(context.Background())

	if len(models) != 3 {
		t.Fatalf("expected the 3-entry fallback catalog, got %d models", len(models))
	}
}

func TestListModels_FallbackOnMalformedBody(t *testing.T) {
	srv := modelsServer(t, `{"data": not-json`)
	defer srv.Close()

	models := newTestClient(srv.URL).ListModels(context.Background())

	if len(models) != 3 {
		t.Fatalf("expected the 3-entry fallback catalog, got %d models", len(models))
	}
}

func TestPriceIsZero(t *testing.T) {
	tests := []struct {
		price Price
		want  bool
	}{
		{"0", true},
		{"0.0", true},
		{"0.000002", false},
		{"", false},
		{"free", false},
	}

	for _, tt := range tests {
		if got := tt.price.IsZero(); got != tt.want {
			t.Errorf("Price(%q).IsZero() = %v, want %v", tt.price, got, tt.want)
		}
	}
}
