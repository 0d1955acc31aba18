package config

import (
	"reflect"
	"testing"
)

func TestParseCORSOrigins_ValidJSON(t *testing.T) {
	origins := parseCORSOrigins(`["https://app.example.com","https://admin.example.com"]`)

	expected := []string{"https://app.example.com", "https://admin.example.com"}
	if !reflect.DeepEqual(origins, expected) {
		t.Errorf("parseCORSOrigins returned %v, want %v", origins, expected)
	}
}

func TestParseCORSOrigins_Empty(t *testing.T) {
	origins := parseCORSOrigins("")

	if len(origins) != 2 {
		t.Fatalf("expected 2 fallback origins, got %d", len(origins))
	}
	if origins[0] != "http://localhost:5173" {
		t.Errorf("unexpected fallback origin: %s", origins[0])
	}
}

func TestParseCORSOrigins_MalformedJSON(t *testing.T) {
	origins := parseCORSOrigins(`http://localhost:5173`)

	// Malformed input falls back rather than failing startup
	if len(origins) != 2 {
		t.Fatalf("expected fallback origins for malformed input, got %v", origins)
	}
}

func TestGetEnvAsBool(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		fallback bool
		want     bool
	}{
		{"true lowercase", "true", false, true},
		{"one", "1", false, true},
		{"false lowercase", "false", true, false},
		{"zero", "0", true, false},
		{"unset uses default", "", true, true},
		{"garbage uses default", "maybe", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_BOOL_KEY", tt.value)
			if got := getEnvAsBool("TEST_BOOL_KEY", tt.fallback); got != tt.want {
				t.Errorf("getEnvAsBool(%q, %v) = %v, want %v", tt.value, tt.fallback, got, tt.want)
			}
		})
	}
}
