package llm

import (
	"context"
	"testing"
)

func TestGeminiModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"gemini-flash", "gemini-2.0-flash"},
		{"gemini-pro", "gemini-2.0-pro"},
		{"gemini-2.0-flash", "gemini-2.0-flash"}, // Pass-through
	}
	for _, tt := range tests {
		got := resolveModel(tt.input, geminiModels)
		if got != tt.expected {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestGeminiSchemaFromHintSchema(t *testing.T) {
	schema := geminiSchema(hintRefinementTestDefinition())

	if schema.Type != "OBJECT" {
		t.Fatalf("expected OBJECT type, got %s", schema.Type)
	}
	if len(schema.Properties) != 3 {
		t.Fatalf("expected 3 properties, got %d", len(schema.Properties))
	}
	if schema.Properties["content"].Type != "STRING" {
		t.Fatalf("expected STRING for content, got %s", schema.Properties["content"].Type)
	}
	concepts := schema.Properties["related_concepts"]
	if concepts.Type != "ARRAY" || concepts.Items.Type != "STRING" {
		t.Fatalf("unexpected related_concepts schema: %+v", concepts)
	}
	if len(schema.Required) != 2 {
		t.Fatalf("expected 2 required fields, got %d", len(schema.Required))
	}
}

func TestGeminiSchemaUnknownType(t *testing.T) {
	schema := geminiSchema(map[string]any{"type": "null", "enum": []any{"a", 1, "b"}})
	if schema.Type != "STRING" {
		t.Errorf("type = %s, want STRING", schema.Type)
	}
	if len(schema.Enum) != 2 {
		t.Errorf("enum = %v, want only string values", schema.Enum)
	}
}

func TestNewGeminiProviderRequiresKey(t *testing.T) {
	if _, err := NewGeminiProvider(context.Background(), GeminiConfig{}); err == nil {
		t.Fatal("expected error for empty API key")
	}
}
