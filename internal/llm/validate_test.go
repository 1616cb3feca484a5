package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func hintRefinementTestDefinition() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"content":   map[string]any{"type": "string", "minLength": 1},
			"reasoning": map[string]any{"type": "string"},
			"related_concepts": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"required": []any{"content", "reasoning"},
	}
}

func hintTestSchema() *Schema {
	return &Schema{
		Name:        "test-hint",
		Description: "A rewritten hint",
		Definition:  hintRefinementTestDefinition(),
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"content":"Look at units","reasoning":"r","related_concepts":["ratios"]}`, false},
		{"valid without optional", `{"content":"Look at units","reasoning":"r"}`, false},
		{"missing required", `{"content":"Look at units"}`, true},
		{"empty content", `{"content":"","reasoning":"r"}`, true},
		{"wrong item type", `{"content":"x","reasoning":"r","related_concepts":[1,2]}`, true},
		{"malformed", `{not json}`, true},
		{"empty", ``, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(hintTestSchema(), json.RawMessage(tt.raw))
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("expected no error, got: %v", err)
				}
				return
			}
			var invErr *ErrInvalidResponse
			if !errors.As(err, &invErr) {
				t.Fatalf("expected ErrInvalidResponse, got: %T (%v)", err, err)
			}
			if string(invErr.Content) != tt.raw {
				t.Errorf("Content = %q, want %q", invErr.Content, tt.raw)
			}
		})
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`{"anything":"goes"}`)); err != nil {
		t.Fatalf("expected no error with nil schema, got: %v", err)
	}
}

func TestCompiledSchemaIsCached(t *testing.T) {
	s := &Schema{Name: "test-cache", Definition: map[string]any{"type": "string"}}
	first, err := compiledSchema(s)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	second, err := compiledSchema(s)
	if err != nil {
		t.Fatalf("compile again: %v", err)
	}
	if first != second {
		t.Fatal("expected cached schema instance")
	}
}
