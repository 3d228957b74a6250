package gemini

import (
	"context"
	"testing"
)

func TestNewGeneratorRequiresAPIKey(t *testing.T) {
	if _, err := NewGenerator(context.Background(), "   ", ""); err == nil {
		t.Fatalf("expected error for empty api key")
	}
}

func TestGenerateContentUninitialized(t *testing.T) {
	var g *Generator
	if _, err := g.GenerateContent(context.Background(), "", "prompt"); err == nil {
		t.Fatalf("expected error for uninitialized generator")
	}

	empty := &Generator{}
	if _, err := empty.GenerateContent(context.Background(), "", "prompt"); err == nil {
		t.Fatalf("expected error for missing client")
	}
}

func TestGenerateContentRejectsEmptyPrompt(t *testing.T) {
	g, err := NewGenerator(context.Background(), "test-key", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := g.GenerateContent(context.Background(), "system", "   "); err == nil {
		t.Fatalf("expected error for empty prompt")
	}
}

func TestModelName(t *testing.T) {
	var nilGen *Generator
	if nilGen.Model() != "" {
		t.Fatalf("expected empty model for nil generator")
	}

	g := &Generator{modelName: "gemini-2.5-flash"}
	if g.Model() != "gemini-2.5-flash" {
		t.Fatalf("unexpected model: %s", g.Model())
	}
}
