package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestGenerator(t *testing.T, handler http.HandlerFunc) (*Generator, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	gen, err := NewGenerator("test-key", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	gen.SetBaseURL(srv.URL)

	return gen, srv
}

func TestGenerateContent(t *testing.T) {
	var gotAuth string
	var gotBody chatRequest

	gen, _ := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}

		resp := chatResponse{Choices: []choice{{
			Message: message{Role: "assistant", Content: "  Q1:\nWhat is Go?\n  "},
		}}}
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			t.Errorf("encode response: %v", err)
		}
	})

	out, err := gen.GenerateContent(context.Background(), "Act as an interviewer.", "Generate questions.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out != "Q1:\nWhat is Go?" {
		t.Fatalf("unexpected output: %q", out)
	}

	if gotAuth != "Bearer test-key" {
		t.Fatalf("unexpected auth header: %q", gotAuth)
	}

	if gotBody.Model != defaultModel {
		t.Fatalf("unexpected model: %q", gotBody.Model)
	}

	if len(gotBody.Messages) != 2 || gotBody.Messages[0].Role != "system" || gotBody.Messages[1].Role != "user" {
		t.Fatalf("unexpected messages: %+v", gotBody.Messages)
	}
}

func TestGenerateContentAPIError(t *testing.T) {
	gen, _ := newTestGenerator(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		resp := chatResponse{Error: &apiError{Message: "rate limit exceeded", Type: "requests"}}
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			t.Errorf("encode response: %v", err)
		}
	})

	_, err := gen.GenerateContent(context.Background(), "", "prompt")
	if err == nil {
		t.Fatalf("expected error")
	}

	if !strings.Contains(err.Error(), "rate limit exceeded") {
		t.Fatalf("expected API error message surfaced, got: %v", err)
	}
}

func TestGenerateContentNoChoices(t *testing.T) {
	gen, _ := newTestGenerator(t, func(w http.ResponseWriter, _ *http.Request) {
		if err := json.NewEncoder(w).Encode(chatResponse{}); err != nil {
			t.Errorf("encode response: %v", err)
		}
	})

	if _, err := gen.GenerateContent(context.Background(), "", "prompt"); err == nil {
		t.Fatalf("expected error for empty choices")
	}
}

func TestNewGeneratorRequiresAPIKey(t *testing.T) {
	if _, err := NewGenerator("  ", "gpt-4o"); err == nil {
		t.Fatalf("expected error for empty api key")
	}
}

func TestGenerateContentRejectsEmptyPrompt(t *testing.T) {
	gen, err := NewGenerator("test-key", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := gen.GenerateContent(context.Background(), "system", "   "); err == nil {
		t.Fatalf("expected error for empty prompt")
	}
}
