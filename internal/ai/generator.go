package ai

import "context"

// Generator sends a prompt to an LLM and returns the raw text response.
// The system instruction frames the model's role; the prompt carries the
// actual request. Implementations live under internal/ai/gemini and
// internal/ai/openai.
type Generator interface {
	GenerateContent(ctx context.Context, system, prompt string) (string, error)
	Model() string
}
