package interview

import (
	_ "embed"
)

// System instructions framing each of the two LLM calls.
const (
	GenerationSystemInstruction = "Act as a professional HR and technical interviewer."
	EvaluationSystemInstruction = "Act as an expert interviewer evaluating answers collectively."
)

//go:embed generate_prompt.md
var generatePromptTemplate string

// BuildGenerationPrompt assembles the question-generation prompt: the fixed
// instruction template followed by the CV and the job description, both
// passed through verbatim. Emptiness checks are the caller's concern.
func BuildGenerationPrompt(cvText, jdText string) string {
	return generatePromptTemplate + "\n\nCV:\n" + cvText + "\n\nJob Description:\n" + jdText
}
