package interview

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEvaluation(t *testing.T) {
	feedback := ParseEvaluation("Feedback: Good effort overall.\nScore: 75%")

	assert.Equal(t, "Good effort overall.", feedback.Text)
	assert.Equal(t, 75, feedback.Score)
	assert.Equal(t, "7.5 / 10", feedback.DisplayScore())
}

func TestParseEvaluationMissingScore(t *testing.T) {
	feedback := ParseEvaluation("Feedback: Solid answers with room to grow.")

	assert.Equal(t, "Solid answers with room to grow.", feedback.Text)
	assert.Equal(t, 0, feedback.Score)
	assert.Equal(t, "0.0 / 10", feedback.DisplayScore())
}

func TestParseEvaluationMissingFeedback(t *testing.T) {
	feedback := ParseEvaluation("Score: 40%")

	assert.Equal(t, DefaultFeedbackText, feedback.Text)
	assert.Equal(t, 40, feedback.Score)
}

func TestParseEvaluationUnparseable(t *testing.T) {
	feedback := ParseEvaluation("The model replied with something else entirely.")

	assert.Equal(t, DefaultFeedback(), feedback)
}

func TestParseEvaluationMultilineFeedback(t *testing.T) {
	raw := "Feedback: Strong technical depth.\nCommunication could be tighter.\nScore: 82%"

	feedback := ParseEvaluation(raw)
	assert.Equal(t, "Strong technical depth.\nCommunication could be tighter.", feedback.Text)
	assert.Equal(t, 82, feedback.Score)
}

func TestBuildEvaluationPrompt(t *testing.T) {
	questions := []QuestionRecord{
		{Question: "What is Go?"},
		{Question: "What is a goroutine?"},
	}
	responses := []string{"A language.", "A lightweight thread."}

	prompt := BuildEvaluationPrompt(questions, responses)

	require.Contains(t, prompt, "Q1: What is Go?\nA1: A language.")
	require.Contains(t, prompt, "Q2: What is a goroutine?\nA2: A lightweight thread.")
	assert.Less(t, strings.Index(prompt, "Q1:"), strings.Index(prompt, "Q2:"))
	assert.Contains(t, prompt, "Interview Questions and Answers:")
}

func TestBuildEvaluationPromptUnevenPairs(t *testing.T) {
	questions := []QuestionRecord{{Question: "Only one answered?"}, {Question: "Unanswered?"}}
	responses := []string{"Yes."}

	prompt := BuildEvaluationPrompt(questions, responses)
	assert.Contains(t, prompt, "Q1: Only one answered?")
	assert.NotContains(t, prompt, "Q2:")
}
