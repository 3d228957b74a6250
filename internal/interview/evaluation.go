package interview

import (
	_ "embed"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

//go:embed evaluate_prompt.md
var evaluatePromptTemplate string

// DefaultFeedbackText is the fallback used when the evaluation response
// carries no recognizable feedback, or when the evaluation call fails.
const DefaultFeedbackText = "No feedback provided."

// Feedback is the combined evaluation of a full interview transcript:
// one feedback paragraph and one accuracy score on a 0-100 scale.
type Feedback struct {
	Text  string
	Score int
}

// DefaultFeedback is the degraded-but-terminal evaluation result.
func DefaultFeedback() Feedback {
	return Feedback{Text: DefaultFeedbackText, Score: 0}
}

// DisplayScore renders the score on a 0-10 scale with one decimal place.
func (f Feedback) DisplayScore() string {
	return fmt.Sprintf("%.1f / 10", float64(f.Score)/10)
}

// BuildEvaluationPrompt assembles the transcript-evaluation prompt: the
// fixed instruction followed by every question/answer pair in interview
// order. Pairs beyond the shorter of the two slices are ignored.
func BuildEvaluationPrompt(questions []QuestionRecord, responses []string) string {
	var builder strings.Builder
	builder.WriteString(evaluatePromptTemplate)
	builder.WriteString("\n")

	pairs := len(questions)
	if len(responses) < pairs {
		pairs = len(responses)
	}

	for i := 0; i < pairs; i++ {
		builder.WriteString(fmt.Sprintf("Q%d: %s\nA%d: %s\n\n", i+1, questions[i].Question, i+1, responses[i]))
	}

	return builder.String()
}

var (
	feedbackPattern = regexp.MustCompile(`(?s)Feedback:\s*(.*?)(?:\nScore:|\z)`)
	scorePattern    = regexp.MustCompile(`Score:\s*(\d+)`)
)

// ParseEvaluation extracts the feedback paragraph and the integer score
// from the model's free-text reply. Missing pieces fall back to the
// defaults rather than failing: an absent Feedback label yields
// DefaultFeedbackText and an absent Score yields zero.
func ParseEvaluation(raw string) Feedback {
	feedback := DefaultFeedback()

	if match := feedbackPattern.FindStringSubmatch(raw); match != nil {
		if text := strings.TrimSpace(match[1]); text != "" {
			feedback.Text = text
		}
	}

	if match := scorePattern.FindStringSubmatch(raw); match != nil {
		if score, err := strconv.Atoi(match[1]); err == nil {
			feedback.Score = score
		}
	}

	return feedback
}
