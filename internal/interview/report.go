package interview

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Report is the exportable summary of a finished interview.
type Report struct {
	SessionID   string        `json:"session_id"`
	GeneratedAt time.Time     `json:"generated_at"`
	Entries     []ReportEntry `json:"questions_and_answers"`
	Feedback    string        `json:"feedback,omitempty"`
	Score       int           `json:"score"`
	ScoreOf10   string        `json:"score_of_10,omitempty"`
}

// ReportEntry pairs a question with the candidate's answer and the model's
// own sample answer and key points.
type ReportEntry struct {
	Number       int    `json:"number"`
	Question     string `json:"question"`
	Answer       string `json:"answer,omitempty"`
	SampleAnswer string `json:"sample_answer,omitempty"`
	KeyPoints    string `json:"key_points,omitempty"`
}

// Report builds the exportable summary from the session's current state.
func (s *Session) Report() Report {
	s.mu.Lock()
	defer s.mu.Unlock()

	report := Report{
		SessionID:   s.id,
		GeneratedAt: time.Now(),
		Entries:     make([]ReportEntry, 0, len(s.questions)),
	}

	for i, question := range s.questions {
		entry := ReportEntry{
			Number:       i + 1,
			Question:     question.Question,
			SampleAnswer: question.SampleAnswer,
			KeyPoints:    question.KeyPoints,
		}
		if i < len(s.responses) {
			entry.Answer = s.responses[i]
		}
		report.Entries = append(report.Entries, entry)
	}

	if s.feedback != nil {
		report.Feedback = s.feedback.Text
		report.Score = s.feedback.Score
		report.ScoreOf10 = s.feedback.DisplayScore()
	}

	return report
}

// DumpToTmpFile writes the report as indented JSON to a temporary file and
// returns its name.
func (r Report) DumpToTmpFile() (string, error) {
	payload, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}

	file, err := os.CreateTemp("", "interview-coach-*.json")
	if err != nil {
		return "", fmt.Errorf("create report file: %w", err)
	}
	defer file.Close()

	if _, err := file.Write(payload); err != nil {
		return "", fmt.Errorf("write report file: %w", err)
	}

	return file.Name(), nil
}
