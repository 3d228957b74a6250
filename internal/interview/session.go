// Package interview owns the interview session lifecycle: prompt assembly,
// parsing of the model's replies, and the state machine driving the
// upload -> generate -> answer -> evaluate flow.
package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dmaryin/interview-coach/internal/ai"
	"github.com/dmaryin/interview-coach/internal/logger"
)

// Error taxonomy. Validation errors leave the session state untouched and
// the action may be retried; the others accompany a defined transition.
var (
	ErrValidation  = errors.New("validation error")
	ErrWrongState  = errors.New("action not allowed in current state")
	ErrNoQuestions = errors.New("no questions parsed from generation response")
)

// State identifies a phase of the interview session.
type State string

const (
	StateNotStarted State = "not_started"
	StateGenerating State = "generating"
	StateAnswering  State = "answering"
	StateEvaluating State = "evaluating"
	StateDone       State = "done"
)

const defaultMaxLogLength = 200

// Exchange is one question/answer pair of the transcript, 1-indexed for
// display.
type Exchange struct {
	Number   int
	Question string
	Answer   string
}

// Session is one end-to-end interview attempt. All mutating operations go
// through its methods; access to a single session is serialized internally
// so a shared store never observes a half-applied transition. Sessions are
// not persisted across restarts.
type Session struct {
	id        string
	createdAt time.Time
	generator ai.Generator
	logger    *zap.Logger
	maxLogLen int

	mu          sync.Mutex
	state       State
	questions   []QuestionRecord
	currentIdx  int
	responses   []string
	feedback    *Feedback
	chatStarted bool
}

// NewSession creates an empty session in StateNotStarted.
func NewSession(generator ai.Generator, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}

	return &Session{
		id:        uuid.NewString(),
		createdAt: time.Now(),
		generator: generator,
		logger:    log,
		maxLogLen: defaultMaxLogLength,
		state:     StateNotStarted,
	}
}

func (s *Session) ID() string { return s.id }

// SetMaxLogLength overrides the preview length used in debug logs.
func (s *Session) SetMaxLogLength(limit int) {
	if limit > 0 {
		s.maxLogLen = limit
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Started reports whether question generation has ever succeeded for this
// session. It never flips back to false except through Reset.
func (s *Session) Started() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chatStarted
}

// Start validates the inputs, generates tailored questions and moves the
// session into the answering phase. On any failure the session returns to
// StateNotStarted and no partial question set is ever exposed.
func (s *Session) Start(ctx context.Context, cvText, jdText string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateNotStarted {
		return fmt.Errorf("%w: session is %s", ErrWrongState, s.state)
	}

	if strings.TrimSpace(cvText) == "" {
		return fmt.Errorf("%w: CV text is empty", ErrValidation)
	}
	if strings.TrimSpace(jdText) == "" {
		return fmt.Errorf("%w: job description is empty", ErrValidation)
	}

	s.state = StateGenerating

	prompt := BuildGenerationPrompt(cvText, jdText)
	s.logger.Debug("question generation request",
		zap.String("session_id", s.id),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, s.maxLogLen)),
	)

	raw, err := s.generator.GenerateContent(ctx, GenerationSystemInstruction, prompt)
	if err != nil {
		s.state = StateNotStarted
		return fmt.Errorf("generate questions: %w", err)
	}

	s.logger.Debug("question generation response",
		zap.String("session_id", s.id),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, s.maxLogLen)),
	)

	questions, err := ParseQuestions(raw)
	if err != nil {
		s.state = StateNotStarted
		return err
	}
	if len(questions) == 0 {
		s.state = StateNotStarted
		return ErrNoQuestions
	}

	s.questions = questions
	s.currentIdx = 0
	s.responses = make([]string, 0, len(questions))
	s.feedback = nil
	s.chatStarted = true
	s.state = StateAnswering

	return nil
}

// SubmitAnswer records the answer to the current question and advances the
// cursor. Empty or whitespace-only submissions are rejected without any
// state change. Answering the last question moves the session to
// StateEvaluating.
func (s *Session) SubmitAnswer(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateAnswering {
		return fmt.Errorf("%w: session is %s", ErrWrongState, s.state)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("%w: answer cannot be empty", ErrValidation)
	}

	s.responses = append(s.responses, text)
	s.currentIdx++

	if s.currentIdx == len(s.questions) {
		s.state = StateEvaluating
	}

	return nil
}

// Evaluate asks the model to score the full transcript. Evaluation failure
// is non-fatal: the session still reaches StateDone with the default
// feedback pair, and the cause is returned for reporting. The feedback is
// set exactly once; StateDone is terminal until Reset.
func (s *Session) Evaluate(ctx context.Context) (Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateEvaluating {
		return Feedback{}, fmt.Errorf("%w: session is %s", ErrWrongState, s.state)
	}

	prompt := BuildEvaluationPrompt(s.questions, s.responses)
	s.logger.Debug("evaluation request",
		zap.String("session_id", s.id),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, s.maxLogLen)),
	)

	raw, err := s.generator.GenerateContent(ctx, EvaluationSystemInstruction, prompt)
	if err != nil {
		fallback := DefaultFeedback()
		s.feedback = &fallback
		s.state = StateDone
		return fallback, fmt.Errorf("evaluate answers: %w", err)
	}

	s.logger.Debug("evaluation response",
		zap.String("session_id", s.id),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, s.maxLogLen)),
	)

	feedback := ParseEvaluation(raw)
	s.feedback = &feedback
	s.state = StateDone

	return feedback, nil
}

// Reset recreates the session record wholesale. The session identity is
// kept; everything else returns to the initial empty state.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = StateNotStarted
	s.questions = nil
	s.currentIdx = 0
	s.responses = nil
	s.feedback = nil
	s.chatStarted = false
	s.createdAt = time.Now()
}

// CurrentQuestion returns the question awaiting an answer and its 1-based
// display number. ok is false outside the answering phase.
func (s *Session) CurrentQuestion() (record QuestionRecord, number int, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateAnswering || s.currentIdx >= len(s.questions) {
		return QuestionRecord{}, 0, false
	}

	return s.questions[s.currentIdx], s.currentIdx + 1, true
}

// Progress returns the number of accepted answers and the total question
// count.
func (s *Session) Progress() (answered, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.responses), len(s.questions)
}

// Questions returns a copy of the generated question list.
func (s *Session) Questions() []QuestionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	questions := make([]QuestionRecord, len(s.questions))
	copy(questions, s.questions)
	return questions
}

// Transcript returns the answered question/answer pairs in interview order.
func (s *Session) Transcript() []Exchange {
	s.mu.Lock()
	defer s.mu.Unlock()

	transcript := make([]Exchange, 0, len(s.responses))
	for i, answer := range s.responses {
		transcript = append(transcript, Exchange{
			Number:   i + 1,
			Question: s.questions[i].Question,
			Answer:   answer,
		})
	}

	return transcript
}

// Feedback returns the evaluation result; ok is false until the session
// reaches StateDone.
func (s *Session) Feedback() (Feedback, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.feedback == nil {
		return Feedback{}, false
	}
	return *s.feedback, true
}
