package practicesession

import (
	"context"
	"log/slog"
	"math"
	"sync"

	"github.com/hamforge/backend/internal/domain/question"
	"github.com/hamforge/backend/internal/id"
)

// ProgressStore is the slice of the progress store a practice session
// needs: session-level counters, the flagged set, and the study-day log.
type ProgressStore interface {
	IncrementAnswered(ctx context.Context, correct bool) error
	FlaggedQuestions(ctx context.Context) ([]string, error)
	RecordStudyDay(ctx context.Context) error
}

// ProgressReporter receives one best-effort scheduling update per answer.
// Implementations must swallow their own failures.
type ProgressReporter interface {
	ReportAnswer(sessionID, questionID string, correct bool, confidence int)
}

// Answer is one submitted answer; the list is append-only.
type Answer struct {
	QuestionID     string `json:"questionId"`
	SelectedAnswer int    `json:"selectedAnswer"`
	Correct        bool   `json:"correct"`
}

// Stats summarizes a session so far.
type Stats struct {
	TotalQuestions int `json:"totalQuestions"`
	Answered       int `json:"answered"`
	Correct        int `json:"correct"`
	Incorrect      int `json:"incorrect"`
	Accuracy       int `json:"accuracy"` // rounded percentage, 0 when nothing answered
}

// Session is a practice run over a filtered question subset with immediate
// per-answer feedback. A session with zero matching questions is valid;
// only a failed fetch produces an error state.
type Session struct {
	ID     string
	Config SessionConfig

	progress ProgressStore
	reporter ProgressReporter
	logger   *slog.Logger

	mu        sync.Mutex
	questions []question.Question
	current   int
	answers   []Answer
	complete  bool
	errMsg    string
}

// New resolves the working question set from the config and starts the
// session. On a fetch failure the session carries the error message and an
// empty question set. A successful (even empty) load records a study day
// exactly once.
func New(ctx context.Context, cfg SessionConfig, pool question.PoolProvider, progress ProgressStore, reporter ProgressReporter, logger *slog.Logger) *Session {
	s := &Session{
		ID:       id.GenerateID(),
		Config:   cfg,
		progress: progress,
		reporter: reporter,
		logger:   logger,
	}

	questions, err := resolveQuestions(ctx, cfg, pool, progress)
	if err != nil {
		s.errMsg = err.Error()
		s.questions = []question.Question{}
		return s
	}
	s.questions = questions

	if err := progress.RecordStudyDay(ctx); err != nil {
		logger.Error("failed to record study day", "error", err)
	}
	return s
}

func resolveQuestions(ctx context.Context, cfg SessionConfig, pool question.PoolProvider, progress ProgressStore) ([]question.Question, error) {
	var (
		questions []question.Question
		err       error
	)

	switch {
	case len(cfg.Subelements) > 0:
		questions, err = bySubelements(ctx, cfg, pool)
		if err != nil {
			return nil, err
		}
		if len(cfg.Status) > 0 {
			statusSet, err := byStatus(ctx, cfg, pool)
			if err != nil {
				return nil, err
			}
			questions = intersect(questions, statusSet)
		}
	case len(cfg.Status) > 0:
		questions, err = byStatus(ctx, cfg, pool)
		if err != nil {
			return nil, err
		}
	default:
		questions, err = pool.GetPracticeQuestions(ctx, cfg.Level, cfg.QuestionCount)
		if err != nil {
			return nil, err
		}
	}

	if cfg.FlaggedOnly {
		flagged, err := progress.FlaggedQuestions(ctx)
		if err != nil {
			return nil, err
		}
		flaggedSet := make(map[string]struct{}, len(flagged))
		for _, fid := range flagged {
			flaggedSet[fid] = struct{}{}
		}
		kept := questions[:0]
		for _, q := range questions {
			if _, ok := flaggedSet[q.ID]; ok {
				kept = append(kept, q)
			}
		}
		questions = kept
	}

	if cfg.QuestionCount > 0 && len(questions) > cfg.QuestionCount {
		questions = questions[:cfg.QuestionCount]
	}
	if questions == nil {
		questions = []question.Question{}
	}
	return questions, nil
}

func bySubelements(ctx context.Context, cfg SessionConfig, pool question.PoolProvider) ([]question.Question, error) {
	var out []question.Question
	for _, sub := range cfg.Subelements {
		qs, err := pool.GetQuestionsBySubelement(ctx, cfg.Level, sub)
		if err != nil {
			return nil, err
		}
		out = append(out, qs...)
	}
	if len(cfg.Groups) > 0 {
		allowed := make(map[string]struct{}, len(cfg.Groups))
		for _, g := range cfg.Groups {
			allowed[g] = struct{}{}
		}
		kept := out[:0]
		for _, q := range out {
			if _, ok := allowed[q.GroupKey()]; ok {
				kept = append(kept, q)
			}
		}
		out = kept
	}
	return out, nil
}

// byStatus concatenates the per-status lists, dropping duplicates: a
// question matching two requested statuses counts once.
func byStatus(ctx context.Context, cfg SessionConfig, pool question.PoolProvider) ([]question.Question, error) {
	seen := make(map[string]struct{})
	var out []question.Question
	for _, status := range cfg.Status {
		qs, err := pool.GetQuestionsByStatus(ctx, cfg.Level, status)
		if err != nil {
			return nil, err
		}
		for _, q := range qs {
			if _, ok := seen[q.ID]; ok {
				continue
			}
			seen[q.ID] = struct{}{}
			out = append(out, q)
		}
	}
	return out, nil
}

func intersect(a, b []question.Question) []question.Question {
	inB := make(map[string]struct{}, len(b))
	for _, q := range b {
		inB[q.ID] = struct{}{}
	}
	kept := a[:0]
	for _, q := range a {
		if _, ok := inB[q.ID]; ok {
			kept = append(kept, q)
		}
	}
	return kept
}

// CurrentQuestion returns the question at the cursor.
func (s *Session) CurrentQuestion() (question.Question, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.complete || s.current >= len(s.questions) {
		return question.Question{}, false
	}
	return s.questions[s.current], true
}

// SubmitAnswer appends an answer for the current question and fans out the
// progress writes. The local record is the source of truth for session
// stats: a failing store write is logged by its owner and never blocks the
// append.
func (s *Session) SubmitAnswer(ctx context.Context, selectedAnswer int, correct bool, confidence int) {
	s.mu.Lock()
	if s.complete || s.current >= len(s.questions) {
		s.mu.Unlock()
		return
	}
	q := s.questions[s.current]
	s.answers = append(s.answers, Answer{
		QuestionID:     q.ID,
		SelectedAnswer: selectedAnswer,
		Correct:        correct,
	})
	s.mu.Unlock()

	if err := s.progress.IncrementAnswered(ctx, correct); err != nil {
		s.logger.Error("failed to increment answered counters", "question_id", q.ID, "error", err)
	}
	s.reporter.ReportAnswer(s.ID, q.ID, correct, confidence)
}

// NextQuestion advances the cursor. Moving past the last question marks
// the session complete instead; the cursor never changes after that.
func (s *Session) NextQuestion() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.complete {
		return
	}
	if s.current >= len(s.questions)-1 {
		s.complete = true
		return
	}
	s.current++
}

// Complete reports whether the session has run past its last question.
// A zero-question session is complete from the start.
func (s *Session) Complete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.complete || len(s.questions) == 0
}

// CurrentIndex returns the cursor position.
func (s *Session) CurrentIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Questions returns the resolved working set.
func (s *Session) Questions() []question.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]question.Question, len(s.questions))
	copy(out, s.questions)
	return out
}

// Answers returns the answers submitted so far, in order.
func (s *Session) Answers() []Answer {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Answer, len(s.answers))
	copy(out, s.answers)
	return out
}

// Err returns the load error message, empty when the session loaded fine.
func (s *Session) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// Stats derives the running session statistics.
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Stats{
		TotalQuestions: len(s.questions),
		Answered:       len(s.answers),
	}
	for _, a := range s.answers {
		if a.Correct {
			st.Correct++
		}
	}
	st.Incorrect = st.Answered - st.Correct
	if st.Answered > 0 {
		st.Accuracy = int(math.Round(float64(st.Correct) / float64(st.Answered) * 100))
	}
	return st
}
