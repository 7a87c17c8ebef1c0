package examsession

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/hamforge/backend/internal/domain/exam"
	"github.com/hamforge/backend/internal/domain/question"
)

// ExamSource generates a fresh exam when no session can be restored.
type ExamSource interface {
	Generate(ctx context.Context, level question.Level) (*exam.GeneratedExam, error)
}

// SnapshotStore persists the in-flight session under a fixed storage key so
// it survives a crash or restart. Load returns (nil, nil) when nothing is
// persisted.
type SnapshotStore interface {
	SaveExamSession(ctx context.Context, snap *Snapshot) error
	LoadExamSession(ctx context.Context) (*Snapshot, error)
	ClearExamSession(ctx context.Context) error
}

// Archiver records a finished attempt. The returned ID identifies the
// archived attempt.
type Archiver interface {
	SaveExamAttempt(ctx context.Context, level question.Level, score int, passed bool, timeSpentSeconds int, answers []SavedAnswer) (string, error)
}

// ProgressReporter receives one best-effort per-question outcome report.
// Implementations must swallow their own failures.
type ProgressReporter interface {
	ReportAnswer(sessionID, questionID string, correct bool, confidence int)
}

// SavedAnswer is the archived per-question outcome. SelectedAnswer is -1
// for questions never answered.
type SavedAnswer struct {
	QuestionID     string `json:"questionId"`
	SelectedAnswer int    `json:"selectedAnswer"`
	Correct        bool   `json:"correct"`
}

// Unanswered is the SelectedAnswer sentinel for skipped questions.
const Unanswered = -1

// Controller drives one timed exam attempt: navigation, answer tracking,
// flagging, countdown, and an idempotent submission path shared by the
// manual submit and the timer expiry.
//
// All methods are safe for concurrent use; the submission guard is set
// under the mutex before any store I/O begins, so racing submits collapse
// into exactly one scoring pass and at most one archival write.
type Controller struct {
	snapshots SnapshotStore
	archive   Archiver
	reporter  ProgressReporter
	logger    *slog.Logger

	mu            sync.Mutex
	level         question.Level
	exam          *exam.GeneratedExam
	currentIndex  int
	answers       map[string]int
	flagged       map[int]struct{}
	startTime     time.Time
	timeRemaining int // seconds
	loading       bool
	complete      bool
	submitting    bool
	restored      bool
	errMsg        string
	result        *exam.Result
	savedExamID   string

	now func() time.Time
}

// New builds a controller for the given level. A persisted session is
// restored when it exists, matches the level, and is not complete; the
// generator is not called in that case. Otherwise a fresh exam is
// generated, and a generation failure leaves the controller in an error
// state rather than returning an error.
func New(ctx context.Context, level question.Level, source ExamSource, snapshots SnapshotStore, archive Archiver, reporter ProgressReporter, logger *slog.Logger) *Controller {
	c := &Controller{
		snapshots: snapshots,
		archive:   archive,
		reporter:  reporter,
		logger:    logger,
		level:     level,
		answers:   make(map[string]int),
		flagged:   make(map[int]struct{}),
		loading:   true,
		now:       time.Now,
	}

	if snap := c.loadSnapshot(ctx); snap != nil && snap.Level == level && !snap.Complete && snap.Exam != nil {
		c.restore(snap)
		return c
	}

	generated, err := source.Generate(ctx, level)
	if err != nil {
		c.mu.Lock()
		c.loading = false
		c.errMsg = "failed to generate exam: " + err.Error()
		c.mu.Unlock()
		return c
	}

	c.mu.Lock()
	c.exam = generated
	c.startTime = c.now()
	c.timeRemaining = generated.TimeLimit * 60
	c.loading = false
	c.mu.Unlock()

	c.persist()
	return c
}

func (c *Controller) loadSnapshot(ctx context.Context) *Snapshot {
	snap, err := c.snapshots.LoadExamSession(ctx)
	if err != nil {
		c.logger.Error("failed to load persisted exam session", "error", err)
		return nil
	}
	return snap
}

func (c *Controller) restore(snap *Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.exam = snap.Exam
	c.currentIndex = clampIndex(snap.CurrentIndex, len(snap.Exam.Questions))
	for _, pair := range snap.Answers {
		c.answers[pair.QuestionID] = pair.SelectedIndex
	}
	for _, idx := range snap.FlaggedIndices {
		c.flagged[idx] = struct{}{}
	}
	c.startTime = snap.StartTime
	c.timeRemaining = snap.TimeRemaining
	c.loading = false
	c.restored = true
}

// SelectAnswer records the given answer index for the current question,
// overwriting any earlier selection. No-op once the session is complete or
// while it has no exam.
func (c *Controller) SelectAnswer(index int) {
	c.mu.Lock()
	if c.complete || c.loading || c.exam == nil || index < 0 || index > 3 {
		c.mu.Unlock()
		return
	}
	q := c.exam.Questions[c.currentIndex]
	c.answers[q.ID] = index
	c.mu.Unlock()

	c.persist()
}

// NextQuestion advances one question; no-op at the last index.
func (c *Controller) NextQuestion() {
	c.shift(1)
}

// PrevQuestion goes back one question; no-op at index zero.
func (c *Controller) PrevQuestion() {
	c.shift(-1)
}

func (c *Controller) shift(delta int) {
	c.mu.Lock()
	if c.complete || c.exam == nil {
		c.mu.Unlock()
		return
	}
	next := clampIndex(c.currentIndex+delta, len(c.exam.Questions))
	changed := next != c.currentIndex
	c.currentIndex = next
	c.mu.Unlock()

	if changed {
		c.persist()
	}
}

// GoToQuestion jumps to index i, clamped to the exam's bounds.
func (c *Controller) GoToQuestion(i int) {
	c.mu.Lock()
	if c.complete || c.exam == nil {
		c.mu.Unlock()
		return
	}
	c.currentIndex = clampIndex(i, len(c.exam.Questions))
	c.mu.Unlock()

	c.persist()
}

// ToggleFlag flips the review flag on the current question's index.
func (c *Controller) ToggleFlag() {
	c.mu.Lock()
	if c.complete || c.exam == nil {
		c.mu.Unlock()
		return
	}
	if _, ok := c.flagged[c.currentIndex]; ok {
		delete(c.flagged, c.currentIndex)
	} else {
		c.flagged[c.currentIndex] = struct{}{}
	}
	c.mu.Unlock()

	c.persist()
}

// Tick advances the countdown by one second. The guards are re-checked on
// every tick, so a tick arriving after completion is a no-op. Reaching zero
// triggers the same submission path as a manual submit, exactly once.
func (c *Controller) Tick() {
	c.mu.Lock()
	if c.loading || c.complete || c.exam == nil || c.errMsg != "" {
		c.mu.Unlock()
		return
	}
	c.timeRemaining--
	expired := c.timeRemaining <= 0
	if expired {
		c.timeRemaining = 0
	}
	c.mu.Unlock()

	if expired {
		c.Submit(context.Background())
	} else {
		c.persist()
	}
}

// Submit grades and archives the attempt. Idempotent: repeated or racing
// calls after the first are no-ops. Completion is observable as soon as the
// guard section ends; archival and per-question progress reporting are
// best-effort and never block or undo completion.
func (c *Controller) Submit(ctx context.Context) {
	c.mu.Lock()
	if c.complete || c.submitting || c.loading || c.exam == nil {
		c.mu.Unlock()
		return
	}
	c.submitting = true

	ex := c.exam
	saved := make([]SavedAnswer, len(ex.Questions))
	records := make([]exam.AnswerRecord, len(ex.Questions))
	for i, q := range ex.Questions {
		selected, ok := c.answers[q.ID]
		if !ok {
			selected = Unanswered
		}
		correct := selected == q.CorrectAnswer
		saved[i] = SavedAnswer{QuestionID: q.ID, SelectedAnswer: selected, Correct: correct}
		records[i] = exam.AnswerRecord{QuestionID: q.ID, Correct: correct}
	}
	elapsed := ex.TimeLimit*60 - c.timeRemaining

	result := exam.CalculateResult(ex.Questions, records, ex.PassingScore)
	c.result = &result
	c.complete = true
	c.mu.Unlock()

	savedID, err := c.archive.SaveExamAttempt(ctx, ex.Level, result.Score, result.Passed, elapsed, saved)
	if err != nil {
		c.logger.Error("failed to archive exam attempt", "exam_id", ex.ID, "error", err)
	} else {
		c.mu.Lock()
		c.savedExamID = savedID
		c.mu.Unlock()
	}

	// Independent best-effort writes; one failing must not stop the rest.
	for _, s := range saved {
		c.reporter.ReportAnswer(ex.ID, s.QuestionID, s.Correct, 0)
	}

	if err := c.snapshots.ClearExamSession(ctx); err != nil {
		c.logger.Error("failed to clear persisted exam session", "error", err)
	}
}

func clampIndex(i, n int) int {
	if n == 0 {
		return 0
	}
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
