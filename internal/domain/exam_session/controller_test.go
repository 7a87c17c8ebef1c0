package examsession_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/hamforge/backend/internal/domain/exam"
	examsession "github.com/hamforge/backend/internal/domain/exam_session"
	"github.com/hamforge/backend/internal/domain/question"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testExam(level question.Level, n int) *exam.GeneratedExam {
	qs := make([]exam.ExamQuestion, n)
	for i := 0; i < n; i++ {
		qs[i] = exam.ExamQuestion{
			Question: question.Question{
				ID:            fmt.Sprintf("T1A%02d", i+1),
				Subelement:    "T1",
				Group:         "A",
				Answers:       []string{"a", "b", "c", "d"},
				CorrectAnswer: i % 4,
			},
			ExamIndex: i + 1,
		}
	}
	return &exam.GeneratedExam{
		ID:           "exam-test-1",
		Level:        level,
		Questions:    qs,
		CreatedAt:    time.Now(),
		TimeLimit:    60,
		PassingScore: 26,
	}
}

type fakeSource struct {
	exam  *exam.GeneratedExam
	err   error
	calls int
}

func (f *fakeSource) Generate(ctx context.Context, level question.Level) (*exam.GeneratedExam, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.exam, nil
}

type fakeSnapshots struct {
	mu      sync.Mutex
	snap    *examsession.Snapshot
	loadErr error
	cleared int
}

func (f *fakeSnapshots) SaveExamSession(ctx context.Context, snap *examsession.Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snap = snap
	return nil
}

func (f *fakeSnapshots) LoadExamSession(ctx context.Context) (*examsession.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap, f.loadErr
}

func (f *fakeSnapshots) ClearExamSession(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snap = nil
	f.cleared++
	return nil
}

type fakeArchive struct {
	mu      sync.Mutex
	calls   int
	answers []examsession.SavedAnswer
	err     error
}

func (f *fakeArchive) SaveExamAttempt(ctx context.Context, level question.Level, score int, passed bool, timeSpentSeconds int, answers []examsession.SavedAnswer) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.answers = answers
	if f.err != nil {
		return "", f.err
	}
	return "attempt-1", nil
}

type fakeReporter struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeReporter) ReportAnswer(sessionID, questionID string, correct bool, confidence int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
}

func newController(t *testing.T) (*examsession.Controller, *fakeSource, *fakeSnapshots, *fakeArchive, *fakeReporter) {
	t.Helper()
	source := &fakeSource{exam: testExam(question.LevelTechnician, 35)}
	snapshots := &fakeSnapshots{}
	archive := &fakeArchive{}
	reporter := &fakeReporter{}
	c := examsession.New(context.Background(), question.LevelTechnician, source, snapshots, archive, reporter, discardLogger())
	return c, source, snapshots, archive, reporter
}

func TestNew_GeneratesAndPersists(t *testing.T) {
	c, source, snapshots, _, _ := newController(t)

	v := c.View()
	if v.Exam == nil {
		t.Fatal("expected a generated exam")
	}
	if source.calls != 1 {
		t.Errorf("expected 1 generator call, got %d", source.calls)
	}
	if v.TimeRemaining != 60*60 {
		t.Errorf("expected 3600 seconds remaining, got %d", v.TimeRemaining)
	}
	if v.Restored {
		t.Error("expected a fresh session, not a restored one")
	}
	if snapshots.snap == nil {
		t.Error("expected the fresh session to be persisted")
	}
}

func TestNew_RestoresMatchingSnapshot(t *testing.T) {
	snapshots := &fakeSnapshots{snap: &examsession.Snapshot{
		Level:         question.LevelTechnician,
		Exam:          testExam(question.LevelTechnician, 35),
		CurrentIndex:   12,
		Answers:        []examsession.AnswerPair{{QuestionID: "T1A01", SelectedIndex: 2}},
		FlaggedIndices: []int{5},
		TimeRemaining:  1800,
	}}
	source := &fakeSource{exam: testExam(question.LevelTechnician, 35)}

	c := examsession.New(context.Background(), question.LevelTechnician, source, snapshots, &fakeArchive{}, &fakeReporter{}, discardLogger())

	if source.calls != 0 {
		t.Errorf("expected no generator call on restore, got %d", source.calls)
	}
	v := c.View()
	if !v.Restored {
		t.Error("expected restored flag")
	}
	if v.CurrentIndex != 12 {
		t.Errorf("expected cursor at 12, got %d", v.CurrentIndex)
	}
	if v.TimeRemaining != 1800 {
		t.Errorf("expected 1800 seconds remaining, got %d", v.TimeRemaining)
	}
	if len(v.Answers) != 1 || v.Answers[0].QuestionID != "T1A01" {
		t.Errorf("expected restored answer, got %+v", v.Answers)
	}
	if len(v.FlaggedIndices) != 1 || v.FlaggedIndices[0] != 5 {
		t.Errorf("expected restored flag on index 5, got %v", v.FlaggedIndices)
	}
}

func TestNew_LevelMismatchRegenerates(t *testing.T) {
	snapshots := &fakeSnapshots{snap: &examsession.Snapshot{
		Level: question.LevelGeneral,
		Exam:  testExam(question.LevelGeneral, 35),
	}}
	source := &fakeSource{exam: testExam(question.LevelTechnician, 35)}

	c := examsession.New(context.Background(), question.LevelTechnician, source, snapshots, &fakeArchive{}, &fakeReporter{}, discardLogger())

	if source.calls != 1 {
		t.Errorf("expected regeneration for a different level, got %d calls", source.calls)
	}
	if c.Restored() {
		t.Error("expected a fresh session")
	}
}

func TestNew_CompleteSnapshotRegenerates(t *testing.T) {
	snapshots := &fakeSnapshots{snap: &examsession.Snapshot{
		Level:    question.LevelTechnician,
		Exam:     testExam(question.LevelTechnician, 35),
		Complete: true,
	}}
	source := &fakeSource{exam: testExam(question.LevelTechnician, 35)}

	examsession.New(context.Background(), question.LevelTechnician, source, snapshots, &fakeArchive{}, &fakeReporter{}, discardLogger())

	if source.calls != 1 {
		t.Errorf("expected regeneration past a finished snapshot, got %d calls", source.calls)
	}
}

func TestNew_GenerationFailureSetsErrorState(t *testing.T) {
	source := &fakeSource{err: errors.New("pool incomplete")}
	c := examsession.New(context.Background(), question.LevelTechnician, source, &fakeSnapshots{}, &fakeArchive{}, &fakeReporter{}, discardLogger())

	if c.Err() == "" {
		t.Error("expected an error message")
	}
	if c.View().Exam != nil {
		t.Error("expected no exam in the error state")
	}
}

func TestNavigation_Clamped(t *testing.T) {
	c, _, _, _, _ := newController(t)

	c.PrevQuestion()
	if got := c.View().CurrentIndex; got != 0 {
		t.Errorf("expected prev at index 0 to stay, got %d", got)
	}

	c.GoToQuestion(100)
	if got := c.View().CurrentIndex; got != 34 {
		t.Errorf("expected jump past the end to clamp at 34, got %d", got)
	}

	c.NextQuestion()
	if got := c.View().CurrentIndex; got != 34 {
		t.Errorf("expected next at the last index to stay, got %d", got)
	}

	c.GoToQuestion(-5)
	if got := c.View().CurrentIndex; got != 0 {
		t.Errorf("expected negative jump to clamp at 0, got %d", got)
	}
}

func TestSelectAnswer_OverwritesAndIgnoresBadIndex(t *testing.T) {
	c, _, _, _, _ := newController(t)

	c.SelectAnswer(1)
	c.SelectAnswer(3)
	v := c.View()
	if len(v.Answers) != 1 || v.Answers[0].SelectedIndex != 3 {
		t.Errorf("expected one answer with index 3, got %+v", v.Answers)
	}

	c.SelectAnswer(4)
	c.SelectAnswer(-1)
	if len(c.View().Answers) != 1 {
		t.Error("expected out-of-range selections to be ignored")
	}
}

func TestToggleFlag(t *testing.T) {
	c, _, _, _, _ := newController(t)

	c.ToggleFlag()
	if flags := c.View().FlaggedIndices; len(flags) != 1 || flags[0] != 0 {
		t.Errorf("expected index 0 flagged, got %v", flags)
	}
	c.ToggleFlag()
	if flags := c.View().FlaggedIndices; len(flags) != 0 {
		t.Errorf("expected flag removed, got %v", flags)
	}
}

func TestSubmit_ScoresWithUnansweredSentinel(t *testing.T) {
	c, _, snapshots, archive, reporter := newController(t)

	// Answer the first two questions correctly, leave the rest blank.
	c.SelectAnswer(0) // T1A01 correct answer is 0
	c.NextQuestion()
	c.SelectAnswer(1) // T1A02 correct answer is 1

	c.Submit(context.Background())

	v := c.View()
	if !v.Complete {
		t.Fatal("expected session complete")
	}
	if v.Result == nil || v.Result.CorrectCount != 2 {
		t.Fatalf("expected 2 correct, got %+v", v.Result)
	}
	if v.Result.Passed {
		t.Error("expected 2/35 to fail")
	}
	if v.SavedExamID != "attempt-1" {
		t.Errorf("expected archived attempt id, got %q", v.SavedExamID)
	}

	if len(archive.answers) != 35 {
		t.Fatalf("expected 35 archived answers, got %d", len(archive.answers))
	}
	for _, a := range archive.answers[2:] {
		if a.SelectedAnswer != examsession.Unanswered {
			t.Errorf("expected unanswered sentinel for %s, got %d", a.QuestionID, a.SelectedAnswer)
		}
		if a.Correct {
			t.Errorf("expected unanswered %s to be incorrect", a.QuestionID)
		}
	}

	if reporter.calls != 35 {
		t.Errorf("expected 35 progress reports, got %d", reporter.calls)
	}
	if snapshots.cleared != 1 {
		t.Errorf("expected snapshot cleared once, got %d", snapshots.cleared)
	}
}

func TestSubmit_Idempotent(t *testing.T) {
	c, _, _, archive, _ := newController(t)

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Submit(context.Background())
		}()
	}
	wg.Wait()
	c.Submit(context.Background())

	if archive.calls != 1 {
		t.Errorf("expected exactly one archival, got %d", archive.calls)
	}
}

func TestSubmit_ArchiveFailureStillCompletes(t *testing.T) {
	source := &fakeSource{exam: testExam(question.LevelTechnician, 35)}
	archive := &fakeArchive{err: errors.New("disk full")}
	c := examsession.New(context.Background(), question.LevelTechnician, source, &fakeSnapshots{}, archive, &fakeReporter{}, discardLogger())

	c.Submit(context.Background())

	if !c.Complete() {
		t.Error("expected completion despite archival failure")
	}
	if c.SavedExamID() != "" {
		t.Errorf("expected no saved exam id, got %q", c.SavedExamID())
	}
	if c.Result() == nil {
		t.Error("expected a graded result")
	}
}

func TestTick_CountsDownAndAutoSubmits(t *testing.T) {
	c, _, _, archive, _ := newController(t)

	c.Tick()
	if got := c.TimeRemaining(); got != 60*60-1 {
		t.Errorf("expected 3599 seconds, got %d", got)
	}

	for i := 0; i < 60*60; i++ {
		c.Tick()
	}

	if !c.Complete() {
		t.Error("expected auto-submit at zero")
	}
	if got := c.TimeRemaining(); got != 0 {
		t.Errorf("expected clock pinned at 0, got %d", got)
	}
	if archive.calls != 1 {
		t.Errorf("expected one archival from timer expiry, got %d", archive.calls)
	}

	// Late ticks after completion change nothing.
	c.Tick()
	if archive.calls != 1 {
		t.Error("expected post-completion ticks to be no-ops")
	}
}

func TestActionsAfterCompletionAreNoOps(t *testing.T) {
	c, _, _, _, _ := newController(t)
	c.Submit(context.Background())

	before := c.View()
	c.SelectAnswer(2)
	c.NextQuestion()
	c.ToggleFlag()
	after := c.View()

	if after.CurrentIndex != before.CurrentIndex {
		t.Error("expected navigation frozen after completion")
	}
	if len(after.Answers) != len(before.Answers) {
		t.Error("expected answers frozen after completion")
	}
	if len(after.FlaggedIndices) != len(before.FlaggedIndices) {
		t.Error("expected flags frozen after completion")
	}
}
