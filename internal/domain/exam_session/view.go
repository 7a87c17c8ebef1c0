package examsession

import (
	"github.com/hamforge/backend/internal/domain/exam"
	"github.com/hamforge/backend/internal/domain/question"
)

// View is a consistent read of the session for presentation.
type View struct {
	Level          question.Level
	Exam           *exam.GeneratedExam
	CurrentIndex   int
	Answers        []AnswerPair
	FlaggedIndices []int
	TimeRemaining  int
	Loading        bool
	Complete       bool
	Restored       bool
	Error          string
	Result         *exam.Result
	SavedExamID    string
}

// View returns a copy of the controller's state.
func (c *Controller) View() View {
	snap := c.snapshot()

	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		Level:         c.level,
		CurrentIndex:  c.currentIndex,
		TimeRemaining: c.timeRemaining,
		Loading:       c.loading,
		Complete:      c.complete,
		Restored:      c.restored,
		Error:         c.errMsg,
		Result:        c.result,
		SavedExamID:   c.savedExamID,
	}
	if snap != nil {
		v.Exam = snap.Exam
		v.Answers = snap.Answers
		v.FlaggedIndices = snap.FlaggedIndices
	}
	return v
}

// Complete reports whether the session has been submitted.
func (c *Controller) Complete() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.complete
}

// Err returns the session-level error message, if any.
func (c *Controller) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// TimeRemaining returns the countdown's current value in seconds.
func (c *Controller) TimeRemaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timeRemaining
}

// Restored reports whether this session was rehydrated from a snapshot
// instead of freshly generated.
func (c *Controller) Restored() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.restored
}

// SavedExamID returns the archival ID once the attempt write has resolved.
func (c *Controller) SavedExamID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.savedExamID
}

// Result returns the graded result after submission, nil before.
func (c *Controller) Result() *exam.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}
