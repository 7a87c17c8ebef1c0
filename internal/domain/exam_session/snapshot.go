package examsession

import (
	"context"
	"sort"
	"time"

	"github.com/hamforge/backend/internal/domain/exam"
	"github.com/hamforge/backend/internal/domain/question"
)

// StorageKey is the fixed key the session snapshot lives under.
const StorageKey = "hamforge-exam-session"

// AnswerPair is the serialized form of one answers-map entry. The map is
// flattened to pairs so the snapshot stays a plain JSON document.
type AnswerPair struct {
	QuestionID    string `json:"questionId"`
	SelectedIndex int    `json:"selectedIndex"`
}

// Snapshot is the persisted session state. It carries the generated exam
// itself so restoration never has to call the generator.
type Snapshot struct {
	Level          question.Level      `json:"examLevel"`
	Exam           *exam.GeneratedExam `json:"exam"`
	CurrentIndex   int                 `json:"currentIndex"`
	Answers        []AnswerPair        `json:"answers"`
	FlaggedIndices []int               `json:"flaggedIndices"`
	StartTime      time.Time           `json:"startTime"`
	TimeRemaining  int                 `json:"timeRemaining"`
	Complete       bool                `json:"complete"`
}

// snapshot captures the current state under the lock.
func (c *Controller) snapshot() *Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.exam == nil {
		return nil
	}

	answers := make([]AnswerPair, 0, len(c.answers))
	for id, idx := range c.answers {
		answers = append(answers, AnswerPair{QuestionID: id, SelectedIndex: idx})
	}
	sort.Slice(answers, func(i, j int) bool { return answers[i].QuestionID < answers[j].QuestionID })

	flagged := make([]int, 0, len(c.flagged))
	for idx := range c.flagged {
		flagged = append(flagged, idx)
	}
	sort.Ints(flagged)

	return &Snapshot{
		Level:          c.level,
		Exam:           c.exam,
		CurrentIndex:   c.currentIndex,
		Answers:        answers,
		FlaggedIndices: flagged,
		StartTime:      c.startTime,
		TimeRemaining:  c.timeRemaining,
		Complete:       c.complete,
	}
}

// persist writes the snapshot; failures are logged and swallowed so a
// storage hiccup never breaks the running session.
func (c *Controller) persist() {
	snap := c.snapshot()
	if snap == nil {
		return
	}
	if err := c.snapshots.SaveExamSession(context.Background(), snap); err != nil {
		c.logger.Error("failed to persist exam session", "error", err)
	}
}
