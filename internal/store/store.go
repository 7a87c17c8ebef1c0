package store

import (
	"errors"
	"time"

	"github.com/hamforge/backend/internal/domain/question"
)

var (
	ErrNotFound = errors.New("not found")
)

// AttemptSummary is one archived exam attempt, without its answer detail.
type AttemptSummary struct {
	ID               string         `json:"id"`
	Level            question.Level `json:"examLevel"`
	Score            int            `json:"score"`
	Passed           bool           `json:"passed"`
	TimeSpentSeconds int            `json:"timeSpentSeconds"`
	TakenAt          time.Time      `json:"takenAt"`
}

// Counters are the lifetime answered/correct totals across all sessions.
type Counters struct {
	Answered int `json:"answered"`
	Correct  int `json:"correct"`
}
