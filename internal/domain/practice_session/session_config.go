package practicesession

import "github.com/hamforge/backend/internal/domain/question"

// DefaultQuestionCount is the working-set size used when a caller does
// not ask for a specific count.
const DefaultQuestionCount = 20

// SessionConfig selects the working question set for a practice session.
// Subelements and Status filters compose: when both are set, only
// questions matching both survive. Groups further narrows Subelements.
type SessionConfig struct {
	Level         question.Level    `json:"examLevel"`
	QuestionCount int               `json:"questionCount"`
	Subelements   []string          `json:"subelements,omitempty"`
	Groups        []string          `json:"groups,omitempty"`
	Status        []question.Status `json:"status,omitempty"`
	FlaggedOnly   bool              `json:"flaggedOnly,omitempty"`
}

// DefaultConfig returns an unfiltered session of count questions.
func DefaultConfig(level question.Level, count int) SessionConfig {
	return SessionConfig{
		Level:         level,
		QuestionCount: count,
	}
}
