package question

import (
	"context"
	"errors"
	"fmt"
)

// Level identifies an amateur radio license class.
type Level string

const (
	LevelTechnician Level = "technician"
	LevelGeneral    Level = "general"
	LevelExtra      Level = "extra"
)

// Valid reports whether l is a known license level.
func (l Level) Valid() bool {
	switch l {
	case LevelTechnician, LevelGeneral, LevelExtra:
		return true
	}
	return false
}

// Status is the coarse mastery bucket of a question's progress record.
type Status string

const (
	StatusNew      Status = "new"
	StatusLearning Status = "learning"
	StatusReview   Status = "review"
	StatusMastered Status = "mastered"
)

// Valid reports whether s is a known progress status.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusLearning, StatusReview, StatusMastered:
		return true
	}
	return false
}

// Question is an immutable pool entry. The ID always decomposes into
// subelement + group + two-digit number (e.g. "T1A01" → "T1", "A", 01).
type Question struct {
	ID            string   `json:"id"`
	Subelement    string   `json:"subelement"`
	Group         string   `json:"group"`
	Text          string   `json:"question"`
	Answers       []string `json:"answers"`
	CorrectAnswer int      `json:"correctAnswer"`
	Reference     string   `json:"reference,omitempty"`
}

// GroupKey returns the diversity unit used during exam generation,
// e.g. "T1A" for question "T1A01".
func (q Question) GroupKey() string {
	return q.Subelement + q.Group
}

// ParseID splits a question ID into its subelement, group letter and
// question number. IDs follow the NCVEC numbering scheme: one uppercase
// letter and one digit for the subelement, one uppercase group letter,
// then a two-digit question number.
func ParseID(id string) (subelement, group string, number int, err error) {
	if len(id) != 5 {
		return "", "", 0, fmt.Errorf("question id %q: want 5 characters", id)
	}
	if id[0] < 'A' || id[0] > 'Z' || id[1] < '0' || id[1] > '9' {
		return "", "", 0, fmt.Errorf("question id %q: bad subelement", id)
	}
	if id[2] < 'A' || id[2] > 'Z' {
		return "", "", 0, fmt.Errorf("question id %q: bad group letter", id)
	}
	if id[3] < '0' || id[3] > '9' || id[4] < '0' || id[4] > '9' {
		return "", "", 0, fmt.Errorf("question id %q: bad question number", id)
	}
	number = int(id[3]-'0')*10 + int(id[4]-'0')
	return id[:2], id[2:3], number, nil
}

// New builds a validated Question, deriving subelement and group from the ID.
func New(id, text string, answers []string, correctAnswer int, reference string) (Question, error) {
	sub, group, _, err := ParseID(id)
	if err != nil {
		return Question{}, err
	}
	if text == "" {
		return Question{}, errors.New("question text cannot be empty")
	}
	if len(answers) != 4 {
		return Question{}, fmt.Errorf("question %s: want 4 answers, got %d", id, len(answers))
	}
	if correctAnswer < 0 || correctAnswer > 3 {
		return Question{}, fmt.Errorf("question %s: correct answer index %d out of range", id, correctAnswer)
	}
	return Question{
		ID:            id,
		Subelement:    sub,
		Group:         group,
		Text:          text,
		Answers:       answers,
		CorrectAnswer: correctAnswer,
		Reference:     reference,
	}, nil
}

// LevelFromID infers the license level from a question ID's leading
// letter (T1A01 → technician). Unknown prefixes yield an empty Level.
func LevelFromID(id string) Level {
	if id == "" {
		return ""
	}
	switch id[0] {
	case 'T':
		return LevelTechnician
	case 'G':
		return LevelGeneral
	case 'E':
		return LevelExtra
	}
	return ""
}

// PoolProvider supplies questions for a license level. Implemented by the
// sqlite store; consumers never mutate the pool through it.
type PoolProvider interface {
	// GetPracticeQuestions returns up to count questions sampled from the
	// level's pool in random order.
	GetPracticeQuestions(ctx context.Context, level Level, count int) ([]Question, error)
	// GetQuestionsBySubelement returns every question of one subelement.
	GetQuestionsBySubelement(ctx context.Context, level Level, subelement string) ([]Question, error)
	// GetQuestionsByStatus returns every question whose progress record
	// currently has the given status.
	GetQuestionsByStatus(ctx context.Context, level Level, status Status) ([]Question, error)
	// GetQuestionsForLevel returns the full pool for a level.
	GetQuestionsForLevel(ctx context.Context, level Level) ([]Question, error)
}
