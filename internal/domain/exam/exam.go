package exam

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/hamforge/backend/internal/domain/question"
	"github.com/hamforge/backend/internal/id"
)

var (
	// ErrNoPool means the level has no authored question pool.
	ErrNoPool = errors.New("no question pool for level")
	// ErrPoolIncomplete means the pool does not cover every exam group.
	ErrPoolIncomplete = errors.New("question pool does not cover all exam groups")
)

// Config is the regulatory shape of an exam for one license level.
type Config struct {
	TotalQuestions    int      `json:"totalQuestions"`
	PassingScore      int      `json:"passingScore"` // correct answers required, not a percentage
	PassingPercentage int      `json:"passingPercentage"`
	TimeLimit         int      `json:"timeLimit"` // minutes
	Groups            []string `json:"groups"`
}

// LevelConfig returns the fixed exam parameters for a level. Levels without
// an authored pool get a zeroed config. PassingPercentage is a design
// constant (26/35 rounds to 74), not recomputed.
func LevelConfig(level question.Level) Config {
	switch level {
	case question.LevelTechnician, question.LevelGeneral:
		return Config{
			TotalQuestions:    35,
			PassingScore:      26,
			PassingPercentage: 74,
			TimeLimit:         60,
		}
	}
	return Config{}
}

// ExamQuestion is a pool question placed at a 1-based position in an exam.
type ExamQuestion struct {
	question.Question
	ExamIndex int `json:"examIndex"`
}

// GeneratedExam is one immutable exam instance. Every question comes from a
// distinct subelement+group key and ExamIndex runs contiguously 1..N.
type GeneratedExam struct {
	ID           string         `json:"id"`
	Level        question.Level `json:"examLevel"`
	Questions    []ExamQuestion `json:"questions"`
	CreatedAt    time.Time      `json:"createdAt"`
	TimeLimit    int            `json:"timeLimit"` // minutes
	PassingScore int            `json:"passingScore"`
}

// Generator builds randomized exams from a question pool.
type Generator struct {
	pool question.PoolProvider
}

func NewGenerator(pool question.PoolProvider) *Generator {
	return &Generator{pool: pool}
}

// ExamGroups returns the distinct group keys of a level's pool, sorted
// alphabetically. Unknown or unauthored levels yield an empty list.
func (g *Generator) ExamGroups(ctx context.Context, level question.Level) ([]string, error) {
	byGroup, err := g.questionsByGroup(ctx, level)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(byGroup))
	for key := range byGroup {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

// QuestionsForGroup returns a group's questions. A malformed or unknown
// group key yields an empty list, never an error.
func (g *Generator) QuestionsForGroup(ctx context.Context, level question.Level, groupKey string) ([]question.Question, error) {
	byGroup, err := g.questionsByGroup(ctx, level)
	if err != nil {
		return nil, err
	}
	return byGroup[groupKey], nil
}

// Config returns the level's exam parameters with the pool's group keys
// filled in, consistent with ExamGroups and Generate.
func (g *Generator) Config(ctx context.Context, level question.Level) (Config, error) {
	cfg := LevelConfig(level)
	if cfg.TotalQuestions == 0 {
		cfg.Groups = []string{}
		return cfg, nil
	}
	groups, err := g.ExamGroups(ctx, level)
	if err != nil {
		return Config{}, err
	}
	cfg.Groups = groups
	return cfg, nil
}

// Generate builds a new exam: exactly one uniformly random question per
// group key, presented in sorted group-key order, indexed 1..N.
func (g *Generator) Generate(ctx context.Context, level question.Level) (*GeneratedExam, error) {
	cfg := LevelConfig(level)
	if cfg.TotalQuestions == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoPool, level)
	}

	byGroup, err := g.questionsByGroup(ctx, level)
	if err != nil {
		return nil, fmt.Errorf("loading pool for %s: %w", level, err)
	}
	if len(byGroup) != cfg.TotalQuestions {
		return nil, fmt.Errorf("%w: have %d groups, want %d", ErrPoolIncomplete, len(byGroup), cfg.TotalQuestions)
	}

	keys := make([]string, 0, len(byGroup))
	for key := range byGroup {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	now := time.Now()
	questions := make([]ExamQuestion, len(keys))
	for i, key := range keys {
		group := byGroup[key]
		questions[i] = ExamQuestion{
			Question:  group[rand.Intn(len(group))],
			ExamIndex: i + 1,
		}
	}

	return &GeneratedExam{
		ID:           fmt.Sprintf("exam-%s-%d-%s", level, now.UnixMilli(), id.GenerateID()[:8]),
		Level:        level,
		Questions:    questions,
		CreatedAt:    now,
		TimeLimit:    cfg.TimeLimit,
		PassingScore: cfg.PassingScore,
	}, nil
}

func (g *Generator) questionsByGroup(ctx context.Context, level question.Level) (map[string][]question.Question, error) {
	if !level.Valid() {
		return map[string][]question.Question{}, nil
	}
	pool, err := g.pool.GetQuestionsForLevel(ctx, level)
	if err != nil {
		return nil, err
	}
	byGroup := make(map[string][]question.Question)
	for _, q := range pool {
		byGroup[q.GroupKey()] = append(byGroup[q.GroupKey()], q)
	}
	return byGroup, nil
}
