package exam

import "math"

// AnswerRecord is the scoring view of one answered (or skipped) question.
type AnswerRecord struct {
	QuestionID string `json:"questionId"`
	Correct    bool   `json:"correct"`
}

// SubelementScore is the per-subelement slice of an exam result.
type SubelementScore struct {
	Correct    int `json:"correct"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// Result is a graded exam attempt. CorrectCount + IncorrectCount always
// equals TotalQuestions: a question with no matching answer record counts
// as incorrect.
type Result struct {
	TotalQuestions int                        `json:"totalQuestions"`
	CorrectCount   int                        `json:"correctCount"`
	IncorrectCount int                        `json:"incorrectCount"`
	Score          int                        `json:"score"` // rounded percentage 0-100
	Passed         bool                       `json:"passed"`
	PassingScore   int                        `json:"passingScore"`
	BySubelement   map[string]SubelementScore `json:"bySubelement"`
}

// CalculateResult grades an attempt against the pass threshold. Passing is
// a correct-answer count, not a percentage: with a threshold of 26, exactly
// 26 passes and 25 fails.
func CalculateResult(questions []ExamQuestion, answers []AnswerRecord, passingScore int) Result {
	answered := make(map[string]bool, len(answers))
	for _, a := range answers {
		answered[a.QuestionID] = a.Correct
	}

	type tally struct{ correct, total int }
	bySub := make(map[string]*tally)

	correctCount := 0
	for _, q := range questions {
		t := bySub[q.Subelement]
		if t == nil {
			t = &tally{}
			bySub[q.Subelement] = t
		}
		t.total++
		if answered[q.ID] {
			correctCount++
			t.correct++
		}
	}

	total := len(questions)
	result := Result{
		TotalQuestions: total,
		CorrectCount:   correctCount,
		IncorrectCount: total - correctCount,
		Score:          roundPercent(correctCount, total),
		Passed:         correctCount >= passingScore,
		PassingScore:   passingScore,
		BySubelement:   make(map[string]SubelementScore, len(bySub)),
	}
	for sub, t := range bySub {
		result.BySubelement[sub] = SubelementScore{
			Correct:    t.correct,
			Total:      t.total,
			Percentage: roundPercent(t.correct, t.total),
		}
	}
	return result
}

func roundPercent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}
