package exam_test

import (
	"fmt"
	"testing"

	"github.com/hamforge/backend/internal/domain/exam"
	"github.com/hamforge/backend/internal/domain/question"
)

// examOf builds n exam questions spread over two subelements.
func examOf(n int) []exam.ExamQuestion {
	qs := make([]exam.ExamQuestion, n)
	for i := 0; i < n; i++ {
		sub := "T1"
		if i >= n/2 {
			sub = "T2"
		}
		qs[i] = exam.ExamQuestion{
			Question: question.Question{
				ID:         fmt.Sprintf("%sA%02d", sub, i%99+1),
				Subelement: sub,
				Group:      "A",
			},
			ExamIndex: i + 1,
		}
	}
	return qs
}

func answersFor(qs []exam.ExamQuestion, correct int) []exam.AnswerRecord {
	records := make([]exam.AnswerRecord, len(qs))
	for i, q := range qs {
		records[i] = exam.AnswerRecord{QuestionID: q.ID, Correct: i < correct}
	}
	return records
}

func TestCalculateResult_PassBoundary(t *testing.T) {
	qs := examOf(35)

	passed := exam.CalculateResult(qs, answersFor(qs, 26), 26)
	if !passed.Passed {
		t.Error("expected exactly 26 correct to pass")
	}
	if passed.CorrectCount != 26 || passed.IncorrectCount != 9 {
		t.Errorf("expected 26/9, got %d/%d", passed.CorrectCount, passed.IncorrectCount)
	}

	failed := exam.CalculateResult(qs, answersFor(qs, 25), 26)
	if failed.Passed {
		t.Error("expected 25 correct to fail")
	}
}

func TestCalculateResult_MissingAnswersCountIncorrect(t *testing.T) {
	qs := examOf(35)

	// Only 10 answer records at all, all correct.
	res := exam.CalculateResult(qs, answersFor(qs[:10], 10), 26)

	if res.CorrectCount != 10 {
		t.Errorf("expected 10 correct, got %d", res.CorrectCount)
	}
	if res.IncorrectCount != 25 {
		t.Errorf("expected 25 incorrect, got %d", res.IncorrectCount)
	}
	if res.CorrectCount+res.IncorrectCount != res.TotalQuestions {
		t.Error("expected counts to sum to total")
	}
}

func TestCalculateResult_Score(t *testing.T) {
	qs := examOf(35)
	res := exam.CalculateResult(qs, answersFor(qs, 26), 26)
	// 26/35 = 74.28…, rounds to 74.
	if res.Score != 74 {
		t.Errorf("expected score 74, got %d", res.Score)
	}
}

func TestCalculateResult_BySubelement(t *testing.T) {
	qs := examOf(10) // 5 in T1, 5 in T2
	res := exam.CalculateResult(qs, answersFor(qs, 7), 26)

	t1 := res.BySubelement["T1"]
	if t1.Correct != 5 || t1.Total != 5 || t1.Percentage != 100 {
		t.Errorf("unexpected T1 score: %+v", t1)
	}
	t2 := res.BySubelement["T2"]
	if t2.Correct != 2 || t2.Total != 5 || t2.Percentage != 40 {
		t.Errorf("unexpected T2 score: %+v", t2)
	}
}

func TestCalculateResult_EmptyExam(t *testing.T) {
	res := exam.CalculateResult(nil, nil, 26)
	if res.Score != 0 || res.TotalQuestions != 0 {
		t.Errorf("expected zeroed result, got %+v", res)
	}
	if res.Passed {
		t.Error("expected empty exam to fail")
	}
}
