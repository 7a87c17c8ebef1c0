package srs

import (
	"time"

	"github.com/hamforge/backend/internal/domain/question"
)

// QuestionProgress is the persisted review state of a single question.
// One record exists per question ever attempted.
type QuestionProgress struct {
	QuestionID        string
	Attempts          int
	CorrectCount      int
	EaseFactor        float64
	Interval          int // days
	Status            question.Status
	NextReview        time.Time
	LastAttempt       time.Time
	ConfidenceHistory []int // oldest first, at most MaxConfidenceHistory entries
}

// InitialProgress returns the record a question starts from.
func InitialProgress(questionID string) QuestionProgress {
	return QuestionProgress{
		QuestionID: questionID,
		EaseFactor: DefaultEaseFactor,
		Interval:   0,
		Status:     question.StatusNew,
	}
}

// ApplyAnswer folds one answer into the record: it runs the SM-2 step,
// advances the counters and confidence history, and recomputes the mastery
// status from the new interval and lifetime accuracy.
func (p *QuestionProgress) ApplyAnswer(correct bool, confidence int, now time.Time) SM2Result {
	if now.IsZero() {
		now = time.Now()
	}

	res := ProcessAnswer(correct, p, confidence, now)

	p.Attempts++
	if correct {
		p.CorrectCount++
	}
	p.EaseFactor = res.EaseFactor
	p.Interval = res.Interval
	p.NextReview = res.NextReview
	p.LastAttempt = now
	p.ConfidenceHistory = UpdateConfidenceHistory(p.ConfidenceHistory, normalizeConfidence(confidence))
	p.Status = MasteryStatus(p.Interval, p.CorrectCount, p.Attempts)

	return res
}

// MasteryStatus buckets a question by interval and lifetime accuracy.
// A question with no attempts is always new, whatever its interval says,
// and a long interval alone is not mastery: accuracy must exceed 80%.
func MasteryStatus(interval, correctCount, attempts int) question.Status {
	if attempts == 0 {
		return question.StatusNew
	}
	switch {
	case interval < 7:
		return question.StatusLearning
	case interval < 21:
		return question.StatusReview
	}
	if float64(correctCount)/float64(attempts) > 0.80 {
		return question.StatusMastered
	}
	return question.StatusReview
}

// IsDue reports whether a question scheduled for nextReview should be
// reviewed at now. Exact equality counts as due.
func IsDue(nextReview, now time.Time) bool {
	return !now.Before(nextReview)
}

// Priority scores review urgency: days overdue scaled by the interval, so a
// short-interval question one day late outranks a long-interval one equally
// late. Positive means overdue, negative not yet due, ~0 due right now.
func Priority(nextReview time.Time, interval int, now time.Time) float64 {
	daysOverdue := now.Sub(nextReview).Hours() / 24
	if interval < 1 {
		interval = 1
	}
	return daysOverdue / float64(interval)
}

// UpdateConfidenceHistory appends a rating, evicting the oldest entries once
// the history exceeds MaxConfidenceHistory.
func UpdateConfidenceHistory(history []int, confidence int) []int {
	out := make([]int, 0, len(history)+1)
	out = append(out, history...)
	out = append(out, confidence)
	if len(out) > MaxConfidenceHistory {
		out = out[len(out)-MaxConfidenceHistory:]
	}
	return out
}

// AverageConfidence returns the arithmetic mean of the history.
// ok is false when there is no history to average.
func AverageConfidence(history []int) (avg float64, ok bool) {
	if len(history) == 0 {
		return 0, false
	}
	sum := 0
	for _, c := range history {
		sum += c
	}
	return float64(sum) / float64(len(history)), true
}
