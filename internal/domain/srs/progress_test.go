package srs_test

import (
	"testing"
	"time"

	"github.com/hamforge/backend/internal/domain/question"
	"github.com/hamforge/backend/internal/domain/srs"
)

func TestInitialProgress(t *testing.T) {
	p := srs.InitialProgress("T1A01")
	if p.QuestionID != "T1A01" {
		t.Errorf("expected question id T1A01, got %s", p.QuestionID)
	}
	if p.EaseFactor != srs.DefaultEaseFactor {
		t.Errorf("expected ease %v, got %v", srs.DefaultEaseFactor, p.EaseFactor)
	}
	if p.Status != question.StatusNew {
		t.Errorf("expected status new, got %s", p.Status)
	}
}

func TestApplyAnswer_AdvancesCounters(t *testing.T) {
	p := srs.InitialProgress("T1A01")

	p.ApplyAnswer(true, 4, testNow)
	p.ApplyAnswer(false, 3, testNow)

	if p.Attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", p.Attempts)
	}
	if p.CorrectCount != 1 {
		t.Errorf("expected 1 correct, got %d", p.CorrectCount)
	}
	if p.LastAttempt != testNow {
		t.Errorf("expected last attempt %v, got %v", testNow, p.LastAttempt)
	}
	if len(p.ConfidenceHistory) != 2 {
		t.Errorf("expected 2 history entries, got %d", len(p.ConfidenceHistory))
	}
}

func TestApplyAnswer_StatusUsesLifetimeAccuracy(t *testing.T) {
	// Build a record with a long interval but mediocre accuracy: the
	// interval alone would say mastered, accuracy holds it at review.
	p := srs.InitialProgress("T1A01")
	p.Attempts = 9
	p.CorrectCount = 7
	p.EaseFactor = 3.5
	p.Interval = 10

	p.ApplyAnswer(true, 4, testNow) // 8/10 correct, interval 10*3.5 = 35

	if p.Interval < 21 {
		t.Fatalf("setup: expected interval ≥ 21, got %d", p.Interval)
	}
	if p.Status != question.StatusReview {
		t.Errorf("expected review at exactly 80%% accuracy, got %s", p.Status)
	}
}

func TestMasteryStatus(t *testing.T) {
	cases := []struct {
		name                         string
		interval, correct, attempts  int
		want                         question.Status
	}{
		{"never attempted", 30, 0, 0, question.StatusNew},
		{"short interval", 3, 3, 3, question.StatusLearning},
		{"mid interval", 10, 10, 10, question.StatusReview},
		{"long interval high accuracy", 21, 9, 10, question.StatusMastered},
		{"long interval exactly 80%", 21, 8, 10, question.StatusReview},
		{"long interval low accuracy", 30, 5, 10, question.StatusReview},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := srs.MasteryStatus(c.interval, c.correct, c.attempts); got != c.want {
				t.Errorf("MasteryStatus(%d, %d, %d) = %s, want %s", c.interval, c.correct, c.attempts, got, c.want)
			}
		})
	}
}

func TestIsDue(t *testing.T) {
	now := testNow
	if !srs.IsDue(now, now) {
		t.Error("expected exact equality to count as due")
	}
	if !srs.IsDue(now.Add(-time.Hour), now) {
		t.Error("expected past review to be due")
	}
	if srs.IsDue(now.Add(time.Hour), now) {
		t.Error("expected future review to not be due")
	}
}

func TestPriority_ShortIntervalOutranksLong(t *testing.T) {
	now := testNow
	oneDayLate := now.Add(-24 * time.Hour)

	short := srs.Priority(oneDayLate, 1, now)
	long := srs.Priority(oneDayLate, 30, now)

	if short <= long {
		t.Errorf("expected short-interval priority %v > long-interval %v", short, long)
	}
	if srs.Priority(now.Add(24*time.Hour), 1, now) >= 0 {
		t.Error("expected negative priority for a question not yet due")
	}
}

func TestUpdateConfidenceHistory_EvictsOldest(t *testing.T) {
	var history []int
	for c := 1; c <= srs.MaxConfidenceHistory; c++ {
		history = srs.UpdateConfidenceHistory(history, c%5+1)
	}
	history[0] = 9 // marker for the entry that should fall off
	history = srs.UpdateConfidenceHistory(history, 3)

	if len(history) != srs.MaxConfidenceHistory {
		t.Fatalf("expected history capped at %d, got %d", srs.MaxConfidenceHistory, len(history))
	}
	if history[0] == 9 {
		t.Error("expected oldest entry to be evicted")
	}
	if history[len(history)-1] != 3 {
		t.Errorf("expected newest entry 3, got %d", history[len(history)-1])
	}
}

func TestAverageConfidence(t *testing.T) {
	if _, ok := srs.AverageConfidence(nil); ok {
		t.Error("expected ok=false for empty history")
	}
	avg, ok := srs.AverageConfidence([]int{2, 3, 4})
	if !ok || avg != 3 {
		t.Errorf("expected average 3, got %v (ok=%v)", avg, ok)
	}
}
