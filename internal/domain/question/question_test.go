package question_test

import (
	"testing"

	"github.com/hamforge/backend/internal/domain/question"
)

func fourAnswers() []string {
	return []string{"A", "B", "C", "D"}
}

func TestParseID(t *testing.T) {
	sub, group, number, err := question.ParseID("T1A01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sub != "T1" {
		t.Errorf("expected subelement T1, got %s", sub)
	}
	if group != "A" {
		t.Errorf("expected group A, got %s", group)
	}
	if number != 1 {
		t.Errorf("expected number 1, got %d", number)
	}
}

func TestParseID_Invalid(t *testing.T) {
	for _, id := range []string{"", "T1A1", "T1A011", "11A01", "TAA01", "T1101", "T1AXX"} {
		if _, _, _, err := question.ParseID(id); err == nil {
			t.Errorf("expected error for id %q", id)
		}
	}
}

func TestNew_DerivesSubelementAndGroup(t *testing.T) {
	q, err := question.New("G2B05", "What is the first thing you should do?", fourAnswers(), 2, "97.101(c)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Subelement != "G2" || q.Group != "B" {
		t.Errorf("expected G2/B, got %s/%s", q.Subelement, q.Group)
	}
	if q.GroupKey() != "G2B" {
		t.Errorf("expected group key G2B, got %s", q.GroupKey())
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := question.New("T1A01", "", fourAnswers(), 0, ""); err == nil {
		t.Error("expected error for empty text")
	}
	if _, err := question.New("T1A01", "q", []string{"A", "B", "C"}, 0, ""); err == nil {
		t.Error("expected error for 3 answers")
	}
	if _, err := question.New("T1A01", "q", fourAnswers(), 4, ""); err == nil {
		t.Error("expected error for answer index 4")
	}
	if _, err := question.New("T1A01", "q", fourAnswers(), -1, ""); err == nil {
		t.Error("expected error for negative answer index")
	}
}

func TestLevelFromID(t *testing.T) {
	cases := map[string]question.Level{
		"T1A01": question.LevelTechnician,
		"G2B05": question.LevelGeneral,
		"E3C10": question.LevelExtra,
		"X1A01": "",
		"":      "",
	}
	for id, want := range cases {
		if got := question.LevelFromID(id); got != want {
			t.Errorf("LevelFromID(%q) = %q, want %q", id, got, want)
		}
	}
}

func TestLevelValid(t *testing.T) {
	if !question.LevelTechnician.Valid() {
		t.Error("expected technician to be valid")
	}
	if question.Level("novice").Valid() {
		t.Error("expected novice to be invalid")
	}
}
