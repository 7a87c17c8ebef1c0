package api

import (
	"net/http"
	"sort"
	"time"

	"github.com/hamforge/backend/internal/domain/question"
	"github.com/hamforge/backend/internal/domain/srs"
	"github.com/hamforge/backend/internal/store"
)

// ProgressStats aggregates a level's scheduling state.
type ProgressStats struct {
	Level             question.Level             `json:"level"`
	TotalQuestions    int                        `json:"totalQuestions"`
	New               int                        `json:"new"`
	Learning          int                        `json:"learning"`
	Review            int                        `json:"review"`
	Mastered          int                        `json:"mastered"`
	Due               int                        `json:"due"`
	TotalAnswered     int                        `json:"totalAnswered"`
	TotalCorrect      int                        `json:"totalCorrect"`
	Accuracy          int                        `json:"accuracy"` // rounded percentage
	AverageEase       float64                    `json:"averageEase"`
	AverageConfidence float64                    `json:"averageConfidence"`
	StudyStreak       int                        `json:"studyStreak"`
	BySubelement      map[string]SubelementStats `json:"bySubelement"`
}

// SubelementStats is the lifetime accuracy rollup for one subelement.
type SubelementStats struct {
	Attempts int `json:"attempts"`
	Correct  int `json:"correct"`
	Accuracy int `json:"accuracy"` // rounded percentage
}

// DueQuestion is one review-queue entry, most urgent first.
type DueQuestion struct {
	Question   question.Question `json:"question"`
	Status     question.Status   `json:"status"`
	Interval   int               `json:"interval"`
	EaseFactor float64           `json:"easeFactor"`
	NextReview time.Time         `json:"nextReview"`
	Priority   float64           `json:"priority"`
}

type FlagToggleResponse struct {
	QuestionID string `json:"questionId"`
	Flagged    bool   `json:"flagged"`
}

// getProgressStats aggregates pool size, status buckets, due count,
// lifetime accuracy and the study-day streak for a level.
// @Summary      Get progress stats
// @Tags         Progress
// @Produce      json
// @Param        level  path      string  true  "License level"
// @Success      200    {object}  ProgressStats
// @Router       /progress/{level}/stats [get]
func (h *Handler) getProgressStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	level, ok := levelParam(w, r)
	if !ok {
		return
	}

	questions, err := h.store.GetQuestionsForLevel(ctx, level)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load pool")
		return
	}
	records, err := h.store.ListProgress(ctx, level)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load progress")
		return
	}
	counters, err := h.store.GetCounters(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load counters")
		return
	}
	streak, err := h.store.StudyDayStreak(ctx, time.Now())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load study streak")
		return
	}

	stats := ProgressStats{
		Level:          level,
		TotalQuestions: len(questions),
		TotalAnswered:  counters.Answered,
		TotalCorrect:   counters.Correct,
		StudyStreak:    streak,
		BySubelement:   make(map[string]SubelementStats),
	}

	now := time.Now()
	easeSum := 0.0
	confSum, confCount := 0.0, 0
	for _, p := range records {
		switch p.Status {
		case question.StatusLearning:
			stats.Learning++
		case question.StatusReview:
			stats.Review++
		case question.StatusMastered:
			stats.Mastered++
		}
		if p.Attempts > 0 && srs.IsDue(p.NextReview, now) {
			stats.Due++
		}
		easeSum += p.EaseFactor
		if avg, ok := srs.AverageConfidence(p.ConfidenceHistory); ok {
			confSum += avg
			confCount++
		}
		if sub, _, _, err := question.ParseID(p.QuestionID); err == nil && p.Attempts > 0 {
			se := stats.BySubelement[sub]
			se.Attempts += p.Attempts
			se.Correct += p.CorrectCount
			se.Accuracy = int(float64(se.Correct)/float64(se.Attempts)*100 + 0.5)
			stats.BySubelement[sub] = se
		}
	}
	// Pool questions without a non-new record have never been studied.
	stats.New = stats.TotalQuestions - stats.Learning - stats.Review - stats.Mastered
	if stats.New < 0 {
		stats.New = 0
	}
	if len(records) > 0 {
		stats.AverageEase = easeSum / float64(len(records))
	}
	if confCount > 0 {
		stats.AverageConfidence = confSum / float64(confCount)
	}
	if stats.TotalAnswered > 0 {
		stats.Accuracy = int(float64(stats.TotalCorrect)/float64(stats.TotalAnswered)*100 + 0.5)
	}

	respondJSON(w, http.StatusOK, stats)
}

// getDueQuestions returns the review queue, most overdue first relative to
// each question's interval.
// @Summary      Get due review questions
// @Tags         Progress
// @Produce      json
// @Param        level  path      string  true  "License level"
// @Success      200    {array}   DueQuestion
// @Router       /review/{level}/due [get]
func (h *Handler) getDueQuestions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	level, ok := levelParam(w, r)
	if !ok {
		return
	}

	questions, err := h.store.GetQuestionsForLevel(ctx, level)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load pool")
		return
	}
	records, err := h.store.ListProgress(ctx, level)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load progress")
		return
	}

	byID := make(map[string]question.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	now := time.Now()
	due := []DueQuestion{}
	for _, p := range records {
		if p.Attempts == 0 || !srs.IsDue(p.NextReview, now) {
			continue
		}
		q, ok := byID[p.QuestionID]
		if !ok {
			continue
		}
		due = append(due, DueQuestion{
			Question:   q,
			Status:     p.Status,
			Interval:   p.Interval,
			EaseFactor: p.EaseFactor,
			NextReview: p.NextReview,
			Priority:   srs.Priority(p.NextReview, p.Interval, now),
		})
	}

	sort.Slice(due, func(i, j int) bool {
		if due[i].Priority != due[j].Priority {
			return due[i].Priority > due[j].Priority
		}
		return due[i].Question.ID < due[j].Question.ID
	})

	respondJSON(w, http.StatusOK, due)
}

// getQuestionProgress returns one question's scheduling record.
// @Summary      Get a question's progress
// @Tags         Progress
// @Produce      json
// @Param        questionID  path      string  true  "Question ID"
// @Success      200         {object}  srs.QuestionProgress
// @Failure      404         {object}  map[string]string
// @Router       /questions/{questionID}/progress [get]
func (h *Handler) getQuestionProgress(w http.ResponseWriter, r *http.Request) {
	questionID := r.PathValue("questionID")
	p, err := h.store.GetProgress(r.Context(), questionID)
	if h.handleStoreError(w, err, "question progress") {
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// listFlaggedQuestions returns the IDs in the flagged set.
// @Summary      List flagged questions
// @Tags         Progress
// @Produce      json
// @Success      200  {array}  string
// @Router       /progress/flags [get]
func (h *Handler) listFlaggedQuestions(w http.ResponseWriter, r *http.Request) {
	ids, err := h.store.FlaggedQuestions(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load flags")
		return
	}
	if ids == nil {
		ids = []string{}
	}
	respondJSON(w, http.StatusOK, ids)
}

// toggleQuestionFlag flips a question's flag and reports the new state.
// @Summary      Toggle a question flag
// @Tags         Progress
// @Produce      json
// @Param        questionID  path      string  true  "Question ID"
// @Success      200         {object}  FlagToggleResponse
// @Router       /progress/flags/{questionID} [post]
func (h *Handler) toggleQuestionFlag(w http.ResponseWriter, r *http.Request) {
	questionID := r.PathValue("questionID")
	if _, _, _, err := question.ParseID(questionID); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	flagged, err := h.store.ToggleFlagQuestion(r.Context(), questionID)
	if err != nil {
		h.logger.Error("failed to toggle flag", "question_id", questionID, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to toggle flag")
		return
	}
	respondJSON(w, http.StatusOK, FlagToggleResponse{QuestionID: questionID, Flagged: flagged})
}

// resetProgress wipes all scheduling state, flags, counters and study days.
// The question pool and archived attempts survive.
// @Summary      Reset all progress
// @Tags         Progress
// @Success      204  "progress reset"
// @Router       /progress/reset [post]
func (h *Handler) resetProgress(w http.ResponseWriter, r *http.Request) {
	if err := h.store.ResetProgress(r.Context()); err != nil {
		h.logger.Error("failed to reset progress", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to reset progress")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// listExamAttempts returns archived attempts, newest first.
// @Summary      List exam attempts
// @Tags         Attempts
// @Produce      json
// @Param        level  query     string  false  "Filter by license level"
// @Success      200    {array}   store.AttemptSummary
// @Router       /attempts [get]
func (h *Handler) listExamAttempts(w http.ResponseWriter, r *http.Request) {
	level := question.Level(r.URL.Query().Get("level"))
	if level != "" && !level.Valid() {
		respondError(w, http.StatusBadRequest, "unknown license level")
		return
	}

	attempts, err := h.store.ListExamAttempts(r.Context(), level)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load attempts")
		return
	}
	if attempts == nil {
		attempts = []store.AttemptSummary{}
	}
	respondJSON(w, http.StatusOK, attempts)
}

// getAttemptAnswers returns one archived attempt's per-question answers.
// @Summary      Get an attempt's answers
// @Tags         Attempts
// @Produce      json
// @Param        attemptID  path      string  true  "Attempt ID"
// @Success      200        {array}   examsession.SavedAnswer
// @Failure      404        {object}  map[string]string
// @Router       /attempts/{attemptID}/answers [get]
func (h *Handler) getAttemptAnswers(w http.ResponseWriter, r *http.Request) {
	answers, err := h.store.GetAttemptAnswers(r.Context(), r.PathValue("attemptID"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load attempt answers")
		return
	}
	if len(answers) == 0 {
		respondError(w, http.StatusNotFound, "attempt not found")
		return
	}
	respondJSON(w, http.StatusOK, answers)
}
