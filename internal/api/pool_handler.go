package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/hamforge/backend/internal/domain/question"
)

// ── Request / Response types ────────────────────────────────────────────────

type ImportQuestion struct {
	ID            string   `json:"id" example:"T1A01"`
	Text          string   `json:"question"`
	Answers       []string `json:"answers"`
	CorrectAnswer int      `json:"correctAnswer"`
	Reference     string   `json:"reference,omitempty"`
}

type ImportPoolRequest struct {
	Questions []ImportQuestion `json:"questions"`
}

func (r *ImportPoolRequest) Validate() error {
	if len(r.Questions) == 0 {
		return errors.New("questions are required")
	}
	return nil
}

type ImportPoolResult struct {
	QuestionsCreated int      `json:"questions_created"`
	Skipped          []string `json:"skipped,omitempty"`
}

type ExportPool struct {
	Version    string              `json:"version"`
	ExportedAt string              `json:"exported_at"`
	Level      question.Level      `json:"level"`
	Questions  []question.Question `json:"questions"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// importPool bulk-loads a level's question pool.
// @Summary      Import a question pool
// @Description  Upsert a batch of questions into a license level's pool. Rows that fail validation are skipped and reported.
// @Tags         Pool
// @Accept       json
// @Produce      json
// @Param        level  path      string             true  "License level"
// @Param        body   body      ImportPoolRequest  true  "Questions to import"
// @Success      201    {object}  ImportPoolResult
// @Failure      400    {object}  map[string]string
// @Router       /pool/{level}/questions [post]
func (h *Handler) importPool(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	level, ok := levelParam(w, r)
	if !ok {
		return
	}

	var req ImportPoolRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	valid := make([]question.Question, 0, len(req.Questions))
	var skipped []string
	for _, iq := range req.Questions {
		q, err := question.New(iq.ID, iq.Text, iq.Answers, iq.CorrectAnswer, iq.Reference)
		if err != nil {
			h.logger.Warn("skipping invalid pool question", "id", iq.ID, "error", err)
			skipped = append(skipped, iq.ID)
			continue
		}
		valid = append(valid, q)
	}

	created, err := h.store.ImportQuestions(ctx, level, valid)
	if err != nil {
		h.logger.Error("failed to import questions", "level", level, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to import questions")
		return
	}

	respondJSON(w, http.StatusCreated, ImportPoolResult{
		QuestionsCreated: created,
		Skipped:          skipped,
	})
}

// exportPool dumps a level's question pool.
// @Summary      Export a question pool
// @Tags         Pool
// @Produce      json
// @Param        level  path      string  true  "License level"
// @Success      200    {object}  ExportPool
// @Router       /pool/{level}/export [get]
func (h *Handler) exportPool(w http.ResponseWriter, r *http.Request) {
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
	if questions == nil {
		questions = []question.Question{}
	}

	w.Header().Set("Content-Disposition", "attachment; filename=hamforge-pool-"+string(level)+".json")
	respondJSON(w, http.StatusOK, ExportPool{
		Version:    "1.0",
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Level:      level,
		Questions:  questions,
	})
}

// getExamGroups returns the distinct group keys of a level's pool.
// @Summary      List exam groups
// @Tags         Pool
// @Produce      json
// @Param        level  path      string  true  "License level"
// @Success      200    {array}   string
// @Router       /pool/{level}/groups [get]
func (h *Handler) getExamGroups(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	level, ok := levelParam(w, r)
	if !ok {
		return
	}

	groups, err := h.generator.ExamGroups(ctx, level)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load groups")
		return
	}
	respondJSON(w, http.StatusOK, groups)
}

// getGroupQuestions returns one group's questions; unknown groups yield an
// empty list rather than an error.
// @Summary      List a group's questions
// @Tags         Pool
// @Produce      json
// @Param        level     path      string  true  "License level"
// @Param        groupKey  path      string  true  "Group key, e.g. T1A"
// @Success      200       {array}   question.Question
// @Router       /pool/{level}/groups/{groupKey} [get]
func (h *Handler) getGroupQuestions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	level, ok := levelParam(w, r)
	if !ok {
		return
	}

	questions, err := h.generator.QuestionsForGroup(ctx, level, r.PathValue("groupKey"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load questions")
		return
	}
	if questions == nil {
		questions = []question.Question{}
	}
	respondJSON(w, http.StatusOK, questions)
}

// getExamConfig returns the exam parameters for a level; unauthored levels
// get a zeroed config.
// @Summary      Get exam config
// @Tags         Pool
// @Produce      json
// @Param        level  path      string  true  "License level"
// @Success      200    {object}  exam.Config
// @Router       /exam-config/{level} [get]
func (h *Handler) getExamConfig(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	level, ok := levelParam(w, r)
	if !ok {
		return
	}

	cfg, err := h.generator.Config(ctx, level)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load exam config")
		return
	}
	respondJSON(w, http.StatusOK, cfg)
}

// levelParam parses and validates the {level} path segment.
func levelParam(w http.ResponseWriter, r *http.Request) (question.Level, bool) {
	level := question.Level(r.PathValue("level"))
	if !level.Valid() {
		respondError(w, http.StatusBadRequest, "unknown license level")
		return "", false
	}
	return level, true
}
