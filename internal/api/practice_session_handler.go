package api

import (
	"errors"
	"net/http"

	practicesession "github.com/hamforge/backend/internal/domain/practice_session"
	"github.com/hamforge/backend/internal/domain/question"
	"github.com/hamforge/backend/internal/domain/srs"
)

type StartPracticeRequest struct {
	Level         question.Level `json:"level" example:"technician"`
	QuestionCount int            `json:"questionCount" example:"20"`
	Subelements   []string       `json:"subelements,omitempty"`
	Groups        []string       `json:"groups,omitempty"`
	Status        []string       `json:"status,omitempty"`
	FlaggedOnly   bool           `json:"flaggedOnly,omitempty"`
}

func (r *StartPracticeRequest) Validate() error {
	if !r.Level.Valid() {
		return errors.New("unknown license level")
	}
	if r.QuestionCount < 0 {
		return errors.New("questionCount must not be negative")
	}
	for _, s := range r.Status {
		if !question.Status(s).Valid() {
			return errors.New("unknown status: " + s)
		}
	}
	return nil
}

type PracticeAnswerRequest struct {
	SelectedAnswer int `json:"selectedAnswer"`
	Confidence     int `json:"confidence,omitempty" example:"3"`
}

func (r *PracticeAnswerRequest) Validate() error {
	if r.SelectedAnswer < 0 || r.SelectedAnswer > 3 {
		return errors.New("selectedAnswer must be between 0 and 3")
	}
	if r.Confidence < 0 || r.Confidence > 5 {
		return errors.New("confidence must be between 1 and 5")
	}
	return nil
}

type PracticeAnswerResponse struct {
	Correct       bool `json:"correct"`
	CorrectAnswer int  `json:"correctAnswer"`
}

// PracticeSessionResponse is the JSON shape of a practice session.
type PracticeSessionResponse struct {
	ID              string                   `json:"id"`
	Level           question.Level           `json:"level"`
	Questions       []question.Question      `json:"questions"`
	CurrentIndex    int                      `json:"currentIndex"`
	CurrentQuestion *question.Question       `json:"currentQuestion,omitempty"`
	Answers         []practicesession.Answer `json:"answers"`
	Complete        bool                     `json:"complete"`
	Error           string                   `json:"error,omitempty"`
}

func practiceSessionResponse(s *practicesession.Session) PracticeSessionResponse {
	resp := PracticeSessionResponse{
		ID:           s.ID,
		Level:        s.Config.Level,
		Questions:    s.Questions(),
		CurrentIndex: s.CurrentIndex(),
		Answers:      s.Answers(),
		Complete:     s.Complete(),
		Error:        s.Err(),
	}
	if q, ok := s.CurrentQuestion(); ok {
		resp.CurrentQuestion = &q
	}
	return resp
}

// practiceSession fetches a live session by path ID or writes a 404.
func (h *Handler) practiceSession(w http.ResponseWriter, r *http.Request) (*practicesession.Session, bool) {
	s, ok := h.sessions.PracticeSession(r.PathValue("sessionID"))
	if !ok {
		respondError(w, http.StatusNotFound, "practice session not found")
		return nil, false
	}
	return s, true
}

// startPracticeSession creates a practice session from the filter config.
// @Summary      Start a practice session
// @Description  Resolves the working question set from the requested filters. Zero matching questions is a valid, already-complete session; only a failed pool fetch is an error.
// @Tags         Practice
// @Accept       json
// @Produce      json
// @Param        body  body      StartPracticeRequest  true  "Session filters"
// @Success      201   {object}  PracticeSessionResponse
// @Failure      400   {object}  map[string]string
// @Router       /practice-sessions [post]
func (h *Handler) startPracticeSession(w http.ResponseWriter, r *http.Request) {
	var req StartPracticeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	statuses := make([]question.Status, 0, len(req.Status))
	for _, s := range req.Status {
		statuses = append(statuses, question.Status(s))
	}

	cfg := practicesession.SessionConfig{
		Level:         req.Level,
		QuestionCount: req.QuestionCount,
		Subelements:   req.Subelements,
		Groups:        req.Groups,
		Status:        statuses,
		FlaggedOnly:   req.FlaggedOnly,
	}
	if cfg.QuestionCount == 0 {
		cfg.QuestionCount = practicesession.DefaultQuestionCount
	}

	s := h.sessions.StartPracticeSession(r.Context(), cfg)
	if s.Err() != "" {
		respondError(w, http.StatusInternalServerError, s.Err())
		return
	}
	respondJSON(w, http.StatusCreated, practiceSessionResponse(s))
}

// getPracticeSession returns a live practice session.
// @Summary      Get a practice session
// @Tags         Practice
// @Produce      json
// @Param        sessionID  path      string  true  "Session ID"
// @Success      200        {object}  PracticeSessionResponse
// @Failure      404        {object}  map[string]string
// @Router       /practice-sessions/{sessionID} [get]
func (h *Handler) getPracticeSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.practiceSession(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, practiceSessionResponse(s))
}

// answerPracticeQuestion grades an answer against the current question.
// Correctness is decided here, never trusted from the client.
// @Summary      Answer the current practice question
// @Tags         Practice
// @Accept       json
// @Produce      json
// @Param        sessionID  path      string                 true  "Session ID"
// @Param        body       body      PracticeAnswerRequest  true  "Answer"
// @Success      200        {object}  PracticeAnswerResponse
// @Failure      409        {object}  map[string]string
// @Router       /practice-sessions/{sessionID}/answers [post]
func (h *Handler) answerPracticeQuestion(w http.ResponseWriter, r *http.Request) {
	s, ok := h.practiceSession(w, r)
	if !ok {
		return
	}

	var req PracticeAnswerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if req.Confidence == 0 {
		req.Confidence = srs.DefaultConfidence
	}

	q, ok := s.CurrentQuestion()
	if !ok {
		respondError(w, http.StatusConflict, "session is complete")
		return
	}

	correct := req.SelectedAnswer == q.CorrectAnswer
	s.SubmitAnswer(r.Context(), req.SelectedAnswer, correct, req.Confidence)

	respondJSON(w, http.StatusOK, PracticeAnswerResponse{
		Correct:       correct,
		CorrectAnswer: q.CorrectAnswer,
	})
}

// advancePracticeSession moves to the next question.
// @Summary      Advance a practice session
// @Description  Moving past the last question marks the session complete.
// @Tags         Practice
// @Produce      json
// @Param        sessionID  path      string  true  "Session ID"
// @Success      200        {object}  PracticeSessionResponse
// @Router       /practice-sessions/{sessionID}/next [post]
func (h *Handler) advancePracticeSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.practiceSession(w, r)
	if !ok {
		return
	}
	s.NextQuestion()
	respondJSON(w, http.StatusOK, practiceSessionResponse(s))
}

// getPracticeStats returns the running session statistics.
// @Summary      Get practice session stats
// @Tags         Practice
// @Produce      json
// @Param        sessionID  path      string  true  "Session ID"
// @Success      200        {object}  practicesession.Stats
// @Router       /practice-sessions/{sessionID}/stats [get]
func (h *Handler) getPracticeStats(w http.ResponseWriter, r *http.Request) {
	s, ok := h.practiceSession(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, s.Stats())
}
