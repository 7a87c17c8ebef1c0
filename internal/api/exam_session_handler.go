package api

import (
	"errors"
	"net/http"

	"github.com/hamforge/backend/internal/domain/exam"
	examsession "github.com/hamforge/backend/internal/domain/exam_session"
	"github.com/hamforge/backend/internal/domain/question"
)

type StartExamRequest struct {
	Level question.Level `json:"level" example:"technician"`
}

func (r *StartExamRequest) Validate() error {
	if !r.Level.Valid() {
		return errors.New("unknown license level")
	}
	return nil
}

type NavigateRequest struct {
	// Direction is "next", "prev", or "goto"; Index is required for "goto".
	Direction string `json:"direction" example:"next"`
	Index     int    `json:"index,omitempty"`
}

func (r *NavigateRequest) Validate() error {
	switch r.Direction {
	case "next", "prev", "goto":
		return nil
	default:
		return errors.New("direction must be next, prev or goto")
	}
}

type AnswerExamRequest struct {
	SelectedAnswer int `json:"selectedAnswer"`
}

func (r *AnswerExamRequest) Validate() error {
	if r.SelectedAnswer < 0 || r.SelectedAnswer > 3 {
		return errors.New("selectedAnswer must be between 0 and 3")
	}
	return nil
}

// ExamSessionResponse is the JSON shape of an exam session view.
type ExamSessionResponse struct {
	Level          question.Level            `json:"level"`
	Exam           *exam.GeneratedExam       `json:"exam,omitempty"`
	CurrentIndex   int                       `json:"currentIndex"`
	Answers        []examsession.AnswerPair  `json:"answers"`
	FlaggedIndices []int                     `json:"flaggedIndices"`
	TimeRemaining  int                       `json:"timeRemaining"`
	Complete       bool                      `json:"complete"`
	Restored       bool                      `json:"restored"`
	Error          string                    `json:"error,omitempty"`
	Result         *exam.Result              `json:"result,omitempty"`
	SavedExamID    string                    `json:"savedExamId,omitempty"`
}

func examSessionResponse(v examsession.View) ExamSessionResponse {
	resp := ExamSessionResponse{
		Level:          v.Level,
		Exam:           v.Exam,
		CurrentIndex:   v.CurrentIndex,
		Answers:        v.Answers,
		FlaggedIndices: v.FlaggedIndices,
		TimeRemaining:  v.TimeRemaining,
		Complete:       v.Complete,
		Restored:       v.Restored,
		Error:          v.Error,
		Result:         v.Result,
		SavedExamID:    v.SavedExamID,
	}
	if resp.Answers == nil {
		resp.Answers = []examsession.AnswerPair{}
	}
	if resp.FlaggedIndices == nil {
		resp.FlaggedIndices = []int{}
	}
	return resp
}

// currentExamSession fetches the mounted session or writes a 404.
func (h *Handler) currentExamSession(w http.ResponseWriter) (*examsession.Controller, bool) {
	c := h.sessions.ExamSession()
	if c == nil {
		respondError(w, http.StatusNotFound, "no active exam session")
		return nil, false
	}
	return c, true
}

// startExamSession mounts an exam session for the requested level.
// @Summary      Start or resume an exam session
// @Description  Restores the persisted session when one exists for the level and is unfinished; otherwise generates a fresh 35-question exam and starts the countdown.
// @Tags         Exam
// @Accept       json
// @Produce      json
// @Param        body  body      StartExamRequest  true  "Level to examine"
// @Success      201   {object}  ExamSessionResponse
// @Failure      400   {object}  map[string]string
// @Router       /exam-sessions [post]
func (h *Handler) startExamSession(w http.ResponseWriter, r *http.Request) {
	var req StartExamRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	c := h.sessions.StartExamSession(r.Context(), req.Level)
	v := c.View()
	if v.Error != "" && v.Exam == nil {
		respondError(w, http.StatusConflict, v.Error)
		return
	}
	respondJSON(w, http.StatusCreated, examSessionResponse(v))
}

// getExamSession returns the mounted exam session.
// @Summary      Get the current exam session
// @Tags         Exam
// @Produce      json
// @Success      200  {object}  ExamSessionResponse
// @Failure      404  {object}  map[string]string
// @Router       /exam-sessions/current [get]
func (h *Handler) getExamSession(w http.ResponseWriter, r *http.Request) {
	c, ok := h.currentExamSession(w)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, examSessionResponse(c.View()))
}

// answerExamQuestion selects an answer for the current question.
// @Summary      Answer the current exam question
// @Tags         Exam
// @Accept       json
// @Produce      json
// @Param        body  body      AnswerExamRequest  true  "Answer index 0-3"
// @Success      200   {object}  ExamSessionResponse
// @Router       /exam-sessions/current/answer [post]
func (h *Handler) answerExamQuestion(w http.ResponseWriter, r *http.Request) {
	c, ok := h.currentExamSession(w)
	if !ok {
		return
	}

	var req AnswerExamRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	c.SelectAnswer(req.SelectedAnswer)
	respondJSON(w, http.StatusOK, examSessionResponse(c.View()))
}

// navigateExam moves the exam cursor.
// @Summary      Navigate the exam
// @Tags         Exam
// @Accept       json
// @Produce      json
// @Param        body  body      NavigateRequest  true  "Navigation"
// @Success      200   {object}  ExamSessionResponse
// @Router       /exam-sessions/current/navigate [post]
func (h *Handler) navigateExam(w http.ResponseWriter, r *http.Request) {
	c, ok := h.currentExamSession(w)
	if !ok {
		return
	}

	var req NavigateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	switch req.Direction {
	case "next":
		c.NextQuestion()
	case "prev":
		c.PrevQuestion()
	case "goto":
		c.GoToQuestion(req.Index)
	}
	respondJSON(w, http.StatusOK, examSessionResponse(c.View()))
}

// toggleExamFlag flips the review flag on the current question.
// @Summary      Flag the current exam question for review
// @Tags         Exam
// @Produce      json
// @Success      200  {object}  ExamSessionResponse
// @Router       /exam-sessions/current/flag [post]
func (h *Handler) toggleExamFlag(w http.ResponseWriter, r *http.Request) {
	c, ok := h.currentExamSession(w)
	if !ok {
		return
	}
	c.ToggleFlag()
	respondJSON(w, http.StatusOK, examSessionResponse(c.View()))
}

// submitExam grades the exam. Safe to call more than once.
// @Summary      Submit the exam
// @Tags         Exam
// @Produce      json
// @Success      200  {object}  ExamSessionResponse
// @Router       /exam-sessions/current/submit [post]
func (h *Handler) submitExam(w http.ResponseWriter, r *http.Request) {
	c, ok := h.currentExamSession(w)
	if !ok {
		return
	}
	c.Submit(r.Context())
	respondJSON(w, http.StatusOK, examSessionResponse(c.View()))
}
