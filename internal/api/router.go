// internal/api/router.go
package api

import "net/http"

// RegisterRoutes wires up all API routes on the given mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Question pool
	mux.HandleFunc("POST /pool/{level}/questions", h.importPool)
	mux.HandleFunc("GET /pool/{level}/export", h.exportPool)
	mux.HandleFunc("GET /pool/{level}/groups", h.getExamGroups)
	mux.HandleFunc("GET /pool/{level}/groups/{groupKey}", h.getGroupQuestions)
	mux.HandleFunc("GET /exam-config/{level}", h.getExamConfig)

	// Exam session (one live session at a time)
	mux.HandleFunc("POST /exam-sessions", h.startExamSession)
	mux.HandleFunc("GET /exam-sessions/current", h.getExamSession)
	mux.HandleFunc("POST /exam-sessions/current/answer", h.answerExamQuestion)
	mux.HandleFunc("POST /exam-sessions/current/navigate", h.navigateExam)
	mux.HandleFunc("POST /exam-sessions/current/flag", h.toggleExamFlag)
	mux.HandleFunc("POST /exam-sessions/current/submit", h.submitExam)

	// Practice sessions
	mux.HandleFunc("POST /practice-sessions", h.startPracticeSession)
	mux.HandleFunc("GET /practice-sessions/{sessionID}", h.getPracticeSession)
	mux.HandleFunc("POST /practice-sessions/{sessionID}/answers", h.answerPracticeQuestion)
	mux.HandleFunc("POST /practice-sessions/{sessionID}/next", h.advancePracticeSession)
	mux.HandleFunc("GET /practice-sessions/{sessionID}/stats", h.getPracticeStats)

	// Progress and review
	mux.HandleFunc("GET /progress/{level}/stats", h.getProgressStats)
	mux.HandleFunc("GET /questions/{questionID}/progress", h.getQuestionProgress)
	mux.HandleFunc("GET /review/{level}/due", h.getDueQuestions)
	mux.HandleFunc("GET /progress/flags", h.listFlaggedQuestions)
	mux.HandleFunc("POST /progress/flags/{questionID}", h.toggleQuestionFlag)
	mux.HandleFunc("POST /progress/reset", h.resetProgress)

	// Attempt history
	mux.HandleFunc("GET /attempts", h.listExamAttempts)
	mux.HandleFunc("GET /attempts/{attemptID}/answers", h.getAttemptAnswers)
}
