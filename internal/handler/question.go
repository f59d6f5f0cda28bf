package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/whisper/internal/model"
	"github.com/sakif/whisper/internal/service"
)

// QuestionHandler serves the daily question.
type QuestionHandler struct {
	questions *service.QuestionService
	logger    *slog.Logger
}

func NewQuestionHandler(questions *service.QuestionService, logger *slog.Logger) *QuestionHandler {
	return &QuestionHandler{questions: questions, logger: logger}
}

type dailyQuestionResponse struct {
	Question *model.Question `json:"question"`
}

type answerRequest struct {
	UserID     string `json:"userId"`
	QuestionID string `json:"questionId"`
	Answer     string `json:"answer"`
}

type answerResponse struct {
	Message string `json:"message"`
}

type answersResponse struct {
	Answers []model.QuestionAnswer `json:"answers"`
}

// HandleDaily returns today's question, or {"question": null} once the caller
// has answered today.
//
// HTTP: GET /api/daily-question
func (h *QuestionHandler) HandleDaily(w http.ResponseWriter, r *http.Request) {
	scope, err := requestScope(r, r.URL.Query().Get("userId"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	q, err := h.questions.Today(r.Context(), scope)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dailyQuestionResponse{Question: q})
}

// HandleAnswer stores today's answer and replies with a short message.
//
// HTTP: POST /api/submit-question-answer
// REQUEST BODY: {"questionId": "q3", "answer": "Light rain"}
func (h *QuestionHandler) HandleAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	scope, err := requestScope(r, req.UserID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	msg, err := h.questions.Answer(r.Context(), scope, req.QuestionID, req.Answer)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, answerResponse{Message: msg})
}

// HTTP: GET /api/my-question-answers
func (h *QuestionHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	scope, err := requestScope(r, r.URL.Query().Get("userId"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	answers, err := h.questions.History(r.Context(), scope)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, answersResponse{Answers: answers})
}
