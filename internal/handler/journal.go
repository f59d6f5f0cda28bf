package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/whisper/internal/service"
)

// JournalHandler serves mood records, journal notes and the mood trend.
type JournalHandler struct {
	journal *service.JournalService
	logger  *slog.Logger
}

func NewJournalHandler(journal *service.JournalService, logger *slog.Logger) *JournalHandler {
	return &JournalHandler{journal: journal, logger: logger}
}

type moodRequest struct {
	UserID string `json:"userId"`
	Mood   string `json:"mood"`
	Text   string `json:"text"`
}

// HandleSubmitMood records one mood.
//
// HTTP: POST /submit-mood, POST /api/moods
// REQUEST BODY: {"mood": "😊", "text": "optional"}
func (h *JournalHandler) HandleSubmitMood(w http.ResponseWriter, r *http.Request) {
	var req moodRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	scope, err := requestScope(r, req.UserID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if _, err := h.journal.SubmitMood(r.Context(), scope, req.Mood, req.Text); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// HandleSubmitJournal writes a journal note together with its mood record.
//
// HTTP: POST /submit-journal
// REQUEST BODY: {"mood": "😢", "text": "required"}
func (h *JournalHandler) HandleSubmitJournal(w http.ResponseWriter, r *http.Request) {
	var req moodRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	scope, err := requestScope(r, req.UserID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	note, err := h.journal.SubmitJournal(r.Context(), scope, req.Mood, req.Text)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true, ID: note.ID})
}

// HandleMoods lists the caller's mood records.
//
// HTTP: GET /api/moods
func (h *JournalHandler) HandleMoods(w http.ResponseWriter, r *http.Request) {
	scope, err := requestScope(r, r.URL.Query().Get("userId"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	moods, err := h.journal.Moods(r.Context(), scope)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, moods)
}

// HandleNotes lists the caller's journal notes, newest first.
//
// HTTP: GET /api/notes
func (h *JournalHandler) HandleNotes(w http.ResponseWriter, r *http.Request) {
	scope, err := requestScope(r, r.URL.Query().Get("userId"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	notes, err := h.journal.Notes(r.Context(), scope)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

// HandleTrend returns one aggregated mood point per day.
//
// HTTP: GET /api/moods/trend?range=7|30|all
func (h *JournalHandler) HandleTrend(w http.ResponseWriter, r *http.Request) {
	scope, err := requestScope(r, r.URL.Query().Get("userId"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	points, err := h.journal.Trend(r.Context(), scope, r.URL.Query().Get("range"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, points)
}
