package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/whisper/internal/apperror"
	"github.com/sakif/whisper/internal/service"
)

// EncouragementHandler serves the shared message pool and the caller's saved
// messages.
type EncouragementHandler struct {
	encouragements *service.EncouragementService
	logger         *slog.Logger
}

func NewEncouragementHandler(encouragements *service.EncouragementService, logger *slog.Logger) *EncouragementHandler {
	return &EncouragementHandler{encouragements: encouragements, logger: logger}
}

type textRequest struct {
	UserID string `json:"userId"`
	Text   string `json:"text"`
}

type randomResponse struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// HandlePost adds a message to the pool. Anonymous posts are allowed; a
// logged-in author is recorded.
//
// HTTP: POST /api/encouragements
func (h *EncouragementHandler) HandlePost(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	author := sessionUserID(r)
	if req.UserID != "" && req.UserID != author {
		writeError(w, h.logger, apperror.Forbidden("userId does not match the logged-in user"))
		return
	}

	e, err := h.encouragements.Post(r.Context(), author, req.Text)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true, ID: e.ID})
}

// HandleRandom returns one message from the pool, or null when it is empty.
//
// HTTP: GET /api/encouragements/random
func (h *EncouragementHandler) HandleRandom(w http.ResponseWriter, r *http.Request) {
	e, err := h.encouragements.Random(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if e == nil {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, randomResponse{ID: e.ID, Text: e.Text})
}

// HandleSave bookmarks a message for the caller.
//
// HTTP: POST /api/saved-encouragements
func (h *EncouragementHandler) HandleSave(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	scope, err := requestScope(r, req.UserID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	saved, err := h.encouragements.Save(r.Context(), scope, req.Text)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true, ID: saved.ID})
}

// HTTP: GET /api/saved-encouragements
func (h *EncouragementHandler) HandleSaved(w http.ResponseWriter, r *http.Request) {
	scope, err := requestScope(r, r.URL.Query().Get("userId"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	saved, err := h.encouragements.Saved(r.Context(), scope)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

type likeRequest struct {
	ID    string `json:"id"`
	Liked *bool  `json:"liked"`
}

// HandleLike sets or clears the liked flag. liked must be a JSON boolean:
// a string or number fails decoding and a missing field is rejected.
//
// HTTP: POST /api/saved-encouragements/like
func (h *EncouragementHandler) HandleLike(w http.ResponseWriter, r *http.Request) {
	var req likeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, apperror.ValidationFailed("liked", "id and liked are required"))
		return
	}
	if req.ID == "" || req.Liked == nil {
		writeError(w, h.logger, apperror.ValidationFailed("liked", "id and liked are required"))
		return
	}
	scope, err := requestScope(r, "")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.encouragements.SetLiked(r.Context(), scope, req.ID, *req.Liked); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// HTTP: DELETE /api/saved-encouragements/{id}
func (h *EncouragementHandler) HandleDeleteSaved(w http.ResponseWriter, r *http.Request) {
	scope, err := requestScope(r, "")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if err := h.encouragements.DeleteSaved(r.Context(), scope, chi.URLParam(r, "id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}
