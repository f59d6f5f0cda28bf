package handler

// Every error response has the same shape so the frontend can always read
// the message from "error" and branch on "code":
//
//	{"error": "Username already exists", "code": "validation_error"}

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/whisper/internal/apperror"
	"github.com/sakif/whisper/internal/auth"
	"github.com/sakif/whisper/internal/repository"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

// ErrorResponse is the body of every 4xx/5xx response.
type ErrorResponse struct {
	Error string `json:"error"` // human-readable, safe to show
	Code  string `json:"code"`  // machine-readable, e.g. "not_found"
}

type successResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
}

// writeJSON sets the header and status before encoding: once the body is
// written the headers are gone.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// writeError maps a domain error to its HTTP status. Errors that are not an
// *apperror.AppError are internal: the client gets a generic message and the
// details go to the log only.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		logger.Error("request failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error: "An internal error occurred",
			Code:  "internal_error",
		})
		return
	}

	status, code := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", slog.String("error", err.Error()))
		writeJSON(w, status, ErrorResponse{Error: "An internal error occurred", Code: code})
		return
	}
	writeJSON(w, status, ErrorResponse{Error: appErr.Message, Code: code})
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, apperror.ErrValidation):
		return http.StatusBadRequest, "validation_error"
	case errors.Is(err, apperror.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, apperror.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, apperror.ErrConflict):
		return http.StatusConflict, "conflict"
	}
	return http.StatusInternalServerError, "internal_error"
}

// decodeJSON reads a single JSON object from the request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperror.ValidationFailed("body", "Request body too large")
		}
		return apperror.ValidationFailed("body", "Invalid JSON body")
	}
	return nil
}

// requestScope returns the caller's scoped repository. Older clients still
// send their own userId in the body; it must match the session user.
func requestScope(r *http.Request, claimedUserID string) (*repository.Scoped, error) {
	scope, ok := repository.ScopeFromContext(r.Context())
	if !ok {
		return nil, apperror.Unauthorized("Not authenticated")
	}
	if claimedUserID != "" && claimedUserID != scope.UserID() {
		return nil, apperror.Forbidden("userId does not match the logged-in user")
	}
	return scope, nil
}

// sessionUserID is the caller's id, or "" for anonymous requests.
func sessionUserID(r *http.Request) string {
	id, _ := auth.UserIDFromContext(r.Context())
	return id
}
