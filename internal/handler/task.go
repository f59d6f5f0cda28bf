package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/whisper/internal/apperror"
	"github.com/sakif/whisper/internal/service"
)

// TaskHandler serves calendar tasks and the month grid.
type TaskHandler struct {
	tasks  *service.TaskService
	logger *slog.Logger
}

func NewTaskHandler(tasks *service.TaskService, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{tasks: tasks, logger: logger}
}

type taskRequest struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`
	Title  string `json:"title"`
	Date   string `json:"date"`
	Note   string `json:"note"`
}

func (req taskRequest) input() service.TaskInput {
	return service.TaskInput{Title: req.Title, Date: req.Date, Note: req.Note}
}

// HandleSubmitEvent creates a task.
//
// HTTP: POST /submit-event
// REQUEST BODY: {"title": "Dentist", "date": "2024-03-05", "note": ""}
func (h *TaskHandler) HandleSubmitEvent(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	scope, err := requestScope(r, req.UserID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	task, err := h.tasks.Create(r.Context(), scope, req.input())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true, ID: task.ID})
}

// HandleSave creates a task, or updates it when the body carries an id.
//
// HTTP: POST /api/tasks
func (h *TaskHandler) HandleSave(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	scope, err := requestScope(r, req.UserID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	task, err := h.tasks.Save(r.Context(), scope, req.ID, req.input())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true, ID: task.ID})
}

// HandleList returns the caller's tasks ordered by date.
//
// HTTP: GET /api/tasks
func (h *TaskHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	scope, err := requestScope(r, r.URL.Query().Get("userId"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	tasks, err := h.tasks.List(r.Context(), scope)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

// HandleDelete removes one task. A malformed id is 400, an id that is not
// one of the caller's tasks is 404.
//
// HTTP: DELETE /api/tasks/{id}
func (h *TaskHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	scope, err := requestScope(r, "")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if err := h.tasks.Delete(r.Context(), scope, chi.URLParam(r, "id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// HandleCalendar returns the 42-cell month grid with the caller's tasks.
// Absent year or month default to the current UTC month; a present value,
// zero included, must be in range.
//
// HTTP: GET /api/calendar?year=2024&month=3
func (h *TaskHandler) HandleCalendar(w http.ResponseWriter, r *http.Request) {
	scope, err := requestScope(r, "")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	ym := h.tasks.CurrentMonth()
	year, ok, err := queryInt(r, "year")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if ok {
		ym.Year = year
	}
	month, ok, err := queryInt(r, "month")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if ok {
		ym.Month = time.Month(month)
	}

	grid, err := h.tasks.Calendar(r.Context(), scope, ym.Year, ym.Month)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, grid)
}

// queryInt parses an optional integer query parameter and reports whether
// it was present. A present but empty value counts as present.
func queryInt(r *http.Request, name string) (int, bool, error) {
	values, ok := r.URL.Query()[name]
	if !ok {
		return 0, false, nil
	}
	n, err := strconv.Atoi(values[0])
	if err != nil {
		return 0, true, apperror.ValidationFailed(name, name+" must be a number")
	}
	return n, true, nil
}
