package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sakif/whisper/internal/apperror"
	"github.com/sakif/whisper/internal/calendar"
	"github.com/sakif/whisper/internal/model"
	"github.com/sakif/whisper/internal/repository"
)

// TaskService manages calendar tasks.
type TaskService struct {
	logger *slog.Logger
	now    clock
}

func NewTaskService(logger *slog.Logger) *TaskService {
	return &TaskService{logger: logger, now: utcNow}
}

// TaskInput is the editable part of a task.
type TaskInput struct {
	Title string
	Date  string
	Note  string
}

func (in TaskInput) validate() (TaskInput, error) {
	var err error
	if in.Title, err = required("title", in.Title, MaxTitleLength); err != nil {
		return in, err
	}
	if in.Date, err = validDate("date", in.Date); err != nil {
		return in, err
	}
	if in.Note, err = optional("note", in.Note, MaxTextLength); err != nil {
		return in, err
	}
	return in, nil
}

func (s *TaskService) Create(ctx context.Context, scope *repository.Scoped, in TaskInput) (*model.Task, error) {
	in, err := in.validate()
	if err != nil {
		return nil, err
	}
	task := &model.Task{Title: in.Title, Date: in.Date, Note: in.Note}
	if err := scope.InsertTask(ctx, task); err != nil {
		return nil, fmt.Errorf("service/task: creating task: %w", err)
	}
	return task, nil
}

// Save updates the task with id when id is set and creates one otherwise.
// Updating a task the caller does not own reports not found.
func (s *TaskService) Save(ctx context.Context, scope *repository.Scoped, id string, in TaskInput) (*model.Task, error) {
	if id == "" {
		return s.Create(ctx, scope, in)
	}
	in, err := in.validate()
	if err != nil {
		return nil, err
	}
	task := &model.Task{ID: id, Title: in.Title, Date: in.Date, Note: in.Note}
	if err := scope.UpdateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("service/task: updating task %s: %w", id, err)
	}
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, scope *repository.Scoped, id string) error {
	if err := scope.DeleteTask(ctx, id); err != nil {
		return fmt.Errorf("service/task: deleting task %s: %w", id, err)
	}
	s.logger.Debug("task deleted", slog.String("taskID", id))
	return nil
}

func (s *TaskService) List(ctx context.Context, scope *repository.Scoped) ([]model.Task, error) {
	tasks, err := scope.Tasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/task: listing tasks: %w", err)
	}
	return tasks, nil
}

// CurrentMonth is the UTC month now; handlers use it for missing query
// parameters.
func (s *TaskService) CurrentMonth() calendar.YearMonth {
	now := s.now().UTC()
	return calendar.YearMonth{Year: now.Year(), Month: now.Month()}
}

// Calendar builds the month grid with the caller's tasks. month must be
// 1..12 and year 1..9999; zero is rejected like any other out-of-range value.
func (s *TaskService) Calendar(ctx context.Context, scope *repository.Scoped, year int, month time.Month) (*calendar.Grid, error) {
	if month < time.January || month > time.December {
		return nil, apperror.ValidationFailed("month", "month must be between 1 and 12")
	}
	if year < 1 || year > 9999 {
		return nil, apperror.ValidationFailed("year", "year must be between 1 and 9999")
	}

	tasks, err := scope.Tasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/task: listing tasks: %w", err)
	}

	grid, err := calendar.Build(year, month, tasks)
	if err != nil {
		return nil, fmt.Errorf("service/task: building calendar: %w", err)
	}
	return grid, nil
}
