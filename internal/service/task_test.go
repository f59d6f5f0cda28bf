package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sakif/whisper/internal/apperror"
	"github.com/sakif/whisper/internal/repository"
)

func newTestTasks(now time.Time) (*TaskService, *fakeStore, *repository.Scoped) {
	store := newFakeStore()
	svc := NewTaskService(discardLogger())
	svc.now = fixedClock(now)
	return svc, store, repository.ForUser(store, "user-1")
}

func TestTaskCreate_Validation(t *testing.T) {
	svc, _, scope := newTestTasks(time.Now())

	tests := []struct {
		name  string
		in    TaskInput
		field string
	}{
		{"missing title", TaskInput{Date: "2024-03-05"}, "title"},
		{"missing date", TaskInput{Title: "x"}, "date"},
		{"bad date", TaskInput{Title: "x", Date: "5/3/2024"}, "date"},
		{"impossible date", TaskInput{Title: "x", Date: "2024-02-30"}, "date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), scope, tt.in)
			var appErr *apperror.AppError
			if !errors.As(err, &appErr) || appErr.Field != tt.field {
				t.Errorf("Create() error = %v, want validation on %q", err, tt.field)
			}
		})
	}
}

func TestTaskSave_Upsert(t *testing.T) {
	svc, store, scope := newTestTasks(time.Now())
	ctx := context.Background()

	created, err := svc.Save(ctx, scope, "", TaskInput{Title: "dentist", Date: "2024-03-05"})
	if err != nil {
		t.Fatalf("Save(create) error = %v", err)
	}

	updated, err := svc.Save(ctx, scope, created.ID, TaskInput{Title: "dentist", Date: "2024-03-06", Note: "moved"})
	if err != nil {
		t.Fatalf("Save(update) error = %v", err)
	}
	if updated.ID != created.ID {
		t.Errorf("update changed id: %s -> %s", created.ID, updated.ID)
	}
	if len(store.tasks) != 1 || store.tasks[0].Date != "2024-03-06" {
		t.Errorf("stored tasks = %+v", store.tasks)
	}

	other := repository.ForUser(store, "user-2")
	if _, err := svc.Save(ctx, other, created.ID, TaskInput{Title: "mine", Date: "2024-03-06"}); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Save() on another user's task error = %v, want ErrNotFound", err)
	}
}

func TestTaskDelete(t *testing.T) {
	svc, _, scope := newTestTasks(time.Now())
	ctx := context.Background()

	task, _ := svc.Create(ctx, scope, TaskInput{Title: "gym", Date: "2024-03-05"})

	if err := svc.Delete(ctx, scope, task.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := svc.Delete(ctx, scope, task.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Delete(missing) error = %v, want ErrNotFound", err)
	}
	if err := svc.Delete(ctx, scope, "garbage"); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Delete(malformed) error = %v, want ErrValidation", err)
	}
}

func TestCalendar(t *testing.T) {
	now := time.Date(2023, 12, 15, 0, 0, 0, 0, time.UTC)
	svc, _, scope := newTestTasks(now)
	ctx := context.Background()

	svc.Create(ctx, scope, TaskInput{Title: "party", Date: "2023-12-31"})
	svc.Create(ctx, scope, TaskInput{Title: "new year", Date: "2024-01-01"})

	ym := svc.CurrentMonth()
	grid, err := svc.Calendar(ctx, scope, ym.Year, ym.Month)
	if err != nil {
		t.Fatalf("Calendar() error = %v", err)
	}
	if grid.Year != 2023 || grid.Month != time.December {
		t.Errorf("default month = %d-%d, want 2023-12", grid.Year, grid.Month)
	}

	counts := map[string]int{}
	for _, c := range grid.Cells {
		counts[c.Date] = c.TaskCount
	}
	if counts["2023-12-31"] != 1 || counts["2024-01-01"] != 1 {
		t.Errorf("task counts = %v", counts)
	}

	invalid := []struct {
		year  int
		month time.Month
	}{
		{2024, 13},
		{2024, 0},
		{0, time.May},
		{10000, time.May},
	}
	for _, in := range invalid {
		if _, err := svc.Calendar(ctx, scope, in.year, in.month); !errors.Is(err, apperror.ErrValidation) {
			t.Errorf("Calendar(%d, %d) error = %v, want ErrValidation", in.year, in.month, err)
		}
	}
}
