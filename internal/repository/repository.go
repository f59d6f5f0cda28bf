// Package repository declares the persistence gateway used by the services.
//
// Store is the single long-lived object opened at process start and closed at
// shutdown. It performs no authorization: callers scope user data through
// Scoped, which binds one user id and stamps or filters every call with it.
package repository

import (
	"context"

	"github.com/sakif/whisper/internal/model"
)

type UserRepository interface {
	// CreateUser sets ID and CreatedAt. A taken username yields
	// apperror.ErrConflict.
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	// UpsertGitHubUser returns the account linked to githubID, creating it
	// with login as the username on first sight.
	UpsertGitHubUser(ctx context.Context, githubID int64, login string) (*model.User, error)
}

type MoodRepository interface {
	InsertMood(ctx context.Context, rec *model.MoodRecord) error
	// MoodsByUser returns records oldest first.
	MoodsByUser(ctx context.Context, userID string) ([]model.MoodRecord, error)
}

type JournalRepository interface {
	InsertNote(ctx context.Context, note *model.JournalNote) error
	// NotesByUser returns notes newest first.
	NotesByUser(ctx context.Context, userID string) ([]model.JournalNote, error)
}

type TaskRepository interface {
	InsertTask(ctx context.Context, task *model.Task) error
	// TasksByUser returns tasks ordered by date.
	TasksByUser(ctx context.Context, userID string) ([]model.Task, error)
	// UpdateTask replaces title, date and note of the task matching both
	// task.ID and task.UserID.
	UpdateTask(ctx context.Context, task *model.Task) error
	DeleteTask(ctx context.Context, userID, id string) error
}

type EncouragementRepository interface {
	InsertEncouragement(ctx context.Context, e *model.Encouragement) error
	CountEncouragements(ctx context.Context) (int64, error)
	// SampleEncouragements returns up to n random pool entries.
	SampleEncouragements(ctx context.Context, n int) ([]model.Encouragement, error)
}

type SavedEncouragementRepository interface {
	InsertSaved(ctx context.Context, s *model.SavedEncouragement) error
	// SavedByUser returns bookmarks newest first.
	SavedByUser(ctx context.Context, userID string) ([]model.SavedEncouragement, error)
	SetSavedLiked(ctx context.Context, userID, id string, liked bool) error
	DeleteSaved(ctx context.Context, userID, id string) error
}

type QuestionAnswerRepository interface {
	// InsertAnswer yields apperror.ErrConflict when the user already answered
	// on answer.Date.
	InsertAnswer(ctx context.Context, answer *model.QuestionAnswer) error
	AnswerForDate(ctx context.Context, userID, date string) (*model.QuestionAnswer, error)
	// AnswersByUser returns at most limit answers, newest first.
	AnswersByUser(ctx context.Context, userID string, limit int) ([]model.QuestionAnswer, error)
}

// Store is the whole gateway. Both the sqlite and mongo backends implement it.
type Store interface {
	UserRepository
	MoodRepository
	JournalRepository
	TaskRepository
	EncouragementRepository
	SavedEncouragementRepository
	QuestionAnswerRepository

	Ping(ctx context.Context) error
	Close() error
}
