package repository

import (
	"context"

	"github.com/sakif/whisper/internal/model"
)

// Scoped is a view of a Store bound to one user. None of its methods accept a
// user id, so a query over another user's records cannot be expressed.
type Scoped struct {
	store  Store
	userID string
}

// ForUser binds store to userID.
func ForUser(store Store, userID string) *Scoped {
	return &Scoped{store: store, userID: userID}
}

func (s *Scoped) UserID() string { return s.userID }

func (s *Scoped) InsertMood(ctx context.Context, rec *model.MoodRecord) error {
	rec.UserID = s.userID
	return s.store.InsertMood(ctx, rec)
}

func (s *Scoped) Moods(ctx context.Context) ([]model.MoodRecord, error) {
	return s.store.MoodsByUser(ctx, s.userID)
}

func (s *Scoped) InsertNote(ctx context.Context, note *model.JournalNote) error {
	note.UserID = s.userID
	return s.store.InsertNote(ctx, note)
}

func (s *Scoped) Notes(ctx context.Context) ([]model.JournalNote, error) {
	return s.store.NotesByUser(ctx, s.userID)
}

func (s *Scoped) InsertTask(ctx context.Context, task *model.Task) error {
	task.UserID = s.userID
	return s.store.InsertTask(ctx, task)
}

func (s *Scoped) Tasks(ctx context.Context) ([]model.Task, error) {
	return s.store.TasksByUser(ctx, s.userID)
}

func (s *Scoped) UpdateTask(ctx context.Context, task *model.Task) error {
	task.UserID = s.userID
	return s.store.UpdateTask(ctx, task)
}

func (s *Scoped) DeleteTask(ctx context.Context, id string) error {
	return s.store.DeleteTask(ctx, s.userID, id)
}

func (s *Scoped) InsertSaved(ctx context.Context, saved *model.SavedEncouragement) error {
	saved.UserID = s.userID
	return s.store.InsertSaved(ctx, saved)
}

func (s *Scoped) Saved(ctx context.Context) ([]model.SavedEncouragement, error) {
	return s.store.SavedByUser(ctx, s.userID)
}

func (s *Scoped) SetSavedLiked(ctx context.Context, id string, liked bool) error {
	return s.store.SetSavedLiked(ctx, s.userID, id, liked)
}

func (s *Scoped) DeleteSaved(ctx context.Context, id string) error {
	return s.store.DeleteSaved(ctx, s.userID, id)
}

func (s *Scoped) InsertAnswer(ctx context.Context, answer *model.QuestionAnswer) error {
	answer.UserID = s.userID
	return s.store.InsertAnswer(ctx, answer)
}

func (s *Scoped) AnswerForDate(ctx context.Context, date string) (*model.QuestionAnswer, error) {
	return s.store.AnswerForDate(ctx, s.userID, date)
}

func (s *Scoped) Answers(ctx context.Context, limit int) ([]model.QuestionAnswer, error) {
	return s.store.AnswersByUser(ctx, s.userID, limit)
}

type scopeKey struct{}

// WithScope stores s in ctx.
func WithScope(ctx context.Context, s *Scoped) context.Context {
	return context.WithValue(ctx, scopeKey{}, s)
}

// ScopeFromContext returns the scope placed by WithScope, if any.
func ScopeFromContext(ctx context.Context) (*Scoped, bool) {
	s, ok := ctx.Value(scopeKey{}).(*Scoped)
	return s, ok && s != nil
}
