package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/sakif/whisper/internal/apperror"
	"github.com/sakif/whisper/internal/model"
	"github.com/sakif/whisper/internal/repository"
)

// fakeStore is an in-memory repository.Store. Ids are "<kind>-<n>"; any id
// without a dash is treated as malformed, like an unparsable xid.
type fakeStore struct {
	nextID int

	users   []*model.User
	moods   []model.MoodRecord
	notes   []model.JournalNote
	tasks   []model.Task
	pool    []model.Encouragement
	saved   []model.SavedEncouragement
	answers []model.QuestionAnswer

	// set to simulate a storage failure on the named operation
	failOn map[string]error
}

var _ repository.Store = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{failOn: map[string]error{}}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedClock(t time.Time) clock {
	return func() time.Time { return t }
}

func (f *fakeStore) id(kind string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", kind, f.nextID)
}

func (f *fakeStore) fail(op string) error { return f.failOn[op] }

func checkFakeID(resource, id string) error {
	for _, c := range id {
		if c == '-' {
			return nil
		}
	}
	return apperror.InvalidID(resource, id)
}

func (f *fakeStore) Ping(context.Context) error { return f.fail("Ping") }
func (f *fakeStore) Close() error               { return nil }

func (f *fakeStore) CreateUser(_ context.Context, u *model.User) error {
	if err := f.fail("CreateUser"); err != nil {
		return err
	}
	for _, existing := range f.users {
		if existing.Username == u.Username {
			return apperror.Conflict("username already exists")
		}
	}
	u.ID = f.id("user")
	u.CreatedAt = time.Now().UTC()
	copied := *u
	f.users = append(f.users, &copied)
	return nil
}

func (f *fakeStore) GetUserByID(_ context.Context, id string) (*model.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, apperror.NotFound("user", id)
}

func (f *fakeStore) GetUserByUsername(_ context.Context, name string) (*model.User, error) {
	if err := f.fail("GetUserByUsername"); err != nil {
		return nil, err
	}
	for _, u := range f.users {
		if u.Username == name {
			return u, nil
		}
	}
	return nil, apperror.NotFound("user", name)
}

func (f *fakeStore) UpsertGitHubUser(ctx context.Context, githubID int64, login string) (*model.User, error) {
	for _, u := range f.users {
		if u.GitHubID != nil && *u.GitHubID == githubID {
			return u, nil
		}
	}
	id := githubID
	u := &model.User{Username: login, GitHubID: &id}
	if err := f.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (f *fakeStore) InsertMood(_ context.Context, rec *model.MoodRecord) error {
	if err := f.fail("InsertMood"); err != nil {
		return err
	}
	rec.ID = f.id("mood")
	f.moods = append(f.moods, *rec)
	return nil
}

func (f *fakeStore) MoodsByUser(_ context.Context, userID string) ([]model.MoodRecord, error) {
	out := []model.MoodRecord{}
	for _, m := range f.moods {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeStore) InsertNote(_ context.Context, n *model.JournalNote) error {
	if err := f.fail("InsertNote"); err != nil {
		return err
	}
	n.ID = f.id("note")
	f.notes = append(f.notes, *n)
	return nil
}

func (f *fakeStore) NotesByUser(_ context.Context, userID string) ([]model.JournalNote, error) {
	out := []model.JournalNote{}
	for i := len(f.notes) - 1; i >= 0; i-- {
		if f.notes[i].UserID == userID {
			out = append(out, f.notes[i])
		}
	}
	return out, nil
}

func (f *fakeStore) InsertTask(_ context.Context, t *model.Task) error {
	t.ID = f.id("task")
	f.tasks = append(f.tasks, *t)
	return nil
}

func (f *fakeStore) TasksByUser(_ context.Context, userID string) ([]model.Task, error) {
	out := []model.Task{}
	for _, t := range f.tasks {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (f *fakeStore) UpdateTask(_ context.Context, t *model.Task) error {
	if err := checkFakeID("task", t.ID); err != nil {
		return err
	}
	for i := range f.tasks {
		if f.tasks[i].ID == t.ID && f.tasks[i].UserID == t.UserID {
			f.tasks[i] = *t
			return nil
		}
	}
	return apperror.NotFound("task", t.ID)
}

func (f *fakeStore) DeleteTask(_ context.Context, userID, id string) error {
	if err := checkFakeID("task", id); err != nil {
		return err
	}
	for i := range f.tasks {
		if f.tasks[i].ID == id && f.tasks[i].UserID == userID {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return apperror.NotFound("task", id)
}

func (f *fakeStore) InsertEncouragement(_ context.Context, e *model.Encouragement) error {
	if err := f.fail("InsertEncouragement"); err != nil {
		return err
	}
	e.ID = f.id("enc")
	f.pool = append(f.pool, *e)
	return nil
}

func (f *fakeStore) CountEncouragements(context.Context) (int64, error) {
	if err := f.fail("CountEncouragements"); err != nil {
		return 0, err
	}
	return int64(len(f.pool)), nil
}

// SampleEncouragements is deterministic: it returns the first n entries.
func (f *fakeStore) SampleEncouragements(_ context.Context, n int) ([]model.Encouragement, error) {
	if n > len(f.pool) {
		n = len(f.pool)
	}
	return append([]model.Encouragement{}, f.pool[:n]...), nil
}

func (f *fakeStore) InsertSaved(_ context.Context, s *model.SavedEncouragement) error {
	s.ID = f.id("saved")
	f.saved = append(f.saved, *s)
	return nil
}

func (f *fakeStore) SavedByUser(_ context.Context, userID string) ([]model.SavedEncouragement, error) {
	out := []model.SavedEncouragement{}
	for _, s := range f.saved {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStore) SetSavedLiked(_ context.Context, userID, id string, liked bool) error {
	if err := checkFakeID("saved encouragement", id); err != nil {
		return err
	}
	for i := range f.saved {
		if f.saved[i].ID == id && f.saved[i].UserID == userID {
			f.saved[i].Liked = liked
			return nil
		}
	}
	return apperror.NotFound("saved encouragement", id)
}

func (f *fakeStore) DeleteSaved(_ context.Context, userID, id string) error {
	if err := checkFakeID("saved encouragement", id); err != nil {
		return err
	}
	for i := range f.saved {
		if f.saved[i].ID == id && f.saved[i].UserID == userID {
			f.saved = append(f.saved[:i], f.saved[i+1:]...)
			return nil
		}
	}
	return apperror.NotFound("saved encouragement", id)
}

func (f *fakeStore) InsertAnswer(_ context.Context, a *model.QuestionAnswer) error {
	for _, existing := range f.answers {
		if existing.UserID == a.UserID && existing.Date == a.Date {
			return apperror.Conflict("question already answered today")
		}
	}
	a.ID = f.id("answer")
	f.answers = append(f.answers, *a)
	return nil
}

func (f *fakeStore) AnswerForDate(_ context.Context, userID, date string) (*model.QuestionAnswer, error) {
	if err := f.fail("AnswerForDate"); err != nil {
		return nil, err
	}
	for _, a := range f.answers {
		if a.UserID == userID && a.Date == date {
			return &a, nil
		}
	}
	return nil, apperror.NotFound("question answer", date)
}

func (f *fakeStore) AnswersByUser(_ context.Context, userID string, limit int) ([]model.QuestionAnswer, error) {
	out := []model.QuestionAnswer{}
	for _, a := range f.answers {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// answerOn builds an answer dated the given day counted from 2024-01-01.
func answerOn(userID string, day int) model.QuestionAnswer {
	date := time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
	return model.QuestionAnswer{UserID: userID, QuestionID: "q1", QuestionText: "q", Answer: "a", Date: date}
}
