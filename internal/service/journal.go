package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/whisper/internal/apperror"
	"github.com/sakif/whisper/internal/model"
	"github.com/sakif/whisper/internal/mood"
	"github.com/sakif/whisper/internal/repository"
)

// Trend ranges accepted by JournalService.Trend.
const (
	RangeWeek  = "7"
	RangeMonth = "30"
	RangeAll   = "all"
)

// JournalService records moods and journal notes and derives the mood trend.
type JournalService struct {
	logger *slog.Logger
	now    clock
}

func NewJournalService(logger *slog.Logger) *JournalService {
	return &JournalService{logger: logger, now: utcNow}
}

// SubmitMood appends a mood record stamped with the current UTC time.
func (s *JournalService) SubmitMood(ctx context.Context, scope *repository.Scoped, symbol, text string) (*model.MoodRecord, error) {
	symbol, err := required("mood", symbol, MaxMoodLength)
	if err != nil {
		return nil, err
	}
	text, err = optional("text", text, MaxTextLength)
	if err != nil {
		return nil, err
	}

	rec := &model.MoodRecord{Mood: symbol, Text: text, Timestamp: s.now().UTC()}
	if err := scope.InsertMood(ctx, rec); err != nil {
		return nil, fmt.Errorf("service/journal: saving mood: %w", err)
	}
	return rec, nil
}

// SubmitJournal writes a journal note and a mood record for the same moment.
// The two writes are independent: if the second fails the note stays.
func (s *JournalService) SubmitJournal(ctx context.Context, scope *repository.Scoped, symbol, text string) (*model.JournalNote, error) {
	symbol, err := required("mood", symbol, MaxMoodLength)
	if err != nil {
		return nil, err
	}
	text, err = required("text", text, MaxTextLength)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	note := &model.JournalNote{Mood: symbol, Text: text, Timestamp: now}
	if err := scope.InsertNote(ctx, note); err != nil {
		return nil, fmt.Errorf("service/journal: saving note: %w", err)
	}

	rec := &model.MoodRecord{Mood: symbol, Text: text, Timestamp: now}
	if err := scope.InsertMood(ctx, rec); err != nil {
		s.logger.Warn("journal note saved without its mood record",
			slog.String("noteID", note.ID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("service/journal: saving mood for note %s: %w", note.ID, err)
	}
	return note, nil
}

func (s *JournalService) Moods(ctx context.Context, scope *repository.Scoped) ([]model.MoodRecord, error) {
	moods, err := scope.Moods(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/journal: listing moods: %w", err)
	}
	return moods, nil
}

func (s *JournalService) Notes(ctx context.Context, scope *repository.Scoped) ([]model.JournalNote, error) {
	notes, err := scope.Notes(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/journal: listing notes: %w", err)
	}
	return notes, nil
}

// Trend aggregates the caller's moods to one point per day. rng "7" or "30"
// keeps points dated on or after today minus that many days (UTC); "all" or
// empty keeps everything.
func (s *JournalService) Trend(ctx context.Context, scope *repository.Scoped, rng string) ([]mood.Point, error) {
	days, err := parseRange(rng)
	if err != nil {
		return nil, err
	}

	moods, err := scope.Moods(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/journal: listing moods: %w", err)
	}

	points := mood.Aggregate(moods)
	if days > 0 {
		cutoff := s.now().UTC().AddDate(0, 0, -days).Format(mood.DateLayout)
		points = mood.Since(points, cutoff)
	}
	return points, nil
}

// parseRange returns the window length in days, 0 meaning unbounded.
func parseRange(rng string) (int, error) {
	switch rng {
	case "", RangeAll:
		return 0, nil
	case RangeWeek:
		return 7, nil
	case RangeMonth:
		return 30, nil
	}
	return 0, apperror.ValidationFailed("range", fmt.Sprintf("range must be one of %s, %s or %s", RangeWeek, RangeMonth, RangeAll))
}
