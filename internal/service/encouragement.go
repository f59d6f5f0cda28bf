package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/whisper/internal/model"
	"github.com/sakif/whisper/internal/repository"
)

// DefaultEncouragements seed an empty pool so the random message always has
// something to return.
var DefaultEncouragements = []string{
	"You are doing better than you think. Don't give up.",
	"Every bit of effort counts.",
	"You don't have to be perfect. Being yourself is enough.",
	"Today may be hard, but tomorrow can be better.",
	"It's okay to rest when you're tired. Just don't stop walking.",
	"Your smile matters to the people around you.",
	"You are worth more than you know.",
	"Thank you for staying strong all this time.",
	"You are not alone. People care about you.",
	"Every storm runs out of rain.",
	"Every problem has a way through.",
	"Be proud of how far you've come.",
	"Give yourself some time. You deserve to be happy.",
	"You inspire others more than you realize.",
	"Take a deep breath and slowly let the worry go.",
}

// EncouragementService manages the shared message pool and each user's saved
// messages.
type EncouragementService struct {
	pool   repository.EncouragementRepository
	logger *slog.Logger
	now    clock
}

func NewEncouragementService(pool repository.EncouragementRepository, logger *slog.Logger) *EncouragementService {
	return &EncouragementService{pool: pool, logger: logger, now: utcNow}
}

// Post adds text to the pool. authorID may be empty for anonymous posts.
func (s *EncouragementService) Post(ctx context.Context, authorID, text string) (*model.Encouragement, error) {
	text, err := required("text", text, MaxTextLength)
	if err != nil {
		return nil, err
	}
	e := &model.Encouragement{Text: text, AuthorID: authorID, Timestamp: s.now().UTC()}
	if err := s.pool.InsertEncouragement(ctx, e); err != nil {
		return nil, fmt.Errorf("service/encouragement: posting: %w", err)
	}
	return e, nil
}

// Random returns one pool entry, or nil when the pool is empty.
func (s *EncouragementService) Random(ctx context.Context) (*model.Encouragement, error) {
	sample, err := s.pool.SampleEncouragements(ctx, 1)
	if err != nil {
		return nil, fmt.Errorf("service/encouragement: sampling: %w", err)
	}
	if len(sample) == 0 {
		return nil, nil
	}
	return &sample[0], nil
}

// SeedDefaults fills an empty pool with DefaultEncouragements and reports how
// many were inserted. A non-empty pool is left alone.
func (s *EncouragementService) SeedDefaults(ctx context.Context) (int, error) {
	n, err := s.pool.CountEncouragements(ctx)
	if err != nil {
		return 0, fmt.Errorf("service/encouragement: counting pool: %w", err)
	}
	if n > 0 {
		return 0, nil
	}

	now := s.now().UTC()
	for i, text := range DefaultEncouragements {
		e := &model.Encouragement{Text: text, Timestamp: now}
		if err := s.pool.InsertEncouragement(ctx, e); err != nil {
			return i, fmt.Errorf("service/encouragement: seeding: %w", err)
		}
	}
	s.logger.Info("seeded encouragement messages", slog.Int("count", len(DefaultEncouragements)))
	return len(DefaultEncouragements), nil
}

// Save bookmarks a copy of text for the caller, initially not liked.
func (s *EncouragementService) Save(ctx context.Context, scope *repository.Scoped, text string) (*model.SavedEncouragement, error) {
	text, err := required("text", text, MaxTextLength)
	if err != nil {
		return nil, err
	}
	saved := &model.SavedEncouragement{Text: text, Timestamp: s.now().UTC()}
	if err := scope.InsertSaved(ctx, saved); err != nil {
		return nil, fmt.Errorf("service/encouragement: saving: %w", err)
	}
	return saved, nil
}

func (s *EncouragementService) Saved(ctx context.Context, scope *repository.Scoped) ([]model.SavedEncouragement, error) {
	saved, err := scope.Saved(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/encouragement: listing saved: %w", err)
	}
	return saved, nil
}

func (s *EncouragementService) SetLiked(ctx context.Context, scope *repository.Scoped, id string, liked bool) error {
	if err := scope.SetSavedLiked(ctx, id, liked); err != nil {
		return fmt.Errorf("service/encouragement: liking %s: %w", id, err)
	}
	return nil
}

func (s *EncouragementService) DeleteSaved(ctx context.Context, scope *repository.Scoped, id string) error {
	if err := scope.DeleteSaved(ctx, id); err != nil {
		return fmt.Errorf("service/encouragement: deleting %s: %w", id, err)
	}
	return nil
}
