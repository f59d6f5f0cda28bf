package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"

	"github.com/sakif/whisper/internal/apperror"
	"github.com/sakif/whisper/internal/model"
	"github.com/sakif/whisper/internal/repository"
)

// HistoryLimit caps the answers returned by QuestionService.History.
const HistoryLimit = 30

// Questions is the daily prompt catalog. Ids are stable: stored answers refer
// to them.
var Questions = []model.Question{
	{ID: "q1", Type: model.QuestionChoice, Text: "Which word feels closest to you today?",
		Options: []string{"Sea", "Mountain", "Stars", "Wind", "Something else"}},
	{ID: "q2", Type: model.QuestionText, Text: "What small thing made you feel good today?"},
	{ID: "q3", Type: model.QuestionChoice, Text: "If your mood were weather, what would it be?",
		Options: []string{"Soft sunshine", "Light rain", "Strong wind", "Storm", "Overcast", "Something else"}},
	{ID: "q4", Type: model.QuestionText, Text: "What would you draw today to show how you feel?"},
	{ID: "q5", Type: model.QuestionText, Text: "What small thing are you thankful for today?"},
	{ID: "q6", Type: model.QuestionChoice, Text: "If you could hug something right now, what would it be?",
		Options: []string{"A plush toy", "A book", "Someone", "Yourself", "A soft pillow", "Something else"}},
	{ID: "q7", Type: model.QuestionText, Text: "If you could open one door right now, where would it lead?"},
}

// feedback rules are checked in order; the first keyword found wins.
var feedback = []struct {
	keywords []string
	message  string
}{
	{[]string{"lonely", "เหงา"}, "Even if today is quiet, you are not alone."},
	{[]string{"thank", "ขอบคุณ"}, "It's wonderful that you see the value in yourself."},
	{[]string{"tired", "เหนื่อย"}, "It's okay to rest. There's nothing wrong with feeling that way."},
}

const defaultFeedback = "Thank you for sharing how you feel."

// QuestionService issues one prompt per user per UTC day and stores the
// answer.
type QuestionService struct {
	logger *slog.Logger
	now    clock
	pick   func(n int) int
}

func NewQuestionService(logger *slog.Logger) *QuestionService {
	return &QuestionService{logger: logger, now: utcNow, pick: rand.Intn}
}

// Today returns a random prompt, or nil once the caller answered today.
func (s *QuestionService) Today(ctx context.Context, scope *repository.Scoped) (*model.Question, error) {
	_, err := scope.AnswerForDate(ctx, today(s.now))
	switch {
	case err == nil:
		return nil, nil
	case !errors.Is(err, apperror.ErrNotFound):
		return nil, fmt.Errorf("service/question: checking today's answer: %w", err)
	}

	q := Questions[s.pick(len(Questions))]
	return &q, nil
}

// Answer stores the caller's answer for today and returns a short reply.
// A second answer on the same day is a conflict.
func (s *QuestionService) Answer(ctx context.Context, scope *repository.Scoped, questionID, answer string) (string, error) {
	questionID = strings.TrimSpace(questionID)
	if questionID == "" {
		return "", apperror.ValidationFailed("questionId", "questionId is required")
	}
	answer, err := required("answer", answer, MaxTextLength)
	if err != nil {
		return "", err
	}

	q, ok := questionByID(questionID)
	if !ok {
		return "", apperror.ValidationFailed("questionId", fmt.Sprintf("unknown question %q", questionID))
	}

	rec := &model.QuestionAnswer{
		QuestionID:   q.ID,
		QuestionText: q.Text,
		Answer:       answer,
		Date:         today(s.now),
	}
	if err := scope.InsertAnswer(ctx, rec); err != nil {
		return "", fmt.Errorf("service/question: saving answer: %w", err)
	}
	return Feedback(answer), nil
}

// History returns the caller's latest answers, newest first.
func (s *QuestionService) History(ctx context.Context, scope *repository.Scoped) ([]model.QuestionAnswer, error) {
	answers, err := scope.Answers(ctx, HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("service/question: listing answers: %w", err)
	}
	return answers, nil
}

// Feedback picks the reply for an answer by keyword, case-insensitively.
func Feedback(answer string) string {
	lower := strings.ToLower(answer)
	for _, rule := range feedback {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.message
			}
		}
	}
	return defaultFeedback
}

func questionByID(id string) (model.Question, bool) {
	for _, q := range Questions {
		if q.ID == id {
			return q, true
		}
	}
	return model.Question{}, false
}
