package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sakif/whisper/internal/apperror"
	"github.com/sakif/whisper/internal/model"
)

// InsertAnswer relies on the unique (userId, date) index.
func (s *Store) InsertAnswer(ctx context.Context, a *model.QuestionAnswer) error {
	owner, err := objectID("user", a.UserID)
	if err != nil {
		return err
	}
	res, err := s.col(colAnswers).InsertOne(ctx, answerDoc{
		UserID:       owner,
		QuestionID:   a.QuestionID,
		QuestionText: a.QuestionText,
		Answer:       a.Answer,
		Date:         a.Date,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperror.Conflict("question already answered today")
		}
		return fmt.Errorf("mongo: inserting question answer: %w", err)
	}
	a.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

func (s *Store) AnswerForDate(ctx context.Context, userID, date string) (*model.QuestionAnswer, error) {
	owner, err := objectID("user", userID)
	if err != nil {
		return nil, err
	}
	var doc answerDoc
	err = s.col(colAnswers).FindOne(ctx, bson.M{"userId": owner, "date": date}).Decode(&doc)
	if err != nil {
		if isNoDocuments(err) {
			return nil, apperror.NotFound("question answer", date)
		}
		return nil, fmt.Errorf("mongo: finding answer for %s: %w", date, err)
	}
	a := doc.model()
	return &a, nil
}

func (s *Store) AnswersByUser(ctx context.Context, userID string, limit int) ([]model.QuestionAnswer, error) {
	owner, err := objectID("user", userID)
	if err != nil {
		return nil, err
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}}).
		SetLimit(int64(limit))
	cur, err := s.col(colAnswers).Find(ctx, bson.M{"userId": owner}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: listing question answers: %w", err)
	}
	defer cur.Close(ctx)

	var docs []answerDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo: decoding question answers: %w", err)
	}
	out := make([]model.QuestionAnswer, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.model())
	}
	return out, nil
}
