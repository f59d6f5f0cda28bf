package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sakif/whisper/internal/model"
)

func (s *Store) InsertMood(ctx context.Context, rec *model.MoodRecord) error {
	id, err := s.insertMoodDoc(ctx, colMoods, rec.UserID, rec.Mood, rec.Text, rec.Timestamp)
	if err != nil {
		return fmt.Errorf("mongo: inserting mood: %w", err)
	}
	rec.ID = id
	return nil
}

func (s *Store) InsertNote(ctx context.Context, note *model.JournalNote) error {
	id, err := s.insertMoodDoc(ctx, colJournals, note.UserID, note.Mood, note.Text, note.Timestamp)
	if err != nil {
		return fmt.Errorf("mongo: inserting journal note: %w", err)
	}
	note.ID = id
	return nil
}

func (s *Store) insertMoodDoc(ctx context.Context, col, userID, mood, text string, ts time.Time) (string, error) {
	owner, err := objectID("user", userID)
	if err != nil {
		return "", err
	}
	res, err := s.col(col).InsertOne(ctx, moodDoc{
		UserID:    owner,
		Mood:      mood,
		Text:      text,
		Timestamp: formatTime(ts),
	})
	if err != nil {
		return "", err
	}
	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (s *Store) findMoodDocs(ctx context.Context, col, userID string, order int) ([]moodDoc, error) {
	owner, err := objectID("user", userID)
	if err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: order}, {Key: "_id", Value: order}})
	cur, err := s.col(col).Find(ctx, bson.M{"userId": owner}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []moodDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (s *Store) MoodsByUser(ctx context.Context, userID string) ([]model.MoodRecord, error) {
	docs, err := s.findMoodDocs(ctx, colMoods, userID, 1)
	if err != nil {
		return nil, fmt.Errorf("mongo: listing moods: %w", err)
	}
	out := make([]model.MoodRecord, 0, len(docs))
	for _, d := range docs {
		v, err := d.mood()
		if err != nil {
			return nil, fmt.Errorf("mongo: decoding mood %s: %w", d.ID.Hex(), err)
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *Store) NotesByUser(ctx context.Context, userID string) ([]model.JournalNote, error) {
	docs, err := s.findMoodDocs(ctx, colJournals, userID, -1)
	if err != nil {
		return nil, fmt.Errorf("mongo: listing journal notes: %w", err)
	}
	out := make([]model.JournalNote, 0, len(docs))
	for _, d := range docs {
		v, err := d.note()
		if err != nil {
			return nil, fmt.Errorf("mongo: decoding journal note %s: %w", d.ID.Hex(), err)
		}
		out = append(out, v)
	}
	return out, nil
}
