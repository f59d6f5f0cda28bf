package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sakif/whisper/internal/model"
)

func (s *Store) InsertEncouragement(ctx context.Context, e *model.Encouragement) error {
	doc := encouragementDoc{Text: e.Text, Timestamp: formatTime(e.Timestamp)}
	if e.AuthorID != "" {
		author, err := objectID("user", e.AuthorID)
		if err != nil {
			return err
		}
		doc.UserID = &author
	}
	res, err := s.col(colEncouragements).InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("mongo: inserting encouragement: %w", err)
	}
	e.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

func (s *Store) CountEncouragements(ctx context.Context) (int64, error) {
	n, err := s.col(colEncouragements).CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("mongo: counting encouragements: %w", err)
	}
	return n, nil
}

func (s *Store) SampleEncouragements(ctx context.Context, n int) ([]model.Encouragement, error) {
	pipeline := bson.A{bson.M{"$sample": bson.M{"size": n}}}
	cur, err := s.col(colEncouragements).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("mongo: sampling encouragements: %w", err)
	}
	defer cur.Close(ctx)

	var docs []encouragementDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo: decoding encouragements: %w", err)
	}
	out := make([]model.Encouragement, 0, len(docs))
	for _, d := range docs {
		e, err := d.model()
		if err != nil {
			return nil, fmt.Errorf("mongo: decoding encouragement %s: %w", d.ID.Hex(), err)
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *Store) InsertSaved(ctx context.Context, saved *model.SavedEncouragement) error {
	owner, err := objectID("user", saved.UserID)
	if err != nil {
		return err
	}
	res, err := s.col(colSaved).InsertOne(ctx, savedDoc{
		UserID:    owner,
		Text:      saved.Text,
		Liked:     saved.Liked,
		Timestamp: formatTime(saved.Timestamp),
	})
	if err != nil {
		return fmt.Errorf("mongo: inserting saved encouragement: %w", err)
	}
	saved.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

func (s *Store) SavedByUser(ctx context.Context, userID string) ([]model.SavedEncouragement, error) {
	owner, err := objectID("user", userID)
	if err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.col(colSaved).Find(ctx, bson.M{"userId": owner}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: listing saved encouragements: %w", err)
	}
	defer cur.Close(ctx)

	var docs []savedDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo: decoding saved encouragements: %w", err)
	}
	out := make([]model.SavedEncouragement, 0, len(docs))
	for _, d := range docs {
		saved, err := d.model()
		if err != nil {
			return nil, fmt.Errorf("mongo: decoding saved encouragement %s: %w", d.ID.Hex(), err)
		}
		out = append(out, saved)
	}
	return out, nil
}

func (s *Store) SetSavedLiked(ctx context.Context, userID, id string, liked bool) error {
	filter, err := ownedFilter("saved encouragement", id, userID)
	if err != nil {
		return err
	}
	res, err := s.col(colSaved).UpdateOne(ctx, filter, bson.M{"$set": bson.M{"liked": liked}})
	if err != nil {
		return fmt.Errorf("mongo: updating saved encouragement %s: %w", id, err)
	}
	return expectMatched(res.MatchedCount, "saved encouragement", id)
}

func (s *Store) DeleteSaved(ctx context.Context, userID, id string) error {
	filter, err := ownedFilter("saved encouragement", id, userID)
	if err != nil {
		return err
	}
	res, err := s.col(colSaved).DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("mongo: deleting saved encouragement %s: %w", id, err)
	}
	return expectMatched(res.DeletedCount, "saved encouragement", id)
}
