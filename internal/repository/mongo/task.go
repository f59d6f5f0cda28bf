package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sakif/whisper/internal/model"
)

func (s *Store) InsertTask(ctx context.Context, task *model.Task) error {
	owner, err := objectID("user", task.UserID)
	if err != nil {
		return err
	}
	res, err := s.col(colEvents).InsertOne(ctx, taskDoc{
		UserID: owner,
		Title:  task.Title,
		Date:   task.Date,
		Note:   task.Note,
	})
	if err != nil {
		return fmt.Errorf("mongo: inserting task: %w", err)
	}
	task.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

func (s *Store) TasksByUser(ctx context.Context, userID string) ([]model.Task, error) {
	owner, err := objectID("user", userID)
	if err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.col(colEvents).Find(ctx, bson.M{"userId": owner}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: listing tasks: %w", err)
	}
	defer cur.Close(ctx)

	var docs []taskDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo: decoding tasks: %w", err)
	}
	out := make([]model.Task, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.model())
	}
	return out, nil
}

func (s *Store) UpdateTask(ctx context.Context, task *model.Task) error {
	filter, err := ownedFilter("task", task.ID, task.UserID)
	if err != nil {
		return err
	}
	res, err := s.col(colEvents).UpdateOne(ctx, filter, bson.M{"$set": bson.M{
		"title": task.Title,
		"date":  task.Date,
		"note":  task.Note,
	}})
	if err != nil {
		return fmt.Errorf("mongo: updating task %s: %w", task.ID, err)
	}
	return expectMatched(res.MatchedCount, "task", task.ID)
}

func (s *Store) DeleteTask(ctx context.Context, userID, id string) error {
	filter, err := ownedFilter("task", id, userID)
	if err != nil {
		return err
	}
	res, err := s.col(colEvents).DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("mongo: deleting task %s: %w", id, err)
	}
	return expectMatched(res.DeletedCount, "task", id)
}

// ownedFilter matches record id only when it belongs to userID.
func ownedFilter(resource, id, userID string) (bson.M, error) {
	oid, err := objectID(resource, id)
	if err != nil {
		return nil, err
	}
	owner, err := objectID("user", userID)
	if err != nil {
		return nil, err
	}
	return bson.M{"_id": oid, "userId": owner}, nil
}
