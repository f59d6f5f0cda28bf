// Package mongo implements repository.Store on MongoDB, using the document
// layout of the existing whisper database: ObjectID ids, userId references
// stored as ObjectIDs and timestamps as RFC 3339 strings.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sakif/whisper/internal/apperror"
	"github.com/sakif/whisper/internal/repository"
)

var _ repository.Store = (*Store)(nil)

const (
	colUsers          = "users"
	colMoods          = "moods"
	colJournals       = "journals"
	colEvents         = "events"
	colEncouragements = "encouragements"
	colSaved          = "savedEncouragements"
	colAnswers        = "questionAnswers"
)

// Store holds one client for the life of the process.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Open connects to uri, pings the server and ensures indexes on database
// dbName.
func Open(ctx context.Context, uri, dbName string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo: connecting: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo: pinging: %w", err)
	}

	s := &Store{client: client, db: client.Database(dbName)}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	indexes := []struct {
		col   string
		model mongo.IndexModel
	}{
		{colUsers, mongo.IndexModel{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		{colUsers, mongo.IndexModel{
			Keys:    bson.D{{Key: "githubId", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		}},
		// Answers written before the one-per-day rule have no date; the
		// partial filter leaves them out of the unique index.
		{colAnswers, mongo.IndexModel{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true).SetPartialFilterExpression(
				bson.D{{Key: "date", Value: bson.D{{Key: "$exists", Value: true}}}},
			),
		}},
		{colMoods, mongo.IndexModel{Keys: bson.D{{Key: "userId", Value: 1}}}},
		{colJournals, mongo.IndexModel{Keys: bson.D{{Key: "userId", Value: 1}}}},
		{colEvents, mongo.IndexModel{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: 1}}}},
		{colSaved, mongo.IndexModel{Keys: bson.D{{Key: "userId", Value: 1}}}},
	}
	for _, ix := range indexes {
		if _, err := s.db.Collection(ix.col).Indexes().CreateOne(ctx, ix.model); err != nil {
			return fmt.Errorf("mongo: creating index on %s: %w", ix.col, err)
		}
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Close disconnects, waiting at most ten seconds for in-flight operations.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *Store) col(name string) *mongo.Collection {
	return s.db.Collection(name)
}

// objectID parses a record id; a malformed one is a validation error.
func objectID(resource, id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperror.InvalidID(resource, id)
	}
	return oid, nil
}

// timeLayout keeps a fixed-width fraction so sorting on the timestamp string
// is chronological within a second. Older documents without a fraction still
// parse, since RFC3339Nano accepts any fraction length.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("mongo: parsing timestamp %q: %w", s, err)
	}
	return t, nil
}

func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// expectMatched turns a zero-match update or delete into a not-found error.
func expectMatched(n int64, resource, id string) error {
	if n == 0 {
		return apperror.NotFound(resource, id)
	}
	return nil
}
