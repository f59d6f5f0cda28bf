package mongo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sakif/whisper/internal/apperror"
	"github.com/sakif/whisper/internal/model"
)

func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	user.CreatedAt = time.Now().UTC()
	doc := userDoc{
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		GitHubID:     user.GitHubID,
		CreatedAt:    formatTime(user.CreatedAt),
	}
	res, err := s.col(colUsers).InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperror.Conflict("username already exists")
		}
		return fmt.Errorf("mongo: inserting user %q: %w", user.Username, err)
	}
	user.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	oid, err := objectID("user", id)
	if err != nil {
		return nil, err
	}
	return s.findUser(ctx, bson.M{"_id": oid}, id)
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.findUser(ctx, bson.M{"username": username}, username)
}

func (s *Store) findUser(ctx context.Context, filter bson.M, key string) (*model.User, error) {
	var doc userDoc
	if err := s.col(colUsers).FindOne(ctx, filter).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, apperror.NotFound("user", key)
		}
		return nil, fmt.Errorf("mongo: finding user %q: %w", key, err)
	}
	user, err := doc.model()
	if err != nil {
		return nil, fmt.Errorf("mongo: decoding user %q: %w", key, err)
	}
	return user, nil
}

// UpsertGitHubUser mirrors the sqlite backend: first sight creates the
// account, falling back to login-<githubID> when login is taken.
func (s *Store) UpsertGitHubUser(ctx context.Context, githubID int64, login string) (*model.User, error) {
	u, err := s.findUser(ctx, bson.M{"githubId": githubID}, strconv.FormatInt(githubID, 10))
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}

	id := githubID
	user := &model.User{Username: login, GitHubID: &id}
	err = s.CreateUser(ctx, user)
	if errors.Is(err, apperror.ErrConflict) {
		user.Username = login + "-" + strconv.FormatInt(githubID, 10)
		err = s.CreateUser(ctx, user)
	}
	if err != nil {
		return nil, fmt.Errorf("mongo: creating github user %d: %w", githubID, err)
	}
	return user, nil
}
