package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/whisper/internal/apperror"
	"github.com/sakif/whisper/internal/model"
)

// newTestDB returns an in-memory database that is closed when the test ends.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, db *DB, username string) *model.User {
	t.Helper()
	user := &model.User{Username: username, PasswordHash: "hash"}
	if err := db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func TestCreateUser(t *testing.T) {
	db := newTestDB(t)

	user := &model.User{Username: "sam", PasswordHash: "hash"}
	if err := db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if user.ID == "" {
		t.Error("CreateUser() did not set user.ID")
	}
	if user.CreatedAt.IsZero() {
		t.Error("CreateUser() did not set user.CreatedAt")
	}
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "sam")

	err := db.CreateUser(context.Background(), &model.User{Username: "sam", PasswordHash: "other"})
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("CreateUser() error = %v, want ErrConflict", err)
	}
}

func TestGetUserByID(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "sam")

	got, err := db.GetUserByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if got.Username != "sam" || got.PasswordHash != "hash" {
		t.Errorf("GetUserByID() = %+v", got)
	}
	if got.GitHubID != nil {
		t.Errorf("GitHubID = %v, want nil", *got.GitHubID)
	}
}

func TestGetUserByID_Errors(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetUserByID(context.Background(), "not-an-id")
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("malformed id: error = %v, want ErrValidation", err)
	}

	_, err = db.GetUserByID(context.Background(), newID())
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("missing id: error = %v, want ErrNotFound", err)
	}
}

func TestGetUserByUsername(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "sam")

	got, err := db.GetUserByUsername(context.Background(), "sam")
	if err != nil {
		t.Fatalf("GetUserByUsername() error = %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("ID = %q, want %q", got.ID, created.ID)
	}

	if _, err := db.GetUserByUsername(context.Background(), "nobody"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("unknown username: error = %v, want ErrNotFound", err)
	}
}

func TestUpsertGitHubUser(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	first, err := db.UpsertGitHubUser(ctx, 4242, "octo")
	if err != nil {
		t.Fatalf("UpsertGitHubUser() error = %v", err)
	}
	if first.Username != "octo" || first.GitHubID == nil || *first.GitHubID != 4242 {
		t.Errorf("first login = %+v", first)
	}

	again, err := db.UpsertGitHubUser(ctx, 4242, "octo-renamed")
	if err != nil {
		t.Fatalf("second UpsertGitHubUser() error = %v", err)
	}
	if again.ID != first.ID {
		t.Errorf("second login created a new account: %q != %q", again.ID, first.ID)
	}
}

func TestUpsertGitHubUser_UsernameTaken(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "octo")

	u, err := db.UpsertGitHubUser(context.Background(), 7, "octo")
	if err != nil {
		t.Fatalf("UpsertGitHubUser() error = %v", err)
	}
	if u.Username != "octo-7" {
		t.Errorf("Username = %q, want %q", u.Username, "octo-7")
	}
}
