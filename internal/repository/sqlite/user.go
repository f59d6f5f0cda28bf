package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/sakif/whisper/internal/apperror"
	"github.com/sakif/whisper/internal/model"
)

const userColumns = `id, username, password_hash, github_id, created_at`

// CreateUser inserts user and fills in its ID and CreatedAt.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	user.ID = newID()
	user.CreatedAt = time.Now().UTC()

	var githubID sql.NullInt64
	if user.GitHubID != nil {
		githubID = sql.NullInt64{Int64: *user.GitHubID, Valid: true}
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, github_id, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		user.ID,
		user.Username,
		user.PasswordHash,
		githubID,
		formatTime(user.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("username already exists")
		}
		return fmt.Errorf("sqlite: inserting user %q: %w", user.Username, err)
	}
	return nil
}

// GetUserByID returns apperror.ErrNotFound if no user has that id.
func (db *DB) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if err := checkID("user", id); err != nil {
		return nil, err
	}
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err != nil {
		if isNoRows(err) {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", id, err)
	}
	return u, nil
}

func (db *DB) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	u, err := scanUser(row)
	if err != nil {
		if isNoRows(err) {
			return nil, apperror.NotFound("user", username)
		}
		return nil, fmt.Errorf("sqlite: getting user %q: %w", username, err)
	}
	return u, nil
}

// UpsertGitHubUser returns the account linked to githubID. A new account takes
// login as its username, or login-<githubID> when login is already taken by a
// password account.
func (db *DB) UpsertGitHubUser(ctx context.Context, githubID int64, login string) (*model.User, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE github_id = ?`, githubID)
	u, err := scanUser(row)
	if err == nil {
		return u, nil
	}
	if !isNoRows(err) {
		return nil, fmt.Errorf("sqlite: looking up user by github_id %d: %w", githubID, err)
	}

	id := githubID
	user := &model.User{Username: login, GitHubID: &id}
	err = db.CreateUser(ctx, user)
	if errors.Is(err, apperror.ErrConflict) {
		user.Username = login + "-" + strconv.FormatInt(githubID, 10)
		err = db.CreateUser(ctx, user)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: creating github user %d: %w", githubID, err)
	}
	return user, nil
}

func scanUser(row *sql.Row) (*model.User, error) {
	var (
		u         model.User
		githubID  sql.NullInt64
		createdAt string
	)
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &githubID, &createdAt); err != nil {
		return nil, err
	}
	if githubID.Valid {
		id := githubID.Int64
		u.GitHubID = &id
	}
	t, err := parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	u.CreatedAt = t
	return &u, nil
}
