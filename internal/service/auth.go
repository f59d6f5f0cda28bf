package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/whisper/internal/apperror"
	"github.com/sakif/whisper/internal/auth"
	"github.com/sakif/whisper/internal/model"
	"github.com/sakif/whisper/internal/repository"
)

// AuthService registers accounts and turns credentials into sessions.
type AuthService struct {
	users     repository.UserRepository
	sessions  *auth.Resolver
	passwords *auth.PasswordService
	logger    *slog.Logger
}

func NewAuthService(
	users repository.UserRepository,
	sessions *auth.Resolver,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		sessions:  sessions,
		passwords: passwords,
		logger:    logger,
	}
}

// AuthResult bundles the user with the session token issued for it.
type AuthResult struct {
	User  *model.User
	Token string
}

var errCredentials = apperror.Unauthorized("Invalid credentials")

// Register creates a password account. It does not log the user in.
func (s *AuthService) Register(ctx context.Context, username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperror.ValidationFailed("username", "Username and password are required")
	}
	if len(username) > MaxUsernameLength {
		return nil, apperror.ValidationFailed("username", "username is too long")
	}

	taken := apperror.ValidationFailed("username", "Username already exists")
	if _, err := s.users.GetUserByUsername(ctx, username); err == nil {
		return nil, taken
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("service/auth: checking username: %w", err)
	}

	if len(password) > MaxPasswordLength {
		return nil, apperror.ValidationFailed("password", "password must be 72 bytes or fewer")
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{Username: username, PasswordHash: hash}
	if err := s.users.CreateUser(ctx, user); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, apperror.ErrConflict) {
			return nil, taken
		}
		return nil, fmt.Errorf("service/auth: creating user: %w", err)
	}

	s.logger.Info("user registered", slog.String("userID", user.ID))
	return user, nil
}

// Login checks a password and issues a session. Unknown users and wrong
// passwords fail the same way.
func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, errCredentials
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, errCredentials
		}
		return nil, fmt.Errorf("service/auth: loading user: %w", err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, errCredentials
		}
		return nil, fmt.Errorf("service/auth: verifying password: %w", err)
	}

	return s.issue(user)
}

// LoginGitHub links or creates the account of a GitHub profile and issues a
// session for it.
func (s *AuthService) LoginGitHub(ctx context.Context, gh *auth.GitHubUser) (*AuthResult, error) {
	if gh == nil {
		return nil, fmt.Errorf("service/auth: GitHub user must not be nil")
	}

	user, err := s.users.UpsertGitHubUser(ctx, gh.ID, gh.Login)
	if err != nil {
		return nil, fmt.Errorf("service/auth: upserting user (githubID=%d): %w", gh.ID, err)
	}

	s.logger.Info("user authenticated via GitHub",
		slog.String("userID", user.ID),
		slog.String("login", gh.Login),
	)
	return s.issue(user)
}

func (s *AuthService) issue(user *model.User) (*AuthResult, error) {
	token, err := s.sessions.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}
	return &AuthResult{User: user, Token: token}, nil
}

// Logout revokes sess. A nil session is a no-op.
func (s *AuthService) Logout(ctx context.Context, sess *auth.Session) error {
	if sess == nil {
		return nil
	}
	if err := s.sessions.Revoke(ctx, sess); err != nil {
		return fmt.Errorf("service/auth: revoking session: %w", err)
	}
	return nil
}

func (s *AuthService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, fmt.Errorf("service/auth: user ID must not be empty")
	}
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service/auth: fetching user %s: %w", id, err)
	}
	return user, nil
}
