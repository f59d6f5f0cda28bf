package auth

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sakif/whisper/internal/model"
)

// CookieName is the cookie carrying the session token.
const CookieName = "token"

// UserLookup is the part of the store the resolver needs.
type UserLookup interface {
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}

// Resolver maps a session token to the user it belongs to. It has a single
// failure mode: anything wrong with the token, its revocation state or the
// user it names resolves to anonymous (nil, nil).
type Resolver struct {
	tokens  *TokenService
	revoked Revoker
	users   UserLookup
	logger  *slog.Logger
}

func NewResolver(tokens *TokenService, revoked Revoker, users UserLookup, logger *slog.Logger) *Resolver {
	return &Resolver{tokens: tokens, revoked: revoked, users: users, logger: logger}
}

// Resolve returns the user and session for token, or nil, nil.
func (r *Resolver) Resolve(ctx context.Context, token string) (*model.User, *Session) {
	if token == "" {
		return nil, nil
	}

	sess, err := r.tokens.Parse(token)
	if err != nil {
		return nil, nil
	}

	revoked, err := r.revoked.IsRevoked(ctx, sess.TokenID)
	if err != nil {
		r.logger.Warn("revocation check failed", "error", err)
		return nil, nil
	}
	if revoked {
		return nil, nil
	}

	user, err := r.users.GetUserByID(ctx, sess.UserID)
	if err != nil {
		r.logger.Debug("session names unknown user", "user_id", sess.UserID, "error", err)
		return nil, nil
	}
	return user, sess
}

// ResolveRequest reads the session cookie of req.
func (r *Resolver) ResolveRequest(req *http.Request) (*model.User, *Session) {
	cookie, err := req.Cookie(CookieName)
	if err != nil {
		return nil, nil
	}
	return r.Resolve(req.Context(), cookie.Value)
}

// Revoke ends sess before its natural expiry.
func (r *Resolver) Revoke(ctx context.Context, sess *Session) error {
	return r.revoked.Revoke(ctx, sess.TokenID, sess.ExpiresAt)
}

// Issue signs a new session token for user.
func (r *Resolver) Issue(user *model.User) (string, error) {
	return r.tokens.Generate(user.ID)
}
