package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/sakif/whisper/internal/model"
)

// contextKey is private so no other package can read or shadow these values.
type contextKey string

const (
	userKey    contextKey = "user"
	sessionKey contextKey = "session"
)

// OptionalAuth resolves the caller once and stores the identity in the
// request context. Anonymous requests pass through untouched.
func OptionalAuth(resolver *Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := UserFromContext(r.Context()); !ok {
				if user, sess := resolver.ResolveRequest(r); user != nil {
					r = r.WithContext(WithIdentity(r.Context(), user, sess))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth rejects anonymous requests with 401. It reuses an identity
// already resolved by OptionalAuth.
func RequireAuth(resolver *Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return OptionalAuth(resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := UserFromContext(r.Context()); !ok {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"Not authenticated","code":"unauthorized"}`))
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}

// WithIdentity stores user and sess in ctx.
func WithIdentity(ctx context.Context, user *model.User, sess *Session) context.Context {
	ctx = context.WithValue(ctx, userKey, user)
	return context.WithValue(ctx, sessionKey, sess)
}

// UserFromContext returns the resolved user, or false for anonymous requests.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	u, ok := ctx.Value(userKey).(*model.User)
	return u, ok && u != nil
}

// UserIDFromContext is UserFromContext reduced to the id.
func UserIDFromContext(ctx context.Context) (string, bool) {
	u, ok := UserFromContext(ctx)
	if !ok {
		return "", false
	}
	return u.ID, true
}

func SessionFromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey).(*Session)
	return s, ok && s != nil
}

// SetSessionCookie writes the HttpOnly session cookie. secure should be true
// whenever the site is served over HTTPS.
func SetSessionCookie(w http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie tells the browser to drop the session cookie.
func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
