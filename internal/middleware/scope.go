package middleware

import (
	"net/http"

	"github.com/sakif/whisper/internal/auth"
	"github.com/sakif/whisper/internal/repository"
)

// Scope binds store to the resolved user once per request and places the
// result in the context, where handlers read it with
// repository.ScopeFromContext. Anonymous requests get no scope. It must run
// after auth.OptionalAuth or auth.RequireAuth.
func Scope(store repository.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := repository.ScopeFromContext(r.Context()); !ok {
				if userID, ok := auth.UserIDFromContext(r.Context()); ok {
					scope := repository.ForUser(store, userID)
					r = r.WithContext(repository.WithScope(r.Context(), scope))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
