package auth

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/whisper/internal/apperror"
	"github.com/sakif/whisper/internal/model"
)

type fakeUsers map[string]*model.User

func (f fakeUsers) GetUserByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := f[id]; ok {
		return u, nil
	}
	return nil, apperror.NotFound("user", id)
}

func newTestResolver(t *testing.T) (*Resolver, *TokenService, *model.User) {
	t.Helper()
	user := &model.User{ID: "u1", Username: "sam"}
	ts := newTestTokenService(t)
	r := NewResolver(
		ts,
		NewMemoryRevoker(),
		fakeUsers{"u1": user},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return r, ts, user
}

func requestWithToken(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	}
	return req
}

func TestResolver_AnonymousCases(t *testing.T) {
	r, ts, user := newTestResolver(t)

	expired, _ := ts.GenerateWithDuration(user.ID, -time.Second)
	ghost, _ := ts.Generate("deleted-user")
	revoked, _ := r.Issue(user)
	sess, err := ts.Parse(revoked)
	require.NoError(t, err)
	require.NoError(t, r.Revoke(context.Background(), sess))

	tests := []struct {
		name  string
		token string
	}{
		{"no cookie", ""},
		{"garbage", "garbage"},
		{"expired", expired},
		{"unknown user", ghost},
		{"revoked", revoked},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, s := r.ResolveRequest(requestWithToken(tt.token))
			assert.Nil(t, u)
			assert.Nil(t, s)
		})
	}
}

func TestResolver_ValidToken(t *testing.T) {
	r, _, user := newTestResolver(t)
	token, err := r.Issue(user)
	require.NoError(t, err)

	u, s := r.ResolveRequest(requestWithToken(token))
	require.NotNil(t, u)
	assert.Equal(t, "sam", u.Username)
	assert.Equal(t, "u1", s.UserID)
}

func TestOptionalAuth(t *testing.T) {
	r, _, user := newTestResolver(t)
	token, _ := r.Issue(user)

	var gotID string
	var gotOK bool
	h := OptionalAuth(r)(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		gotID, gotOK = UserIDFromContext(req.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, requestWithToken(""))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, gotOK)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, requestWithToken(token))
	assert.True(t, gotOK)
	assert.Equal(t, "u1", gotID)
}

func TestRequireAuth(t *testing.T) {
	r, _, user := newTestResolver(t)
	token, _ := r.Issue(user)

	called := false
	h := RequireAuth(r)(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		called = true
		_, ok := SessionFromContext(req.Context())
		assert.True(t, ok)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, requestWithToken("nope"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Not authenticated","code":"unauthorized"}`, rec.Body.String())
	assert.False(t, called)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, requestWithToken(token))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
}

func TestSessionCookies(t *testing.T) {
	rec := httptest.NewRecorder()
	SetSessionCookie(rec, "abc", time.Hour, true)
	ClearSessionCookie(rec, true)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2)
	assert.Equal(t, "abc", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, 3600, cookies[0].MaxAge)
	assert.True(t, cookies[1].MaxAge < 0)
}
