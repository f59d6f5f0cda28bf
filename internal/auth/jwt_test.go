package auth

import (
	"strings"
	"testing"
	"time"
)

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	ts, err := NewTokenService("test-secret-at-least-16-chars!!", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return ts
}

func TestNewTokenService(t *testing.T) {
	if _, err := NewTokenService("short", 0); err == nil {
		t.Fatal("NewTokenService() should reject secrets shorter than 16 chars")
	}

	ts, err := NewTokenService("this-is-16-chars", 0)
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}
	if ts.TTL() != DefaultSessionTTL {
		t.Errorf("TTL() = %v, want %v", ts.TTL(), DefaultSessionTTL)
	}
}

func TestGenerate_LooksLikeJWT(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.Generate("user-123")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if n := strings.Count(token, "."); n != 2 {
		t.Errorf("token has %d dots, want 2", n)
	}
}

func TestParse_RoundTrip(t *testing.T) {
	ts := newTestTokenService(t)

	before := time.Now()
	token, err := ts.Generate("user-abc")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	sess, err := ts.Parse(token)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if sess.UserID != "user-abc" {
		t.Errorf("UserID = %q, want %q", sess.UserID, "user-abc")
	}
	if sess.TokenID == "" {
		t.Error("TokenID is empty")
	}
	// NumericDate truncates to whole seconds
	if sess.ExpiresAt.Before(before.Add(time.Hour).Add(-time.Second)) {
		t.Errorf("ExpiresAt = %v, want about an hour from now", sess.ExpiresAt)
	}
}

func TestGenerate_UniqueTokenIDs(t *testing.T) {
	ts := newTestTokenService(t)

	t1, _ := ts.Generate("user-123")
	t2, _ := ts.Generate("user-123")
	s1, _ := ts.Parse(t1)
	s2, _ := ts.Parse(t2)
	if s1 == nil || s2 == nil || s1.TokenID == s2.TokenID {
		t.Error("two logins must get distinct token ids")
	}
}

func TestParse_Rejects(t *testing.T) {
	ts := newTestTokenService(t)
	other, _ := NewTokenService("wrong-secret-32-chars-long!!!!!!", time.Hour)

	valid, _ := ts.Generate("user-123")
	expired, _ := ts.GenerateWithDuration("user-123", -time.Second)
	foreign, _ := other.Generate("user-123")

	tests := []struct {
		name  string
		token string
	}{
		{"expired", expired},
		{"tampered signature", valid[:len(valid)-3] + "xxx"},
		{"wrong secret", foreign},
		{"empty", ""},
		{"garbage", "not.a.jwt.token"},
		{"unsigned", "eyJhbGciOiJub25lIiwidHlwIjoiSldUIn0.eyJzdWIiOiJ1c2VyLTEyMyJ9."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ts.Parse(tt.token); err == nil {
				t.Errorf("Parse(%s) should fail", tt.name)
			}
		})
	}
}
