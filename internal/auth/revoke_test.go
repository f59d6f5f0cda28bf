package auth

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestMemoryRevoker(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemoryRevoker()
	m.now = func() time.Time { return now }

	if revoked, _ := m.IsRevoked(ctx, "jti-1"); revoked {
		t.Fatal("fresh token reported revoked")
	}

	if err := m.Revoke(ctx, "jti-1", now.Add(time.Hour)); err != nil {
		t.Fatalf("Revoke() error = %v", err)
	}
	if revoked, _ := m.IsRevoked(ctx, "jti-1"); !revoked {
		t.Error("revoked token not reported revoked")
	}

	// past its expiry the entry no longer matters and is pruned
	now = now.Add(2 * time.Hour)
	if revoked, _ := m.IsRevoked(ctx, "jti-1"); revoked {
		t.Error("entry outlived the token expiry")
	}
	_ = m.Revoke(ctx, "jti-2", now.Add(time.Hour))
	if _, ok := m.entries["jti-1"]; ok {
		t.Error("expired entry was not pruned")
	}
}

func TestMemoryRevoker_AlreadyExpired(t *testing.T) {
	m := NewMemoryRevoker()
	_ = m.Revoke(context.Background(), "old", time.Now().Add(-time.Minute))
	if len(m.entries) != 0 {
		t.Error("an already expired token should not be stored")
	}
}

func TestRedisRevoker(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()

	rdb, err := NewRedisClient(ctx, addr, os.Getenv("REDIS_PASSWORD"))
	if err != nil {
		t.Fatalf("NewRedisClient() error = %v", err)
	}
	t.Cleanup(func() { rdb.Close() })

	r := NewRedisRevoker(rdb)
	jti := uuid.NewString()

	if revoked, err := r.IsRevoked(ctx, jti); err != nil || revoked {
		t.Fatalf("IsRevoked() = %v, %v before revoke", revoked, err)
	}
	if err := r.Revoke(ctx, jti, time.Now().Add(time.Minute)); err != nil {
		t.Fatalf("Revoke() error = %v", err)
	}
	if revoked, err := r.IsRevoked(ctx, jti); err != nil || !revoked {
		t.Errorf("IsRevoked() = %v, %v after revoke", revoked, err)
	}
}
