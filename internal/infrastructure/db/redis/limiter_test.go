package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestLimiter(t *testing.T, limit int) (*LoginLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewLoginLimiter(client, "auth", limit, time.Minute), mr
}

func TestLoginLimiter_AllowsUpToLimit(t *testing.T) {
	l, _ := newTestLimiter(t, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, "10.0.0.1")
		if err != nil {
			t.Fatalf("hit %d: %v", i, err)
		}
		if !ok {
			t.Fatalf("hit %d must be allowed", i)
		}
	}

	ok, err := l.Allow(ctx, "10.0.0.1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("fourth hit must be rejected")
	}

	ok, _ = l.Allow(ctx, "10.0.0.2")
	if !ok {
		t.Fatal("other keys have their own budget")
	}
}

func TestLoginLimiter_SetsExpiry(t *testing.T) {
	l, mr := newTestLimiter(t, 5)
	fixed := time.Unix(1_700_000_040, 0)
	l.now = func() time.Time { return fixed }

	if _, err := l.Allow(context.Background(), "10.0.0.1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	key := l.key("10.0.0.1")
	if ttl := mr.TTL(key); ttl <= 0 || ttl > time.Minute {
		t.Fatalf("expected ttl within the window, got %s", ttl)
	}
}

func TestLoginLimiter_NewWindowResets(t *testing.T) {
	l, _ := newTestLimiter(t, 1)
	current := time.Unix(1_700_000_000, 0)
	l.now = func() time.Time { return current }
	ctx := context.Background()

	if ok, _ := l.Allow(ctx, "k"); !ok {
		t.Fatal("first hit must pass")
	}
	if ok, _ := l.Allow(ctx, "k"); ok {
		t.Fatal("second hit in the same window must fail")
	}

	current = current.Add(time.Minute)
	if ok, _ := l.Allow(ctx, "k"); !ok {
		t.Fatal("next window must start fresh")
	}
}

func TestLoginLimiter_ErrorWhenRedisDown(t *testing.T) {
	l, mr := newTestLimiter(t, 1)
	mr.Close()

	if _, err := l.Allow(context.Background(), "k"); err == nil {
		t.Fatal("expected error when redis is unavailable")
	}
}
