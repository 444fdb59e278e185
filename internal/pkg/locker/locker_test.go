package locker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/otcgate/internal/pkg/uid"
)

func newRedisLocker(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedis(client, uid.NewUUID()), mr
}

func TestLockers_Exclusive(t *testing.T) {
	redisLocker, _ := newRedisLocker(t)

	lockers := map[string]Locker{
		"Redis":  redisLocker,
		"Memory": NewMemory(),
	}

	for name, l := range lockers {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			// Arrange
			release, err := l.Acquire(ctx, "signup:1", time.Minute)
			if err != nil {
				t.Fatalf("first Acquire: %v", err)
			}

			// Act
			_, errSecond := l.Acquire(ctx, "signup:1", time.Minute)
			_, errOther := l.Acquire(ctx, "signup:2", time.Minute)
			if err := release(ctx); err != nil {
				t.Fatalf("release: %v", err)
			}
			_, errAfter := l.Acquire(ctx, "signup:1", time.Minute)

			// Assert
			if !errors.Is(errSecond, ErrLocked) {
				t.Fatalf("expected ErrLocked, got %v", errSecond)
			}
			if errOther != nil {
				t.Fatalf("independent key must be free: %v", errOther)
			}
			if errAfter != nil {
				t.Fatalf("key must be free after release: %v", errAfter)
			}
		})
	}
}

func TestRedis_StaleReleaseKeepsNewHolder(t *testing.T) {
	// Arrange
	ctx := context.Background()
	l, mr := newRedisLocker(t)

	staleRelease, err := l.Acquire(ctx, "k", time.Second)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	mr.FastForward(2 * time.Second)

	if _, err := l.Acquire(ctx, "k", time.Minute); err != nil {
		t.Fatalf("second Acquire after expiry: %v", err)
	}

	// Act
	if err := staleRelease(ctx); err != nil {
		t.Fatalf("stale release: %v", err)
	}

	// Assert
	if _, err := l.Acquire(ctx, "k", time.Minute); !errors.Is(err, ErrLocked) {
		t.Fatalf("new holder must keep the lease, got %v", err)
	}
}

func TestMemory_Expiry(t *testing.T) {
	// Arrange
	m := NewMemory()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	if _, err := m.Acquire(context.Background(), "k", time.Second); err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	// Act
	now = now.Add(2 * time.Second)
	_, err := m.Acquire(context.Background(), "k", time.Second)

	// Assert
	if err != nil {
		t.Fatalf("expired lease must be reclaimable: %v", err)
	}
}
