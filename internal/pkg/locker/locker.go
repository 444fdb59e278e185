package locker

import (
	"context"
	"errors"
	"time"
)

// ErrLocked is returned by Acquire when another holder owns the key.
var ErrLocked = errors.New("locker: key is locked")

// Release gives a lease back. Releasing an expired or stolen lease is a no-op.
type Release func(ctx context.Context) error

// Locker grants short, exclusive leases on string keys. Acquire never waits:
// it either takes the lease or returns ErrLocked.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (Release, error)
}

type tokenGenerator interface {
	Generate() string
}
