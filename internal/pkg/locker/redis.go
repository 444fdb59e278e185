package locker

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis implements Locker with SET NX PX and a compare-and-delete release.
type Redis struct {
	client redis.UniversalClient
	prefix string
	tokens tokenGenerator
}

func NewRedis(client redis.UniversalClient, tokens tokenGenerator) *Redis {
	return &Redis{client: client, prefix: "otcgate:lock:", tokens: tokens}
}

func (r *Redis) Acquire(ctx context.Context, key string, ttl time.Duration) (Release, error) {
	fk := r.prefix + key
	token := r.tokens.Generate()

	ok, err := r.client.SetNX(ctx, fk, token, ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrLocked
	}

	return func(ctx context.Context) error {
		return releaseScript.Run(ctx, r.client, []string{fk}, token).Err()
	}, nil
}
