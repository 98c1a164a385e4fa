package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const DefaultKey = "slotbot:mutation"

// compare-and-delete, so an expired holder never releases someone else's lock
var release = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

type Redis struct {
	client *redis.Client
	key    string
	ttl    time.Duration
	retry  time.Duration

	OnReleaseError func(error)
}

func NewRedis(client *redis.Client, key string, ttl time.Duration) *Redis {
	if key == "" {
		key = DefaultKey
	}
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &Redis{client: client, key: key, ttl: ttl, retry: 50 * time.Millisecond}
}

// Lock polls SET NX until it wins or ctx is done. The key expires after ttl
// even if the holder never unlocks.
func (r *Redis) Lock(ctx context.Context) (func(), error) {
	token := uuid.NewString()
	wait := r.retry

	for {
		ok, err := r.client.SetNX(ctx, r.key, token, r.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire %s: %w", r.key, err)
		}
		if ok {
			return func() { r.unlock(token) }, nil
		}

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrNotAcquired, ctx.Err())
		case <-time.After(wait):
		}
		if wait < time.Second {
			wait *= 2
		}
	}
}

func (r *Redis) unlock(token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := release.Run(ctx, r.client, []string{r.key}, token).Err(); err != nil && r.OnReleaseError != nil {
		r.OnReleaseError(err)
	}
}
