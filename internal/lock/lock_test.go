package lock

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func exercise(t *testing.T, l Locker) {
	t.Helper()
	ctx := context.Background()

	var (
		mu      sync.Mutex
		inside  int
		maxSeen int
		wg      sync.WaitGroup
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(ctx)
			if err != nil {
				t.Error(err)
				return
			}
			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
			unlock()
		}()
	}
	wg.Wait()
	require.Equal(t, 1, maxSeen)
}

func TestLocalIsExclusive(t *testing.T) {
	exercise(t, NewLocal())
}

func TestLocalHonoursContext(t *testing.T) {
	l := NewLocal()
	unlock, err := l.Lock(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx)
	require.ErrorIs(t, err, ErrNotAcquired)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	unlock2, err := l.Lock(context.Background())
	require.NoError(t, err)
	unlock2()
}

func TestRedis(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	key := "slotbot:test:" + time.Now().Format(time.RFC3339Nano)
	l := NewRedis(client, key, 5*time.Second)
	exercise(t, l)

	unlock, err := l.Lock(context.Background())
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx)
	require.ErrorIs(t, err, ErrNotAcquired)
	unlock()

	n, err := client.Exists(context.Background(), key).Result()
	require.NoError(t, err)
	require.Zero(t, n)
}
