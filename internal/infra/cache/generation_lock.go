package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/KasumiMercury/primind-commute-slots/internal/domain"
)

const (
	generationLockKey = "commute:generation:lock"

	DefaultLockTTL = 5 * time.Minute
)

// releaseScript deletes the lock only while it still holds the caller's token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type generationLock struct {
	client *redis.Client
	ttl    time.Duration
}

func NewGenerationLock(client *redis.Client, ttl time.Duration) domain.GenerationLock {
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}

	return &generationLock{
		client: client,
		ttl:    ttl,
	}
}

func (l *generationLock) Acquire(ctx context.Context) (func(context.Context) error, error) {
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, generationLockKey, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRedisConnection, err)
	}
	if !ok {
		return nil, domain.ErrGenerationInProgress
	}

	release := func(ctx context.Context) error {
		return releaseScript.Run(ctx, l.client, []string{generationLockKey}, token).Err()
	}

	return release, nil
}
