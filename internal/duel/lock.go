package duel

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const lockTTL = 30 * time.Second

// Locker serializes duel state transitions. The production implementation
// is Redis-backed; tests substitute an in-process one.
type Locker interface {
	Lock(ctx context.Context, duelID uuid.UUID) (func() error, error)
}

// RedisLocker acquires a per-duel distributed lock so two clients
// reporting scores inside the same polling window cannot interleave the
// finalization read-modify-write.
type RedisLocker struct {
	redis  *redis.Client
	logger zerolog.Logger
}

var _ Locker = (*RedisLocker)(nil)

func NewRedisLocker(client *redis.Client, logger zerolog.Logger) *RedisLocker {
	return &RedisLocker{
		redis:  client,
		logger: logger.With().Str("component", "duel_lock").Logger(),
	}
}

// Lock acquires the duel lock and returns its unlock function. The lock
// self-expires after 30s in case the holder dies.
func (l *RedisLocker) Lock(ctx context.Context, duelID uuid.UUID) (func() error, error) {
	key := fmt.Sprintf("duel:lock:%s", duelID.String())
	lockValue := uuid.NewString()

	acquired, err := l.redis.SetNX(ctx, key, lockValue, lockTTL).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !acquired {
		return nil, fmt.Errorf("lock already held")
	}

	unlock := func() error {
		// Lua script ensures we only delete our own lock
		script := `
			if redis.call("get", KEYS[1]) == ARGV[1] then
				return redis.call("del", KEYS[1])
			else
				return 0
			end
		`
		return l.redis.Eval(ctx, script, []string{key}, lockValue).Err()
	}

	return unlock, nil
}
