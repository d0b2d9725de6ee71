package profile

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const presenceTTL = 60 * time.Second

// Presence tracks the online flag with short-lived Redis keys. A user is
// online while their key exists; clients refresh it on every poll, so a
// silent disconnect ages out within the TTL.
type Presence struct {
	redis  *redis.Client
	logger zerolog.Logger
}

func NewPresence(client *redis.Client, logger zerolog.Logger) *Presence {
	return &Presence{
		redis:  client,
		logger: logger.With().Str("component", "presence").Logger(),
	}
}

func (p *Presence) key(userID uuid.UUID) string {
	return fmt.Sprintf("presence:%s", userID.String())
}

// Touch marks the user online and extends the TTL.
func (p *Presence) Touch(ctx context.Context, userID uuid.UUID) {
	if err := p.redis.Set(ctx, p.key(userID), "1", presenceTTL).Err(); err != nil {
		p.logger.Warn().Err(err).Str("user_id", userID.String()).Msg("presence touch failed")
	}
}

// Offline drops the user's presence key immediately (logout).
func (p *Presence) Offline(ctx context.Context, userID uuid.UUID) {
	if err := p.redis.Del(ctx, p.key(userID)).Err(); err != nil {
		p.logger.Warn().Err(err).Str("user_id", userID.String()).Msg("presence clear failed")
	}
}

// IsOnline reports whether the user's presence key is live. Transport
// errors degrade to offline rather than failing the caller.
func (p *Presence) IsOnline(ctx context.Context, userID uuid.UUID) bool {
	n, err := p.redis.Exists(ctx, p.key(userID)).Result()
	if err != nil {
		return false
	}
	return n > 0
}
