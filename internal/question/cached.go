package question

import (
	"context"

	"github.com/rs/zerolog"
)

// CachedProvider fronts a Provider with the Redis cache. Cache failures
// fall through to generation; a quiz never fails because Redis is down.
type CachedProvider struct {
	inner  Provider
	cache  *Cache
	logger zerolog.Logger
}

var _ Provider = (*CachedProvider)(nil)

func NewCachedProvider(inner Provider, cache *Cache, logger zerolog.Logger) *CachedProvider {
	return &CachedProvider{
		inner:  inner,
		cache:  cache,
		logger: logger.With().Str("component", "question_cache").Logger(),
	}
}

func (p *CachedProvider) Generate(ctx context.Context, subjectID, difficulty string, count int) ([]Question, error) {
	cached, err := p.cache.Get(ctx, subjectID, difficulty, count)
	if err != nil {
		p.logger.Debug().Err(err).Msg("question cache read failed")
	}
	if len(cached) == count {
		return cached, nil
	}

	questions, err := p.inner.Generate(ctx, subjectID, difficulty, count)
	if err != nil {
		return nil, err
	}

	if err := p.cache.Set(ctx, subjectID, difficulty, questions); err != nil {
		p.logger.Debug().Err(err).Msg("question cache write failed")
	}
	return questions, nil
}
