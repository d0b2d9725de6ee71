package question

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultCacheTTL = 10 * time.Minute

// Cache keeps generated question sets in Redis so repeated setup of the
// same quiz configuration skips the provider.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) key(subjectID, difficulty string, count int) string {
	return fmt.Sprintf("questions:%s:%s:%d", subjectID, difficulty, count)
}

// Get returns the cached set, or nil when absent.
func (c *Cache) Get(ctx context.Context, subjectID, difficulty string, count int) ([]Question, error) {
	data, err := c.client.Get(ctx, c.key(subjectID, difficulty, count)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var questions []Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// Set stores the question set with the configured TTL.
func (c *Cache) Set(ctx context.Context, subjectID, difficulty string, questions []Question) error {
	data, err := json.Marshal(questions)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(subjectID, difficulty, len(questions)), data, c.ttl).Err()
}
