package reputation

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const cacheTTL = 5 * time.Minute

// Cache is a read-through Redis cache for reputations. All operations are
// best-effort: a nil client or a Redis failure degrades to the database.
type Cache struct {
	client *redis.Client
}

// NewCache creates a reputation cache. A nil client disables caching.
func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client}
}

func cacheKey(userID uuid.UUID) string {
	return "reputation:" + userID.String()
}

// Get returns the cached reputation or nil on miss
func (c *Cache) Get(ctx context.Context, userID uuid.UUID) *UserReputation {
	if c == nil || c.client == nil {
		return nil
	}

	data, err := c.client.Get(ctx, cacheKey(userID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Str("user_id", userID.String()).Msg("Reputation cache read failed")
		}
		return nil
	}

	var rep UserReputation
	if err := json.Unmarshal(data, &rep); err != nil {
		log.Warn().Err(err).Str("user_id", userID.String()).Msg("Reputation cache entry corrupt")
		return nil
	}
	return &rep
}

// Set stores a reputation with a short TTL
func (c *Cache) Set(ctx context.Context, rep *UserReputation) {
	if c == nil || c.client == nil || rep == nil {
		return
	}

	data, err := json.Marshal(rep)
	if err != nil {
		return
	}

	if err := c.client.Set(ctx, cacheKey(rep.UserID), data, cacheTTL).Err(); err != nil {
		log.Warn().Err(err).Str("user_id", rep.UserID.String()).Msg("Reputation cache write failed")
	}
}

// Invalidate drops the cached entry after a mutation
func (c *Cache) Invalidate(ctx context.Context, userID uuid.UUID) {
	if c == nil || c.client == nil {
		return
	}

	if err := c.client.Del(ctx, cacheKey(userID)).Err(); err != nil {
		log.Warn().Err(err).Str("user_id", userID.String()).Msg("Reputation cache invalidation failed")
	}
}
