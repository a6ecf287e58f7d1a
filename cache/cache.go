package cache

import (
	"context"
	"time"

	"smartnotes/smartnotes/config"
	"smartnotes/smartnotes/utils/logger"
)

// Cache stores JSON-encodable values with a TTL. A miss is reported as
// (false, nil).
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

func PendingFeedKey(userID string) string {
	return "feed:pending:" + userID
}

// New returns a Redis-backed cache when REDIS_ADDR is configured and
// reachable, and an in-process cache otherwise.
func New(cfg config.Config) Cache {
	if cfg.RedisAddr != "" {
		redisCache, err := NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err == nil {
			return redisCache
		}
		logger.Log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("Redis unavailable, using in-memory cache")
	}
	return NewMemoryCache(time.Duration(cfg.FeedCacheTTLSeconds) * time.Second)
}
