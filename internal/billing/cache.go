package billing

import (
	"context"
	"errors"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const paidKeyPrefix = "billing:paid:"

// StatusCache remembers whether a customer is paid for a short time so that
// repeated /api/me calls do not hit the provider on every request.
type StatusCache struct {
	ttl    time.Duration
	redis  *redis.Client
	local  *gocache.Cache
	logger *zap.Logger
}

// NewStatusCache caches in Redis when a client is given, otherwise in
// process. A non-positive ttl disables caching.
func NewStatusCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *StatusCache {
	c := &StatusCache{ttl: ttl, redis: client, logger: logger}
	if client == nil && ttl > 0 {
		c.local = gocache.New(ttl, 2*ttl)
	}
	return c
}

// Get returns the cached status and whether it was found.
func (c *StatusCache) Get(ctx context.Context, customerID string) (bool, bool) {
	if c == nil || c.ttl <= 0 || customerID == "" {
		return false, false
	}
	key := paidKeyPrefix + customerID

	if c.redis != nil {
		val, err := c.redis.Get(ctx, key).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) {
				c.logger.Warn("paid status cache read failed", zap.Error(err))
			}
			return false, false
		}
		return val == "1", true
	}

	val, ok := c.local.Get(key)
	if !ok {
		return false, false
	}
	paid, ok := val.(bool)
	return paid, ok
}

// Set stores the status for customerID.
func (c *StatusCache) Set(ctx context.Context, customerID string, paid bool) {
	if c == nil || c.ttl <= 0 || customerID == "" {
		return
	}
	key := paidKeyPrefix + customerID

	if c.redis != nil {
		val := "0"
		if paid {
			val = "1"
		}
		if err := c.redis.Set(ctx, key, val, c.ttl).Err(); err != nil {
			c.logger.Warn("paid status cache write failed", zap.Error(err))
		}
		return
	}
	c.local.Set(key, paid, gocache.DefaultExpiration)
}

// Invalidate drops any cached status for customerID.
func (c *StatusCache) Invalidate(ctx context.Context, customerID string) {
	if c == nil || c.ttl <= 0 || customerID == "" {
		return
	}
	key := paidKeyPrefix + customerID
	if c.redis != nil {
		if err := c.redis.Del(ctx, key).Err(); err != nil {
			c.logger.Warn("paid status cache delete failed", zap.Error(err))
		}
		return
	}
	c.local.Delete(key)
}
