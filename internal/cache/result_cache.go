package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

const keyPrefix = "analysis:"

// ResultCache stores AI-sourced analysis results as JSON.
// A nil *ResultCache is valid and behaves as an always-empty cache.
type ResultCache struct {
	redis *RedisClient
	ttl   time.Duration
}

// NewResultCache creates a new ResultCache.
func NewResultCache(redis *RedisClient, ttl time.Duration) *ResultCache {
	return &ResultCache{
		redis: redis,
		ttl:   ttl,
	}
}

// InsightKey returns the key for a creator insight.
func InsightKey(creatorID string) string {
	return fmt.Sprintf("%sinsight:%s", keyPrefix, creatorID)
}

// ProductMatchKey returns the key for a creator's product matches.
func ProductMatchKey(creatorID string, limit int) string {
	return fmt.Sprintf("%smatch:products:%s:%d", keyPrefix, creatorID, limit)
}

// CreatorMatchKey returns the key for a product's creator matches.
func CreatorMatchKey(productID string, limit int) string {
	return fmt.Sprintf("%smatch:creators:%s:%d", keyPrefix, productID, limit)
}

// Get decodes the cached value for key into out. It reports false on a miss
// or on any Redis or decode error.
func (c *ResultCache) Get(ctx context.Context, key string, out any) bool {
	if c == nil || c.redis == nil {
		return false
	}

	raw, err := c.redis.Get(ctx, key)
	if err != nil {
		if !IsMiss(err) {
			log.Warn().Err(err).Str("key", key).Msg("Result cache read failed")
		}
		return false
	}

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Result cache entry is corrupt")
		return false
	}
	return true
}

// Set stores value under key with the configured TTL. Failures are logged.
func (c *ResultCache) Set(ctx context.Context, key string, value any) {
	if c == nil || c.redis == nil {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to marshal cached result")
		return
	}
	if err := c.redis.Set(ctx, key, string(data), c.ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Result cache write failed")
	}
}

// Invalidate drops every cached result. Called after the dataset changes.
func (c *ResultCache) Invalidate(ctx context.Context) error {
	if c == nil || c.redis == nil {
		return nil
	}

	n, err := c.redis.DeleteByPattern(ctx, keyPrefix+"*")
	if err != nil {
		return fmt.Errorf("invalidate result cache: %w", err)
	}
	log.Info().Int("keys", n).Msg("Result cache invalidated")
	return nil
}
