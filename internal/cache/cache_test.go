package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/creator_match_api/internal/config"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *RedisClient) {
	t.Helper()

	mr := miniredis.RunT(t)
	client, err := NewRedisClient(&config.RedisConfig{Host: mr.Host(), Port: mr.Port()})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return mr, client
}

type payload struct {
	ID    string `json:"id"`
	Score int    `json:"score"`
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	_, err := NewRedisClient(&config.RedisConfig{Host: "127.0.0.1", Port: "1"})
	assert.Error(t, err)
}

func TestResultCache_SetGet(t *testing.T) {
	mr, client := newTestRedis(t)
	c := NewResultCache(client, time.Minute)
	ctx := context.Background()

	var got payload
	assert.False(t, c.Get(ctx, InsightKey("c-1"), &got))

	c.Set(ctx, InsightKey("c-1"), payload{ID: "c-1", Score: 88})
	require.True(t, c.Get(ctx, InsightKey("c-1"), &got))
	assert.Equal(t, payload{ID: "c-1", Score: 88}, got)

	mr.FastForward(2 * time.Minute)
	assert.False(t, c.Get(ctx, InsightKey("c-1"), &got))
}

func TestResultCache_CorruptEntryIsMiss(t *testing.T) {
	mr, client := newTestRedis(t)
	c := NewResultCache(client, time.Minute)

	require.NoError(t, mr.Set(ProductMatchKey("c-1", 10), "{not json"))

	var got []payload
	assert.False(t, c.Get(context.Background(), ProductMatchKey("c-1", 10), &got))
}

func TestResultCache_Invalidate(t *testing.T) {
	mr, client := newTestRedis(t)
	c := NewResultCache(client, time.Minute)
	ctx := context.Background()

	c.Set(ctx, InsightKey("c-1"), payload{ID: "c-1"})
	c.Set(ctx, CreatorMatchKey("p-1", 5), []payload{{ID: "c-2"}})
	require.NoError(t, mr.Set("unrelated", "keep"))

	require.NoError(t, c.Invalidate(ctx))

	assert.False(t, mr.Exists(InsightKey("c-1")))
	assert.False(t, mr.Exists(CreatorMatchKey("p-1", 5)))
	assert.True(t, mr.Exists("unrelated"))
}

func TestResultCache_NilIsNoop(t *testing.T) {
	var c *ResultCache
	ctx := context.Background()

	c.Set(ctx, InsightKey("c-1"), payload{ID: "c-1"})
	var got payload
	assert.False(t, c.Get(ctx, InsightKey("c-1"), &got))
	assert.NoError(t, c.Invalidate(ctx))
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "analysis:insight:c-1", InsightKey("c-1"))
	assert.Equal(t, "analysis:match:products:c-1:10", ProductMatchKey("c-1", 10))
	assert.Equal(t, "analysis:match:creators:p-9:3", CreatorMatchKey("p-9", 3))
}
