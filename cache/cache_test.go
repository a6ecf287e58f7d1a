package cache

import (
	"context"
	"testing"
	"time"

	"smartnotes/smartnotes/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type feedItem struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func TestMemoryCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute)

	var got []feedItem
	hit, err := c.Get(ctx, "missing", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	items := []feedItem{{ID: "1", Title: "Groceries"}}
	require.NoError(t, c.Set(ctx, PendingFeedKey("u1"), items, time.Minute))

	hit, err = c.Get(ctx, PendingFeedKey("u1"), &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, items, got)

	require.NoError(t, c.Delete(ctx, PendingFeedKey("u1")))
	hit, err = c.Get(ctx, PendingFeedKey("u1"), &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestMemoryCache_Expires(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute)

	require.NoError(t, c.Set(ctx, "k", "v", 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	var got string
	hit, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestNew_FallsBackToMemory(t *testing.T) {
	c := New(config.Config{FeedCacheTTLSeconds: 30})
	_, ok := c.(*MemoryCache)
	assert.True(t, ok)

	c = New(config.Config{RedisAddr: "127.0.0.1:1", FeedCacheTTLSeconds: 30})
	_, ok = c.(*MemoryCache)
	assert.True(t, ok)
}

func TestPendingFeedKey(t *testing.T) {
	assert.Equal(t, "feed:pending:abc", PendingFeedKey("abc"))
}
