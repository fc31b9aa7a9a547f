package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/anonto42/pulse/backend/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cfg := &config.Config{}
	cfg.Redis.Addr = mr.Addr()
	cfg.Redis.UnreadTTL = time.Minute

	c := NewRedisCache(cfg)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func fill(t *testing.T, c *RedisCache, username string, count int64) {
	t.Helper()
	ctx := context.Background()
	token, err := c.ReserveUnread(ctx, username)
	require.NoError(t, err)
	stored, err := c.SetUnread(ctx, username, token, count)
	require.NoError(t, err)
	require.True(t, stored)
}

func TestUnread_MissThenHit(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	_, ok, err := c.GetUnread(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, ok)

	fill(t, c, "alice", 3)

	n, ok, err := c.GetUnread(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(3), n)
}

func TestUnread_ExpiresAfterTTL(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	fill(t, c, "bob", 7)
	mr.FastForward(2 * time.Minute)

	_, ok, err := c.GetUnread(ctx, "bob")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInvalidateUnread(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	fill(t, c, "alice", 1)
	fill(t, c, "bob", 2)
	require.NoError(t, c.InvalidateUnread(ctx, "alice", "bob"))
	require.NoError(t, c.InvalidateUnread(ctx))

	assert.False(t, mr.Exists(c.KeyForUnread("alice")))
	assert.False(t, mr.Exists(c.KeyForUnread("bob")))
}

func TestGetUnread_CorruptValue(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	require.NoError(t, mr.Set(c.KeyForUnread("carol"), "lots"))

	_, _, err := c.GetUnread(ctx, "carol")
	assert.Error(t, err)
}

func TestSetUnread_DroppedAfterInvalidation(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	token, err := c.ReserveUnread(ctx, "alice")
	require.NoError(t, err)
	// the count is read from the store here; meanwhile notifications are marked read
	require.NoError(t, c.InvalidateUnread(ctx, "alice"))

	stored, err := c.SetUnread(ctx, "alice", token, 5)
	require.NoError(t, err)
	assert.False(t, stored)
	assert.False(t, mr.Exists(c.KeyForUnread("alice")))
}

func TestSetUnread_OnlyLatestReservationWins(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	first, err := c.ReserveUnread(ctx, "bob")
	require.NoError(t, err)
	second, err := c.ReserveUnread(ctx, "bob")
	require.NoError(t, err)

	stored, err := c.SetUnread(ctx, "bob", first, 9)
	require.NoError(t, err)
	assert.False(t, stored)

	stored, err = c.SetUnread(ctx, "bob", second, 2)
	require.NoError(t, err)
	assert.True(t, stored)

	n, ok, err := c.GetUnread(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(2), n)

	stored, err = c.SetUnread(ctx, "bob", second, 4)
	require.NoError(t, err)
	assert.False(t, stored)
}
