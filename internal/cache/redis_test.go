package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s := NewRedisFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestRedisStore_SetGet(t *testing.T) {
	s, mr := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetWithTTL(ctx, "lookup:acme:ceo", `{"first_name":"Jane"}`, 24*time.Hour))

	v, ok, err := s.Get(ctx, "lookup:acme:ceo")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"first_name":"Jane"}`, v)
	assert.Equal(t, 24*time.Hour, mr.TTL("lookup:acme:ceo"))
}

func TestRedisStore_MissAndExpiry(t *testing.T) {
	s, mr := newTestRedisStore(t)
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "nope")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetWithTTL(ctx, "k", "v", time.Minute))
	mr.FastForward(2 * time.Minute)

	_, ok, err = s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStore_ServerDown(t *testing.T) {
	s, mr := newTestRedisStore(t)
	mr.Close()

	_, _, err := s.Get(context.Background(), "k")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis: get")

	// The result cache turns the outage into a miss.
	_, ok := NewResultCache(s, time.Hour).Get(context.Background(), "Acme", "CEO")
	assert.False(t, ok)
}

func TestNewRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	s, err := NewRedis(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = NewRedis(context.Background(), "::bad::")
	require.Error(t, err)
}

func TestResultCache_RedisRoundTrip(t *testing.T) {
	s, mr := newTestRedisStore(t)
	c := NewResultCache(s, time.Hour)
	ctx := context.Background()

	c.Put(ctx, "Acme", "CEO", resolved())
	got, ok := c.Get(ctx, "ACME", "ceo")
	require.True(t, ok)
	assert.True(t, got.Cache)
	assert.Equal(t, "Jane", got.FirstName)

	mr.FastForward(2 * time.Hour)
	_, ok = c.Get(ctx, "Acme", "CEO")
	assert.False(t, ok)
}
