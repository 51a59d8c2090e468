package api

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/role-scout/internal/cache"
)

func TestDownloads_ExpireWithStoreTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	store := cache.NewRedisFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	d := NewDownloads(store, time.Minute)
	ctx := context.Background()

	token := d.Save(ctx, Download{Filename: "a.csv", ContentType: "text/csv", Data: []byte("x,y\n")})
	require.NotEmpty(t, token)

	got, ok := d.Load(ctx, token)
	require.True(t, ok)
	assert.Equal(t, []byte("x,y\n"), got.Data)
	assert.Equal(t, "a.csv", got.Filename)

	mr.FastForward(2 * time.Minute)
	_, ok = d.Load(ctx, token)
	assert.False(t, ok)
}

func TestDownloads_StoreDown(t *testing.T) {
	mr := miniredis.RunT(t)
	store := cache.NewRedisFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	d := NewDownloads(store, time.Minute)
	mr.Close()

	assert.Empty(t, d.Save(context.Background(), Download{Filename: "a.csv"}))
}
