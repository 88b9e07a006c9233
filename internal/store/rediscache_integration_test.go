//go:build integration

package store_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shiftrightonce/url-shortener/internal/shortener"
	"github.com/shiftrightonce/url-shortener/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})

	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	t.Cleanup(func() {
		_ = client.FlushDB(context.Background()).Err()
		_ = client.Close()
	})

	return client
}

func TestLinkCacheIntegration(t *testing.T) {
	ctx := context.Background()

	t.Run("serves repeated code lookups from the cache", func(t *testing.T) {
		client := setupRedis(t)
		inner := store.NewMemoryLinks()
		cache := store.NewLinkCache(inner, client, time.Minute)

		link := newLink("rcid1", "rchash1", "rccode1", time.Now().Add(time.Second).UnixMilli())
		require.NoError(t, cache.Insert(ctx, link))

		first, err := cache.GetByCode(ctx, "rccode1")
		require.NoError(t, err)
		assert.Equal(t, link.RawURL, first.RawURL)

		// Remove from the inner store directly; the cache must still answer.
		_, err = inner.DeleteExpired(ctx, time.Now().Add(time.Hour).UnixMilli())
		require.NoError(t, err)

		cached, err := cache.GetByCode(ctx, "rccode1")
		require.NoError(t, err)
		assert.Equal(t, link.RawURL, cached.RawURL)
		assert.Equal(t, link.PublicID, cached.PublicID)
	})

	t.Run("hash index answers dedup lookups", func(t *testing.T) {
		client := setupRedis(t)
		cache := store.NewLinkCache(store.NewMemoryLinks(), client, time.Minute)

		link := newLink("rcid2", "rchash2", "rccode2", 0)
		require.NoError(t, cache.Insert(ctx, link))

		got, err := cache.GetByHash(ctx, "rchash2")

		require.NoError(t, err)
		assert.Equal(t, "rccode2", got.ShortCode)
	})

	t.Run("pruning evicts the cached codes", func(t *testing.T) {
		client := setupRedis(t)
		cache := store.NewLinkCache(store.NewMemoryLinks(), client, time.Minute)

		expired := newLink("rcid3", "rchash3", "rccode3", time.Now().Add(-time.Hour).UnixMilli())
		require.NoError(t, cache.Insert(ctx, expired))

		codes, err := cache.DeleteExpired(ctx, time.Now().UnixMilli())
		require.NoError(t, err)
		assert.Equal(t, []string{"rccode3"}, codes)

		_, err = cache.GetByCode(ctx, "rccode3")
		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})

	t.Run("misses fall through to the store", func(t *testing.T) {
		client := setupRedis(t)
		inner := store.NewMemoryLinks()
		cache := store.NewLinkCache(inner, client, time.Minute)

		// Written directly to the inner store, bypassing the cache.
		require.NoError(t, inner.Insert(ctx, newLink("rcid4", "rchash4", "rccode4", 0)))

		got, err := cache.GetByCode(ctx, "rccode4")

		require.NoError(t, err)
		assert.Equal(t, "rcid4", got.PublicID)
	})
}
