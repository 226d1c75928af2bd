//go:build integration
// +build integration

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utsavjain246/shortify/internal/domain"
	redisrepo "github.com/utsavjain246/shortify/internal/repository/redis"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client, func()) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return mr, client, cleanup
}

func TestLinkCache_SetAndGet(t *testing.T) {
	_, client, cleanup := setupTestRedis(t)
	defer cleanup()

	cache := redisrepo.NewLinkCache(client)
	ctx := context.Background()

	link := &domain.Link{
		ID:        1,
		ShortCode: "abc1234",
		TargetURL: "https://example.com",
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}

	before := time.Now().UTC()
	require.NoError(t, cache.SetLink(ctx, link, 10*time.Minute))

	cached, err := cache.GetLink(ctx, "abc1234")

	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, link.ShortCode, cached.Link.ShortCode)
	assert.Equal(t, link.TargetURL, cached.Link.TargetURL)
	assert.Equal(t, link.IsActive, cached.Link.IsActive)
	assert.False(t, cached.CachedAt.Before(before.Truncate(time.Second)), "entry is stamped with the write time")
}

func TestLinkCache_Miss(t *testing.T) {
	_, client, cleanup := setupTestRedis(t)
	defer cleanup()

	cache := redisrepo.NewLinkCache(client)

	cached, err := cache.GetLink(context.Background(), "missing")

	assert.NoError(t, err, "a miss is not an error")
	assert.Nil(t, cached)
}

func TestLinkCache_EntryExpiresWithTTL(t *testing.T) {
	mr, client, cleanup := setupTestRedis(t)
	defer cleanup()

	cache := redisrepo.NewLinkCache(client)
	ctx := context.Background()

	link := &domain.Link{ID: 2, ShortCode: "ttl1234", TargetURL: "https://example.com", IsActive: true}
	require.NoError(t, cache.SetLink(ctx, link, time.Minute))

	mr.FastForward(2 * time.Minute)

	cached, err := cache.GetLink(ctx, "ttl1234")
	assert.NoError(t, err)
	assert.Nil(t, cached)
}

func TestLinkCache_OverwriteIsLastWriteWins(t *testing.T) {
	_, client, cleanup := setupTestRedis(t)
	defer cleanup()

	cache := redisrepo.NewLinkCache(client)
	ctx := context.Background()

	link := &domain.Link{ID: 3, ShortCode: "again12", TargetURL: "https://example.com", IsActive: true}
	require.NoError(t, cache.SetLink(ctx, link, 10*time.Minute))

	link.IsActive = false
	require.NoError(t, cache.SetLink(ctx, link, 10*time.Minute))

	cached, err := cache.GetLink(ctx, "again12")
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.False(t, cached.Link.IsActive)
}

func TestLinkCache_Delete(t *testing.T) {
	_, client, cleanup := setupTestRedis(t)
	defer cleanup()

	cache := redisrepo.NewLinkCache(client)
	ctx := context.Background()

	link := &domain.Link{ID: 4, ShortCode: "gone123", TargetURL: "https://example.com", IsActive: true}
	require.NoError(t, cache.SetLink(ctx, link, 10*time.Minute))

	require.NoError(t, cache.DeleteLink(ctx, "gone123"))

	cached, err := cache.GetLink(ctx, "gone123")
	assert.NoError(t, err)
	assert.Nil(t, cached)
}

func TestLinkCache_DeleteMissingKey_NoError(t *testing.T) {
	_, client, cleanup := setupTestRedis(t)
	defer cleanup()

	cache := redisrepo.NewLinkCache(client)

	assert.NoError(t, cache.DeleteLink(context.Background(), "never-set"))
}

func TestLinkCache_CorruptEntry(t *testing.T) {
	_, client, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, client.Set(ctx, "link:corrupt", "not-json", 10*time.Minute).Err())

	cache := redisrepo.NewLinkCache(client)

	cached, err := cache.GetLink(ctx, "corrupt")
	assert.Error(t, err)
	assert.Nil(t, cached)
}

func TestLinkCache_BackendDown_ReturnsError(t *testing.T) {
	mr, client, cleanup := setupTestRedis(t)
	defer cleanup()

	cache := redisrepo.NewLinkCache(client)
	ctx := context.Background()

	mr.Close()

	_, err := cache.GetLink(ctx, "any1234")
	assert.Error(t, err, "backend failures must surface so the resolver can degrade to the store")
}
