package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogCache_SetAndGet(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewCatalogCache(client)
	ctx := context.Background()

	gameID := uuid.New()
	payload := []byte(`[{"id":"g1","price":6000}]`)

	// Get before set => miss
	result, err := cache.GetGameListing(ctx, gameID)
	assert.NoError(t, err)
	assert.Nil(t, result)

	err = cache.SetGameListing(ctx, gameID, payload, time.Minute)
	require.NoError(t, err)

	result, err = cache.GetGameListing(ctx, gameID)
	require.NoError(t, err)
	assert.Equal(t, payload, result)
}

func TestCatalogCache_TTLExpiry(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewCatalogCache(client)
	ctx := context.Background()

	gameID := uuid.New()
	require.NoError(t, cache.SetGameListing(ctx, gameID, []byte("page"), time.Second))

	s.FastForward(2 * time.Second)

	result, err := cache.GetGameListing(ctx, gameID)
	assert.NoError(t, err)
	assert.Nil(t, result, "expired listing should return a miss")
}

func TestCatalogCache_InvalidateGame(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewCatalogCache(client)
	ctx := context.Background()

	gameID := uuid.New()
	require.NoError(t, cache.SetGameListing(ctx, gameID, []byte("page"), time.Hour))

	require.NoError(t, cache.InvalidateGame(ctx, gameID))

	result, err := cache.GetGameListing(ctx, gameID)
	assert.NoError(t, err)
	assert.Nil(t, result)
}

func TestCatalogCache_InvalidateMissingKey(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewCatalogCache(client)

	assert.NoError(t, cache.InvalidateGame(context.Background(), uuid.New()))
}
