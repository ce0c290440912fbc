package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alexanderyanthar/cardz-galore-app-backend/internal/domain"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// setupTestRedis creates a miniredis server and returns a RedisCache instance
func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis, func()) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	c := NewRedisCache(client)

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return c, mr, cleanup
}

func sampleItems() []domain.CartItem {
	return []domain.CartItem{
		{
			CartID:   primitive.NewObjectID(),
			Card:     &domain.Card{ID: primitive.NewObjectID(), Name: "Dark Magician"},
			SetID:    primitive.NewObjectID(),
			Quantity: 2,
		},
	}
}

func TestGet_Success(t *testing.T) {
	c, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	userID := "user123"

	items := sampleItems()
	itemsJSON, _ := json.Marshal(items)
	mr.Set(cacheKey(userID), string(itemsJSON))

	result, err := c.Get(ctx, userID)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, items[0].CartID, result[0].CartID)
	assert.Equal(t, "Dark Magician", result[0].Card.Name)
	assert.Equal(t, 2, result[0].Quantity)
}

func TestGet_CacheMiss(t *testing.T) {
	c, _, cleanup := setupTestRedis(t)
	defer cleanup()

	result, err := c.Get(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Nil(t, result)
}

func TestGet_InvalidJSON(t *testing.T) {
	c, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	userID := "user123"
	require.NoError(t, mr.Set(cacheKey(userID), "{not json"))

	_, err := c.Get(context.Background(), userID)
	require.ErrorContains(t, err, "unmarshal cart failed")
}

func TestSet_Success(t *testing.T) {
	c, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	userID := "user456"
	items := sampleItems()

	err := c.Set(context.Background(), userID, items)
	require.NoError(t, err)

	stored, err2 := mr.Get(cacheKey(userID))
	require.NoError(t, err2)
	assert.NotEmpty(t, stored)

	var storedItems []domain.CartItem
	require.NoError(t, json.Unmarshal([]byte(stored), &storedItems))
	require.Len(t, storedItems, 1)
	assert.Equal(t, items[0].Quantity, storedItems[0].Quantity)
}

func TestSet_WithTTL(t *testing.T) {
	c, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	userID := "user789"
	err := c.Set(context.Background(), userID, []domain.CartItem{})
	require.NoError(t, err)

	ttl := mr.TTL(cacheKey(userID))
	assert.True(t, ttl >= 15*time.Minute, "TTL should be at least base TTL")
	assert.True(t, ttl <= 20*time.Minute, "TTL should be base + max jitter")
}

func TestDelete_Success(t *testing.T) {
	c, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	userID := "user999"
	itemsJSON, _ := json.Marshal(sampleItems())
	mr.Set(cacheKey(userID), string(itemsJSON))
	assert.True(t, mr.Exists(cacheKey(userID)))

	err := c.Delete(context.Background(), userID)
	require.NoError(t, err)
	assert.False(t, mr.Exists(cacheKey(userID)))
}

func TestDelete_NonExistentKey(t *testing.T) {
	c, _, cleanup := setupTestRedis(t)
	defer cleanup()

	err := c.Delete(context.Background(), "nonexistent")
	assert.NoError(t, err)
}

func TestCacheKey_Format(t *testing.T) {
	assert.Equal(t, "cart:test123", cacheKey("test123"))
}
