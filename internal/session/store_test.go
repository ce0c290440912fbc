package session

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderyanthar/cardz-galore-app-backend/internal/domain"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func setupTestStore(t *testing.T) (Store, *miniredis.Miniredis, func()) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	store := NewRedisStore(client, time.Hour)

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return store, mr, cleanup
}

func TestCreateAndGet(t *testing.T) {
	store, _, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	principal := domain.Principal{UserID: primitive.NewObjectID(), Role: domain.RoleAdmin}

	token, err := store.Create(ctx, principal)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	got, err := store.Get(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, principal.UserID, got.UserID)
	assert.Equal(t, domain.RoleAdmin, got.Role)
}

func TestGet_UnknownToken(t *testing.T) {
	store, _, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.Get(context.Background(), "no-such-token")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	store, _, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	token, err := store.Create(ctx, domain.Principal{UserID: primitive.NewObjectID(), Role: domain.RoleUser})
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, token))

	_, err = store.Get(ctx, token)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionExpires(t *testing.T) {
	store, mr, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	token, err := store.Create(ctx, domain.Principal{UserID: primitive.NewObjectID(), Role: domain.RoleUser})
	require.NoError(t, err)

	ttl := mr.TTL(sessionKey(token))
	assert.Equal(t, time.Hour, ttl)

	mr.FastForward(2 * time.Hour)

	_, err = store.Get(ctx, token)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTokensAreUnique(t *testing.T) {
	store, _, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	principal := domain.Principal{UserID: primitive.NewObjectID(), Role: domain.RoleUser}

	t1, err := store.Create(ctx, principal)
	require.NoError(t, err)
	t2, err := store.Create(ctx, principal)
	require.NoError(t, err)

	assert.NotEqual(t, t1, t2)
}
