package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderyanthar/cardz-galore-app-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrNotFound = errors.New("session not found")

// CookieName is the cookie carrying the opaque session token.
const CookieName = "session_id"

// Store maps opaque tokens to server-side principals. Only the user id and
// role are ever serialized; sessions survive process restarts because
// nothing is signed with an in-process key.
type Store interface {
	Create(ctx context.Context, principal domain.Principal) (string, error)
	Get(ctx context.Context, token string) (*domain.Principal, error)
	Delete(ctx context.Context, token string) error
}

type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) Store {
	return &redisStore{
		client: client,
		ttl:    ttl,
	}
}

func (s redisStore) Create(ctx context.Context, principal domain.Principal) (string, error) {
	token := uuid.NewString()

	data, err := json.Marshal(principal)
	if err != nil {
		return "", fmt.Errorf("marshal principal failed: %w", err)
	}

	if err := s.client.Set(ctx, sessionKey(token), data, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("redis set failed: %w", err)
	}
	return token, nil
}

func (s redisStore) Get(ctx context.Context, token string) (*domain.Principal, error) {
	data, err := s.client.Get(ctx, sessionKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var principal domain.Principal
	if err2 := json.Unmarshal(data, &principal); err2 != nil {
		return nil, fmt.Errorf("unmarshal principal failed: %w", err2)
	}
	return &principal, nil
}

func (s redisStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func sessionKey(token string) string {
	return fmt.Sprintf("session:%s", token)
}
