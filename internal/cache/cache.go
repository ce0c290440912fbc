package cache

import (
	"context"
	"errors"

	"github.com/alexanderyanthar/cardz-galore-app-backend/internal/domain"
)

var ErrCacheMiss = errors.New("cache miss")

// CartCache stores the expanded cart view per user.
type CartCache interface {
	Get(ctx context.Context, userID string) ([]domain.CartItem, error)
	Set(ctx context.Context, userID string, items []domain.CartItem) error
	Delete(ctx context.Context, userID string) error
}
