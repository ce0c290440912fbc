package cache

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderyanthar/cardz-galore-app-backend/internal/domain"
	"github.com/sony/gobreaker/v2"
)

// BreakerCache wraps a CartCache with a circuit breaker so a failing Redis
// degrades reads to the repository instead of stalling every request.
// A cache miss is a normal outcome and never counts against the breaker.
type BreakerCache struct {
	inner CartCache
	cb    *gobreaker.CircuitBreaker[[]domain.CartItem]
}

func NewBreakerCache(inner CartCache) *BreakerCache {
	settings := gobreaker.Settings{
		Name:    "cart-cache",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrCacheMiss)
		},
	}

	return &BreakerCache{
		inner: inner,
		cb:    gobreaker.NewCircuitBreaker[[]domain.CartItem](settings),
	}
}

func (b *BreakerCache) Get(ctx context.Context, userID string) ([]domain.CartItem, error) {
	return b.cb.Execute(func() ([]domain.CartItem, error) {
		return b.inner.Get(ctx, userID)
	})
}

func (b *BreakerCache) Set(ctx context.Context, userID string, items []domain.CartItem) error {
	_, err := b.cb.Execute(func() ([]domain.CartItem, error) {
		return nil, b.inner.Set(ctx, userID, items)
	})
	return err
}

func (b *BreakerCache) Delete(ctx context.Context, userID string) error {
	_, err := b.cb.Execute(func() ([]domain.CartItem, error) {
		return nil, b.inner.Delete(ctx, userID)
	})
	return err
}
