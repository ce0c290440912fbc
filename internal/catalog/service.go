package catalog

import (
	"context"
	"errors"
	"math/rand"
	"sync"

	"github.com/alexanderyanthar/cardz-galore-app-backend/internal/domain"
	"github.com/alexanderyanthar/cardz-galore-app-backend/internal/repository"
)

var ErrEmptyCatalog = errors.New("no cards found")

const (
	defaultPage  = 1
	defaultLimit = 10

	// featuredCount is how many slots the featured section fills.
	featuredCount = 10
)

type Service struct {
	repo repository.CatalogRepository

	mu  sync.Mutex
	rng *rand.Rand
}

// NewService builds a catalog service. The random source drives featured
// sampling and is injected so tests can fix the seed.
func NewService(repo repository.CatalogRepository, rng *rand.Rand) *Service {
	return &Service{
		repo: repo,
		rng:  rng,
	}
}

func (s *Service) ListCards(ctx context.Context, page, limit int64) ([]domain.Card, error) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	return s.repo.ListCards(ctx, page, limit)
}

// FeaturedCards draws featuredCount cards, each by an independent uniform
// offset into the catalog, so the same card can fill more than one slot.
// Each drawn card gets one of its sets selected at random.
func (s *Service) FeaturedCards(ctx context.Context) ([]domain.FeaturedCard, error) {
	total, err := s.repo.CountCards(ctx)
	if err != nil {
		return nil, err
	}
	if total <= 0 {
		return nil, ErrEmptyCatalog
	}

	featured := make([]domain.FeaturedCard, 0, featuredCount)
	for i := 0; i < featuredCount; i++ {
		card, err := s.repo.CardAt(ctx, s.randInt63n(total))
		if err != nil {
			return nil, err
		}

		fc := domain.FeaturedCard{Card: *card}
		if len(card.Sets) > 0 {
			fc.SelectedSet = card.Sets[s.randIntn(len(card.Sets))]
		}
		featured = append(featured, fc)
	}

	return featured, nil
}

// *rand.Rand is not safe for concurrent use, so draws go through the lock.
func (s *Service) randInt63n(n int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Int63n(n)
}

func (s *Service) randIntn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

func (s *Service) SearchCards(ctx context.Context, query string) ([]domain.Card, error) {
	return s.repo.SearchCards(ctx, query)
}

func (s *Service) SuggestCards(ctx context.Context, query string) ([]string, error) {
	return s.repo.SuggestCardNames(ctx, query)
}
