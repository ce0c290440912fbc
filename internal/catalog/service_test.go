package catalog

import (
	"context"
	"math/rand"
	"testing"

	"github.com/alexanderyanthar/cardz-galore-app-backend/internal/domain"
	"github.com/alexanderyanthar/cardz-galore-app-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type mockCatalogRepo struct {
	cards []domain.Card

	listedPage  int64
	listedLimit int64
}

func newMockCatalogRepo(n int) *mockCatalogRepo {
	repo := &mockCatalogRepo{}
	for i := 0; i < n; i++ {
		repo.cards = append(repo.cards, domain.Card{
			ID:   primitive.NewObjectID(),
			Name: "Card",
			Sets: []domain.Set{
				{ID: primitive.NewObjectID(), Quantity: 1},
				{ID: primitive.NewObjectID(), Quantity: 2},
			},
		})
	}
	return repo
}

func (m *mockCatalogRepo) ListCards(_ context.Context, page, limit int64) ([]domain.Card, error) {
	m.listedPage = page
	m.listedLimit = limit

	skip := (page - 1) * limit
	if skip >= int64(len(m.cards)) {
		return nil, nil
	}
	end := skip + limit
	if end > int64(len(m.cards)) {
		end = int64(len(m.cards))
	}
	return m.cards[skip:end], nil
}

func (m *mockCatalogRepo) CountCards(context.Context) (int64, error) {
	return int64(len(m.cards)), nil
}

func (m *mockCatalogRepo) CardAt(_ context.Context, offset int64) (*domain.Card, error) {
	if offset < 0 || offset >= int64(len(m.cards)) {
		return nil, repository.ErrCardNotFound
	}
	card := m.cards[offset]
	return &card, nil
}

func (m *mockCatalogRepo) GetCard(context.Context, primitive.ObjectID) (*domain.Card, error) {
	return nil, repository.ErrCardNotFound
}

func (m *mockCatalogRepo) SearchCards(context.Context, string) ([]domain.Card, error) {
	return m.cards, nil
}

func (m *mockCatalogRepo) SuggestCardNames(context.Context, string) ([]string, error) {
	return []string{"Card"}, nil
}

func (m *mockCatalogRepo) AdjustSetQuantity(context.Context, string, primitive.ObjectID, int) error {
	return nil
}

func (m *mockCatalogRepo) DecrementSetQuantity(context.Context, primitive.ObjectID, primitive.ObjectID, int) (int, error) {
	return 0, nil
}

func TestListCards_Defaults(t *testing.T) {
	repo := newMockCatalogRepo(30)
	sut := NewService(repo, rand.New(rand.NewSource(1)))

	cards, err := sut.ListCards(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Len(t, cards, 10)
	assert.Equal(t, int64(1), repo.listedPage)
	assert.Equal(t, int64(10), repo.listedLimit)
}

func TestListCards_PagesAreDisjoint(t *testing.T) {
	repo := newMockCatalogRepo(25)
	sut := NewService(repo, rand.New(rand.NewSource(1)))

	seen := make(map[primitive.ObjectID]bool)
	for page := int64(1); page <= 3; page++ {
		cards, err := sut.ListCards(context.Background(), page, 10)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(cards), 10)
		for _, card := range cards {
			assert.False(t, seen[card.ID], "card %s appeared on two pages", card.ID.Hex())
			seen[card.ID] = true
		}
	}
	assert.Len(t, seen, 25)
}

func TestFeaturedCards_EmptyCatalog(t *testing.T) {
	sut := NewService(newMockCatalogRepo(0), rand.New(rand.NewSource(1)))

	_, err := sut.FeaturedCards(context.Background())
	assert.ErrorIs(t, err, ErrEmptyCatalog)
}

func TestFeaturedCards_FillsAllSlots(t *testing.T) {
	repo := newMockCatalogRepo(3)
	sut := NewService(repo, rand.New(rand.NewSource(42)))

	featured, err := sut.FeaturedCards(context.Background())
	require.NoError(t, err)
	require.Len(t, featured, 10)

	// Three cards filling ten slots: repeats are expected because each
	// slot is an independent draw.
	for _, fc := range featured {
		assert.False(t, fc.SelectedSet.ID.IsZero(), "each slot must carry a selected set")
		assert.Contains(t, []primitive.ObjectID{fc.Sets[0].ID, fc.Sets[1].ID}, fc.SelectedSet.ID)
	}
}

func TestFeaturedCards_DeterministicUnderFixedSeed(t *testing.T) {
	repo := newMockCatalogRepo(5)

	first, err := NewService(repo, rand.New(rand.NewSource(7))).FeaturedCards(context.Background())
	require.NoError(t, err)
	second, err := NewService(repo, rand.New(rand.NewSource(7))).FeaturedCards(context.Background())
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.Equal(t, first[i].SelectedSet.ID, second[i].SelectedSet.ID)
	}
}
