package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/alexanderyanthar/cardz-galore-app-backend/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrCardNotFound      = errors.New("card not found")
	ErrSetNotFound       = errors.New("set not found in card")
	ErrInsufficientStock = errors.New("insufficient stock")
)

const suggestionLimit = 10

// CatalogRepository holds the card documents with their embedded sets.
type CatalogRepository interface {
	ListCards(ctx context.Context, page, limit int64) ([]domain.Card, error)
	CountCards(ctx context.Context) (int64, error)
	CardAt(ctx context.Context, offset int64) (*domain.Card, error)
	GetCard(ctx context.Context, id primitive.ObjectID) (*domain.Card, error)
	SearchCards(ctx context.Context, query string) ([]domain.Card, error)
	SuggestCardNames(ctx context.Context, query string) ([]string, error)
	AdjustSetQuantity(ctx context.Context, cardName string, setID primitive.ObjectID, newQuantity int) error
	DecrementSetQuantity(ctx context.Context, cardID, setID primitive.ObjectID, delta int) (int, error)
}

type catalogRepository struct {
	collection *mongo.Collection
}

func NewCatalogRepository(db *mongo.Database) CatalogRepository {
	return &catalogRepository{
		collection: db.Collection("cards"),
	}
}

// ListCards pages through the catalog sorted by _id so repeated pages over a
// static catalog never overlap.
func (c catalogRepository) ListCards(ctx context.Context, page, limit int64) ([]domain.Card, error) {
	skip := (page - 1) * limit

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := c.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	defer cursor.Close(ctx)

	var cards []domain.Card
	if err := cursor.All(ctx, &cards); err != nil {
		return nil, fmt.Errorf("failed to decode cards: %w", err)
	}
	return cards, nil
}

func (c catalogRepository) CountCards(ctx context.Context) (int64, error) {
	count, err := c.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count cards: %w", err)
	}
	return count, nil
}

// CardAt returns the card at the given offset in _id order.
func (c catalogRepository) CardAt(ctx context.Context, offset int64) (*domain.Card, error) {
	opts := options.FindOne().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(offset)

	var card domain.Card
	err := c.collection.FindOne(ctx, bson.M{}, opts).Decode(&card)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCardNotFound
		}
		return nil, fmt.Errorf("failed to get card at offset %d: %w", offset, err)
	}
	return &card, nil
}

func (c catalogRepository) GetCard(ctx context.Context, id primitive.ObjectID) (*domain.Card, error) {
	var card domain.Card
	err := c.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&card)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCardNotFound
		}
		return nil, fmt.Errorf("failed to get card: %w", err)
	}
	return &card, nil
}

// SearchCards matches the query as a case-insensitive substring of the name.
func (c catalogRepository) SearchCards(ctx context.Context, query string) ([]domain.Card, error) {
	filter := bson.M{"name": primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}}

	cursor, err := c.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search cards: %w", err)
	}
	defer cursor.Close(ctx)

	var cards []domain.Card
	if err := cursor.All(ctx, &cards); err != nil {
		return nil, fmt.Errorf("failed to decode cards: %w", err)
	}
	return cards, nil
}

// SuggestCardNames matches the query as a case-insensitive prefix and
// returns name strings only, capped at 10.
func (c catalogRepository) SuggestCardNames(ctx context.Context, query string) ([]string, error) {
	filter := bson.M{"name": primitive.Regex{Pattern: "^" + regexp.QuoteMeta(query), Options: "i"}}
	opts := options.Find().
		SetProjection(bson.M{"name": 1}).
		SetLimit(suggestionLimit)

	cursor, err := c.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch suggestions: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []struct {
		Name string `bson:"name"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode suggestions: %w", err)
	}

	names := make([]string, len(docs))
	for i, d := range docs {
		names[i] = d.Name
	}
	return names, nil
}

// AdjustSetQuantity overwrites a set's stock, matching the card by name and
// the set by id.
func (c catalogRepository) AdjustSetQuantity(ctx context.Context, cardName string, setID primitive.ObjectID, newQuantity int) error {
	filter := bson.M{"name": cardName, "sets._id": setID}
	update := bson.M{"$set": bson.M{"sets.$.quantity": newQuantity}}

	result, err := c.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to adjust set quantity: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrSetNotFound
	}
	return nil
}

// DecrementSetQuantity subtracts delta from a set's stock. Stock never goes
// negative: an over-large delta stores zero and reports ErrInsufficientStock.
// A negative delta restocks. Returns the stored quantity.
func (c catalogRepository) DecrementSetQuantity(ctx context.Context, cardID, setID primitive.ObjectID, delta int) (int, error) {
	card, err := c.GetCard(ctx, cardID)
	if err != nil {
		return 0, err
	}

	set := card.SetByID(setID)
	if set == nil {
		return 0, ErrSetNotFound
	}

	newQuantity := set.Quantity - delta
	clamped := false
	if newQuantity < 0 {
		newQuantity = 0
		clamped = true
	}

	filter := bson.M{"_id": cardID}
	update := bson.M{"$set": bson.M{"sets.$[elem].quantity": newQuantity}}
	arrayFilters := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{
			bson.M{"elem._id": setID},
		},
	})

	if _, err := c.collection.UpdateOne(ctx, filter, update, arrayFilters); err != nil {
		return 0, fmt.Errorf("failed to decrement set quantity: %w", err)
	}

	if clamped {
		return newQuantity, ErrInsufficientStock
	}
	return newQuantity, nil
}

func (c *catalogRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "name", Value: 1}},
		},
	}

	_, err := c.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}
