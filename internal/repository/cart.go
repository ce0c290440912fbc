package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderyanthar/cardz-galore-app-backend/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrCartLineNotFound = errors.New("cart line not found")

// CartLineRepository holds one document per (user, card, set) purchase
// intent.
type CartLineRepository interface {
	FindByKey(ctx context.Context, userID, cardID, setID primitive.ObjectID) (*domain.CartLine, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.CartLine, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.CartLine, error)
	Insert(ctx context.Context, line *domain.CartLine) (primitive.ObjectID, error)
	IncrementQuantity(ctx context.Context, id primitive.ObjectID, delta int) (int, error)
	SetQuantity(ctx context.Context, id primitive.ObjectID, quantity int) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type cartLineRepository struct {
	collection *mongo.Collection
}

func NewCartLineRepository(db *mongo.Database) CartLineRepository {
	return &cartLineRepository{
		collection: db.Collection("carts"),
	}
}

func (c cartLineRepository) FindByKey(ctx context.Context, userID, cardID, setID primitive.ObjectID) (*domain.CartLine, error) {
	filter := bson.M{"userId": userID, "cardId": cardID, "setId": setID}

	var line domain.CartLine
	err := c.collection.FindOne(ctx, filter).Decode(&line)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCartLineNotFound
		}
		return nil, fmt.Errorf("failed to find cart line: %w", err)
	}
	return &line, nil
}

func (c cartLineRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.CartLine, error) {
	var line domain.CartLine
	err := c.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&line)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCartLineNotFound
		}
		return nil, fmt.Errorf("failed to find cart line: %w", err)
	}
	return &line, nil
}

// FindByIDs returns the lines that still exist, in _id order. Ids with no
// matching document are silently skipped; a user's stale reference must not
// break a cart read.
func (c cartLineRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.CartLine, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	filter := bson.M{"_id": bson.M{"$in": ids}}
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})

	cursor, err := c.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find cart lines: %w", err)
	}
	defer cursor.Close(ctx)

	var lines []domain.CartLine
	if err := cursor.All(ctx, &lines); err != nil {
		return nil, fmt.Errorf("failed to decode cart lines: %w", err)
	}
	return lines, nil
}

func (c cartLineRepository) Insert(ctx context.Context, line *domain.CartLine) (primitive.ObjectID, error) {
	if line.Quantity == 0 {
		line.Quantity = 1
	}

	result, err := c.collection.InsertOne(ctx, line)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to insert cart line: %w", err)
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

// IncrementQuantity adds delta to the line's quantity and returns the
// resulting total.
func (c cartLineRepository) IncrementQuantity(ctx context.Context, id primitive.ObjectID, delta int) (int, error) {
	filter := bson.M{"_id": id}
	update := bson.M{"$inc": bson.M{"quantity": delta}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var line domain.CartLine
	err := c.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&line)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, ErrCartLineNotFound
		}
		return 0, fmt.Errorf("failed to increment cart line quantity: %w", err)
	}
	return line.Quantity, nil
}

func (c cartLineRepository) SetQuantity(ctx context.Context, id primitive.ObjectID, quantity int) error {
	filter := bson.M{"_id": id}
	update := bson.M{"$set": bson.M{"quantity": quantity}}

	result, err := c.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to set cart line quantity: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrCartLineNotFound
	}
	return nil
}

func (c cartLineRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := c.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete cart line: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrCartLineNotFound
	}
	return nil
}

func (c *cartLineRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "userId", Value: 1},
				{Key: "cardId", Value: 1},
				{Key: "setId", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := c.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}
