package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

// CartLine is one row of purchase intent: a user wants Quantity copies of a
// specific set of a specific card. Lines are keyed by (userId, cardId, setId).
type CartLine struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"cartId"`
	UserID   primitive.ObjectID `bson:"userId" json:"userId"`
	CardID   primitive.ObjectID `bson:"cardId" json:"cardId"`
	SetID    primitive.ObjectID `bson:"setId" json:"setId"`
	Quantity int                `bson:"quantity" json:"quantity"`
}

// CartItem is a cart line expanded with its card document, the shape the
// cart endpoints return.
type CartItem struct {
	CartID   primitive.ObjectID `json:"cartId"`
	Card     *Card              `json:"cardId"`
	SetID    primitive.ObjectID `json:"setId"`
	Quantity int                `json:"quantity"`
}
