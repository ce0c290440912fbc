package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

// Set is one printing variant of a Card, embedded in its parent document.
// Set ids are only unique within their parent card, so a set is always
// addressed by the (cardID, setID) pair.
type Set struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name       string             `bson:"set_name" json:"set_name"`
	Code       string             `bson:"set_code" json:"set_code"`
	Rarity     string             `bson:"set_rarity" json:"set_rarity"`
	RarityCode string             `bson:"set_rarity_code" json:"set_rarity_code"`
	Price      string             `bson:"set_price" json:"set_price"`
	Quantity   int                `bson:"quantity" json:"quantity"`
}

type Card struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name      string             `bson:"name" json:"name"`
	Attribute string             `bson:"attribute,omitempty" json:"attribute,omitempty"`
	Level     int                `bson:"level,omitempty" json:"level,omitempty"`
	Atk       int                `bson:"atk,omitempty" json:"atk,omitempty"`
	Def       int                `bson:"def,omitempty" json:"def,omitempty"`
	// Quantity is a legacy top-level count kept for schema compatibility;
	// stock lives on the individual sets.
	Quantity int      `bson:"quantity" json:"quantity"`
	Sets     []Set    `bson:"sets" json:"sets"`
	Images   []string `bson:"images" json:"images"`
}

// SetByID returns the embedded set with the given id, or nil.
func (c *Card) SetByID(setID primitive.ObjectID) *Set {
	for i := range c.Sets {
		if c.Sets[i].ID == setID {
			return &c.Sets[i]
		}
	}
	return nil
}

// FeaturedCard is a card merged with one randomly selected set for the
// storefront's featured section.
type FeaturedCard struct {
	Card
	SelectedSet Set `json:"selectedSet"`
}
