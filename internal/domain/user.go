package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User holds credentials and the list of cart line ids owned by the user.
// PasswordHash is never serialized to JSON.
type User struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Username     string               `bson:"username" json:"username"`
	PasswordHash string               `bson:"passwordHash" json:"-"`
	Role         string               `bson:"role" json:"role"`
	Cart         []primitive.ObjectID `bson:"cart" json:"cart"`
}

// Principal is the minimal identity stored server-side for a session.
// It deliberately carries no credential material.
type Principal struct {
	UserID primitive.ObjectID `json:"userId"`
	Role   string             `json:"role"`
}
