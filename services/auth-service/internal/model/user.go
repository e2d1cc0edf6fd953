package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User represents an account in the directory.
type User struct {
	ID              bson.ObjectID  `bson:"_id,omitempty"     json:"_id"`
	FirstName       string         `bson:"first_name"        json:"firstName"`
	LastName        string         `bson:"last_name"         json:"lastName"`
	Email           string         `bson:"email"             json:"email"`
	Mobile          string         `bson:"mobile"            json:"mobile"`
	NIC             string         `bson:"nic"               json:"nic"`
	Username        string         `bson:"username"          json:"username"`
	PasswordHash    string         `bson:"password_hash"     json:"-"`
	Sponsor         *bson.ObjectID `bson:"sponsor,omitempty" json:"sponsor,omitempty"`
	ProfilePic      string         `bson:"profile_pic"       json:"profilePic,omitempty"`
	IsEmailVerified bool           `bson:"is_email_verified" json:"isEmailVerified"`
	Role            Role           `bson:"role"              json:"role"`
	CreatedAt       time.Time      `bson:"created_at"        json:"createdAt"`
	UpdatedAt       time.Time      `bson:"updated_at"        json:"updatedAt"`
}
