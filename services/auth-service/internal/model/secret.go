package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// SecretPurpose tells which flow a secret was issued for.
type SecretPurpose string

const (
	SecretPurposeEmailVerification SecretPurpose = "email_verification"
	SecretPurposePasswordReset     SecretPurpose = "password_reset"
)

// Secret is the single outstanding one-time secret of a user. Its ID is the
// owner's user ID, so issuing a new secret replaces the previous one.
// ExpiresAt is stored in epoch milliseconds.
type Secret struct {
	ID        bson.ObjectID `bson:"_id"`
	Secret    string        `bson:"secret"`
	Purpose   SecretPurpose `bson:"purpose"`
	ExpiresAt int64         `bson:"expires_at"`
	CreatedAt time.Time     `bson:"created_at"`
	UpdatedAt time.Time     `bson:"updated_at"`
}

// ExpiresAtTime returns the expiry as a time.Time.
func (s *Secret) ExpiresAtTime() time.Time {
	return time.UnixMilli(s.ExpiresAt)
}

// Expired reports whether the secret expired strictly before now.
func (s *Secret) Expired(now time.Time) bool {
	return s.ExpiresAt < now.UnixMilli()
}
