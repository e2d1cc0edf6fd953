package repository

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/vasapolrittideah/account-api/services/auth-service/internal/model"
)

// SecretRepository stores the one outstanding secret of each user.
// Lookups return a nil secret and a nil error when nothing matches.
type SecretRepository interface {
	// Put creates or replaces the secret owned by userID.
	Put(ctx context.Context, userID, value string, purpose model.SecretPurpose, expiresAt int64) error

	// GetByOwner retrieves the secret owned by userID.
	GetByOwner(ctx context.Context, userID string) (*model.Secret, error)

	// GetByValue retrieves a secret by its value.
	GetByValue(ctx context.Context, value string) (*model.Secret, error)

	// Remove deletes the secret owned by userID.
	Remove(ctx context.Context, userID string) error
}

const secretCollection = "secrets"

type secretMongoRepository struct {
	db *mongo.Database
}

// NewSecretMongoRepository creates a new MongoDB repository for secrets.
func NewSecretMongoRepository(
	ctx context.Context,
	logger *zerolog.Logger,
	db *mongo.Database,
) SecretRepository {
	collection := db.Collection(secretCollection)

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "secret", Value: 1}},
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create secret indexes")
	}

	return &secretMongoRepository{
		db: db,
	}
}

func (r *secretMongoRepository) Put(
	ctx context.Context,
	userID, value string,
	purpose model.SecretPurpose,
	expiresAt int64,
) error {
	objectID, err := ParseID(userID)
	if err != nil {
		return err
	}

	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"secret":     value,
			"purpose":    purpose,
			"expires_at": expiresAt,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"created_at": now,
		},
	}

	_, err = r.db.Collection(secretCollection).UpdateOne(
		ctx,
		bson.M{"_id": objectID},
		update,
		options.UpdateOne().SetUpsert(true),
	)
	return translateError(err)
}

func (r *secretMongoRepository) GetByOwner(ctx context.Context, userID string) (*model.Secret, error) {
	objectID, err := ParseID(userID)
	if err != nil {
		return nil, err
	}

	return r.findOne(ctx, bson.M{"_id": objectID})
}

func (r *secretMongoRepository) GetByValue(ctx context.Context, value string) (*model.Secret, error) {
	return r.findOne(ctx, bson.M{"secret": value})
}

func (r *secretMongoRepository) Remove(ctx context.Context, userID string) error {
	objectID, err := ParseID(userID)
	if err != nil {
		return err
	}

	_, err = r.db.Collection(secretCollection).DeleteOne(ctx, bson.M{"_id": objectID})
	return translateError(err)
}

func (r *secretMongoRepository) findOne(ctx context.Context, filter bson.M) (*model.Secret, error) {
	var secret model.Secret
	err := r.db.Collection(secretCollection).FindOne(ctx, filter).Decode(&secret)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, translateError(err)
	}

	return &secret, nil
}
