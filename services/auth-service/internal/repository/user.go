package repository

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/vasapolrittideah/account-api/services/auth-service/internal/model"
)

// UserRepository defines the interface for user-related database operations.
// Lookups return a nil user and a nil error when nothing matches.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByMobile(ctx context.Context, mobile string) (*model.User, error)
	GetUserByNIC(ctx context.Context, nic string) (*model.User, error)
	GetUserByUsernameOrEmail(ctx context.Context, identifier string) (*model.User, error)
	UpdateUser(ctx context.Context, id string, params UpdateUserParams) (*model.User, error)
}

// UpdateUserParams defines the optional parameters for updating a user.
// Only the fields that are not nil will be updated.
type UpdateUserParams struct {
	PasswordHash    *string
	IsEmailVerified *bool
}

// ErrNoUserFieldsToUpdate is returned by UpdateUser when params is empty.
var ErrNoUserFieldsToUpdate = errors.New("no user fields to update")

const userCollection = "users"

type userMongoRepository struct {
	db *mongo.Database
}

func NewUserMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) UserRepository {
	collection := db.Collection(userCollection)

	caseInsensitive := &options.Collation{Locale: "en", Strength: 2}
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true).SetCollation(caseInsensitive),
		},
		{
			Keys:    bson.D{{Key: "mobile", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "nic", Value: 1}},
			Options: options.Index().SetUnique(true).SetCollation(caseInsensitive),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create user indexes")
	}

	return &userMongoRepository{db: db}
}

func (r *userMongoRepository) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Role == "" {
		user.Role = model.RoleUser
	}

	result, err := r.db.Collection(userCollection).InsertOne(ctx, user)
	if err != nil {
		return nil, translateError(err)
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		user.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}

	return user, nil
}

func (r *userMongoRepository) GetUser(ctx context.Context, id string) (*model.User, error) {
	objectID, err := ParseID(id)
	if err != nil {
		return nil, err
	}

	return r.findOne(ctx, bson.M{"_id": objectID})
}

func (r *userMongoRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *userMongoRepository) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"username": equalFoldRegex(username)})
}

func (r *userMongoRepository) GetUserByMobile(ctx context.Context, mobile string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"mobile": mobile})
}

func (r *userMongoRepository) GetUserByNIC(ctx context.Context, nic string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"nic": equalFoldRegex(nic)})
}

func (r *userMongoRepository) GetUserByUsernameOrEmail(ctx context.Context, identifier string) (*model.User, error) {
	return r.findOne(ctx, usernameOrEmailFilter(identifier))
}

func (r *userMongoRepository) UpdateUser(
	ctx context.Context,
	id string,
	params UpdateUserParams,
) (*model.User, error) {
	objectID, err := ParseID(id)
	if err != nil {
		return nil, err
	}

	updateMap := userUpdateSet(params)
	if len(updateMap) == 0 {
		return nil, ErrNoUserFieldsToUpdate
	}

	updateMap["updated_at"] = time.Now()

	result := r.db.Collection(userCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": updateMap},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	return decodeUser(result)
}

func (r *userMongoRepository) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	return decodeUser(r.db.Collection(userCollection).FindOne(ctx, filter))
}

func decodeUser(result *mongo.SingleResult) (*model.User, error) {
	var user model.User
	if err := result.Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, translateError(err)
	}

	return &user, nil
}

func userUpdateSet(params UpdateUserParams) bson.M {
	updateMap := bson.M{}
	if params.PasswordHash != nil {
		updateMap["password_hash"] = *params.PasswordHash
	}
	if params.IsEmailVerified != nil {
		updateMap["is_email_verified"] = *params.IsEmailVerified
	}
	return updateMap
}

// equalFoldRegex matches s exactly, ignoring case.
func equalFoldRegex(s string) bson.Regex {
	return bson.Regex{Pattern: "^" + regexp.QuoteMeta(s) + "$", Options: "i"}
}

func usernameOrEmailFilter(identifier string) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"username": equalFoldRegex(identifier)},
		bson.M{"email": identifier},
	}}
}
