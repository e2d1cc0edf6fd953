package repository

import (
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/vasapolrittideah/account-api/shared/apperror"
)

// ErrInvalidID is returned when an id is not a valid ObjectID.
var ErrInvalidID = apperror.BadRequest("Invalid ID")

var duplicateKeyIndex = regexp.MustCompile(`index: (\w+?)_-?1`)

// ParseID converts a hex string into an ObjectID.
func ParseID(id string) (bson.ObjectID, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.NilObjectID, ErrInvalidID
	}
	return objectID, nil
}

// translateError turns driver errors the caller can act on into bad requests.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	if mongo.IsDuplicateKeyError(err) {
		field := "value"
		if m := duplicateKeyIndex.FindStringSubmatch(err.Error()); m != nil {
			field = m[1]
		}
		return apperror.Wrap(apperror.KindBadRequest, apperror.CodeBadRequest, fmt.Sprintf("%s is already taken", field), err)
	}

	if errors.Is(err, bson.ErrInvalidHex) {
		return ErrInvalidID
	}

	return err
}
