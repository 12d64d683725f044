package profiles

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// idFilter matches documents whose _id is either the raw string or the
// ObjectID it encodes, since profiles are written by other services.
func idFilter(id string) bson.M {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return bson.M{"_id": id}
	}
	return bson.M{"_id": bson.M{"$in": bson.A{objectID, id}}}
}
