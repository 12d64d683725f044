package profiles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestIDFilter(t *testing.T) {
	t.Run("Hex ids match both representations", func(t *testing.T) {
		objectID := primitive.NewObjectID()
		filter := idFilter(objectID.Hex())
		assert.Equal(t, bson.M{"_id": bson.M{"$in": bson.A{objectID, objectID.Hex()}}}, filter)
	})

	t.Run("Other ids match as strings", func(t *testing.T) {
		assert.Equal(t, bson.M{"_id": "doctor-1"}, idFilter("doctor-1"))
	})
}
