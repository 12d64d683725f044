package profiles

import (
	"context"
	"healnexus-service/internal/app/contracts"
	"healnexus-service/internal/app/models"
	"healnexus-service/internal/pkg/constvars"
	"healnexus-service/internal/pkg/exceptions"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type DoctorMongoRepository struct {
	Collection *mongo.Collection
}

func NewDoctorMongoRepository(db *mongo.Client, dbName string) contracts.DoctorProfileRepository {
	return &DoctorMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionDoctorProfiles),
	}
}

func (repo *DoctorMongoRepository) FindByID(ctx context.Context, doctorID string) (*models.DoctorProfile, error) {
	return repo.findOne(ctx, idFilter(doctorID))
}

func (repo *DoctorMongoRepository) FindByUserID(ctx context.Context, userID string) (*models.DoctorProfile, error) {
	return repo.findOne(ctx, bson.M{"userID": userID})
}

func (repo *DoctorMongoRepository) findOne(ctx context.Context, filter bson.M) (*models.DoctorProfile, error) {
	var doctor models.DoctorProfile
	err := repo.Collection.FindOne(ctx, filter).Decode(&doctor)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &doctor, nil
}
