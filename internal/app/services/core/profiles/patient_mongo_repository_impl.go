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

type PatientMongoRepository struct {
	Collection *mongo.Collection
}

func NewPatientMongoRepository(db *mongo.Client, dbName string) contracts.PatientProfileRepository {
	return &PatientMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionPatientProfiles),
	}
}

func (repo *PatientMongoRepository) FindByID(ctx context.Context, patientID string) (*models.PatientProfile, error) {
	return repo.findOne(ctx, idFilter(patientID))
}

func (repo *PatientMongoRepository) FindByUserID(ctx context.Context, userID string) (*models.PatientProfile, error) {
	return repo.findOne(ctx, bson.M{"userID": userID})
}

func (repo *PatientMongoRepository) findOne(ctx context.Context, filter bson.M) (*models.PatientProfile, error) {
	var patient models.PatientProfile
	err := repo.Collection.FindOne(ctx, filter).Decode(&patient)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &patient, nil
}
