package appointments

import (
	"context"
	"healnexus-service/internal/app/contracts"
	"healnexus-service/internal/app/models"
	"healnexus-service/internal/pkg/constvars"
	"healnexus-service/internal/pkg/exceptions"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AppointmentMongoRepository struct {
	Collection *mongo.Collection
}

func NewAppointmentMongoRepository(db *mongo.Client, dbName string) contracts.AppointmentRepository {
	return &AppointmentMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionAppointments),
	}
}

func EnsureAppointmentIndexes(ctx context.Context, db *mongo.Client, dbName string) error {
	_, err := db.Database(dbName).Collection(constvars.MongoCollectionAppointments).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "patientID", Value: 1}, {Key: "cancelled", Value: 1}}},
		{Keys: bson.D{{Key: "doctorID", Value: 1}, {Key: "cancelled", Value: 1}}},
		{Keys: bson.D{{Key: "paid", Value: 1}, {Key: "cancelled", Value: 1}, {Key: "createdAt", Value: 1}}},
	})
	return err
}

func (repo *AppointmentMongoRepository) CreateAppointment(ctx context.Context, appointment *models.Appointment) error {
	_, err := repo.Collection.InsertOne(ctx, appointment)
	if err != nil {
		return exceptions.ErrMongoDBInsertDocument(err)
	}
	return nil
}

func (repo *AppointmentMongoRepository) FindByID(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	var appointment models.Appointment
	err := repo.Collection.FindOne(ctx, bson.M{"_id": appointmentID}).Decode(&appointment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &appointment, nil
}

func (repo *AppointmentMongoRepository) FindActiveByPatientID(ctx context.Context, patientID string) ([]models.Appointment, error) {
	return repo.find(ctx, bson.M{"patientID": patientID, "cancelled": false}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
}

func (repo *AppointmentMongoRepository) FindActiveByDoctorID(ctx context.Context, doctorID string) ([]models.Appointment, error) {
	return repo.find(ctx, bson.M{"doctorID": doctorID, "cancelled": false}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
}

func (repo *AppointmentMongoRepository) FindHeldBefore(ctx context.Context, before time.Time, limit int) ([]models.Appointment, error) {
	filter := bson.M{
		"paid":      false,
		"cancelled": false,
		"createdAt": bson.M{"$lt": before},
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return repo.find(ctx, filter, opts)
}

func (repo *AppointmentMongoRepository) MarkCancelled(ctx context.Context, appointmentID string, afterPayment bool, now time.Time) (bool, error) {
	set := bson.M{"cancelled": true, "updatedAt": now}
	if afterPayment {
		set["cancelledAfterPayment"] = true
	}
	return repo.updateOne(ctx, bson.M{"_id": appointmentID, "cancelled": false}, set)
}

func (repo *AppointmentMongoRepository) MarkPaid(ctx context.Context, appointmentID string, now time.Time) (bool, error) {
	return repo.updateOne(ctx,
		bson.M{"_id": appointmentID, "cancelled": false, "paid": false},
		bson.M{"paid": true, "updatedAt": now},
	)
}

func (repo *AppointmentMongoRepository) MarkCompleted(ctx context.Context, appointmentID string, now time.Time) (bool, error) {
	return repo.updateOne(ctx,
		bson.M{"_id": appointmentID, "cancelled": false},
		bson.M{"completed": true, "updatedAt": now},
	)
}

func (repo *AppointmentMongoRepository) updateOne(ctx context.Context, filter, set bson.M) (bool, error) {
	result, err := repo.Collection.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return false, exceptions.ErrMongoDBUpdateDocument(err)
	}
	return result.MatchedCount == 1, nil
}

func (repo *AppointmentMongoRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Appointment, error) {
	cursor, err := repo.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}

	appointments := make([]models.Appointment, 0)
	err = cursor.All(ctx, &appointments)
	if err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return appointments, nil
}
