package slots

import (
	"context"
	"healnexus-service/internal/app/contracts"
	"healnexus-service/internal/app/models"
	"healnexus-service/internal/pkg/constvars"
	"healnexus-service/internal/pkg/exceptions"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// SlotMongoRepository keeps one document per occupied slot. The _id is the
// (doctor, date, time) key, so a second insert for the same slot is rejected
// by the primary key index.
type SlotMongoRepository struct {
	Collection *mongo.Collection
}

func NewSlotMongoRepository(db *mongo.Client, dbName string) contracts.SlotCalendarRepository {
	return &SlotMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionSlotReservations),
	}
}

func EnsureSlotIndexes(ctx context.Context, db *mongo.Client, dbName string) error {
	_, err := db.Database(dbName).Collection(constvars.MongoCollectionSlotReservations).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "doctorID", Value: 1}, {Key: "slotDate", Value: 1}},
	})
	return err
}

func (repo *SlotMongoRepository) Reserve(ctx context.Context, reservation *models.SlotReservation) (bool, error) {
	reservation.ID = models.SlotReservationID(reservation.DoctorID, reservation.SlotDate, reservation.SlotTime)
	_, err := repo.Collection.InsertOne(ctx, reservation)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, exceptions.ErrMongoDBInsertDocument(err)
	}
	return true, nil
}

func (repo *SlotMongoRepository) FindSlot(ctx context.Context, doctorID, slotDate, slotTime string) (*models.SlotReservation, error) {
	var reservation models.SlotReservation
	err := repo.Collection.FindOne(ctx, bson.M{"_id": models.SlotReservationID(doctorID, slotDate, slotTime)}).Decode(&reservation)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &reservation, nil
}

func (repo *SlotMongoRepository) FindByDoctorID(ctx context.Context, doctorID string) ([]models.SlotReservation, error) {
	cursor, err := repo.Collection.Find(ctx, bson.M{"doctorID": doctorID})
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}

	reservations := make([]models.SlotReservation, 0)
	err = cursor.All(ctx, &reservations)
	if err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return reservations, nil
}

func (repo *SlotMongoRepository) ConfirmSlot(ctx context.Context, doctorID, slotDate, slotTime, appointmentID string, now time.Time) (bool, error) {
	filter := bson.M{
		"_id":           models.SlotReservationID(doctorID, slotDate, slotTime),
		"appointmentID": appointmentID,
		"status":        constvars.SlotStatusHeld,
	}
	result, err := repo.Collection.UpdateOne(ctx, filter, bson.M{"$set": bson.M{
		"status":    constvars.SlotStatusConfirmed,
		"updatedAt": now,
	}})
	if err != nil {
		return false, exceptions.ErrMongoDBUpdateDocument(err)
	}
	return result.MatchedCount == 1, nil
}

func (repo *SlotMongoRepository) ReleaseSlot(ctx context.Context, doctorID, slotDate, slotTime, appointmentID string) (bool, error) {
	filter := bson.M{
		"_id":           models.SlotReservationID(doctorID, slotDate, slotTime),
		"appointmentID": appointmentID,
	}
	result, err := repo.Collection.DeleteOne(ctx, filter)
	if err != nil {
		return false, exceptions.ErrMongoDBDeleteDocument(err)
	}
	return result.DeletedCount == 1, nil
}
