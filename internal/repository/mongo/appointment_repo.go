package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/Barry4747/ZnanyByk-sub001/internal/domain"
	"github.com/Barry4747/ZnanyByk-sub001/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const appointmentCollectionName = "appointments"

// mongoAppointmentRepository implements repository.AppointmentRepository
type mongoAppointmentRepository struct {
	collection *mongo.Collection
}

// NewMongoAppointmentRepository creates a new Appointment repository backed by MongoDB.
func NewMongoAppointmentRepository(db *mongo.Database) repository.AppointmentRepository {
	return &mongoAppointmentRepository{
		collection: db.Collection(appointmentCollectionName),
	}
}

// Create inserts a new appointment. Nothing checks whether the slot is already taken.
func (r *mongoAppointmentRepository) Create(ctx context.Context, appointment *domain.Appointment) (primitive.ObjectID, error) {
	if appointment.TrainerID == primitive.NilObjectID || appointment.ClientID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("appointment requires trainerId and clientId")
	}

	appointment.ID = primitive.NewObjectID()
	appointment.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, appointment)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves an appointment by its ID.
func (r *mongoAppointmentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Appointment, error) {
	var appointment domain.Appointment
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&appointment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &appointment, nil
}

// GetByTrainerID retrieves all appointments booked with a trainer.
func (r *mongoAppointmentRepository) GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Appointment, error) {
	return r.find(ctx, bson.M{"trainerId": trainerID})
}

// GetByClientID retrieves all appointments booked by a client.
func (r *mongoAppointmentRepository) GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.Appointment, error) {
	return r.find(ctx, bson.M{"clientId": clientID})
}

func (r *mongoAppointmentRepository) find(ctx context.Context, filter bson.M) ([]domain.Appointment, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	appointments := []domain.Appointment{}
	if err = cursor.All(ctx, &appointments); err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *mongoAppointmentRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureAppointmentIndexes creates necessary indexes for the appointments collection.
func EnsureAppointmentIndexes(ctx context.Context, collection *mongo.Collection) error {
	return createIndexes(ctx, collection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "trainerId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "clientId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index(),
		},
	})
}
