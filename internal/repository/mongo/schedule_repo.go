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

const scheduleCollectionName = "schedules"

type mongoScheduleRepository struct {
	collection *mongo.Collection
}

// NewMongoScheduleRepository creates a WeeklySchedule repository backed by MongoDB.
func NewMongoScheduleRepository(db *mongo.Database) repository.ScheduleRepository {
	return &mongoScheduleRepository{
		collection: db.Collection(scheduleCollectionName),
	}
}

func (r *mongoScheduleRepository) GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) (*domain.WeeklySchedule, error) {
	var schedule domain.WeeklySchedule
	err := r.collection.FindOne(ctx, bson.M{"trainerId": trainerID}).Decode(&schedule)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &schedule, nil
}

// Save replaces the trainer's schedule document with schedule, creating it if absent.
// Every weekday list is written, so nil lists are stored as empty arrays.
func (r *mongoScheduleRepository) Save(ctx context.Context, schedule *domain.WeeklySchedule) error {
	if schedule.TrainerID == primitive.NilObjectID {
		return errors.New("schedule requires trainerId")
	}
	schedule.UpdatedAt = time.Now().UTC()

	doc := bson.D{{Key: "trainerId", Value: schedule.TrainerID}}
	for _, d := range domain.Weekdays {
		doc = append(doc, bson.E{Key: d.String(), Value: schedule.Slots(d)})
	}
	doc = append(doc, bson.E{Key: "updatedAt", Value: schedule.UpdatedAt})

	_, err := r.collection.ReplaceOne(ctx, bson.M{"trainerId": schedule.TrainerID}, doc, options.Replace().SetUpsert(true))
	return err
}

// EnsureScheduleIndexes creates necessary indexes for the schedules collection.
func EnsureScheduleIndexes(ctx context.Context, collection *mongo.Collection) error {
	return createIndexes(ctx, collection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "trainerId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
}
