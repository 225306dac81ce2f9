package repository

import (
	"context"
	"time"

	"github.com/notifymed/notifymed-service/internal/domain"
	"github.com/notifymed/notifymed-service/internal/shared/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const schedulesCollection = "medication_schedules"

// ScheduleRepository handles medication schedule data operations
type ScheduleRepository struct {
	client *mongodb.MongoClient
}

// NewScheduleRepository creates a new schedule repository
func NewScheduleRepository(client *mongodb.MongoClient) *ScheduleRepository {
	return &ScheduleRepository{client: client}
}

// EnsureIndexes creates necessary indexes for sweep and lookup queries
func (r *ScheduleRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "userId", Value: 1},
			},
			Options: options.Index().SetName("user_idx"),
		},
		{
			Keys: bson.D{
				{Key: "medicationId", Value: 1},
			},
			Options: options.Index().SetName("medication_idx"),
		},
	}

	return r.client.CreateIndexes(ctx, schedulesCollection, indexes)
}

// Create creates a new schedule
func (r *ScheduleRepository) Create(ctx context.Context, schedule *domain.MedicationSchedule) error {
	schedule.ID = primitive.NewObjectID()
	schedule.Version = 1
	schedule.CreatedAt = time.Now()
	schedule.UpdatedAt = time.Now()
	schedule.LastReminderSentAt = nil

	_, err := r.client.Collection(schedulesCollection).InsertOne(ctx, schedule)
	return err
}

// FindByID finds a schedule by ID
func (r *ScheduleRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.MedicationSchedule, error) {
	var schedule domain.MedicationSchedule
	err := r.client.Collection(schedulesCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&schedule)
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

// ListActive lists all schedules, optionally scoped to one user, in a
// stable order for the sweep.
func (r *ScheduleRepository) ListActive(ctx context.Context, userID *primitive.ObjectID) ([]*domain.MedicationSchedule, error) {
	filter := bson.M{}
	if userID != nil {
		filter["userId"] = *userID
	}
	opts := options.Find().SetSort(bson.M{"createdAt": 1})

	cursor, err := r.client.Collection(schedulesCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var schedules []*domain.MedicationSchedule
	if err = cursor.All(ctx, &schedules); err != nil {
		return nil, err
	}

	return schedules, nil
}

// UpdateWindow updates a schedule's window bounds and frequency
func (r *ScheduleRepository) UpdateWindow(ctx context.Context, id primitive.ObjectID, start, end string, frequencyHours int) error {
	filter := bson.M{"_id": id}
	update := bson.M{
		"$set": bson.M{
			"logWindowStart":    start,
			"logWindowEnd":      end,
			"logFrequencyHours": frequencyHours,
			"updatedAt":         time.Now(),
		},
		"$inc": bson.M{"version": 1},
	}

	result, err := r.client.Collection(schedulesCollection).UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes a schedule
func (r *ScheduleRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.client.Collection(schedulesCollection).DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// ClaimReminder advances lastReminderSentAt from the value the sweep read
// to now, but only if no other sweep got there first. The compare-and-set
// makes overlapping sweeps claim each schedule at most once per cycle.
func (r *ScheduleRepository) ClaimReminder(ctx context.Context, id primitive.ObjectID, prevSentAt *time.Time, now time.Time) (bool, error) {
	filter := bson.M{"_id": id}
	if prevSentAt == nil {
		filter["lastReminderSentAt"] = nil
	} else {
		filter["lastReminderSentAt"] = *prevSentAt
	}

	update := bson.M{
		"$set": bson.M{
			"lastReminderSentAt": now,
			"updatedAt":          now,
		},
		"$inc": bson.M{"version": 1},
	}

	result, err := r.client.Collection(schedulesCollection).UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}

	return result.MatchedCount == 1, nil
}
