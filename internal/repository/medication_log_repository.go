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

const medicationLogsCollection = "medication_logs"

// MedicationLogRepository handles dose-taken log operations
type MedicationLogRepository struct {
	client *mongodb.MongoClient
}

// NewMedicationLogRepository creates a new medication log repository
func NewMedicationLogRepository(client *mongodb.MongoClient) *MedicationLogRepository {
	return &MedicationLogRepository{client: client}
}

// EnsureIndexes creates necessary indexes for latest-log lookups
func (r *MedicationLogRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "medicationId", Value: 1},
				{Key: "dateTaken", Value: -1},
			},
			Options: options.Index().SetName("medication_taken_idx"),
		},
	}

	return r.client.CreateIndexes(ctx, medicationLogsCollection, indexes)
}

// Create records a dose-taken event. Logs are immutable once written.
func (r *MedicationLogRepository) Create(ctx context.Context, log *domain.MedicationLog) error {
	log.ID = primitive.NewObjectID()
	log.CreatedAt = time.Now()
	if log.DateTaken.IsZero() {
		log.DateTaken = time.Now()
	}

	_, err := r.client.Collection(medicationLogsCollection).InsertOne(ctx, log)
	return err
}

// ListByMedication lists a medication's logs, most recent first
func (r *MedicationLogRepository) ListByMedication(ctx context.Context, medicationID primitive.ObjectID) ([]*domain.MedicationLog, error) {
	filter := bson.M{"medicationId": medicationID}
	opts := options.Find().SetSort(bson.M{"dateTaken": -1})

	cursor, err := r.client.Collection(medicationLogsCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var logs []*domain.MedicationLog
	if err = cursor.All(ctx, &logs); err != nil {
		return nil, err
	}

	return logs, nil
}

// LatestByMedication returns the most recent log for a medication, or
// (nil, nil) when the medication has never been logged.
func (r *MedicationLogRepository) LatestByMedication(ctx context.Context, medicationID primitive.ObjectID) (*domain.MedicationLog, error) {
	filter := bson.M{"medicationId": medicationID}
	opts := options.FindOne().SetSort(bson.M{"dateTaken": -1})

	var log domain.MedicationLog
	err := r.client.Collection(medicationLogsCollection).FindOne(ctx, filter, opts).Decode(&log)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &log, nil
}
