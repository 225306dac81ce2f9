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

const medicationsCollection = "medications"

// MedicationRepository handles medication data operations
type MedicationRepository struct {
	client *mongodb.MongoClient
}

// NewMedicationRepository creates a new medication repository
func NewMedicationRepository(client *mongodb.MongoClient) *MedicationRepository {
	return &MedicationRepository{client: client}
}

// EnsureIndexes creates necessary indexes for medication lookups
func (r *MedicationRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "userId", Value: 1},
				{Key: "deletedAt", Value: 1},
			},
			Options: options.Index().SetName("user_deleted_idx"),
		},
	}

	return r.client.CreateIndexes(ctx, medicationsCollection, indexes)
}

// Create creates a new medication
func (r *MedicationRepository) Create(ctx context.Context, medication *domain.Medication) error {
	medication.ID = primitive.NewObjectID()
	medication.CreatedAt = time.Now()
	medication.UpdatedAt = time.Now()
	medication.DeletedAt = nil

	_, err := r.client.Collection(medicationsCollection).InsertOne(ctx, medication)
	return err
}

// FindByID finds a medication by ID, excluding soft-deleted rows
func (r *MedicationRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Medication, error) {
	var medication domain.Medication
	filter := bson.M{"_id": id, "deletedAt": nil}
	err := r.client.Collection(medicationsCollection).FindOne(ctx, filter).Decode(&medication)
	if err != nil {
		return nil, err
	}
	return &medication, nil
}

// ListByUser lists a user's medications, excluding soft-deleted rows
func (r *MedicationRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]*domain.Medication, error) {
	filter := bson.M{"userId": userID, "deletedAt": nil}
	opts := options.Find().SetSort(bson.M{"createdAt": 1})

	cursor, err := r.client.Collection(medicationsCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var medications []*domain.Medication
	if err = cursor.All(ctx, &medications); err != nil {
		return nil, err
	}

	return medications, nil
}

// UpdateName renames a medication
func (r *MedicationRepository) UpdateName(ctx context.Context, id primitive.ObjectID, name string) error {
	filter := bson.M{"_id": id, "deletedAt": nil}
	update := bson.M{
		"$set": bson.M{
			"name":      name,
			"updatedAt": time.Now(),
		},
	}

	result, err := r.client.Collection(medicationsCollection).UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SoftDelete marks a medication as deleted
func (r *MedicationRepository) SoftDelete(ctx context.Context, id primitive.ObjectID) error {
	now := time.Now()
	filter := bson.M{"_id": id, "deletedAt": nil}
	update := bson.M{
		"$set": bson.M{
			"deletedAt": now,
			"updatedAt": now,
		},
	}

	result, err := r.client.Collection(medicationsCollection).UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
