package repository

import (
	"context"
	"time"

	"github.com/notifymed/notifymed-service/internal/domain"
	"github.com/notifymed/notifymed-service/internal/shared/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const usersCollection = "users"

// UserRepository handles user data operations
type UserRepository struct {
	client *mongodb.MongoClient
}

// NewUserRepository creates a new user repository
func NewUserRepository(client *mongodb.MongoClient) *UserRepository {
	return &UserRepository{client: client}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	user.DeletedAt = nil

	_, err := r.client.Collection(usersCollection).InsertOne(ctx, user)
	return err
}

// FindByID finds a user by ID, excluding soft-deleted rows
func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	var user domain.User
	filter := bson.M{"_id": id, "deletedAt": nil}
	err := r.client.Collection(usersCollection).FindOne(ctx, filter).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email, excluding soft-deleted rows
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	filter := bson.M{"email": email, "deletedAt": nil}
	err := r.client.Collection(usersCollection).FindOne(ctx, filter).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByPhone finds a user by phone number, excluding soft-deleted rows.
// Returns (nil, nil) when no user holds the number.
func (r *UserRepository) FindByPhone(ctx context.Context, phone string) (*domain.User, error) {
	var user domain.User
	filter := bson.M{"phone": phone, "deletedAt": nil}
	err := r.client.Collection(usersCollection).FindOne(ctx, filter).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdatePhone updates a user's phone number
func (r *UserRepository) UpdatePhone(ctx context.Context, email, phone string) error {
	filter := bson.M{"email": email, "deletedAt": nil}
	update := bson.M{
		"$set": bson.M{
			"phone":     phone,
			"updatedAt": time.Now(),
		},
	}

	result, err := r.client.Collection(usersCollection).UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SoftDelete marks a user as deleted
func (r *UserRepository) SoftDelete(ctx context.Context, email string) error {
	now := time.Now()
	filter := bson.M{"email": email, "deletedAt": nil}
	update := bson.M{
		"$set": bson.M{
			"deletedAt": now,
			"updatedAt": now,
		},
	}

	result, err := r.client.Collection(usersCollection).UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
