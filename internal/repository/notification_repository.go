package repository

import (
	"context"
	"time"

	"github.com/notifymed/notifymed-service/internal/domain"
	"github.com/notifymed/notifymed-service/internal/shared/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const notificationsCollection = "notifications"

// NotificationRepository handles reminder history data operations
type NotificationRepository struct {
	client *mongodb.MongoClient
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(client *mongodb.MongoClient) *NotificationRepository {
	return &NotificationRepository{client: client}
}

// Create creates a new notification record
func (r *NotificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	notification.ID = primitive.NewObjectID()
	notification.CreatedAt = time.Now()
	notification.UpdatedAt = time.Now()

	_, err := r.client.Collection(notificationsCollection).InsertOne(ctx, notification)
	return err
}

// UpdateStatus updates the delivery status of a notification
func (r *NotificationRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.NotificationStatus, providerSID, errorMsg string, sentAt *time.Time) error {
	set := bson.M{
		"status":    status,
		"updatedAt": time.Now(),
	}
	if providerSID != "" {
		set["providerSid"] = providerSID
	}
	if errorMsg != "" {
		set["error"] = errorMsg
	}
	if sentAt != nil {
		set["sentAt"] = sentAt
	}

	filter := bson.M{"_id": id}
	_, err := r.client.Collection(notificationsCollection).UpdateOne(ctx, filter, bson.M{"$set": set})
	return err
}

// ListByUser lists a user's reminder history with pagination
func (r *NotificationRepository) ListByUser(ctx context.Context, userID primitive.ObjectID, page, pageSize int) ([]*domain.Notification, int64, error) {
	filter := bson.M{"userId": userID}

	total, err := r.client.Collection(notificationsCollection).CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	skip := (page - 1) * pageSize
	opts := options.Find().
		SetSkip(int64(skip)).
		SetLimit(int64(pageSize)).
		SetSort(bson.M{"createdAt": -1})

	cursor, err := r.client.Collection(notificationsCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var notifications []*domain.Notification
	if err = cursor.All(ctx, &notifications); err != nil {
		return nil, 0, err
	}

	return notifications, total, nil
}
