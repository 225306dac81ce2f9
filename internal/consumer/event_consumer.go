package consumer

import (
	"context"
	"encoding/json"

	"github.com/notifymed/notifymed-service/internal/domain"
	"github.com/notifymed/notifymed-service/internal/metrics"
	"github.com/notifymed/notifymed-service/internal/repository"
	"github.com/notifymed/notifymed-service/internal/shared/logger"
	"github.com/notifymed/notifymed-service/internal/shared/rabbitmq"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	eventExchange     = "notifymed.events"
	doseLogQueue      = "notifymed_dose_log_queue"
	doseLogRoutingKey = "medication.dose_logged"
)

// EventConsumer consumes dose-logged events from RabbitMQ so doses
// reported by other systems still count against reminder frequency.
type EventConsumer struct {
	client  *rabbitmq.RabbitMQClient
	logRepo *repository.MedicationLogRepository
	log     *logger.Logger
}

// NewEventConsumer creates a new event consumer
func NewEventConsumer(client *rabbitmq.RabbitMQClient, logRepo *repository.MedicationLogRepository, log *logger.Logger) *EventConsumer {
	return &EventConsumer{
		client:  client,
		logRepo: logRepo,
		log:     log,
	}
}

// Start starts consuming events from RabbitMQ
func (c *EventConsumer) Start() error {
	c.log.Info("Starting event consumer", "queue", doseLogQueue)

	if err := c.client.DeclareExchange(eventExchange, "topic"); err != nil {
		c.log.Error("Failed to declare exchange", "error", err)
		return err
	}

	if err := c.client.DeclareQueue(doseLogQueue); err != nil {
		c.log.Error("Failed to declare queue", "error", err)
		return err
	}

	if err := c.client.BindQueue(doseLogQueue, doseLogRoutingKey, eventExchange); err != nil {
		c.log.Error("Failed to bind queue", "error", err)
		return err
	}

	messages, err := c.client.Consume(doseLogQueue)
	if err != nil {
		c.log.Error("Failed to start consuming", "error", err)
		return err
	}

	for msg := range messages {
		var event domain.DoseLoggedEvent
		if err := json.Unmarshal(msg.Body, &event); err != nil {
			c.log.Error("Failed to unmarshal event", "error", err)
			metrics.DoseEventsConsumed.WithLabelValues("invalid").Inc()
			msg.Nack(false, false) // Don't requeue invalid messages
			continue
		}

		if err := c.handleDoseLogged(context.Background(), &event); err != nil {
			c.log.Error("Failed to process dose event", "error", err, "medication_id", event.MedicationID)
			metrics.DoseEventsConsumed.WithLabelValues("failed").Inc()
			msg.Nack(false, true) // Requeue for retry
			continue
		}

		metrics.DoseEventsConsumed.WithLabelValues("ok").Inc()
		msg.Ack(false)
	}

	return nil
}

// handleDoseLogged records one dose-taken log from the bus
func (c *EventConsumer) handleDoseLogged(ctx context.Context, event *domain.DoseLoggedEvent) error {
	userID, err := primitive.ObjectIDFromHex(event.UserID)
	if err != nil {
		// Drop malformed ids rather than requeue forever
		c.log.Warn("Dose event with invalid user_id", "user_id", event.UserID)
		return nil
	}
	medicationID, err := primitive.ObjectIDFromHex(event.MedicationID)
	if err != nil {
		c.log.Warn("Dose event with invalid medication_id", "medication_id", event.MedicationID)
		return nil
	}

	log := &domain.MedicationLog{
		UserID:       userID,
		MedicationID: medicationID,
		DateTaken:    event.DateTaken,
	}

	return c.logRepo.Create(ctx, log)
}
