package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents an account that can receive reminder texts
type User struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Email     string             `json:"email" bson:"email"`
	Name      string             `json:"name,omitempty" bson:"name,omitempty"`
	Phone     string             `json:"phone,omitempty" bson:"phone,omitempty"`
	DeletedAt *time.Time         `json:"deleted_at,omitempty" bson:"deletedAt,omitempty"`
	CreatedAt time.Time          `json:"created_at" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updatedAt"`
}

// Medication represents a medication owned by exactly one user
type Medication struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID    primitive.ObjectID `json:"user_id" bson:"userId"`
	Name      string             `json:"name" bson:"name"`
	Dose      int                `json:"dose" bson:"dose"`
	DoseUnit  string             `json:"dose_unit" bson:"doseUnit"`
	DeletedAt *time.Time         `json:"deleted_at,omitempty" bson:"deletedAt,omitempty"`
	CreatedAt time.Time          `json:"created_at" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updatedAt"`
}

// MedicationLog records one dose-taken event. Immutable once written.
type MedicationLog struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	MedicationID primitive.ObjectID `json:"medication_id" bson:"medicationId"`
	UserID       primitive.ObjectID `json:"user_id" bson:"userId"`
	DateTaken    time.Time          `json:"date_taken" bson:"dateTaken"`
	CreatedAt    time.Time          `json:"created_at" bson:"createdAt"`
}

// MedicationSchedule configures the daily log window and reminder
// frequency for a medication. Window bounds are wall-clock times of day
// ("HH:MM:SS") evaluated identically every calendar day.
type MedicationSchedule struct {
	ID                 primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	MedicationID       primitive.ObjectID `json:"medication_id" bson:"medicationId"`
	UserID             primitive.ObjectID `json:"user_id" bson:"userId"`
	LogWindowStart     string             `json:"log_window_start" bson:"logWindowStart"`
	LogWindowEnd       string             `json:"log_window_end" bson:"logWindowEnd"`
	LogFrequencyHours  int                `json:"log_frequency_hours" bson:"logFrequencyHours"`
	LastReminderSentAt *time.Time         `json:"last_reminder_sent_at,omitempty" bson:"lastReminderSentAt,omitempty"`
	Version            int                `json:"version" bson:"version"`
	CreatedAt          time.Time          `json:"created_at" bson:"createdAt"`
	UpdatedAt          time.Time          `json:"updated_at" bson:"updatedAt"`
}

// NotificationStatus represents the status of an outbound reminder
type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "pending"
	NotificationStatusSent    NotificationStatus = "sent"
	NotificationStatusFailed  NotificationStatus = "failed"
)

// Notification is the history record for one outbound reminder text
type Notification struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID       primitive.ObjectID `json:"user_id" bson:"userId"`
	MedicationID primitive.ObjectID `json:"medication_id" bson:"medicationId"`
	ScheduleID   primitive.ObjectID `json:"schedule_id" bson:"scheduleId"`
	SweepID      string             `json:"sweep_id" bson:"sweepId"`
	Status       NotificationStatus `json:"status" bson:"status"`
	Recipient    string             `json:"recipient" bson:"recipient"`
	Body         string             `json:"body" bson:"body"`
	ProviderSID  string             `json:"provider_sid,omitempty" bson:"providerSid,omitempty"`
	Error        string             `json:"error,omitempty" bson:"error,omitempty"`
	SentAt       *time.Time         `json:"sent_at,omitempty" bson:"sentAt,omitempty"`
	CreatedAt    time.Time          `json:"created_at" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updatedAt"`
}

// EventType represents the type of event on the message bus
type EventType string

const (
	EventDoseLogged   EventType = "medication.dose_logged"
	EventReminderSent EventType = "medication.reminder_sent"
)

// DoseLoggedEvent is consumed from the bus to record a dose-taken log
type DoseLoggedEvent struct {
	Type         EventType `json:"type"`
	UserID       string    `json:"user_id"`
	MedicationID string    `json:"medication_id"`
	DateTaken    time.Time `json:"date_taken"`
	Timestamp    time.Time `json:"timestamp"`
}

// ReminderSentEvent is published after a reminder text goes out
type ReminderSentEvent struct {
	Type         EventType `json:"type"`
	SweepID      string    `json:"sweep_id"`
	ScheduleID   string    `json:"schedule_id"`
	MedicationID string    `json:"medication_id"`
	UserID       string    `json:"user_id"`
	SentAt       time.Time `json:"sent_at"`
}
