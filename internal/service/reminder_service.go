package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/notifymed/notifymed-service/internal/domain"
	"github.com/notifymed/notifymed-service/internal/metrics"
	"github.com/notifymed/notifymed-service/internal/shared/errors"
	"github.com/notifymed/notifymed-service/internal/shared/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const reminderExchange = "notifymed.events"

// ScheduleStore is the schedule surface the evaluator needs
type ScheduleStore interface {
	ListActive(ctx context.Context, userID *primitive.ObjectID) ([]*domain.MedicationSchedule, error)
	ClaimReminder(ctx context.Context, id primitive.ObjectID, prevSentAt *time.Time, now time.Time) (bool, error)
}

// LogStore resolves the most recent dose-taken log per medication
type LogStore interface {
	LatestByMedication(ctx context.Context, medicationID primitive.ObjectID) (*domain.MedicationLog, error)
}

// MedicationStore resolves medications for display names
type MedicationStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Medication, error)
}

// UserStore resolves users for name and phone lookup
type UserStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// ReminderSender delivers one reminder text
type ReminderSender interface {
	SendReminder(ctx context.Context, notification *domain.Notification) error
}

// EventPublisher publishes events to the message bus
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// ReminderService is the reminder evaluator: one Sweep walks every
// schedule, decides whether a reminder is due and sends at most one text
// per due schedule.
type ReminderService struct {
	schedules   ScheduleStore
	logs        LogStore
	medications MedicationStore
	users       UserStore
	sender      ReminderSender
	publisher   EventPublisher
	log         *logger.Logger
	sendTimeout time.Duration
	now         func() time.Time
}

// NewReminderService creates a new reminder service. The publisher may
// be nil when no message bus is wired.
func NewReminderService(schedules ScheduleStore, logs LogStore, medications MedicationStore, users UserStore, sender ReminderSender, publisher EventPublisher, sendTimeout time.Duration, log *logger.Logger) *ReminderService {
	if sendTimeout <= 0 {
		sendTimeout = 10 * time.Second
	}
	return &ReminderService{
		schedules:   schedules,
		logs:        logs,
		medications: medications,
		users:       users,
		sender:      sender,
		publisher:   publisher,
		log:         log,
		sendTimeout: sendTimeout,
		now:         time.Now,
	}
}

// Sweep runs one full pass over all schedules, optionally scoped to a
// single user. Data and provider problems are recorded per schedule and
// never abort the batch; only a failing store does.
func (s *ReminderService) Sweep(ctx context.Context, userID *primitive.ObjectID) (*domain.SweepResult, error) {
	started := s.now()
	result := &domain.SweepResult{
		SweepID:   uuid.NewString(),
		StartedAt: started,
	}

	schedules, err := s.schedules.ListActive(ctx, userID)
	if err != nil {
		metrics.SweepsTotal.WithLabelValues("failure").Inc()
		return nil, errors.NewStoreError("failed to list schedules", err)
	}

	for _, sched := range schedules {
		outcome, err := s.evaluate(ctx, result.SweepID, sched)
		if err != nil {
			metrics.SweepsTotal.WithLabelValues("failure").Inc()
			return nil, err
		}
		s.record(result, outcome)
	}

	metrics.SweepsTotal.WithLabelValues("success").Inc()
	metrics.SweepDuration.Observe(s.now().Sub(started).Seconds())

	s.log.Info("Sweep finished",
		"sweep_id", result.SweepID,
		"processed", result.Processed,
		"sent", result.Sent,
		"skipped", result.Skipped,
		"failed", result.Failed,
	)
	return result, nil
}

// evaluate decides and acts for one schedule. A returned error is a
// store failure and aborts the sweep; everything else becomes an outcome.
func (s *ReminderService) evaluate(ctx context.Context, sweepID string, sched *domain.MedicationSchedule) (domain.ScheduleOutcome, error) {
	outcome := domain.ScheduleOutcome{
		ScheduleID:   sched.ID.Hex(),
		MedicationID: sched.MedicationID.Hex(),
	}

	startSec, err := domain.ParseTimeOfDay(sched.LogWindowStart)
	if err != nil {
		outcome.Status = domain.OutcomeDataError
		outcome.Detail = fmt.Sprintf("invalid log window start: %v", err)
		return outcome, nil
	}
	endSec, err := domain.ParseTimeOfDay(sched.LogWindowEnd)
	if err != nil {
		outcome.Status = domain.OutcomeDataError
		outcome.Detail = fmt.Sprintf("invalid log window end: %v", err)
		return outcome, nil
	}
	if endSec < startSec {
		// Midnight-crossing windows are rejected at write time; a row
		// like this got in some other way.
		outcome.Status = domain.OutcomeDataError
		outcome.Detail = "log window crosses midnight"
		return outcome, nil
	}

	now := s.now()

	// Inside the window the user still has time to log; never remind.
	if domain.InWindow(now, startSec, endSec) {
		outcome.Status = domain.OutcomeInWindow
		return outcome, nil
	}

	latest, err := s.logs.LatestByMedication(ctx, sched.MedicationID)
	if err != nil {
		return outcome, errors.NewStoreError("failed to load latest log", err)
	}
	var lastTaken *time.Time
	if latest != nil {
		lastTaken = &latest.DateTaken
	}

	if !domain.ReminderDue(lastTaken, sched.LogFrequencyHours, now) {
		outcome.Status = domain.OutcomeNotDue
		return outcome, nil
	}

	medication, user, dataErr, err := s.resolve(ctx, sched)
	if err != nil {
		return outcome, err
	}
	if dataErr != nil {
		s.log.Warn("Skipping schedule", "schedule_id", outcome.ScheduleID, "reason", dataErr.Message)
		metrics.RemindersFailed.WithLabelValues("data_error").Inc()
		outcome.Status = domain.OutcomeDataError
		outcome.Detail = dataErr.Message
		return outcome, nil
	}

	// Claim before sending so an overlapping sweep cannot double-send.
	claimed, err := s.schedules.ClaimReminder(ctx, sched.ID, sched.LastReminderSentAt, now)
	if err != nil {
		return outcome, errors.NewStoreError("failed to claim schedule", err)
	}
	if !claimed {
		metrics.RemindersSkipped.WithLabelValues("already_claimed").Inc()
		outcome.Status = domain.OutcomeAlreadyClaimed
		return outcome, nil
	}

	notification := &domain.Notification{
		UserID:       user.ID,
		MedicationID: medication.ID,
		ScheduleID:   sched.ID,
		SweepID:      sweepID,
		Recipient:    user.Phone,
		Body:         composeReminderBody(user, medication),
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()

	if err := s.sender.SendReminder(sendCtx, notification); err != nil {
		s.log.Error("Failed to send reminder", "error", err, "schedule_id", outcome.ScheduleID)
		metrics.RemindersFailed.WithLabelValues("provider_error").Inc()
		outcome.Status = domain.OutcomeSendFailed
		outcome.Detail = err.Error()
		return outcome, nil
	}

	metrics.RemindersSent.Inc()
	s.publishSent(sweepID, sched, now)

	outcome.Status = domain.OutcomeSent
	return outcome, nil
}

// resolve loads the medication and user behind a schedule. A missing or
// unreachable row comes back as a data error, not a store failure.
func (s *ReminderService) resolve(ctx context.Context, sched *domain.MedicationSchedule) (*domain.Medication, *domain.User, *errors.AppError, error) {
	medication, err := s.medications.FindByID(ctx, sched.MedicationID)
	if err == mongo.ErrNoDocuments {
		return nil, nil, errors.NewDataError("medication missing or deleted", err), nil
	}
	if err != nil {
		return nil, nil, nil, errors.NewStoreError("failed to load medication", err)
	}

	user, err := s.users.FindByID(ctx, sched.UserID)
	if err == mongo.ErrNoDocuments {
		return nil, nil, errors.NewDataError("user missing or deleted", err), nil
	}
	if err != nil {
		return nil, nil, nil, errors.NewStoreError("failed to load user", err)
	}

	if user.Phone == "" {
		return nil, nil, errors.NewDataError("user has no phone number", nil), nil
	}

	return medication, user, nil, nil
}

// record folds one outcome into the sweep result and skip metrics
func (s *ReminderService) record(result *domain.SweepResult, outcome domain.ScheduleOutcome) {
	switch outcome.Status {
	case domain.OutcomeInWindow, domain.OutcomeNotDue:
		metrics.RemindersSkipped.WithLabelValues(string(outcome.Status)).Inc()
	}
	result.Add(outcome)
}

// publishSent emits a reminder-sent event, best effort
func (s *ReminderService) publishSent(sweepID string, sched *domain.MedicationSchedule, sentAt time.Time) {
	if s.publisher == nil {
		return
	}

	event := domain.ReminderSentEvent{
		Type:         domain.EventReminderSent,
		SweepID:      sweepID,
		ScheduleID:   sched.ID.Hex(),
		MedicationID: sched.MedicationID.Hex(),
		UserID:       sched.UserID.Hex(),
		SentAt:       sentAt,
	}

	body, err := json.Marshal(event)
	if err != nil {
		s.log.Error("Failed to marshal reminder event", "error", err)
		return
	}

	if err := s.publisher.Publish(reminderExchange, string(domain.EventReminderSent), body); err != nil {
		s.log.Warn("Failed to publish reminder event", "error", err, "schedule_id", sched.ID.Hex())
	}
}

// composeReminderBody builds the text naming the user and medication
func composeReminderBody(user *domain.User, medication *domain.Medication) string {
	name := user.Name
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf("Hi %s, this is NotifyMed. Don't forget to log your %s dose!", name, medication.Name)
}
