package scheduler

import (
	"context"

	"github.com/notifymed/notifymed-service/internal/domain"
	"github.com/notifymed/notifymed-service/internal/shared/logger"
	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SweepRunner is the evaluator surface the scheduler drives
type SweepRunner interface {
	Sweep(ctx context.Context, userID *primitive.ObjectID) (*domain.SweepResult, error)
}

// ReminderScheduler triggers the reminder sweep on a cron schedule
type ReminderScheduler struct {
	cron     *cron.Cron
	service  SweepRunner
	schedule string
	log      *logger.Logger
}

// NewReminderScheduler creates a new reminder scheduler
func NewReminderScheduler(service SweepRunner, schedule string, log *logger.Logger) *ReminderScheduler {
	return &ReminderScheduler{
		cron:     cron.New(),
		service:  service,
		schedule: schedule,
		log:      log,
	}
}

// Start registers the sweep job and starts the cron loop
func (s *ReminderScheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.runSweep); err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info("Reminder scheduler started", "schedule", s.schedule)
	return nil
}

// Stop stops the scheduler
func (s *ReminderScheduler) Stop() {
	s.log.Info("Stopping reminder scheduler")
	s.cron.Stop()
}

// runSweep executes one unscoped sweep
func (s *ReminderScheduler) runSweep() {
	result, err := s.service.Sweep(context.Background(), nil)
	if err != nil {
		s.log.Error("Scheduled sweep failed", "error", err)
		return
	}

	s.log.Info("Scheduled sweep completed",
		"sweep_id", result.SweepID,
		"processed", result.Processed,
		"sent", result.Sent,
	)
}
