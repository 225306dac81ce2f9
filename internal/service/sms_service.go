package service

import (
	"context"
	"fmt"
	"time"

	"github.com/notifymed/notifymed-service/internal/domain"
	"github.com/notifymed/notifymed-service/internal/repository"
	"github.com/notifymed/notifymed-service/internal/shared/logger"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// SMSConfig holds SMS provider configuration
type SMSConfig struct {
	AccountSID  string
	AuthToken   string
	FromNumber  string
	SendTimeout time.Duration
}

// SMSService sends reminder texts through Twilio and records each
// attempt in the notification history.
type SMSService struct {
	config    SMSConfig
	client    *twilio.RestClient
	notifRepo *repository.NotificationRepository
	log       *logger.Logger
}

// NewSMSService creates a new SMS service
func NewSMSService(config SMSConfig, notifRepo *repository.NotificationRepository, log *logger.Logger) *SMSService {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: config.AccountSID,
		Password: config.AuthToken,
	})
	if config.SendTimeout > 0 {
		client.SetTimeout(config.SendTimeout)
	}

	return &SMSService{
		config:    config,
		client:    client,
		notifRepo: notifRepo,
		log:       log,
	}
}

// SendReminder sends one reminder text and tracks its status. The
// notification is persisted as pending before the provider call, then
// marked sent or failed.
func (s *SMSService) SendReminder(ctx context.Context, notification *domain.Notification) error {
	notification.Status = domain.NotificationStatusPending

	if err := s.notifRepo.Create(ctx, notification); err != nil {
		s.log.Error("Failed to create notification record", "error", err)
		return err
	}

	sid, err := s.sendViaTwilio(notification.Recipient, notification.Body)
	if err != nil {
		s.log.Error("Failed to send SMS", "error", err, "recipient", notification.Recipient)
		s.notifRepo.UpdateStatus(ctx, notification.ID, domain.NotificationStatusFailed, "", err.Error(), nil)
		return err
	}

	now := time.Now()
	s.notifRepo.UpdateStatus(ctx, notification.ID, domain.NotificationStatusSent, sid, "", &now)
	return nil
}

// sendViaTwilio performs the Twilio message create call
func (s *SMSService) sendViaTwilio(to, body string) (string, error) {
	if s.config.FromNumber == "" {
		return "", fmt.Errorf("no Twilio from number configured")
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.config.FromNumber)
	params.SetBody(body)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return "", err
	}

	sid := ""
	if resp.Sid != nil {
		sid = *resp.Sid
	}

	s.log.Info("Sent SMS via Twilio", "to", to, "sid", sid)
	return sid, nil
}
