package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/notifymed/notifymed-service/internal/domain"
	"github.com/notifymed/notifymed-service/internal/shared/errors"
	"github.com/notifymed/notifymed-service/internal/shared/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakeScheduleStore struct {
	schedules []*domain.MedicationSchedule
	listErr   error
	denyClaim bool
	claims    []primitive.ObjectID
}

func (f *fakeScheduleStore) ListActive(ctx context.Context, userID *primitive.ObjectID) ([]*domain.MedicationSchedule, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.schedules, nil
}

func (f *fakeScheduleStore) ClaimReminder(ctx context.Context, id primitive.ObjectID, prevSentAt *time.Time, now time.Time) (bool, error) {
	if f.denyClaim {
		return false, nil
	}
	f.claims = append(f.claims, id)
	for _, sched := range f.schedules {
		if sched.ID == id {
			sentAt := now
			sched.LastReminderSentAt = &sentAt
		}
	}
	return true, nil
}

type fakeLogStore struct {
	latest map[primitive.ObjectID]*domain.MedicationLog
	err    error
}

func (f *fakeLogStore) LatestByMedication(ctx context.Context, medicationID primitive.ObjectID) (*domain.MedicationLog, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.latest[medicationID], nil
}

type fakeMedicationStore struct {
	medications map[primitive.ObjectID]*domain.Medication
}

func (f *fakeMedicationStore) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Medication, error) {
	medication, ok := f.medications[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return medication, nil
}

type fakeUserStore struct {
	users map[primitive.ObjectID]*domain.User
}

func (f *fakeUserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return user, nil
}

type fakeSender struct {
	sent    []*domain.Notification
	failFor map[string]error // recipient -> error
}

func (f *fakeSender) SendReminder(ctx context.Context, notification *domain.Notification) error {
	if err, ok := f.failFor[notification.Recipient]; ok {
		return err
	}
	f.sent = append(f.sent, notification)
	return nil
}

// fixture wires a service around one user, one medication and one
// schedule with a 14:00-20:00 window and the given frequency.
type fixture struct {
	service   *ReminderService
	schedules *fakeScheduleStore
	logs      *fakeLogStore
	sender    *fakeSender
	user      *domain.User
	med       *domain.Medication
	schedule  *domain.MedicationSchedule
}

func newFixture(t *testing.T, frequencyHours int) *fixture {
	t.Helper()

	user := &domain.User{
		ID:    primitive.NewObjectID(),
		Email: "maria@example.com",
		Name:  "Maria",
		Phone: "+15551230001",
	}
	med := &domain.Medication{
		ID:       primitive.NewObjectID(),
		UserID:   user.ID,
		Name:     "Lisinopril",
		Dose:     10,
		DoseUnit: "mg",
	}
	schedule := &domain.MedicationSchedule{
		ID:                primitive.NewObjectID(),
		MedicationID:      med.ID,
		UserID:            user.ID,
		LogWindowStart:    "14:00:00",
		LogWindowEnd:      "20:00:00",
		LogFrequencyHours: frequencyHours,
	}

	schedules := &fakeScheduleStore{schedules: []*domain.MedicationSchedule{schedule}}
	logs := &fakeLogStore{latest: make(map[primitive.ObjectID]*domain.MedicationLog)}
	meds := &fakeMedicationStore{medications: map[primitive.ObjectID]*domain.Medication{med.ID: med}}
	users := &fakeUserStore{users: map[primitive.ObjectID]*domain.User{user.ID: user}}
	sender := &fakeSender{failFor: make(map[string]error)}

	svc := NewReminderService(schedules, logs, meds, users, sender, nil, time.Second, logger.NewLogger())

	return &fixture{
		service:   svc,
		schedules: schedules,
		logs:      logs,
		sender:    sender,
		user:      user,
		med:       med,
		schedule:  schedule,
	}
}

// at returns a clock pinned to the given wall-clock hour
func at(hour, min int) func() time.Time {
	return func() time.Time {
		return time.Date(2024, time.May, 6, hour, min, 0, 0, time.UTC)
	}
}

func TestSweepInsideWindowSkips(t *testing.T) {
	f := newFixture(t, 24)
	f.service.now = at(18, 0)

	result, err := f.service.Sweep(context.Background(), nil)
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}

	if len(f.sender.sent) != 0 {
		t.Errorf("sent %d reminders, want 0", len(f.sender.sent))
	}
	if len(f.schedules.claims) != 0 {
		t.Errorf("claimed %d schedules, want 0", len(f.schedules.claims))
	}
	if got := result.Outcomes[0].Status; got != domain.OutcomeInWindow {
		t.Errorf("outcome = %q, want %q", got, domain.OutcomeInWindow)
	}
}

func TestSweepFirstReminderSends(t *testing.T) {
	f := newFixture(t, 24)
	f.service.now = at(21, 0)

	result, err := f.service.Sweep(context.Background(), nil)
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}

	if result.Sent != 1 {
		t.Fatalf("result.Sent = %d, want 1", result.Sent)
	}
	if len(f.sender.sent) != 1 {
		t.Fatalf("sent %d reminders, want 1", len(f.sender.sent))
	}

	notification := f.sender.sent[0]
	if notification.Recipient != f.user.Phone {
		t.Errorf("recipient = %q, want %q", notification.Recipient, f.user.Phone)
	}
	if !strings.Contains(notification.Body, "Maria") || !strings.Contains(notification.Body, "Lisinopril") {
		t.Errorf("body %q should name the user and the medication", notification.Body)
	}

	if f.schedule.LastReminderSentAt == nil {
		t.Fatal("LastReminderSentAt not updated")
	}
	if !f.schedule.LastReminderSentAt.Equal(at(21, 0)()) {
		t.Errorf("LastReminderSentAt = %v, want %v", f.schedule.LastReminderSentAt, at(21, 0)())
	}
}

func TestSweepNotYetDue(t *testing.T) {
	f := newFixture(t, 24)
	f.service.now = at(21, 0)

	taken := at(21, 0)().Add(-10 * time.Hour)
	f.logs.latest[f.med.ID] = &domain.MedicationLog{
		MedicationID: f.med.ID,
		UserID:       f.user.ID,
		DateTaken:    taken,
	}

	result, err := f.service.Sweep(context.Background(), nil)
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}

	if len(f.sender.sent) != 0 {
		t.Errorf("sent %d reminders, want 0", len(f.sender.sent))
	}
	if got := result.Outcomes[0].Status; got != domain.OutcomeNotDue {
		t.Errorf("outcome = %q, want %q", got, domain.OutcomeNotDue)
	}
}

func TestSweepDueAfterFrequencyElapsed(t *testing.T) {
	f := newFixture(t, 24)
	f.service.now = at(21, 0)

	taken := at(21, 0)().Add(-25 * time.Hour)
	f.logs.latest[f.med.ID] = &domain.MedicationLog{
		MedicationID: f.med.ID,
		UserID:       f.user.ID,
		DateTaken:    taken,
	}

	result, err := f.service.Sweep(context.Background(), nil)
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}

	if result.Sent != 1 {
		t.Errorf("result.Sent = %d, want 1", result.Sent)
	}
}

func TestSweepZeroFrequencyAlwaysEligible(t *testing.T) {
	f := newFixture(t, 0)
	f.service.now = at(21, 0)

	taken := at(21, 0)().Add(-1 * time.Hour)
	f.logs.latest[f.med.ID] = &domain.MedicationLog{
		MedicationID: f.med.ID,
		UserID:       f.user.ID,
		DateTaken:    taken,
	}

	result, err := f.service.Sweep(context.Background(), nil)
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}

	if result.Sent != 1 {
		t.Errorf("result.Sent = %d, want 1", result.Sent)
	}
}

func TestSweepMissingPhoneSkipsAndContinues(t *testing.T) {
	f := newFixture(t, 24)
	f.service.now = at(21, 0)
	f.user.Phone = ""

	// Second schedule for a reachable user
	other := &domain.User{ID: primitive.NewObjectID(), Name: "Sam", Phone: "+15551230002"}
	otherMed := &domain.Medication{ID: primitive.NewObjectID(), UserID: other.ID, Name: "Metformin"}
	otherSched := &domain.MedicationSchedule{
		ID:             primitive.NewObjectID(),
		MedicationID:   otherMed.ID,
		UserID:         other.ID,
		LogWindowStart: "14:00:00",
		LogWindowEnd:   "20:00:00",
	}
	f.schedules.schedules = append(f.schedules.schedules, otherSched)

	meds := f.service.medications.(*fakeMedicationStore)
	meds.medications[otherMed.ID] = otherMed
	users := f.service.users.(*fakeUserStore)
	users.users[other.ID] = other

	result, err := f.service.Sweep(context.Background(), nil)
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}

	if result.Sent != 1 {
		t.Fatalf("result.Sent = %d, want 1", result.Sent)
	}
	if f.sender.sent[0].Recipient != other.Phone {
		t.Errorf("reminder went to %q, want %q", f.sender.sent[0].Recipient, other.Phone)
	}
	if got := result.Outcomes[0].Status; got != domain.OutcomeDataError {
		t.Errorf("first outcome = %q, want %q", got, domain.OutcomeDataError)
	}
}

func TestSweepProviderFailureContinues(t *testing.T) {
	f := newFixture(t, 24)
	f.service.now = at(21, 0)
	f.sender.failFor[f.user.Phone] = fmt.Errorf("provider unavailable")

	// Second schedule whose send succeeds
	other := &domain.User{ID: primitive.NewObjectID(), Name: "Sam", Phone: "+15551230002"}
	otherMed := &domain.Medication{ID: primitive.NewObjectID(), UserID: other.ID, Name: "Metformin"}
	otherSched := &domain.MedicationSchedule{
		ID:             primitive.NewObjectID(),
		MedicationID:   otherMed.ID,
		UserID:         other.ID,
		LogWindowStart: "14:00:00",
		LogWindowEnd:   "20:00:00",
	}
	f.schedules.schedules = append(f.schedules.schedules, otherSched)
	f.service.medications.(*fakeMedicationStore).medications[otherMed.ID] = otherMed
	f.service.users.(*fakeUserStore).users[other.ID] = other

	result, err := f.service.Sweep(context.Background(), nil)
	if err != nil {
		t.Fatalf("Sweep() error = %v, want overall success", err)
	}

	if result.Failed != 1 {
		t.Errorf("result.Failed = %d, want 1", result.Failed)
	}
	if result.Sent != 1 {
		t.Errorf("result.Sent = %d, want 1", result.Sent)
	}
	if got := result.Outcomes[0].Status; got != domain.OutcomeSendFailed {
		t.Errorf("first outcome = %q, want %q", got, domain.OutcomeSendFailed)
	}
}

func TestSweepStoreFailureIsFatal(t *testing.T) {
	f := newFixture(t, 24)
	f.service.now = at(21, 0)
	f.schedules.listErr = fmt.Errorf("connection refused")

	_, err := f.service.Sweep(context.Background(), nil)
	if err == nil {
		t.Fatal("Sweep() error = nil, want store error")
	}

	appErr, ok := err.(*errors.AppError)
	if !ok {
		t.Fatalf("error type = %T, want *errors.AppError", err)
	}
	if appErr.Code != "STORE_ERROR" {
		t.Errorf("error code = %q, want STORE_ERROR", appErr.Code)
	}
}

func TestSweepLostClaimSkipsSend(t *testing.T) {
	f := newFixture(t, 24)
	f.service.now = at(21, 0)
	f.schedules.denyClaim = true

	result, err := f.service.Sweep(context.Background(), nil)
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}

	if len(f.sender.sent) != 0 {
		t.Errorf("sent %d reminders, want 0", len(f.sender.sent))
	}
	if got := result.Outcomes[0].Status; got != domain.OutcomeAlreadyClaimed {
		t.Errorf("outcome = %q, want %q", got, domain.OutcomeAlreadyClaimed)
	}
}

func TestSweepMidnightCrossingWindowIsDataError(t *testing.T) {
	f := newFixture(t, 24)
	f.service.now = at(21, 0)
	f.schedule.LogWindowStart = "22:00:00"
	f.schedule.LogWindowEnd = "02:00:00"

	result, err := f.service.Sweep(context.Background(), nil)
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}

	if len(f.sender.sent) != 0 {
		t.Errorf("sent %d reminders, want 0", len(f.sender.sent))
	}
	if got := result.Outcomes[0].Status; got != domain.OutcomeDataError {
		t.Errorf("outcome = %q, want %q", got, domain.OutcomeDataError)
	}
}

func TestComposeReminderBody(t *testing.T) {
	med := &domain.Medication{Name: "Lisinopril"}

	withName := composeReminderBody(&domain.User{Name: "Maria"}, med)
	if !strings.Contains(withName, "Maria") || !strings.Contains(withName, "Lisinopril") {
		t.Errorf("body %q should name the user and the medication", withName)
	}

	anonymous := composeReminderBody(&domain.User{}, med)
	if !strings.Contains(anonymous, "there") {
		t.Errorf("body %q should fall back to a generic greeting", anonymous)
	}
}
