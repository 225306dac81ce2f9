package domain

import "time"

// OutcomeStatus classifies what happened to one schedule during a sweep
type OutcomeStatus string

const (
	OutcomeSent           OutcomeStatus = "sent"
	OutcomeInWindow       OutcomeStatus = "in_window"
	OutcomeNotDue         OutcomeStatus = "not_due"
	OutcomeAlreadyClaimed OutcomeStatus = "already_claimed"
	OutcomeDataError      OutcomeStatus = "data_error"
	OutcomeSendFailed     OutcomeStatus = "send_failed"
)

// ScheduleOutcome records the result for one schedule in a sweep
type ScheduleOutcome struct {
	ScheduleID   string        `json:"schedule_id"`
	MedicationID string        `json:"medication_id"`
	Status       OutcomeStatus `json:"status"`
	Detail       string        `json:"detail,omitempty"`
}

// SweepResult summarizes one full pass of the reminder evaluator
type SweepResult struct {
	SweepID   string            `json:"sweep_id"`
	StartedAt time.Time         `json:"started_at"`
	Processed int               `json:"processed"`
	Sent      int               `json:"sent"`
	Skipped   int               `json:"skipped"`
	Failed    int               `json:"failed"`
	Outcomes  []ScheduleOutcome `json:"outcomes"`
}

// Add records an outcome and updates the counters
func (r *SweepResult) Add(o ScheduleOutcome) {
	r.Processed++
	switch o.Status {
	case OutcomeSent:
		r.Sent++
	case OutcomeDataError, OutcomeSendFailed:
		r.Failed++
	default:
		r.Skipped++
	}
	r.Outcomes = append(r.Outcomes, o)
}
