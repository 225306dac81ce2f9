package domain

import "time"

// CreateUserRequest represents a request to create a user
type CreateUserRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// UpdateUserRequest represents a request to update a user's phone number
type UpdateUserRequest struct {
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone" binding:"required"`
}

// CheckPhoneRequest represents a request to check whether a phone number
// belongs to a known user
type CheckPhoneRequest struct {
	Phone string `json:"phone" binding:"required"`
}

// CreateMedicationRequest represents a request to add a medication
type CreateMedicationRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Dose     int    `json:"dose" binding:"required,gt=0"`
	DoseUnit string `json:"dose_unit" binding:"required"`
}

// UpdateMedicationRequest represents a request to rename a medication
type UpdateMedicationRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateLogRequest represents a request to record a dose-taken event.
// DateTaken defaults to now when omitted.
type CreateLogRequest struct {
	UserID       string     `json:"user_id" binding:"required"`
	MedicationID string     `json:"medication_id" binding:"required"`
	DateTaken    *time.Time `json:"date_taken"`
}

// CreateScheduleRequest represents a request to schedule a medication
type CreateScheduleRequest struct {
	UserID            string `json:"user_id" binding:"required"`
	MedicationID      string `json:"medication_id" binding:"required"`
	LogWindowStart    string `json:"log_window_start" binding:"required"`
	LogWindowEnd      string `json:"log_window_end" binding:"required"`
	LogFrequencyHours int    `json:"log_frequency_hours" binding:"gte=0"`
}

// UpdateScheduleRequest represents a request to change a schedule's
// window or frequency
type UpdateScheduleRequest struct {
	LogWindowStart    string `json:"log_window_start" binding:"required"`
	LogWindowEnd      string `json:"log_window_end" binding:"required"`
	LogFrequencyHours int    `json:"log_frequency_hours" binding:"gte=0"`
}

// GetNotificationsRequest represents a request to list reminder history
type GetNotificationsRequest struct {
	UserID   string `form:"user_id" binding:"required"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}
