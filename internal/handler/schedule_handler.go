package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/notifymed/notifymed-service/internal/domain"
	"github.com/notifymed/notifymed-service/internal/repository"
	"github.com/notifymed/notifymed-service/internal/shared/errors"
	"github.com/notifymed/notifymed-service/internal/shared/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ScheduleHandler handles medication schedule requests
type ScheduleHandler struct {
	repo *repository.ScheduleRepository
	log  *logger.Logger
}

// NewScheduleHandler creates a new schedule handler
func NewScheduleHandler(repo *repository.ScheduleRepository, log *logger.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		repo: repo,
		log:  log,
	}
}

// GetSchedules lists schedules, optionally scoped to one user
func (h *ScheduleHandler) GetSchedules(c *gin.Context) {
	var userID *primitive.ObjectID
	if raw := c.Query("user_id"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, errors.NewValidationError("Invalid user_id", err))
			return
		}
		userID = &id
	}

	schedules, err := h.repo.ListActive(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("Failed to get schedules", "error", err)
		c.JSON(http.StatusInternalServerError, errors.NewInternalError("Failed to get schedules", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": schedules})
}

// CreateSchedule creates a new medication schedule
func (h *ScheduleHandler) CreateSchedule(c *gin.Context) {
	var req domain.CreateScheduleRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		c.JSON(http.StatusBadRequest, errors.NewValidationError("Invalid request", err))
		return
	}

	// Midnight-crossing windows are rejected here, not in the evaluator
	if err := domain.ValidateWindow(req.LogWindowStart, req.LogWindowEnd); err != nil {
		c.JSON(http.StatusBadRequest, errors.NewValidationError("Invalid log window", err))
		return
	}

	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, errors.NewValidationError("Invalid user_id", err))
		return
	}
	medicationID, err := primitive.ObjectIDFromHex(req.MedicationID)
	if err != nil {
		c.JSON(http.StatusBadRequest, errors.NewValidationError("Invalid medication_id", err))
		return
	}

	schedule := &domain.MedicationSchedule{
		UserID:            userID,
		MedicationID:      medicationID,
		LogWindowStart:    req.LogWindowStart,
		LogWindowEnd:      req.LogWindowEnd,
		LogFrequencyHours: req.LogFrequencyHours,
	}

	if err := h.repo.Create(c.Request.Context(), schedule); err != nil {
		h.log.Error("Failed to create schedule", "error", err)
		c.JSON(http.StatusInternalServerError, errors.NewInternalError("Failed to create schedule", err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Schedule created successfully",
		"data":    schedule,
	})
}

// UpdateSchedule changes a schedule's window or frequency
func (h *ScheduleHandler) UpdateSchedule(c *gin.Context) {
	scheduleID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errors.NewValidationError("Invalid id", err))
		return
	}

	var req domain.UpdateScheduleRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		c.JSON(http.StatusBadRequest, errors.NewValidationError("Invalid request", err))
		return
	}

	if err := domain.ValidateWindow(req.LogWindowStart, req.LogWindowEnd); err != nil {
		c.JSON(http.StatusBadRequest, errors.NewValidationError("Invalid log window", err))
		return
	}

	if err := h.repo.UpdateWindow(c.Request.Context(), scheduleID, req.LogWindowStart, req.LogWindowEnd, req.LogFrequencyHours); err != nil {
		h.log.Error("Failed to update schedule", "error", err, "id", scheduleID.Hex())
		c.JSON(http.StatusNotFound, errors.NewNotFoundError("Schedule not found", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Schedule updated successfully",
	})
}

// DeleteSchedule removes a schedule
func (h *ScheduleHandler) DeleteSchedule(c *gin.Context) {
	scheduleID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errors.NewValidationError("Invalid id", err))
		return
	}

	if err := h.repo.Delete(c.Request.Context(), scheduleID); err != nil {
		h.log.Error("Failed to delete schedule", "error", err, "id", scheduleID.Hex())
		c.JSON(http.StatusInternalServerError, errors.NewInternalError("Failed to delete schedule", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Schedule deleted successfully",
	})
}
