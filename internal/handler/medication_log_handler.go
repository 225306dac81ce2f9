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

// MedicationLogHandler handles dose-taken log requests
type MedicationLogHandler struct {
	repo *repository.MedicationLogRepository
	log  *logger.Logger
}

// NewMedicationLogHandler creates a new medication log handler
func NewMedicationLogHandler(repo *repository.MedicationLogRepository, log *logger.Logger) *MedicationLogHandler {
	return &MedicationLogHandler{
		repo: repo,
		log:  log,
	}
}

// CreateLog records a dose-taken event
func (h *MedicationLogHandler) CreateLog(c *gin.Context) {
	var req domain.CreateLogRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		c.JSON(http.StatusBadRequest, errors.NewValidationError("Invalid request", err))
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

	log := &domain.MedicationLog{
		UserID:       userID,
		MedicationID: medicationID,
	}
	if req.DateTaken != nil {
		log.DateTaken = *req.DateTaken
	}

	if err := h.repo.Create(c.Request.Context(), log); err != nil {
		h.log.Error("Failed to create log", "error", err)
		c.JSON(http.StatusInternalServerError, errors.NewInternalError("Failed to create log", err))
		return
	}

	c.JSON(http.StatusCreated, log)
}

// GetLogs lists a medication's dose-taken logs
func (h *MedicationLogHandler) GetLogs(c *gin.Context) {
	medicationID, err := primitive.ObjectIDFromHex(c.Query("medication_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errors.NewValidationError("medication_id is required", err))
		return
	}

	logs, err := h.repo.ListByMedication(c.Request.Context(), medicationID)
	if err != nil {
		h.log.Error("Failed to list logs", "error", err)
		c.JSON(http.StatusInternalServerError, errors.NewInternalError("Failed to list logs", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": logs})
}
