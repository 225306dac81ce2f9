package handler

import (
	"net/http"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/notifymed/notifymed-service/internal/domain"
	"github.com/notifymed/notifymed-service/internal/repository"
	"github.com/notifymed/notifymed-service/internal/shared/errors"
	"github.com/notifymed/notifymed-service/internal/shared/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MedicationHandler handles medication requests
type MedicationHandler struct {
	repo *repository.MedicationRepository
	log  *logger.Logger
}

// NewMedicationHandler creates a new medication handler
func NewMedicationHandler(repo *repository.MedicationRepository, log *logger.Logger) *MedicationHandler {
	return &MedicationHandler{
		repo: repo,
		log:  log,
	}
}

// CreateMedication adds a medication for a user
func (h *MedicationHandler) CreateMedication(c *gin.Context) {
	var req domain.CreateMedicationRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		c.JSON(http.StatusBadRequest, errors.NewValidationError("Invalid request", err))
		return
	}

	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, errors.NewValidationError("Invalid user_id", err))
		return
	}

	medication := &domain.Medication{
		UserID:   userID,
		Name:     capitalizeFirst(req.Name),
		Dose:     req.Dose,
		DoseUnit: req.DoseUnit,
	}

	if err := h.repo.Create(c.Request.Context(), medication); err != nil {
		h.log.Error("Failed to create medication", "error", err)
		c.JSON(http.StatusInternalServerError, errors.NewInternalError("Failed to create medication", err))
		return
	}

	c.JSON(http.StatusCreated, medication)
}

// GetMedications lists a user's medications, or one by id
func (h *MedicationHandler) GetMedications(c *gin.Context) {
	if id := c.Query("id"); id != "" {
		medicationID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			c.JSON(http.StatusBadRequest, errors.NewValidationError("Invalid id", err))
			return
		}

		medication, err := h.repo.FindByID(c.Request.Context(), medicationID)
		if err != nil {
			c.JSON(http.StatusNotFound, errors.NewNotFoundError("Medication not found", err))
			return
		}

		c.JSON(http.StatusOK, medication)
		return
	}

	userID, err := primitive.ObjectIDFromHex(c.Query("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errors.NewValidationError("user_id is required", err))
		return
	}

	medications, err := h.repo.ListByUser(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("Failed to list medications", "error", err)
		c.JSON(http.StatusInternalServerError, errors.NewInternalError("Failed to list medications", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": medications})
}

// UpdateMedication renames a medication
func (h *MedicationHandler) UpdateMedication(c *gin.Context) {
	medicationID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errors.NewValidationError("Invalid id", err))
		return
	}

	var req domain.UpdateMedicationRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		c.JSON(http.StatusBadRequest, errors.NewValidationError("Invalid request", err))
		return
	}

	if err := h.repo.UpdateName(c.Request.Context(), medicationID, capitalizeFirst(req.Name)); err != nil {
		h.log.Error("Failed to update medication", "error", err, "id", medicationID.Hex())
		c.JSON(http.StatusNotFound, errors.NewNotFoundError("Medication not found", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Medication updated successfully",
	})
}

// DeleteMedication soft-deletes a medication
func (h *MedicationHandler) DeleteMedication(c *gin.Context) {
	medicationID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errors.NewValidationError("Invalid id", err))
		return
	}

	if err := h.repo.SoftDelete(c.Request.Context(), medicationID); err != nil {
		h.log.Error("Failed to delete medication", "error", err, "id", medicationID.Hex())
		c.JSON(http.StatusNotFound, errors.NewNotFoundError("Medication not found", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Medication deleted successfully",
	})
}

// capitalizeFirst uppercases the first letter of a medication name
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
