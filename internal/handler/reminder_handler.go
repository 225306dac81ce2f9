package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/notifymed/notifymed-service/internal/domain"
	"github.com/notifymed/notifymed-service/internal/repository"
	"github.com/notifymed/notifymed-service/internal/service"
	"github.com/notifymed/notifymed-service/internal/shared/errors"
	"github.com/notifymed/notifymed-service/internal/shared/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReminderHandler handles sweep triggers and reminder history
type ReminderHandler struct {
	service   *service.ReminderService
	notifRepo *repository.NotificationRepository
	log       *logger.Logger
}

// NewReminderHandler creates a new reminder handler
func NewReminderHandler(service *service.ReminderService, notifRepo *repository.NotificationRepository, log *logger.Logger) *ReminderHandler {
	return &ReminderHandler{
		service:   service,
		notifRepo: notifRepo,
		log:       log,
	}
}

// TriggerSweep runs one reminder sweep, optionally scoped to one user
func (h *ReminderHandler) TriggerSweep(c *gin.Context) {
	var userID *primitive.ObjectID
	if raw := c.Query("user_id"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, errors.NewValidationError("Invalid user_id", err))
			return
		}
		userID = &id
	}

	result, err := h.service.Sweep(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("Sweep failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Reminder sweep failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Reminder sweep completed",
		"result":  result,
	})
}

// GetNotifications lists a user's reminder history
func (h *ReminderHandler) GetNotifications(c *gin.Context) {
	var req domain.GetNotificationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, errors.NewValidationError("Invalid request", err))
		return
	}

	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, errors.NewValidationError("Invalid user_id", err))
		return
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	notifications, total, err := h.notifRepo.ListByUser(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		h.log.Error("Failed to get notifications", "error", err)
		c.JSON(http.StatusInternalServerError, errors.NewInternalError("Failed to get notifications", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":      notifications,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}
