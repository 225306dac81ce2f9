package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/notifymed/notifymed-service/internal/domain"
	"github.com/notifymed/notifymed-service/internal/repository"
	"github.com/notifymed/notifymed-service/internal/shared/errors"
	"github.com/notifymed/notifymed-service/internal/shared/logger"
)

// UserHandler handles user account requests
type UserHandler struct {
	repo *repository.UserRepository
	log  *logger.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(repo *repository.UserRepository, log *logger.Logger) *UserHandler {
	return &UserHandler{
		repo: repo,
		log:  log,
	}
}

// CreateUser creates a new user account
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req domain.CreateUserRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		c.JSON(http.StatusBadRequest, errors.NewValidationError("Invalid request", err))
		return
	}

	user := &domain.User{
		Email: req.Email,
		Name:  req.Name,
		Phone: req.Phone,
	}

	if err := h.repo.Create(c.Request.Context(), user); err != nil {
		h.log.Error("Failed to create user", "error", err)
		c.JSON(http.StatusInternalServerError, errors.NewInternalError("Failed to create user", err))
		return
	}

	c.JSON(http.StatusCreated, user)
}

// GetUser retrieves a user by email
func (h *UserHandler) GetUser(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, errors.NewValidationError("email is required", nil))
		return
	}

	user, err := h.repo.FindByEmail(c.Request.Context(), email)
	if err != nil {
		c.JSON(http.StatusNotFound, errors.NewNotFoundError("User not found", err))
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateUser updates a user's phone number
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req domain.UpdateUserRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		c.JSON(http.StatusBadRequest, errors.NewValidationError("Invalid request", err))
		return
	}

	if err := h.repo.UpdatePhone(c.Request.Context(), req.Email, req.Phone); err != nil {
		h.log.Error("Failed to update user", "error", err, "email", req.Email)
		c.JSON(http.StatusNotFound, errors.NewNotFoundError("User not found", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User updated successfully",
	})
}

// DeleteUser soft-deletes a user
func (h *UserHandler) DeleteUser(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, errors.NewValidationError("email is required", nil))
		return
	}

	if err := h.repo.SoftDelete(c.Request.Context(), email); err != nil {
		h.log.Error("Failed to delete user", "error", err, "email", email)
		c.JSON(http.StatusNotFound, errors.NewNotFoundError("User not found", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User deleted successfully",
	})
}

// CheckPhone reports whether a phone number belongs to a known user
func (h *UserHandler) CheckPhone(c *gin.Context) {
	var req domain.CheckPhoneRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		c.JSON(http.StatusBadRequest, errors.NewValidationError("Invalid request", err))
		return
	}

	user, err := h.repo.FindByPhone(c.Request.Context(), req.Phone)
	if err != nil {
		h.log.Error("Failed to check phone", "error", err)
		c.JSON(http.StatusInternalServerError, errors.NewInternalError("Failed to check phone number", err))
		return
	}

	if user == nil {
		c.JSON(http.StatusOK, gin.H{"exists": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"exists": true,
		"user":   user,
	})
}
