// ===============================
// internal/handlers/auth.go - Profile sync for signed-in users
// ===============================

package handlers

import (
	"net/http"

	"gaddiyalibe/internal/middleware"
	"gaddiyalibe/internal/services"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	users *services.UserService
}

func NewAuthHandler(users *services.UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

// SyncUser creates or refreshes the profile behind the verified token.
func (h *AuthHandler) SyncUser(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)
	if identity.IsZero() {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	profile, created, err := h.users.SyncProfile(c.Request.Context(), identity)
	if err != nil {
		respondError(c, err, "Failed to sync user")
		return
	}

	status := http.StatusOK
	message := "User updated successfully"
	if created {
		status = http.StatusCreated
		message = "User created successfully"
	}
	c.JSON(status, gin.H{
		"user":    profile,
		"created": created,
		"message": message,
	})
}

// GetCurrentUser returns the stored profile of the signed-in user.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	profile, err := h.users.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to fetch user")
		return
	}
	c.JSON(http.StatusOK, profile)
}
