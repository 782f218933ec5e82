package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/uden-ai/uden-server/internal/models"
	"github.com/uden-ai/uden-server/internal/session"
	"gorm.io/gorm"
)

// UserHandler serves the deprecated cookie-based user lookup.
type UserHandler struct {
	db *gorm.DB
}

// NewUserHandler constructs a UserHandler.
func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{db: db}
}

// Get resolves the legacy `token` cookie to a user record, or null
// when the cookie is missing, unknown, or expired.
//
// Deprecated: bearer authentication replaces the cookie; kept for old
// clients until they are migrated.
func (h *UserHandler) Get(c *gin.Context) {
	cookie, errCookie := c.Cookie("token")
	if errCookie != nil {
		c.JSON(http.StatusOK, nil)
		return
	}

	user, errResolve := session.Resolve(c.Request.Context(), h.db, cookie)
	if errResolve != nil {
		if errors.Is(errResolve, session.ErrUnauthenticated) {
			c.JSON(http.StatusOK, nil)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user lookup failed"})
		return
	}

	c.JSON(http.StatusOK, formatUser(user))
}

// formatUser converts a user model to a response payload. Credential
// material never leaves the server.
func formatUser(user *models.User) gin.H {
	return gin.H{
		"id":                 user.ID,
		"username":           user.Username,
		"display_name":       user.DisplayName,
		"email":              user.Email,
		"email_verified":     user.EmailVerificationToken == nil,
		"credits":            user.Credits,
		"stripe_customer_id": user.StripeCustomerID,
		"oauth_accounts":     user.OAuthAccounts,
		"created_at":         user.CreatedAt,
	}
}
