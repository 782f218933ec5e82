package handlers

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	log "github.com/sirupsen/logrus"
	"github.com/uden-ai/uden-server/internal/mail"
	"github.com/uden-ai/uden-server/internal/models"
	"github.com/uden-ai/uden-server/internal/oauth"
	"github.com/uden-ai/uden-server/internal/security"
	"github.com/uden-ai/uden-server/internal/session"
	"github.com/uden-ai/uden-server/internal/tempmail"
	"gorm.io/gorm"
)

// startingCredits is the fixed entitlement granted at registration.
const startingCredits = 10_000

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)
	emailPattern    = regexp.MustCompile(`^(([^<>()\[\]\\.,;:\s@"]+(\.[^<>()\[\]\\.,;:\s@"]+)*)|(".+"))@((\[[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\])|(([a-zA-Z\-0-9]+\.)+[a-zA-Z]{2,}))$`)
)

// AuthHandler handles registration and federated login.
type AuthHandler struct {
	db        *gorm.DB
	mailer    mail.Mailer
	resolver  *oauth.Resolver
	sanitizer *bluemonday.Policy
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(db *gorm.DB, mailer mail.Mailer, resolver *oauth.Resolver) *AuthHandler {
	return &AuthHandler{
		db:        db,
		mailer:    mailer,
		resolver:  resolver,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// registerRequest defines the request body for registration.
type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// Register validates new-account input, provisions the user with its
// starting credit grant, sends the verification code, and issues a
// session token.
func (h *AuthHandler) Register(c *gin.Context) {
	var body registerRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	username := strings.ToLower(body.Username)
	if !usernamePattern.MatchString(username) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid username"})
		return
	}
	if !emailPattern.MatchString(body.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email"})
		return
	}
	if at := strings.LastIndex(body.Email, "@"); at >= 0 && tempmail.Blocked(body.Email[at+1:]) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email provider is not allowed"})
		return
	}

	// Best-effort pre-checks; the unique indexes are the authoritative
	// guard against concurrent registrations.
	var count int64
	if errCount := h.db.WithContext(c.Request.Context()).Model(&models.User{}).
		Where("email = ?", body.Email).Count(&count).Error; errCount != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already exists"})
		return
	}
	if errCount := h.db.WithContext(c.Request.Context()).Model(&models.User{}).
		Where("username = ?", body.Username).Count(&count).Error; errCount != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Username already exists"})
		return
	}

	salt, errSalt := security.NewSalt()
	if errSalt != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}
	digest, errHash := security.HashPassword(body.Password, salt)
	if errHash != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}
	code, errCode := security.GenerateVerificationCode(8)
	if errCode != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}

	user := models.User{
		Username:               username,
		DisplayName:            h.sanitizer.Sanitize(username),
		Email:                  body.Email,
		Password:               digest,
		Salt:                   salt,
		EmailVerificationToken: &code,
		Credits:                startingCredits,
	}
	if errSet := user.SetLinkedAccounts(nil); errSet != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}

	if errCreate := h.db.WithContext(c.Request.Context()).Create(&user).Error; errCreate != nil {
		if errors.Is(errCreate, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "Username or email already exists"})
			return
		}
		log.WithError(errCreate).Error("register: persist user failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}

	if errSend := h.mailer.SendVerificationCode(c.Request.Context(), user.Username, user.Email, code); errSend != nil {
		log.WithError(errSend).WithField("user_id", user.ID).Error("register: verification email failed")
		if errDelete := h.db.WithContext(c.Request.Context()).Delete(&models.User{}, user.ID).Error; errDelete != nil {
			log.WithError(errDelete).WithField("user_id", user.ID).Error("register: compensating user delete failed")
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send verification email"})
		return
	}

	token, errIssue := session.Issue(c.Request.Context(), h.db, &user)
	if errIssue != nil {
		log.WithError(errIssue).WithField("user_id", user.ID).Error("register: token issuance failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token.Token})
}

// loginOAuthRequest defines the request body for federated login.
type loginOAuthRequest struct {
	Provider  string       `json:"provider"`
	Token     string       `json:"token"`
	OAuthData oauth.Params `json:"oauthData"`
}

// LoginOAuth resolves a federated login attempt to a linked local
// account and issues a session token.
func (h *AuthHandler) LoginOAuth(c *gin.Context) {
	var body loginOAuthRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if body.Provider == "" || body.Token == "" || body.OAuthData.InstanceURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing fields: provider, oauthData and/or token"})
		return
	}

	user, errLogin := h.resolver.Login(c.Request.Context(), body.Provider, body.Token, body.OAuthData)
	if errLogin != nil {
		switch {
		case errors.Is(errLogin, oauth.ErrUnknownProvider):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported provider"})
		case errors.Is(errLogin, oauth.ErrNoLinkedAccount):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect username or password"})
		default:
			log.WithError(errLogin).WithField("provider", body.Provider).Error("oauth login failed upstream")
			c.JSON(http.StatusBadGateway, gin.H{"error": "provider request failed"})
		}
		return
	}

	token, errIssue := session.Issue(c.Request.Context(), h.db, user)
	if errIssue != nil {
		log.WithError(errIssue).WithField("user_id", user.ID).Error("oauth login: token issuance failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token.Token})
}
