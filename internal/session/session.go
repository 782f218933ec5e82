// Package session issues and validates opaque bearer session tokens.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/uden-ai/uden-server/internal/models"
	"github.com/uden-ai/uden-server/internal/security"
	"gorm.io/gorm"
)

const (
	// TokenRandomBytes is the entropy of every issued token string.
	TokenRandomBytes = 128
	// TokenTTL is the fixed lifetime set at issuance; no renewal.
	TokenTTL = 7 * 24 * time.Hour
)

// ErrUnauthenticated is returned for tokens that are absent or expired.
var ErrUnauthenticated = errors.New("session: invalid or expired token")

// Issue creates and persists a fresh token bound to the user. Collision
// safety comes from the entropy of the token string, not from a
// uniqueness check.
func Issue(ctx context.Context, conn *gorm.DB, user *models.User) (*models.Token, error) {
	raw, errToken := security.GenerateToken(TokenRandomBytes)
	if errToken != nil {
		return nil, errToken
	}

	token := models.Token{
		Token:      raw,
		UserID:     user.ID,
		ExpireDate: time.Now().Add(TokenTTL),
	}
	if errCreate := conn.WithContext(ctx).Create(&token).Error; errCreate != nil {
		return nil, fmt.Errorf("session: persist token: %w", errCreate)
	}
	return &token, nil
}

// Resolve looks up a token string and returns its owning user. Absent
// or expired tokens yield ErrUnauthenticated. Expired rows are left in
// place; expiry is enforced on read.
func Resolve(ctx context.Context, conn *gorm.DB, tokenString string) (*models.User, error) {
	if tokenString == "" {
		return nil, ErrUnauthenticated
	}

	var token models.Token
	errFind := conn.WithContext(ctx).Where("token = ?", tokenString).First(&token).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("session: lookup token: %w", errFind)
	}
	if token.Expired(time.Now()) {
		return nil, ErrUnauthenticated
	}

	var user models.User
	if errUser := conn.WithContext(ctx).First(&user, token.UserID).Error; errUser != nil {
		if errors.Is(errUser, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("session: lookup user: %w", errUser)
	}
	return &user, nil
}
