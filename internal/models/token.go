package models

import "time"

// Token is an opaque bearer session credential bound to one user.
type Token struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Token string `gorm:"type:text;not null;uniqueIndex"` // Opaque token string, base64 of random bytes.

	UserID uint64 `gorm:"not null;index"`                               // Owning user ID.
	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"` // Owning user record.

	ExpireDate time.Time `gorm:"not null"` // Fixed expiry set at issuance.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
}

// Expired reports whether the token is past its expiry at the given time.
func (t *Token) Expired(now time.Time) bool {
	return !now.Before(t.ExpireDate)
}
