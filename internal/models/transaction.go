package models

import (
	"time"

	"gorm.io/datatypes"
)

// Transaction snapshots a payment-gateway checkout session.
type Transaction struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	StripeID string         `gorm:"type:text;not null;uniqueIndex"`   // Gateway checkout session ID.
	Data     datatypes.JSON `gorm:"type:jsonb;not null;default:'{}'"` // Full gateway session payload, opaque at this layer.

	UserID uint64 `gorm:"not null;index"`    // Owning user ID.
	User   User   `gorm:"foreignKey:UserID"` // Owning user record.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp, set by webhook settlement.
}
