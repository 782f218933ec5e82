package models

import "time"

// Invoice is the billing record derived from a checkout transaction.
type Invoice struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	StripeID string `gorm:"type:text"` // Gateway invoice ID, empty until the gateway finalizes it.

	UserID uint64 `gorm:"not null;index"`    // Owning user ID.
	User   User   `gorm:"foreignKey:UserID"` // Owning user record.

	TransactionID uint64      `gorm:"not null;uniqueIndex"`     // Owning transaction ID, exclusive 1:1.
	Transaction   Transaction `gorm:"foreignKey:TransactionID"` // Owning transaction record.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp, set by webhook settlement.
}
