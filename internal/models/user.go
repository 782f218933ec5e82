package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// OAuthAccount is one linked external identity on a user record.
type OAuthAccount struct {
	Provider string `json:"provider"` // Provider name, e.g. "mastodon".
	ID       string `json:"id"`       // Provider-assigned account ID.
}

// User represents an end-user account stored in the database.
type User struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Username    string `gorm:"type:text;not null;uniqueIndex"` // Unique login name, stored lower-case.
	DisplayName string `gorm:"type:text"`                      // Sanitized display name.
	Email       string `gorm:"type:text;not null;uniqueIndex"` // Email address.
	Password    string `gorm:"type:text;not null"`             // Password digest, hex-encoded.
	Salt        string `gorm:"type:text;not null"`             // Per-user salt, hex-encoded.

	EmailVerificationToken *string `gorm:"type:text"` // Pending verification code; nil once verified.

	Credits          int64  `gorm:"not null;default:0"` // Credit balance, never negative.
	StripeCustomerID string `gorm:"type:text"`          // Gateway customer ID, empty until first checkout completes.

	OAuthAccounts datatypes.JSON `gorm:"column:oauth_accounts;type:jsonb;not null;default:'[]'"` // Linked OAuth identities.

	Tokens []Token `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"` // Session tokens owned by the user.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}

// LinkedAccounts decodes the user's linked OAuth identity list.
func (u *User) LinkedAccounts() ([]OAuthAccount, error) {
	if len(u.OAuthAccounts) == 0 {
		return nil, nil
	}
	var accounts []OAuthAccount
	if errUnmarshal := json.Unmarshal(u.OAuthAccounts, &accounts); errUnmarshal != nil {
		return nil, errUnmarshal
	}
	return accounts, nil
}

// SetLinkedAccounts encodes and replaces the linked OAuth identity list.
func (u *User) SetLinkedAccounts(accounts []OAuthAccount) error {
	if accounts == nil {
		accounts = []OAuthAccount{}
	}
	payload, errMarshal := json.Marshal(accounts)
	if errMarshal != nil {
		return errMarshal
	}
	u.OAuthAccounts = datatypes.JSON(payload)
	return nil
}
