package models

import "time"

// AuthUser represents an administrator account allowed to edit the catalog.
// Accounts are provisioned out of band; there is no self-registration.
type AuthUser struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Login        string `gorm:"type:text;not null;uniqueIndex"` // Unique login name.
	PasswordHash string `gorm:"type:text;not null"`             // Bcrypt password hash.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
