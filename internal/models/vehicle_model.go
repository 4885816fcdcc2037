package models

import "time"

// VehicleModel represents one electric-vehicle catalog entry.
type VehicleModel struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key, assigned once, never reused.

	Name     string `gorm:"type:text;not null"` // Model name, required.
	Price    int64  `gorm:"not null;default:0"` // Price, non-negative.
	Year     int64  `gorm:"not null;default:0"` // Model year, non-negative.
	Power    int64  `gorm:"not null;default:0"` // Motor power in hp, non-negative.
	Battery  int64  `gorm:"not null;default:0"` // Battery capacity in kWh, non-negative.
	ImageURL string `gorm:"type:text"`          // Optional image URL.

	LastEditedAt *time.Time `gorm:""`                        // Set by the store on update, nil until first edit.
	CreatedAt    time.Time  `gorm:"not null;autoCreateTime"` // Creation timestamp.
}
