package models

import "time"

// Transaction represents a single income or expense record.
type Transaction struct {
	ID          uint      `gorm:"primaryKey"`
	UserID      uint      `gorm:"index;not null"`
	Description string    `gorm:"size:255;not null"`
	AmountCents int64     `gorm:"not null"` // unsigned magnitude in cents, sign lives in Kind
	Kind        string    `gorm:"size:16;index;not null"` // income / expense
	CategoryID  uint      `gorm:"index;not null"`
	Date        time.Time `gorm:"index;not null"` // calendar date, midnight UTC
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Category Category `gorm:"constraint:OnDelete:RESTRICT"`
}
