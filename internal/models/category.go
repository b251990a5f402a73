package models

import "time"

// Category is a named income/expense bucket scoped to one user.
// (user_id, name) is unique so default seeding stays idempotent.
type Category struct {
	ID          uint   `gorm:"primaryKey"`
	UserID      uint   `gorm:"uniqueIndex:idx_categories_user_name;not null"`
	Name        string `gorm:"size:255;uniqueIndex:idx_categories_user_name;not null"`
	Kind        string `gorm:"size:16;index;not null"` // income / expense
	Description string `gorm:"size:255"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
