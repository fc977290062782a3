package model

import "time"

// ActivityLog is an append-only audit line written on behalf of a user.
type ActivityLog struct {
	ID        int64     `gorm:"primaryKey"`
	UserID    int64     `gorm:"index;not null"`
	Message   string    `gorm:"size:255;not null"`
	CreatedAt time.Time `gorm:"not null;index"`

	// Associations
	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
