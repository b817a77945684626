package entities

import (
	"github.com/google/uuid"
)

// Wallet holds a user's coin balance. Balance never goes below zero;
// TotalEarned and TotalSpent only grow.
type Wallet struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"user_id"`
	Balance     int64     `json:"balance"`
	TotalEarned int64     `json:"total_earned"`
	TotalSpent  int64     `json:"total_spent"`

	User *User `gorm:"foreignKey:UserID"`
	Timestamp
}
