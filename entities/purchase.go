package entities

import (
	"github.com/google/uuid"
)

const (
	PurchaseStatusPending   = "PENDING"
	PurchaseStatusCompleted = "COMPLETED"
	PurchaseStatusFailed    = "FAILED"
	PurchaseStatusRefunded  = "REFUNDED"
	PurchaseStatusCancelled = "CANCELLED"
)

type CoinPackage struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name       string    `json:"name"`
	Coins      int       `json:"coins"`
	BonusCoins int       `json:"bonus_coins"`
	Price      int64     `json:"price"` // minor currency units
	IsActive   bool      `json:"is_active"`
	SortOrder  int       `json:"sort_order"`

	Timestamp
}

// Purchase is one checkout attempt. It leaves PENDING at most once;
// the webhook handler relies on the unique OrderID to deduplicate.
type Purchase struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	UserID         uuid.UUID  `gorm:"type:uuid;index" json:"user_id"`
	PackageID      uuid.UUID  `gorm:"type:uuid" json:"package_id"`
	OrderID        string     `gorm:"uniqueIndex" json:"order_id"`
	Coins          int        `json:"coins"`
	BonusCoins     int        `json:"bonus_coins"`
	DiscountCoins  int        `json:"discount_coins"`
	TotalCoins     int        `json:"total_coins"`
	Amount         int64      `json:"amount"`
	Status         string     `json:"status"`
	FailureReason  string     `json:"failure_reason,omitempty"`
	DiscountCodeID *uuid.UUID `gorm:"type:uuid" json:"discount_code_id,omitempty"`

	User    *User        `gorm:"foreignKey:UserID"`
	Package *CoinPackage `gorm:"foreignKey:PackageID"`
	Timestamp
}
