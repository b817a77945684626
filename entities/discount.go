package entities

import (
	"time"

	"github.com/google/uuid"
)

const (
	DiscountTypePercentage = "PERCENTAGE"
	DiscountTypeFixed      = "FIXED"

	CodeTypePromotional = "PROMOTIONAL"
	CodeTypeReward      = "REWARD"
)

// DiscountCode grants bonus coins on a package purchase. REWARD codes carry
// an OwnerID and can only be redeemed by that user.
type DiscountCode struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Code               string     `gorm:"uniqueIndex" json:"code"`
	DiscountType       string     `json:"discount_type"`
	DiscountValue      float64    `json:"discount_value"`
	CodeType           string     `json:"code_type"`
	OwnerID            *uuid.UUID `gorm:"type:uuid" json:"owner_id,omitempty"`
	MaxRedemptions     *int       `json:"max_redemptions,omitempty"`
	CurrentRedemptions int        `json:"current_redemptions"`
	IsOneTimeUse       bool       `json:"is_one_time_use"`
	MinPurchaseAmount  *int64     `json:"min_purchase_amount,omitempty"`
	ExpiresAt          *time.Time `json:"expires_at,omitempty"`
	IsActive           bool       `json:"is_active"`

	Timestamp
}

// DiscountRedemption records one consumed benefit; its existence per
// (code, user) is what enforces one-time use.
type DiscountRedemption struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	DiscountCodeID    uuid.UUID `gorm:"type:uuid;index:idx_redemption_code_user" json:"discount_code_id"`
	UserID            uuid.UUID `gorm:"type:uuid;index:idx_redemption_code_user" json:"user_id"`
	BonusCoinsAwarded int       `json:"bonus_coins_awarded"`

	DiscountCode *DiscountCode `gorm:"foreignKey:DiscountCodeID"`
	User         *User         `gorm:"foreignKey:UserID"`
	Timestamp
}
