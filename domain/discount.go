package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessValidateDiscount = "discount code is valid"
	MessageSuccessCreateDiscount   = "discount code created successfully"

	MessageFailedValidateDiscount = "failed to validate discount code"
	MessageFailedCreateDiscount   = "failed to create discount code"

	ErrInvalidCode            = errors.New("invalid discount code")
	ErrExpiredCode            = errors.New("discount code has expired")
	ErrRedemptionLimitReached = errors.New("discount code redemption limit reached")
	ErrAlreadyRedeemed        = errors.New("discount code already redeemed")
	ErrMinimumPurchaseNotMet  = errors.New("minimum purchase amount not met")
)

type (
	ValidateDiscountRequest struct {
		Code      string `json:"code" validate:"required"`
		PackageID string `json:"package_id" validate:"required,uuid"`
	}

	// DiscountValidation is the outcome of a successful validation, carrying
	// the bonus coins the code would add to the given package.
	DiscountValidation struct {
		CodeID        string     `json:"-"`
		Code          string     `json:"code"`
		DiscountType  string     `json:"discount_type"`
		DiscountValue float64    `json:"discount_value"`
		BonusCoins    int        `json:"bonus_coins"`
		ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	}

	CreateDiscountRequest struct {
		Code              string     `json:"code" validate:"required,min=3,max=32"`
		DiscountType      string     `json:"discount_type" validate:"required,oneof=PERCENTAGE FIXED"`
		DiscountValue     float64    `json:"discount_value" validate:"required,gt=0"`
		MaxRedemptions    *int       `json:"max_redemptions,omitempty" validate:"omitempty,min=1"`
		IsOneTimeUse      bool       `json:"is_one_time_use"`
		MinPurchaseAmount *int64     `json:"min_purchase_amount,omitempty" validate:"omitempty,min=0"`
		ExpiresAt         *time.Time `json:"expires_at,omitempty"`
	}

	DiscountCodeResponse struct {
		ID            string     `json:"id"`
		Code          string     `json:"code"`
		DiscountType  string     `json:"discount_type"`
		DiscountValue float64    `json:"discount_value"`
		CodeType      string     `json:"code_type"`
		IsOneTimeUse  bool       `json:"is_one_time_use"`
		ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	}
)
