package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessGetCoinPackages    = "coin packages retrieved successfully"
	MessageSuccessInitiateCheckout   = "checkout session created successfully"
	MessageSuccessGetPurchaseHistory = "purchase history retrieved successfully"
	MessageSuccessProcessWebhook     = "payment notification processed"

	MessageFailedGetCoinPackages    = "failed to retrieve coin packages"
	MessageFailedInitiateCheckout   = "failed to create checkout session"
	MessageFailedGetPurchaseHistory = "failed to retrieve purchase history"
	MessageFailedProcessWebhook     = "failed to process payment notification"

	ErrPackageNotFound        = errors.New("coin package not found")
	ErrCheckoutCreationFailed = errors.New("failed to create checkout session")
	ErrPurchaseNotFound       = errors.New("purchase not found")
	ErrPurchaseNotPending     = errors.New("purchase is not in pending state")
)

type (
	CoinPackageResponse struct {
		ID         string `json:"id"`
		Name       string `json:"name"`
		Coins      int    `json:"coins"`
		BonusCoins int    `json:"bonus_coins"`
		Price      int64  `json:"price"`
	}

	CheckoutRequest struct {
		PackageID    string `json:"package_id" validate:"required,uuid"`
		DiscountCode string `json:"discount_code,omitempty"`
	}

	CheckoutResponse struct {
		OrderID     string `json:"order_id"`
		CheckoutURL string `json:"checkout_url"`
		TotalCoins  int    `json:"total_coins"`
		Amount      int64  `json:"amount"`
	}

	PurchaseResponse struct {
		ID            string    `json:"id"`
		OrderID       string    `json:"order_id"`
		PackageID     string    `json:"package_id"`
		Coins         int       `json:"coins"`
		BonusCoins    int       `json:"bonus_coins"`
		DiscountCoins int       `json:"discount_coins"`
		TotalCoins    int       `json:"total_coins"`
		Amount        int64     `json:"amount"`
		Status        string    `json:"status"`
		FailureReason string    `json:"failure_reason,omitempty"`
		CreatedAt     time.Time `json:"created_at"`
	}

	// CheckoutSessionRequest is what the payment gateway adapter needs to
	// open a hosted checkout page.
	CheckoutSessionRequest struct {
		OrderID string
		Amount  int64
		Email   string
	}

	CheckoutSession struct {
		SessionID   string
		CheckoutURL string
	}
)
