package domain

import (
	"errors"
)

var (
	MessageSuccessGetWallet = "wallet retrieved successfully"
	MessageFailedGetWallet  = "failed to retrieve wallet"

	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrWalletNotFound      = errors.New("wallet not found")
)

type (
	WalletResponse struct {
		UserID      string `json:"user_id"`
		Balance     int64  `json:"balance"`
		TotalEarned int64  `json:"total_earned"`
		TotalSpent  int64  `json:"total_spent"`
	}
)
