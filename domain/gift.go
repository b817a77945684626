package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessGetGifts       = "gifts retrieved successfully"
	MessageSuccessSendGift       = "gift sent successfully"
	MessageSuccessGetGiftHistory = "gift history retrieved successfully"
	MessageSuccessCreateGift     = "gift created successfully"
	MessageSuccessUploadImage    = "gift image uploaded successfully"

	MessageFailedGetGifts       = "failed to retrieve gifts"
	MessageFailedSendGift       = "failed to send gift"
	MessageFailedGetGiftHistory = "failed to retrieve gift history"
	MessageFailedCreateGift     = "failed to create gift"
	MessageFailedUploadImage    = "failed to upload gift image"

	ErrGiftNotFound       = errors.New("gift not found")
	ErrSelfGiftNotAllowed = errors.New("cannot send a gift to yourself")
)

type (
	GiftResponse struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		CoinPrice int64  `json:"coin_price"`
		ImageURL  string `json:"image_url,omitempty"`
	}

	SendGiftRequest struct {
		ReceiverID string `json:"receiver_id" validate:"required,uuid"`
		GiftID     string `json:"gift_id" validate:"required,uuid"`
		Message    string `json:"message,omitempty" validate:"omitempty,max=200"`
		StreamID   string `json:"stream_id,omitempty" validate:"omitempty,uuid"`
	}

	SendGiftResponse struct {
		TransactionID string `json:"transaction_id"`
		CoinAmount    int64  `json:"coin_amount"`
		ReceiverCoins int64  `json:"receiver_coins"`
		SenderBalance int64  `json:"sender_balance"`
	}

	// GiftTransactionResponse exposes the derived receiver share so no
	// consumer recomputes the commission split on its own.
	GiftTransactionResponse struct {
		ID            string    `json:"id"`
		SenderID      string    `json:"sender_id"`
		ReceiverID    string    `json:"receiver_id"`
		GiftID        string    `json:"gift_id"`
		GiftName      string    `json:"gift_name,omitempty"`
		CoinAmount    int64     `json:"coin_amount"`
		ReceiverCoins int64     `json:"receiver_coins"`
		Message       string    `json:"message,omitempty"`
		StreamID      string    `json:"stream_id,omitempty"`
		CreatedAt     time.Time `json:"created_at"`
	}

	CreateGiftRequest struct {
		Name      string `json:"name" validate:"required,min=2,max=64"`
		CoinPrice int64  `json:"coin_price" validate:"required,min=1"`
	}
)
