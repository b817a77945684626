package entities

import (
	"github.com/google/uuid"
)

type Gift struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name      string    `json:"name"`
	CoinPrice int64     `json:"coin_price"`
	ImageURL  string    `json:"image_url,omitempty"`
	IsActive  bool      `json:"is_active"`

	Timestamp
}

// GiftTransaction is immutable once created. CoinAmount is the sender-paid
// amount; the receiver's commission-adjusted share is derived at read time.
type GiftTransaction struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	SenderID   uuid.UUID  `gorm:"type:uuid;index" json:"sender_id"`
	ReceiverID uuid.UUID  `gorm:"type:uuid;index" json:"receiver_id"`
	GiftID     uuid.UUID  `gorm:"type:uuid" json:"gift_id"`
	CoinAmount int64      `json:"coin_amount"`
	Message    string     `json:"message,omitempty"`
	StreamID   *uuid.UUID `gorm:"type:uuid" json:"stream_id,omitempty"`

	Sender   *User `gorm:"foreignKey:SenderID"`
	Receiver *User `gorm:"foreignKey:ReceiverID"`
	Gift     *Gift `gorm:"foreignKey:GiftID"`
	Timestamp
}
