package gift

import (
	"Streamora-Backend/entities"
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	GiftRepository interface {
		CreateGift(ctx context.Context, gift *entities.Gift) error
		GetGifts(ctx context.Context) ([]*entities.Gift, error)
		GetGiftByID(ctx context.Context, id uuid.UUID) (*entities.Gift, error)
		UpdateGiftImage(ctx context.Context, id uuid.UUID, imageURL string) error

		CreateGiftTransaction(ctx context.Context, tx *gorm.DB, transaction *entities.GiftTransaction) error
		GetUserGiftTransactions(ctx context.Context, userID uuid.UUID, direction string, page, limit int) ([]*entities.GiftTransaction, int64, error)
	}

	giftRepository struct {
		db *gorm.DB
	}
)

func NewGiftRepository(db *gorm.DB) GiftRepository {
	return &giftRepository{
		db: db,
	}
}

func (r *giftRepository) CreateGift(ctx context.Context, gift *entities.Gift) error {
	return r.db.WithContext(ctx).Create(gift).Error
}

func (r *giftRepository) GetGifts(ctx context.Context) ([]*entities.Gift, error) {
	var gifts []*entities.Gift
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("coin_price ASC").
		Find(&gifts).Error; err != nil {
		return nil, err
	}
	return gifts, nil
}

func (r *giftRepository) GetGiftByID(ctx context.Context, id uuid.UUID) (*entities.Gift, error) {
	var gift entities.Gift
	if err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&gift).Error; err != nil {
		return nil, err
	}
	return &gift, nil
}

func (r *giftRepository) UpdateGiftImage(ctx context.Context, id uuid.UUID, imageURL string) error {
	return r.db.WithContext(ctx).
		Model(&entities.Gift{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"image_url":  imageURL,
			"updated_at": time.Now(),
		}).Error
}

func (r *giftRepository) CreateGiftTransaction(ctx context.Context, tx *gorm.DB, transaction *entities.GiftTransaction) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(transaction).Error
}

func (r *giftRepository) GetUserGiftTransactions(ctx context.Context, userID uuid.UUID, direction string, page, limit int) ([]*entities.GiftTransaction, int64, error) {
	var transactions []*entities.GiftTransaction
	var count int64
	offset := (page - 1) * limit

	query := r.db.WithContext(ctx)
	switch direction {
	case "sent":
		query = query.Where("sender_id = ?", userID)
	case "received":
		query = query.Where("receiver_id = ?", userID)
	default:
		query = query.Where("sender_id = ? OR receiver_id = ?", userID, userID)
	}

	if err := query.Model(&entities.GiftTransaction{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("Gift").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&transactions).Error; err != nil {
		return nil, 0, err
	}

	return transactions, count, nil
}
