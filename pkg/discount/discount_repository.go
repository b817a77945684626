package discount

import (
	"Streamora-Backend/entities"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	DiscountRepository interface {
		CreateCode(ctx context.Context, tx *gorm.DB, code *entities.DiscountCode) error
		GetCodeByValue(ctx context.Context, tx *gorm.DB, code string) (*entities.DiscountCode, error)
		GetCodeByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*entities.DiscountCode, error)
		IncrementRedemptions(ctx context.Context, tx *gorm.DB, codeID uuid.UUID) error
		HasRedemption(ctx context.Context, tx *gorm.DB, codeID, userID uuid.UUID) (bool, error)
		CreateRedemption(ctx context.Context, tx *gorm.DB, redemption *entities.DiscountRedemption) error
		GetUserRewardCodes(ctx context.Context, userID uuid.UUID) ([]*entities.DiscountCode, error)
	}

	discountRepository struct {
		db *gorm.DB
	}
)

var errRedemptionLimit = errors.New("redemption limit reached")

func NewDiscountRepository(db *gorm.DB) DiscountRepository {
	return &discountRepository{
		db: db,
	}
}

func (r *discountRepository) CreateCode(ctx context.Context, tx *gorm.DB, code *entities.DiscountCode) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(code).Error
}

func (r *discountRepository) GetCodeByValue(ctx context.Context, tx *gorm.DB, code string) (*entities.DiscountCode, error) {
	if tx == nil {
		tx = r.db
	}
	var discountCode entities.DiscountCode
	if err := tx.WithContext(ctx).
		Where("code = ?", code).
		First(&discountCode).Error; err != nil {
		return nil, err
	}
	return &discountCode, nil
}

func (r *discountRepository) GetCodeByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*entities.DiscountCode, error) {
	if tx == nil {
		tx = r.db
	}
	var discountCode entities.DiscountCode
	if err := tx.WithContext(ctx).
		Where("id = ?", id).
		First(&discountCode).Error; err != nil {
		return nil, err
	}
	return &discountCode, nil
}

// IncrementRedemptions bumps current_redemptions with the limit check inside
// the WHERE clause. The touched row also serializes concurrent redemptions
// of the same code for the remainder of the surrounding transaction.
func (r *discountRepository) IncrementRedemptions(ctx context.Context, tx *gorm.DB, codeID uuid.UUID) error {
	if tx == nil {
		tx = r.db
	}
	result := tx.WithContext(ctx).
		Model(&entities.DiscountCode{}).
		Where("id = ? AND (max_redemptions IS NULL OR current_redemptions < max_redemptions)", codeID).
		Updates(map[string]interface{}{
			"current_redemptions": gorm.Expr("current_redemptions + 1"),
			"updated_at":          time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errRedemptionLimit
	}
	return nil
}

func (r *discountRepository) HasRedemption(ctx context.Context, tx *gorm.DB, codeID, userID uuid.UUID) (bool, error) {
	if tx == nil {
		tx = r.db
	}
	var count int64
	if err := tx.WithContext(ctx).
		Model(&entities.DiscountRedemption{}).
		Where("discount_code_id = ? AND user_id = ?", codeID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *discountRepository) CreateRedemption(ctx context.Context, tx *gorm.DB, redemption *entities.DiscountRedemption) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(redemption).Error
}

func (r *discountRepository) GetUserRewardCodes(ctx context.Context, userID uuid.UUID) ([]*entities.DiscountCode, error) {
	var codes []*entities.DiscountCode
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND code_type = ? AND is_active = ?", userID, entities.CodeTypeReward, true).
		Order("created_at DESC").
		Find(&codes).Error; err != nil {
		return nil, err
	}
	return codes, nil
}
