package purchase

import (
	"Streamora-Backend/entities"
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	PurchaseRepository interface {
		CreateCoinPackage(ctx context.Context, pkg *entities.CoinPackage) error
		GetCoinPackages(ctx context.Context) ([]*entities.CoinPackage, error)
		GetCoinPackageByID(ctx context.Context, id uuid.UUID) (*entities.CoinPackage, error)

		CreatePurchase(ctx context.Context, purchase *entities.Purchase) error
		GetPurchaseByOrderID(ctx context.Context, tx *gorm.DB, orderID string) (*entities.Purchase, error)
		MarkCompleted(ctx context.Context, tx *gorm.DB, orderID string) (bool, error)
		MarkFailed(ctx context.Context, tx *gorm.DB, orderID, status, reason string) (bool, error)
		ClearDiscount(ctx context.Context, tx *gorm.DB, orderID string) error
		GetUserPurchases(ctx context.Context, userID uuid.UUID, page, limit int) ([]*entities.Purchase, int64, error)
	}

	purchaseRepository struct {
		db *gorm.DB
	}
)

func NewPurchaseRepository(db *gorm.DB) PurchaseRepository {
	return &purchaseRepository{
		db: db,
	}
}

func (r *purchaseRepository) CreateCoinPackage(ctx context.Context, pkg *entities.CoinPackage) error {
	return r.db.WithContext(ctx).Create(pkg).Error
}

func (r *purchaseRepository) GetCoinPackages(ctx context.Context) ([]*entities.CoinPackage, error) {
	var packages []*entities.CoinPackage
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order ASC").
		Find(&packages).Error; err != nil {
		return nil, err
	}
	return packages, nil
}

func (r *purchaseRepository) GetCoinPackageByID(ctx context.Context, id uuid.UUID) (*entities.CoinPackage, error) {
	var pkg entities.CoinPackage
	if err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&pkg).Error; err != nil {
		return nil, err
	}
	return &pkg, nil
}

func (r *purchaseRepository) CreatePurchase(ctx context.Context, purchase *entities.Purchase) error {
	return r.db.WithContext(ctx).Create(purchase).Error
}

func (r *purchaseRepository) GetPurchaseByOrderID(ctx context.Context, tx *gorm.DB, orderID string) (*entities.Purchase, error) {
	if tx == nil {
		tx = r.db
	}
	var purchase entities.Purchase
	if err := tx.WithContext(ctx).
		Where("order_id = ?", orderID).
		First(&purchase).Error; err != nil {
		return nil, err
	}
	return &purchase, nil
}

// MarkCompleted claims the PENDING -> COMPLETED transition. The status guard
// lives in the WHERE clause; the returned bool reports whether this caller
// won the transition.
func (r *purchaseRepository) MarkCompleted(ctx context.Context, tx *gorm.DB, orderID string) (bool, error) {
	if tx == nil {
		tx = r.db
	}
	result := tx.WithContext(ctx).
		Model(&entities.Purchase{}).
		Where("order_id = ? AND status = ?", orderID, entities.PurchaseStatusPending).
		Updates(map[string]interface{}{
			"status":     entities.PurchaseStatusCompleted,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// MarkFailed moves a PENDING purchase to FAILED or CANCELLED with a reason.
func (r *purchaseRepository) MarkFailed(ctx context.Context, tx *gorm.DB, orderID, status, reason string) (bool, error) {
	if tx == nil {
		tx = r.db
	}
	result := tx.WithContext(ctx).
		Model(&entities.Purchase{}).
		Where("order_id = ? AND status = ?", orderID, entities.PurchaseStatusPending).
		Updates(map[string]interface{}{
			"status":         status,
			"failure_reason": reason,
			"updated_at":     time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ClearDiscount removes a discount that could not be honored at completion
// time, so the row's totals match what was actually credited. SET expressions
// read the pre-update row, so total_coins shrinks by the old discount_coins.
func (r *purchaseRepository) ClearDiscount(ctx context.Context, tx *gorm.DB, orderID string) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).
		Model(&entities.Purchase{}).
		Where("order_id = ?", orderID).
		Updates(map[string]interface{}{
			"total_coins":      gorm.Expr("total_coins - discount_coins"),
			"discount_coins":   0,
			"discount_code_id": nil,
			"updated_at":       time.Now(),
		}).Error
}

func (r *purchaseRepository) GetUserPurchases(ctx context.Context, userID uuid.UUID, page, limit int) ([]*entities.Purchase, int64, error) {
	var purchases []*entities.Purchase
	var count int64
	offset := (page - 1) * limit

	if err := r.db.WithContext(ctx).
		Model(&entities.Purchase{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&purchases).Error; err != nil {
		return nil, 0, err
	}

	return purchases, count, nil
}
