package wallet

import (
	"Streamora-Backend/domain"
	"Streamora-Backend/entities"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	// WalletRepository is the ledger store. Mutating methods take the
	// caller's *gorm.DB so a purchase or gift transaction can span the
	// balance change and its audit row in one commit.
	WalletRepository interface {
		GetOrCreateWallet(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*entities.Wallet, error)
		GetWallet(ctx context.Context, userID uuid.UUID) (*entities.Wallet, error)
		Credit(ctx context.Context, tx *gorm.DB, userID uuid.UUID, amount int64) (int64, error)
		Debit(ctx context.Context, tx *gorm.DB, userID uuid.UUID, amount int64) (int64, error)
	}

	walletRepository struct {
		db *gorm.DB
	}
)

func NewWalletRepository(db *gorm.DB) WalletRepository {
	return &walletRepository{
		db: db,
	}
}

func (r *walletRepository) GetOrCreateWallet(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*entities.Wallet, error) {
	if tx == nil {
		tx = r.db
	}

	var wallet entities.Wallet
	err := tx.WithContext(ctx).Where("user_id = ?", userID).First(&wallet).Error
	if err == nil {
		return &wallet, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	wallet = entities.Wallet{
		ID:     uuid.New(),
		UserID: userID,
	}
	if err := tx.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&wallet).Error; err != nil {
		return nil, err
	}

	// Re-read so a concurrent creator's row wins consistently.
	if err := tx.WithContext(ctx).Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		return nil, err
	}
	return &wallet, nil
}

func (r *walletRepository) GetWallet(ctx context.Context, userID uuid.UUID) (*entities.Wallet, error) {
	var wallet entities.Wallet
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrWalletNotFound
		}
		return nil, err
	}
	return &wallet, nil
}

// Credit adds amount to the wallet as a single atomic UPDATE so concurrent
// credits never lose an increment.
func (r *walletRepository) Credit(ctx context.Context, tx *gorm.DB, userID uuid.UUID, amount int64) (int64, error) {
	if tx == nil {
		tx = r.db
	}
	if amount <= 0 {
		return 0, domain.ErrInvalidAmount
	}

	if _, err := r.GetOrCreateWallet(ctx, tx, userID); err != nil {
		return 0, err
	}

	result := tx.WithContext(ctx).
		Model(&entities.Wallet{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"balance":      gorm.Expr("balance + ?", amount),
			"total_earned": gorm.Expr("total_earned + ?", amount),
			"updated_at":   time.Now(),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, domain.ErrWalletNotFound
	}

	var wallet entities.Wallet
	if err := tx.WithContext(ctx).Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		return 0, err
	}
	return wallet.Balance, nil
}

// Debit subtracts amount, with the balance check inside the UPDATE's WHERE
// clause. Zero rows affected means the balance was insufficient; there is no
// separate check-then-write step to race against.
func (r *walletRepository) Debit(ctx context.Context, tx *gorm.DB, userID uuid.UUID, amount int64) (int64, error) {
	if tx == nil {
		tx = r.db
	}
	if amount <= 0 {
		return 0, domain.ErrInvalidAmount
	}

	if _, err := r.GetOrCreateWallet(ctx, tx, userID); err != nil {
		return 0, err
	}

	result := tx.WithContext(ctx).
		Model(&entities.Wallet{}).
		Where("user_id = ? AND balance >= ?", userID, amount).
		Updates(map[string]interface{}{
			"balance":     gorm.Expr("balance - ?", amount),
			"total_spent": gorm.Expr("total_spent + ?", amount),
			"updated_at":  time.Now(),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, domain.ErrInsufficientBalance
	}

	var wallet entities.Wallet
	if err := tx.WithContext(ctx).Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		return 0, err
	}
	return wallet.Balance, nil
}
