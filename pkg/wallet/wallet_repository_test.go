package wallet

import (
	"Streamora-Backend/domain"
	"Streamora-Backend/entities"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&entities.User{},
		&entities.Wallet{},
	))
	return db
}

func TestGetOrCreateWallet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewWalletRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	wallet, err := repo.GetOrCreateWallet(ctx, nil, userID)
	require.NoError(t, err)
	assert.Equal(t, userID, wallet.UserID)
	assert.Equal(t, int64(0), wallet.Balance)
	assert.Equal(t, int64(0), wallet.TotalEarned)
	assert.Equal(t, int64(0), wallet.TotalSpent)

	again, err := repo.GetOrCreateWallet(ctx, nil, userID)
	require.NoError(t, err)
	assert.Equal(t, wallet.ID, again.ID)

	var count int64
	require.NoError(t, db.Model(&entities.Wallet{}).Where("user_id = ?", userID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreditAndDebit(t *testing.T) {
	db := setupTestDB(t)
	repo := NewWalletRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	balance, err := repo.Credit(ctx, nil, userID, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(100), balance)

	balance, err = repo.Debit(ctx, nil, userID, 40)
	require.NoError(t, err)
	assert.Equal(t, int64(60), balance)

	wallet, err := repo.GetWallet(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(60), wallet.Balance)
	assert.Equal(t, int64(100), wallet.TotalEarned)
	assert.Equal(t, int64(40), wallet.TotalSpent)
}

func TestDebitInsufficientBalance(t *testing.T) {
	db := setupTestDB(t)
	repo := NewWalletRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	_, err := repo.Credit(ctx, nil, userID, 50)
	require.NoError(t, err)

	_, err = repo.Debit(ctx, nil, userID, 51)
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)

	wallet, err := repo.GetWallet(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(50), wallet.Balance)
	assert.Equal(t, int64(0), wallet.TotalSpent)
}

func TestDebitFreshWallet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewWalletRepository(db)

	_, err := repo.Debit(context.Background(), nil, uuid.New(), 1)
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)
}

func TestCreditRejectsNonPositiveAmount(t *testing.T) {
	db := setupTestDB(t)
	repo := NewWalletRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	_, err := repo.Credit(ctx, nil, userID, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = repo.Credit(ctx, nil, userID, -5)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = repo.Debit(ctx, nil, userID, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

// With a balance exactly covering one debit, N concurrent debits must
// succeed exactly once; the balance check lives inside the UPDATE so no
// interleaving can drive the balance negative.
func TestConcurrentDebitSingleWinner(t *testing.T) {
	db := setupTestDB(t)
	repo := NewWalletRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	_, err := repo.Credit(ctx, nil, userID, 100)
	require.NoError(t, err)

	const workers = 8
	var wg sync.WaitGroup
	results := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Debit(ctx, nil, userID, 100)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	insufficient := 0
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, domain.ErrInsufficientBalance):
			insufficient++
		default:
			t.Fatalf("unexpected debit error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, insufficient)

	wallet, err := repo.GetWallet(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), wallet.Balance)
}

func TestWalletServiceGetWallet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewWalletRepository(db)
	service := NewWalletService(repo)
	ctx := context.Background()
	userID := uuid.New()

	res, err := service.GetWallet(ctx, userID.String())
	require.NoError(t, err)
	assert.Equal(t, userID.String(), res.UserID)
	assert.Equal(t, int64(0), res.Balance)

	_, err = repo.Credit(ctx, nil, userID, 250)
	require.NoError(t, err)

	res, err = service.GetWallet(ctx, userID.String())
	require.NoError(t, err)
	assert.Equal(t, int64(250), res.Balance)
	assert.Equal(t, int64(250), res.TotalEarned)

	_, err = service.GetWallet(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrParseUUID)
}
