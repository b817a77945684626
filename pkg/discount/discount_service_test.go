package discount

import (
	"Streamora-Backend/domain"
	"Streamora-Backend/entities"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

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
		&entities.DiscountCode{},
		&entities.DiscountRedemption{},
	))
	return db
}

func testPackage() *entities.CoinPackage {
	return &entities.CoinPackage{
		ID:         uuid.New(),
		Name:       "Popular",
		Coins:      500,
		BonusCoins: 50,
		Price:      49900,
		IsActive:   true,
	}
}

func seedCode(t *testing.T, repo DiscountRepository, code *entities.DiscountCode) *entities.DiscountCode {
	t.Helper()
	if code.ID == uuid.Nil {
		code.ID = uuid.New()
	}
	require.NoError(t, repo.CreateCode(context.Background(), nil, code))
	return code
}

func TestValidatePercentageCode(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDiscountRepository(db)
	service := NewDiscountService(repo)
	ctx := context.Background()
	minPurchase := int64(49900)

	seedCode(t, repo, &entities.DiscountCode{
		Code:              "SUMMER25",
		DiscountType:      entities.DiscountTypePercentage,
		DiscountValue:     25,
		CodeType:          entities.CodeTypePromotional,
		IsOneTimeUse:      true,
		MinPurchaseAmount: &minPurchase,
		IsActive:          true,
	})

	validation, err := service.Validate(ctx, "summer25 ", uuid.New().String(), testPackage())
	require.NoError(t, err)
	assert.Equal(t, "SUMMER25", validation.Code)
	assert.Equal(t, 125, validation.BonusCoins)
}

func TestValidateFixedCode(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDiscountRepository(db)
	service := NewDiscountService(repo)

	seedCode(t, repo, &entities.DiscountCode{
		Code:          "FLAT9980",
		DiscountType:  entities.DiscountTypeFixed,
		DiscountValue: 9980,
		CodeType:      entities.CodeTypePromotional,
		IsActive:      true,
	})

	// 9980 at the package's 500-coins-per-49900 rate rounds to 100 coins.
	validation, err := service.Validate(context.Background(), "FLAT9980", uuid.New().String(), testPackage())
	require.NoError(t, err)
	assert.Equal(t, 100, validation.BonusCoins)
}

func TestValidateRejections(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDiscountRepository(db)
	service := NewDiscountService(repo)
	ctx := context.Background()
	pkg := testPackage()
	userID := uuid.New()

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(24 * time.Hour)
	owner := uuid.New()
	maxed := 5
	highMin := int64(100000)

	seedCode(t, repo, &entities.DiscountCode{
		Code: "INACTIVE", DiscountType: entities.DiscountTypePercentage, DiscountValue: 10,
		CodeType: entities.CodeTypePromotional, IsActive: false,
	})
	seedCode(t, repo, &entities.DiscountCode{
		Code: "EXPIRED", DiscountType: entities.DiscountTypePercentage, DiscountValue: 10,
		CodeType: entities.CodeTypePromotional, ExpiresAt: &past, IsActive: true,
	})
	seedCode(t, repo, &entities.DiscountCode{
		Code: "OWNED", DiscountType: entities.DiscountTypePercentage, DiscountValue: 10,
		CodeType: entities.CodeTypeReward, OwnerID: &owner, ExpiresAt: &future, IsActive: true,
	})
	seedCode(t, repo, &entities.DiscountCode{
		Code: "MAXED", DiscountType: entities.DiscountTypePercentage, DiscountValue: 10,
		CodeType: entities.CodeTypePromotional, MaxRedemptions: &maxed, CurrentRedemptions: 5, IsActive: true,
	})
	used := seedCode(t, repo, &entities.DiscountCode{
		Code: "ONETIME", DiscountType: entities.DiscountTypePercentage, DiscountValue: 10,
		CodeType: entities.CodeTypePromotional, IsOneTimeUse: true, IsActive: true,
	})
	require.NoError(t, repo.CreateRedemption(ctx, nil, &entities.DiscountRedemption{
		ID: uuid.New(), DiscountCodeID: used.ID, UserID: userID, BonusCoinsAwarded: 50,
	}))
	seedCode(t, repo, &entities.DiscountCode{
		Code: "BIGSPEND", DiscountType: entities.DiscountTypePercentage, DiscountValue: 10,
		CodeType: entities.CodeTypePromotional, MinPurchaseAmount: &highMin, IsActive: true,
	})

	cases := []struct {
		code string
		want error
	}{
		{"NOSUCHCODE", domain.ErrInvalidCode},
		{"INACTIVE", domain.ErrInvalidCode},
		{"EXPIRED", domain.ErrExpiredCode},
		{"OWNED", domain.ErrInvalidCode},
		{"MAXED", domain.ErrRedemptionLimitReached},
		{"ONETIME", domain.ErrAlreadyRedeemed},
		{"BIGSPEND", domain.ErrMinimumPurchaseNotMet},
	}
	for _, tc := range cases {
		_, err := service.Validate(ctx, tc.code, userID.String(), pkg)
		assert.ErrorIs(t, err, tc.want, "code %s", tc.code)
	}
}

func TestRedeemOneTimeUse(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDiscountRepository(db)
	service := NewDiscountService(repo)
	ctx := context.Background()
	userID := uuid.New()

	code := seedCode(t, repo, &entities.DiscountCode{
		Code: "ONCE", DiscountType: entities.DiscountTypePercentage, DiscountValue: 25,
		CodeType: entities.CodeTypePromotional, IsOneTimeUse: true, IsActive: true,
	})

	require.NoError(t, service.Redeem(ctx, nil, code.ID, userID, 125))

	stored, err := repo.GetCodeByID(ctx, nil, code.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.CurrentRedemptions)

	redeemed, err := repo.HasRedemption(ctx, nil, code.ID, userID)
	require.NoError(t, err)
	assert.True(t, redeemed)

	err = service.Redeem(ctx, nil, code.ID, userID, 125)
	assert.ErrorIs(t, err, domain.ErrAlreadyRedeemed)
}

func TestRedeemRespectsMaxRedemptions(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDiscountRepository(db)
	service := NewDiscountService(repo)
	ctx := context.Background()
	max := 1

	code := seedCode(t, repo, &entities.DiscountCode{
		Code: "LIMITED", DiscountType: entities.DiscountTypePercentage, DiscountValue: 10,
		CodeType: entities.CodeTypePromotional, MaxRedemptions: &max, IsActive: true,
	})

	require.NoError(t, service.Redeem(ctx, nil, code.ID, uuid.New(), 50))

	err := service.Redeem(ctx, nil, code.ID, uuid.New(), 50)
	assert.ErrorIs(t, err, domain.ErrRedemptionLimitReached)
}

func TestMintRewardCode(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDiscountRepository(db)
	service := NewDiscountService(repo)
	ctx := context.Background()
	userID := uuid.New()

	code, err := service.MintRewardCode(ctx, userID)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(code.Code, "RW-"))
	assert.Len(t, code.Code, 11)
	assert.Equal(t, entities.CodeTypeReward, code.CodeType)
	assert.True(t, code.IsOneTimeUse)
	assert.True(t, code.IsActive)
	require.NotNil(t, code.OwnerID)
	assert.Equal(t, userID, *code.OwnerID)
	require.NotNil(t, code.MaxRedemptions)
	assert.Equal(t, 1, *code.MaxRedemptions)
	require.NotNil(t, code.ExpiresAt)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 30), *code.ExpiresAt, time.Minute)

	codes, err := repo.GetUserRewardCodes(ctx, userID)
	require.NoError(t, err)
	require.Len(t, codes, 1)
	assert.Equal(t, code.Code, codes[0].Code)

	// The minted code validates for its owner and nobody else.
	validation, err := service.Validate(ctx, code.Code, userID.String(), testPackage())
	require.NoError(t, err)
	assert.Equal(t, 50, validation.BonusCoins)

	_, err = service.Validate(ctx, code.Code, uuid.New().String(), testPackage())
	assert.ErrorIs(t, err, domain.ErrInvalidCode)
}

func TestCreatePromotionalCode(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDiscountRepository(db)
	service := NewDiscountService(repo)
	ctx := context.Background()
	max := 100

	res, err := service.CreatePromotionalCode(ctx, domain.CreateDiscountRequest{
		Code:           "launch10",
		DiscountType:   entities.DiscountTypePercentage,
		DiscountValue:  10,
		MaxRedemptions: &max,
	})
	require.NoError(t, err)
	assert.Equal(t, "LAUNCH10", res.Code)
	assert.Equal(t, entities.CodeTypePromotional, res.CodeType)

	stored, err := repo.GetCodeByValue(ctx, nil, "LAUNCH10")
	require.NoError(t, err)
	assert.True(t, stored.IsActive)
	require.NotNil(t, stored.MaxRedemptions)
	assert.Equal(t, 100, *stored.MaxRedemptions)
}
