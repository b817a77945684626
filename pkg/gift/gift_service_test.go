package gift

import (
	"Streamora-Backend/domain"
	"Streamora-Backend/entities"
	"Streamora-Backend/pkg/wallet"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fixture struct {
	db         *gorm.DB
	service    GiftService
	giftRepo   GiftRepository
	walletRepo wallet.WalletRepository
	sender     uuid.UUID
	receiver   uuid.UUID
	rocket     *entities.Gift
}

func newFixture(t *testing.T) *fixture {
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
		&entities.Gift{},
		&entities.GiftTransaction{},
	))

	log := logrus.New()
	log.SetOutput(io.Discard)

	giftRepo := NewGiftRepository(db)
	walletRepo := wallet.NewWalletRepository(db)

	rocket := &entities.Gift{
		ID:        uuid.New(),
		Name:      "Rocket",
		CoinPrice: 100,
		IsActive:  true,
	}
	require.NoError(t, giftRepo.CreateGift(context.Background(), rocket))

	return &fixture{
		db:         db,
		service:    NewGiftService(db, giftRepo, walletRepo, nil, log),
		giftRepo:   giftRepo,
		walletRepo: walletRepo,
		sender:     uuid.New(),
		receiver:   uuid.New(),
		rocket:     rocket,
	}
}

func TestSendGiftCommissionSplit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.walletRepo.Credit(ctx, nil, f.sender, 200)
	require.NoError(t, err)

	res, err := f.service.SendGift(ctx, domain.SendGiftRequest{
		ReceiverID: f.receiver.String(),
		GiftID:     f.rocket.ID.String(),
		Message:    "great stream!",
	}, f.sender.String())
	require.NoError(t, err)

	assert.Equal(t, int64(100), res.CoinAmount)
	assert.Equal(t, int64(70), res.ReceiverCoins)
	assert.Equal(t, int64(100), res.SenderBalance)

	senderWallet, err := f.walletRepo.GetWallet(ctx, f.sender)
	require.NoError(t, err)
	assert.Equal(t, int64(100), senderWallet.Balance)
	assert.Equal(t, int64(100), senderWallet.TotalSpent)

	receiverWallet, err := f.walletRepo.GetWallet(ctx, f.receiver)
	require.NoError(t, err)
	assert.Equal(t, int64(70), receiverWallet.Balance)
	assert.Equal(t, int64(70), receiverWallet.TotalEarned)

	// The audit row records the full price; the split is derived from it.
	var stored entities.GiftTransaction
	require.NoError(t, f.db.First(&stored).Error)
	assert.Equal(t, int64(100), stored.CoinAmount)
	assert.Equal(t, f.sender, stored.SenderID)
	assert.Equal(t, f.receiver, stored.ReceiverID)
}

func TestSendGiftShareRoundsToZero(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cheap := &entities.Gift{ID: uuid.New(), Name: "Clap", CoinPrice: 1, IsActive: true}
	require.NoError(t, f.giftRepo.CreateGift(ctx, cheap))

	_, err := f.walletRepo.Credit(ctx, nil, f.sender, 10)
	require.NoError(t, err)

	res, err := f.service.SendGift(ctx, domain.SendGiftRequest{
		ReceiverID: f.receiver.String(),
		GiftID:     cheap.ID.String(),
	}, f.sender.String())
	require.NoError(t, err)

	assert.Equal(t, int64(1), res.CoinAmount)
	assert.Equal(t, int64(0), res.ReceiverCoins)
	assert.Equal(t, int64(9), res.SenderBalance)

	senderWallet, err := f.walletRepo.GetWallet(ctx, f.sender)
	require.NoError(t, err)
	assert.Equal(t, int64(9), senderWallet.Balance)

	// No credit happened, so the receiver never got a wallet.
	_, err = f.walletRepo.GetWallet(ctx, f.receiver)
	assert.ErrorIs(t, err, domain.ErrWalletNotFound)

	var stored entities.GiftTransaction
	require.NoError(t, f.db.First(&stored).Error)
	assert.Equal(t, int64(1), stored.CoinAmount)
}

func TestSendGiftInsufficientBalance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.walletRepo.Credit(ctx, nil, f.sender, 50)
	require.NoError(t, err)

	_, err = f.service.SendGift(ctx, domain.SendGiftRequest{
		ReceiverID: f.receiver.String(),
		GiftID:     f.rocket.ID.String(),
	}, f.sender.String())
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)

	senderWallet, err := f.walletRepo.GetWallet(ctx, f.sender)
	require.NoError(t, err)
	assert.Equal(t, int64(50), senderWallet.Balance)

	var count int64
	require.NoError(t, f.db.Model(&entities.GiftTransaction{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestSendGiftToSelf(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.SendGift(context.Background(), domain.SendGiftRequest{
		ReceiverID: f.sender.String(),
		GiftID:     f.rocket.ID.String(),
	}, f.sender.String())
	assert.ErrorIs(t, err, domain.ErrSelfGiftNotAllowed)
}

func TestSendGiftUnknownOrInactiveGift(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.walletRepo.Credit(ctx, nil, f.sender, 1000)
	require.NoError(t, err)

	_, err = f.service.SendGift(ctx, domain.SendGiftRequest{
		ReceiverID: f.receiver.String(),
		GiftID:     uuid.New().String(),
	}, f.sender.String())
	assert.ErrorIs(t, err, domain.ErrGiftNotFound)

	retired := &entities.Gift{ID: uuid.New(), Name: "Retired", CoinPrice: 10, IsActive: false}
	require.NoError(t, f.giftRepo.CreateGift(ctx, retired))

	_, err = f.service.SendGift(ctx, domain.SendGiftRequest{
		ReceiverID: f.receiver.String(),
		GiftID:     retired.ID.String(),
	}, f.sender.String())
	assert.ErrorIs(t, err, domain.ErrGiftNotFound)
}

func TestGetGifts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.giftRepo.CreateGift(ctx, &entities.Gift{
		ID: uuid.New(), Name: "Rose", CoinPrice: 10, IsActive: true,
	}))
	require.NoError(t, f.giftRepo.CreateGift(ctx, &entities.Gift{
		ID: uuid.New(), Name: "Hidden", CoinPrice: 1, IsActive: false,
	}))

	gifts, err := f.service.GetGifts(ctx)
	require.NoError(t, err)
	require.Len(t, gifts, 2)
	assert.Equal(t, "Rose", gifts[0].Name)
	assert.Equal(t, "Rocket", gifts[1].Name)
}

func TestGetGiftHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	third := uuid.New()

	_, err := f.walletRepo.Credit(ctx, nil, f.sender, 1000)
	require.NoError(t, err)
	_, err = f.walletRepo.Credit(ctx, nil, third, 1000)
	require.NoError(t, err)

	_, err = f.service.SendGift(ctx, domain.SendGiftRequest{
		ReceiverID: f.receiver.String(),
		GiftID:     f.rocket.ID.String(),
	}, f.sender.String())
	require.NoError(t, err)
	_, err = f.service.SendGift(ctx, domain.SendGiftRequest{
		ReceiverID: f.sender.String(),
		GiftID:     f.rocket.ID.String(),
	}, third.String())
	require.NoError(t, err)

	sent, count, err := f.service.GetGiftHistory(ctx, f.sender.String(), "sent", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	require.Len(t, sent, 1)
	assert.Equal(t, f.sender.String(), sent[0].SenderID)
	assert.Equal(t, int64(100), sent[0].CoinAmount)
	assert.Equal(t, int64(70), sent[0].ReceiverCoins)
	assert.Equal(t, "Rocket", sent[0].GiftName)

	received, count, err := f.service.GetGiftHistory(ctx, f.sender.String(), "received", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	require.Len(t, received, 1)
	assert.Equal(t, f.sender.String(), received[0].ReceiverID)

	both, count, err := f.service.GetGiftHistory(ctx, f.sender.String(), "", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.Len(t, both, 2)
}

func TestCreateGift(t *testing.T) {
	f := newFixture(t)

	res, err := f.service.CreateGift(context.Background(), domain.CreateGiftRequest{
		Name:      "Dragon",
		CoinPrice: 5000,
	})
	require.NoError(t, err)
	assert.Equal(t, "Dragon", res.Name)
	assert.Equal(t, int64(5000), res.CoinPrice)

	stored, err := f.giftRepo.GetGiftByID(context.Background(), uuid.MustParse(res.ID))
	require.NoError(t, err)
	assert.True(t, stored.IsActive)
}
