package gift

import (
	"Streamora-Backend/domain"
	"Streamora-Backend/entities"
	"Streamora-Backend/internal/utils"
	"Streamora-Backend/internal/utils/storage"
	"Streamora-Backend/pkg/wallet"
	"context"
	"errors"
	"fmt"
	"math"
	"mime/multipart"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type (
	GiftService interface {
		GetGifts(ctx context.Context) ([]*domain.GiftResponse, error)
		SendGift(ctx context.Context, req domain.SendGiftRequest, senderID string) (*domain.SendGiftResponse, error)
		GetGiftHistory(ctx context.Context, userID, direction string, page, limit int) ([]*domain.GiftTransactionResponse, int64, error)
		CreateGift(ctx context.Context, req domain.CreateGiftRequest) (*domain.GiftResponse, error)
		UploadGiftImage(ctx context.Context, giftID string, image *multipart.FileHeader) (*domain.GiftResponse, error)
	}

	giftService struct {
		db                *gorm.DB
		giftRepository    GiftRepository
		walletRepository  wallet.WalletRepository
		s3                storage.AwsS3
		log               *logrus.Logger
		receiverShareRate float64
	}
)

func NewGiftService(
	db *gorm.DB,
	giftRepository GiftRepository,
	walletRepository wallet.WalletRepository,
	s3 storage.AwsS3,
	log *logrus.Logger,
) GiftService {
	rate, err := strconv.ParseFloat(utils.GetConfig("RECEIVER_SHARE_RATE"), 64)
	if err != nil || rate <= 0 || rate > 1 {
		rate = 0.70
	}

	return &giftService{
		db:                db,
		giftRepository:    giftRepository,
		walletRepository:  walletRepository,
		s3:                s3,
		log:               log,
		receiverShareRate: rate,
	}
}

// receiverShare is the only place the commission split is computed.
func (s *giftService) receiverShare(coinAmount int64) int64 {
	return int64(math.Floor(float64(coinAmount) * s.receiverShareRate))
}

func (s *giftService) GetGifts(ctx context.Context) ([]*domain.GiftResponse, error) {
	gifts, err := s.giftRepository.GetGifts(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*domain.GiftResponse, 0, len(gifts))
	for _, g := range gifts {
		result = append(result, &domain.GiftResponse{
			ID:        g.ID.String(),
			Name:      g.Name,
			CoinPrice: g.CoinPrice,
			ImageURL:  g.ImageURL,
		})
	}
	return result, nil
}

func (s *giftService) SendGift(ctx context.Context, req domain.SendGiftRequest, senderID string) (*domain.SendGiftResponse, error) {
	senderUUID, err := uuid.Parse(senderID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	receiverUUID, err := uuid.Parse(req.ReceiverID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	giftID, err := uuid.Parse(req.GiftID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	if senderUUID == receiverUUID {
		return nil, domain.ErrSelfGiftNotAllowed
	}

	giftItem, err := s.giftRepository.GetGiftByID(ctx, giftID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrGiftNotFound
		}
		return nil, err
	}

	var streamID *uuid.UUID
	if req.StreamID != "" {
		parsed, err := uuid.Parse(req.StreamID)
		if err != nil {
			return nil, domain.ErrParseUUID
		}
		streamID = &parsed
	}

	receiverCoins := s.receiverShare(giftItem.CoinPrice)
	transaction := &entities.GiftTransaction{
		ID:         uuid.New(),
		SenderID:   senderUUID,
		ReceiverID: receiverUUID,
		GiftID:     giftItem.ID,
		CoinAmount: giftItem.CoinPrice,
		Message:    req.Message,
		StreamID:   streamID,
		Timestamp: entities.Timestamp{
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
	}

	// Debit, credit and the audit row commit together or not at all. The
	// debit aborts the whole transfer when the balance is short, so no
	// partial gift can ever be observed. A share that floors to zero on a
	// cheap gift skips the credit; the debit and audit row still commit.
	var senderBalance int64
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		senderBalance, err = s.walletRepository.Debit(ctx, tx, senderUUID, giftItem.CoinPrice)
		if err != nil {
			return err
		}
		if receiverCoins > 0 {
			if _, err := s.walletRepository.Credit(ctx, tx, receiverUUID, receiverCoins); err != nil {
				return err
			}
		}
		return s.giftRepository.CreateGiftTransaction(ctx, tx, transaction)
	})
	if err != nil {
		if !errors.Is(err, domain.ErrInsufficientBalance) {
			s.log.WithFields(logrus.Fields{
				"sender_id":   senderID,
				"receiver_id": req.ReceiverID,
				"gift_id":     req.GiftID,
			}).WithError(err).Error("gift transfer failed")
		}
		return nil, err
	}

	return &domain.SendGiftResponse{
		TransactionID: transaction.ID.String(),
		CoinAmount:    giftItem.CoinPrice,
		ReceiverCoins: receiverCoins,
		SenderBalance: senderBalance,
	}, nil
}

func (s *giftService) GetGiftHistory(ctx context.Context, userID, direction string, page, limit int) ([]*domain.GiftTransactionResponse, int64, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, 0, domain.ErrParseUUID
	}

	transactions, count, err := s.giftRepository.GetUserGiftTransactions(ctx, userUUID, direction, page, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]*domain.GiftTransactionResponse, 0, len(transactions))
	for _, tx := range transactions {
		resp := &domain.GiftTransactionResponse{
			ID:            tx.ID.String(),
			SenderID:      tx.SenderID.String(),
			ReceiverID:    tx.ReceiverID.String(),
			GiftID:        tx.GiftID.String(),
			CoinAmount:    tx.CoinAmount,
			ReceiverCoins: s.receiverShare(tx.CoinAmount),
			Message:       tx.Message,
			CreatedAt:     tx.CreatedAt,
		}
		if tx.Gift != nil {
			resp.GiftName = tx.Gift.Name
		}
		if tx.StreamID != nil {
			resp.StreamID = tx.StreamID.String()
		}
		result = append(result, resp)
	}
	return result, count, nil
}

func (s *giftService) CreateGift(ctx context.Context, req domain.CreateGiftRequest) (*domain.GiftResponse, error) {
	giftItem := &entities.Gift{
		ID:        uuid.New(),
		Name:      req.Name,
		CoinPrice: req.CoinPrice,
		IsActive:  true,
		Timestamp: entities.Timestamp{
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
	}
	if err := s.giftRepository.CreateGift(ctx, giftItem); err != nil {
		return nil, err
	}

	return &domain.GiftResponse{
		ID:        giftItem.ID.String(),
		Name:      giftItem.Name,
		CoinPrice: giftItem.CoinPrice,
	}, nil
}

func (s *giftService) UploadGiftImage(ctx context.Context, giftID string, image *multipart.FileHeader) (*domain.GiftResponse, error) {
	id, err := uuid.Parse(giftID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	giftItem, err := s.giftRepository.GetGiftByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrGiftNotFound
		}
		return nil, err
	}

	objectKey, err := s.s3.UploadFile(
		fmt.Sprintf("gift-%s", giftItem.ID.String()),
		image,
		"gifts",
		storage.AllowImage...,
	)
	if err != nil {
		return nil, err
	}
	imageURL := s.s3.GetPublicLinkKey(objectKey)

	if err := s.giftRepository.UpdateGiftImage(ctx, id, imageURL); err != nil {
		return nil, err
	}

	return &domain.GiftResponse{
		ID:        giftItem.ID.String(),
		Name:      giftItem.Name,
		CoinPrice: giftItem.CoinPrice,
		ImageURL:  imageURL,
	}, nil
}
