package purchase

import (
	"Streamora-Backend/domain"
	"Streamora-Backend/entities"
	"Streamora-Backend/internal/utils"
	"Streamora-Backend/internal/utils/mailing"
	"Streamora-Backend/pkg/discount"
	"Streamora-Backend/pkg/midtrans"
	"Streamora-Backend/pkg/user"
	"Streamora-Backend/pkg/wallet"
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type (
	PurchaseService interface {
		GetCoinPackages(ctx context.Context) ([]*domain.CoinPackageResponse, error)
		InitiateCheckout(ctx context.Context, req domain.CheckoutRequest, userID string) (*domain.CheckoutResponse, error)
		CompletePurchase(ctx context.Context, orderID string) error
		FailPurchase(ctx context.Context, orderID, reason string) error
		GetPurchaseHistory(ctx context.Context, userID string, page, limit int) ([]*domain.PurchaseResponse, int64, error)
	}

	purchaseService struct {
		db                 *gorm.DB
		purchaseRepository PurchaseRepository
		walletRepository   wallet.WalletRepository
		userRepository     user.UserRepository
		discountService    discount.DiscountService
		midtransService    midtrans.MidtransService
		log                *logrus.Logger
		rewardEnabled      bool
		rewardMinAmount    int64
	}
)

func NewPurchaseService(
	db *gorm.DB,
	purchaseRepository PurchaseRepository,
	walletRepository wallet.WalletRepository,
	userRepository user.UserRepository,
	discountService discount.DiscountService,
	midtransService midtrans.MidtransService,
	log *logrus.Logger,
) PurchaseService {
	rewardEnabled := utils.GetConfig("REWARD_MINT_ENABLED") != "false"
	rewardMinAmount, err := strconv.ParseInt(utils.GetConfig("REWARD_MIN_AMOUNT"), 10, 64)
	if err != nil || rewardMinAmount < 0 {
		rewardMinAmount = 50000
	}

	return &purchaseService{
		db:                 db,
		purchaseRepository: purchaseRepository,
		walletRepository:   walletRepository,
		userRepository:     userRepository,
		discountService:    discountService,
		midtransService:    midtransService,
		log:                log,
		rewardEnabled:      rewardEnabled,
		rewardMinAmount:    rewardMinAmount,
	}
}

func (s *purchaseService) GetCoinPackages(ctx context.Context) ([]*domain.CoinPackageResponse, error) {
	packages, err := s.purchaseRepository.GetCoinPackages(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*domain.CoinPackageResponse, 0, len(packages))
	for _, pkg := range packages {
		result = append(result, &domain.CoinPackageResponse{
			ID:         pkg.ID.String(),
			Name:       pkg.Name,
			Coins:      pkg.Coins,
			BonusCoins: pkg.BonusCoins,
			Price:      pkg.Price,
		})
	}
	return result, nil
}

func (s *purchaseService) InitiateCheckout(ctx context.Context, req domain.CheckoutRequest, userID string) (*domain.CheckoutResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	packageID, err := uuid.Parse(req.PackageID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	pkg, err := s.purchaseRepository.GetCoinPackageByID(ctx, packageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPackageNotFound
		}
		return nil, err
	}

	// An invalid code aborts the checkout with its specific reason rather
	// than being silently dropped.
	var validation *domain.DiscountValidation
	var discountCodeID *uuid.UUID
	discountCoins := 0
	if req.DiscountCode != "" {
		validation, err = s.discountService.Validate(ctx, req.DiscountCode, userID, pkg)
		if err != nil {
			return nil, err
		}
		codeUUID, err := uuid.Parse(validation.CodeID)
		if err != nil {
			return nil, domain.ErrParseUUID
		}
		discountCodeID = &codeUUID
		discountCoins = validation.BonusCoins
	}

	totalCoins := pkg.Coins + pkg.BonusCoins + discountCoins
	orderID := fmt.Sprintf("COIN-%s", uuid.New().String())

	newPurchase := &entities.Purchase{
		ID:             uuid.New(),
		UserID:         userUUID,
		PackageID:      pkg.ID,
		OrderID:        orderID,
		Coins:          pkg.Coins,
		BonusCoins:     pkg.BonusCoins,
		DiscountCoins:  discountCoins,
		TotalCoins:     totalCoins,
		Amount:         pkg.Price,
		Status:         entities.PurchaseStatusPending,
		DiscountCodeID: discountCodeID,
		Timestamp: entities.Timestamp{
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
	}
	if err := s.purchaseRepository.CreatePurchase(ctx, newPurchase); err != nil {
		return nil, err
	}

	email := ""
	if u, err := s.userRepository.GetUserByID(ctx, userUUID); err == nil {
		email = u.Email
	}

	session, err := s.midtransService.CreateCheckoutSession(ctx, domain.CheckoutSessionRequest{
		OrderID: orderID,
		Amount:  pkg.Price,
		Email:   email,
	})
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"order_id": orderID,
			"user_id":  userID,
		}).WithError(err).Error("checkout session creation failed")
		if _, failErr := s.purchaseRepository.MarkFailed(ctx, nil, orderID, entities.PurchaseStatusFailed, "checkout session creation failed"); failErr != nil {
			s.log.WithField("order_id", orderID).WithError(failErr).Error("failed to mark purchase as failed")
		}
		return nil, domain.ErrCheckoutCreationFailed
	}

	return &domain.CheckoutResponse{
		OrderID:     orderID,
		CheckoutURL: session.CheckoutURL,
		TotalCoins:  totalCoins,
		Amount:      pkg.Price,
	}, nil
}

// CompletePurchase is the payment-confirmed path. Gateway notifications are
// at-least-once, so only the transaction that wins the PENDING -> COMPLETED
// transition credits the wallet; every other delivery is a no-op success.
func (s *purchaseService) CompletePurchase(ctx context.Context, orderID string) error {
	var completed *entities.Purchase
	var creditedCoins int
	var discountDropped bool

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		purchase, err := s.purchaseRepository.GetPurchaseByOrderID(ctx, tx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrPurchaseNotFound
			}
			return err
		}

		switch purchase.Status {
		case entities.PurchaseStatusPending:
			// fall through to claim the transition
		case entities.PurchaseStatusCompleted:
			s.log.WithField("order_id", orderID).Info("duplicate payment notification, purchase already completed")
			return nil
		default:
			return domain.ErrPurchaseNotPending
		}

		claimed, err := s.purchaseRepository.MarkCompleted(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if !claimed {
			// A concurrent delivery got there first.
			current, err := s.purchaseRepository.GetPurchaseByOrderID(ctx, tx, orderID)
			if err != nil {
				return err
			}
			if current.Status == entities.PurchaseStatusCompleted {
				return nil
			}
			return domain.ErrPurchaseNotPending
		}

		// Consuming the code in the same transaction means a crash can
		// neither credit coins without redeeming nor the reverse. The
		// redemption runs in a savepoint: if another purchase consumed the
		// code between checkout and payment confirmation, the attempt rolls
		// back cleanly and the paid purchase completes with its base coins
		// instead of retrying the webhook forever.
		creditedCoins = purchase.TotalCoins
		if purchase.DiscountCodeID != nil {
			redeemErr := tx.Transaction(func(tx *gorm.DB) error {
				return s.discountService.Redeem(ctx, tx, *purchase.DiscountCodeID, purchase.UserID, purchase.DiscountCoins)
			})
			switch {
			case redeemErr == nil:
			case errors.Is(redeemErr, domain.ErrAlreadyRedeemed), errors.Is(redeemErr, domain.ErrRedemptionLimitReached):
				creditedCoins -= purchase.DiscountCoins
				discountDropped = true
				if err := s.purchaseRepository.ClearDiscount(ctx, tx, orderID); err != nil {
					return err
				}
			default:
				return redeemErr
			}
		}

		if _, err := s.walletRepository.Credit(ctx, tx, purchase.UserID, int64(creditedCoins)); err != nil {
			return err
		}

		completed = purchase
		return nil
	})
	if err != nil {
		s.log.WithField("order_id", orderID).WithError(err).Error("failed to complete purchase")
		return err
	}

	if completed != nil {
		if discountDropped {
			s.log.WithFields(logrus.Fields{
				"order_id":       completed.OrderID,
				"user_id":        completed.UserID.String(),
				"discount_coins": completed.DiscountCoins,
			}).Warn("discount code consumed before payment confirmation, completed without bonus")
		}
		s.log.WithFields(logrus.Fields{
			"order_id":    completed.OrderID,
			"user_id":     completed.UserID.String(),
			"total_coins": creditedCoins,
		}).Info("purchase completed")
		s.mintReward(ctx, completed)
	}
	return nil
}

// mintReward runs after the completion transaction commits; its failure must
// never undo a paid purchase, so errors are only logged.
func (s *purchaseService) mintReward(ctx context.Context, purchase *entities.Purchase) {
	if !s.rewardEnabled || purchase.Amount < s.rewardMinAmount {
		return
	}

	code, err := s.discountService.MintRewardCode(ctx, purchase.UserID)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"order_id": purchase.OrderID,
			"user_id":  purchase.UserID.String(),
		}).WithError(err).Warn("reward code minting failed")
		return
	}

	u, err := s.userRepository.GetUserByID(ctx, purchase.UserID)
	if err != nil {
		return
	}
	body := fmt.Sprintf(
		"<p>Thanks for your purchase! Use code <b>%s</b> on your next coin package for %.0f%% bonus coins.</p>",
		code.Code, code.DiscountValue,
	)
	if err := mailing.SendMail(u.Email, "You earned a reward code", body); err != nil {
		s.log.WithField("user_id", u.ID.String()).WithError(err).Warn("reward code email failed")
	}
}

func (s *purchaseService) FailPurchase(ctx context.Context, orderID, reason string) error {
	moved, err := s.purchaseRepository.MarkFailed(ctx, nil, orderID, entities.PurchaseStatusFailed, reason)
	if err != nil {
		return err
	}
	if moved {
		s.log.WithFields(logrus.Fields{
			"order_id": orderID,
			"reason":   reason,
		}).Info("purchase failed")
		return nil
	}

	if _, err := s.purchaseRepository.GetPurchaseByOrderID(ctx, nil, orderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrPurchaseNotFound
		}
		return err
	}
	return domain.ErrPurchaseNotPending
}

func (s *purchaseService) GetPurchaseHistory(ctx context.Context, userID string, page, limit int) ([]*domain.PurchaseResponse, int64, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, 0, domain.ErrParseUUID
	}

	purchases, count, err := s.purchaseRepository.GetUserPurchases(ctx, userUUID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]*domain.PurchaseResponse, 0, len(purchases))
	for _, p := range purchases {
		result = append(result, &domain.PurchaseResponse{
			ID:            p.ID.String(),
			OrderID:       p.OrderID,
			PackageID:     p.PackageID.String(),
			Coins:         p.Coins,
			BonusCoins:    p.BonusCoins,
			DiscountCoins: p.DiscountCoins,
			TotalCoins:    p.TotalCoins,
			Amount:        p.Amount,
			Status:        p.Status,
			FailureReason: p.FailureReason,
			CreatedAt:     p.CreatedAt,
		})
	}
	return result, count, nil
}
