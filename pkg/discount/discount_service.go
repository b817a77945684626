package discount

import (
	"Streamora-Backend/domain"
	"Streamora-Backend/entities"
	"Streamora-Backend/internal/utils"
	"context"
	"crypto/rand"
	"errors"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// rewardCodeAlphabet avoids ambiguous characters (0/O, 1/I/L).
const rewardCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

type (
	DiscountService interface {
		Validate(ctx context.Context, code string, userID string, pkg *entities.CoinPackage) (*domain.DiscountValidation, error)
		Redeem(ctx context.Context, tx *gorm.DB, codeID, userID uuid.UUID, bonusCoins int) error
		MintRewardCode(ctx context.Context, userID uuid.UUID) (*entities.DiscountCode, error)
		CreatePromotionalCode(ctx context.Context, req domain.CreateDiscountRequest) (*domain.DiscountCodeResponse, error)
	}

	discountService struct {
		discountRepository DiscountRepository
		rewardPercent      float64
		rewardExpiryDays   int
	}
)

func NewDiscountService(discountRepository DiscountRepository) DiscountService {
	rewardPercent, err := strconv.ParseFloat(utils.GetConfig("REWARD_DISCOUNT_PERCENT"), 64)
	if err != nil || rewardPercent <= 0 {
		rewardPercent = 10
	}
	rewardExpiryDays, err := strconv.Atoi(utils.GetConfig("REWARD_CODE_EXPIRY_DAYS"))
	if err != nil || rewardExpiryDays <= 0 {
		rewardExpiryDays = 30
	}

	return &discountService{
		discountRepository: discountRepository,
		rewardPercent:      rewardPercent,
		rewardExpiryDays:   rewardExpiryDays,
	}
}

func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate runs the checks in a fixed order and returns the first failing
// reason so the caller can surface it verbatim.
func (s *discountService) Validate(ctx context.Context, code string, userID string, pkg *entities.CoinPackage) (*domain.DiscountValidation, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	discountCode, err := s.discountRepository.GetCodeByValue(ctx, nil, NormalizeCode(code))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCode
		}
		return nil, err
	}
	if !discountCode.IsActive {
		return nil, domain.ErrInvalidCode
	}
	if discountCode.ExpiresAt != nil && !discountCode.ExpiresAt.After(time.Now()) {
		return nil, domain.ErrExpiredCode
	}
	if discountCode.OwnerID != nil && *discountCode.OwnerID != userUUID {
		// Reward codes are not transferable; do not reveal they exist.
		return nil, domain.ErrInvalidCode
	}
	if discountCode.MaxRedemptions != nil && discountCode.CurrentRedemptions >= *discountCode.MaxRedemptions {
		return nil, domain.ErrRedemptionLimitReached
	}
	if discountCode.IsOneTimeUse {
		redeemed, err := s.discountRepository.HasRedemption(ctx, nil, discountCode.ID, userUUID)
		if err != nil {
			return nil, err
		}
		if redeemed {
			return nil, domain.ErrAlreadyRedeemed
		}
	}
	if discountCode.MinPurchaseAmount != nil && pkg.Price < *discountCode.MinPurchaseAmount {
		return nil, domain.ErrMinimumPurchaseNotMet
	}

	return &domain.DiscountValidation{
		CodeID:        discountCode.ID.String(),
		Code:          discountCode.Code,
		DiscountType:  discountCode.DiscountType,
		DiscountValue: discountCode.DiscountValue,
		BonusCoins:    bonusCoinsFor(discountCode, pkg),
		ExpiresAt:     discountCode.ExpiresAt,
	}, nil
}

// bonusCoinsFor is the single place the discount-to-coins conversion lives.
// PERCENTAGE takes a share of the package's base coins. FIXED holds a
// minor-currency value converted at the package's own coins-per-unit rate.
func bonusCoinsFor(code *entities.DiscountCode, pkg *entities.CoinPackage) int {
	switch code.DiscountType {
	case entities.DiscountTypePercentage:
		return int(math.Round(float64(pkg.Coins) * code.DiscountValue / 100))
	case entities.DiscountTypeFixed:
		if pkg.Price <= 0 {
			return 0
		}
		return int(math.Round(code.DiscountValue * float64(pkg.Coins) / float64(pkg.Price)))
	default:
		return 0
	}
}

// Redeem consumes a code inside the caller's transaction. The counter
// increment runs first so the code row is claimed before the one-time-use
// re-check, keeping concurrent redemptions of the same code serialized.
func (s *discountService) Redeem(ctx context.Context, tx *gorm.DB, codeID, userID uuid.UUID, bonusCoins int) error {
	if err := s.discountRepository.IncrementRedemptions(ctx, tx, codeID); err != nil {
		if errors.Is(err, errRedemptionLimit) {
			return domain.ErrRedemptionLimitReached
		}
		return err
	}

	discountCode, err := s.discountRepository.GetCodeByID(ctx, tx, codeID)
	if err != nil {
		return err
	}
	if discountCode.IsOneTimeUse {
		redeemed, err := s.discountRepository.HasRedemption(ctx, tx, codeID, userID)
		if err != nil {
			return err
		}
		if redeemed {
			return domain.ErrAlreadyRedeemed
		}
	}

	return s.discountRepository.CreateRedemption(ctx, tx, &entities.DiscountRedemption{
		ID:                uuid.New(),
		DiscountCodeID:    codeID,
		UserID:            userID,
		BonusCoinsAwarded: bonusCoins,
		Timestamp: entities.Timestamp{
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
	})
}

// MintRewardCode creates a one-time REWARD code owned by the buyer. Callers
// treat failures as non-fatal; a collision on the random suffix is retried
// once.
func (s *discountService) MintRewardCode(ctx context.Context, userID uuid.UUID) (*entities.DiscountCode, error) {
	expiresAt := time.Now().AddDate(0, 0, s.rewardExpiryDays)
	maxRedemptions := 1

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		code, err := generateRewardCode()
		if err != nil {
			return nil, err
		}

		discountCode := &entities.DiscountCode{
			ID:             uuid.New(),
			Code:           code,
			DiscountType:   entities.DiscountTypePercentage,
			DiscountValue:  s.rewardPercent,
			CodeType:       entities.CodeTypeReward,
			OwnerID:        &userID,
			MaxRedemptions: &maxRedemptions,
			IsOneTimeUse:   true,
			ExpiresAt:      &expiresAt,
			IsActive:       true,
			Timestamp: entities.Timestamp{
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			},
		}
		if err := s.discountRepository.CreateCode(ctx, nil, discountCode); err != nil {
			lastErr = err
			continue
		}
		return discountCode, nil
	}
	return nil, lastErr
}

func (s *discountService) CreatePromotionalCode(ctx context.Context, req domain.CreateDiscountRequest) (*domain.DiscountCodeResponse, error) {
	discountCode := &entities.DiscountCode{
		ID:                uuid.New(),
		Code:              NormalizeCode(req.Code),
		DiscountType:      req.DiscountType,
		DiscountValue:     req.DiscountValue,
		CodeType:          entities.CodeTypePromotional,
		MaxRedemptions:    req.MaxRedemptions,
		IsOneTimeUse:      req.IsOneTimeUse,
		MinPurchaseAmount: req.MinPurchaseAmount,
		ExpiresAt:         req.ExpiresAt,
		IsActive:          true,
		Timestamp: entities.Timestamp{
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
	}

	if err := s.discountRepository.CreateCode(ctx, nil, discountCode); err != nil {
		return nil, err
	}

	return &domain.DiscountCodeResponse{
		ID:            discountCode.ID.String(),
		Code:          discountCode.Code,
		DiscountType:  discountCode.DiscountType,
		DiscountValue: discountCode.DiscountValue,
		CodeType:      discountCode.CodeType,
		IsOneTimeUse:  discountCode.IsOneTimeUse,
		ExpiresAt:     discountCode.ExpiresAt,
	}, nil
}

func generateRewardCode() (string, error) {
	suffix := make([]byte, 8)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(rewardCodeAlphabet))))
		if err != nil {
			return "", err
		}
		suffix[i] = rewardCodeAlphabet[n.Int64()]
	}
	return "RW-" + string(suffix), nil
}
